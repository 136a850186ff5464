package handler

import (
	"burnduel/internal/app/game"
	"burnduel/internal/configs"
)

type AppDeps struct {
	Hub    *game.Hub
	Config *configs.AppConfig
}
