/*
Package handler provides the HTTP handler function for WebSocket connection upgrading and initialization.

This file contains the HandleWebSocket function, which is responsible for rate limiting,
upgrading the HTTP connection to WebSocket, and initiating the client lifecycle. Every game
action, login included, arrives over the established socket.
*/
package handler

import (
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"burnduel/internal/app/game"
	"burnduel/internal/pkg/errs"
	"burnduel/internal/pkg/limiter"
	"burnduel/internal/pkg/logx"
	"burnduel/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection requests.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if ip == "" {
			ip = "unknown_ip"
		}

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			rateLimitErr := errs.NewError(errs.ErrRateLimitExceeded)
			resp.RespondError(w, r, rateLimitErr)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := game.NewClient(deps.Hub, conn)

		go client.WritePump()

		logx.Info("WebSocket connection established", "conn_id", client.ID())

		deps.Hub.Register(client)

		client.ReadPump()
	}
}
