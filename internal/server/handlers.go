// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/mediagrab/internal/gateway"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleExtract relays the raw body to the gateway and writes its outcome.
// The body is passed unparsed so the gateway owns validation.
func (s *Server) handleExtract(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, gateway.MaxRequestBytes+1))
	var out gateway.Outcome
	if err != nil {
		out = gateway.InternalError()
	} else {
		out = s.ex.Extract(c.Request.Context(), body)
	}

	if !out.IsSuccess() {
		s.log.Warn("extraction failed",
			"request_id", c.GetString(requestIDKey),
			"kind", string(out.Kind),
			"status", out.HTTPStatus(),
			"message", out.UserMessage(),
		)
	}
	c.Data(out.HTTPStatus(), "application/json", out.ResponseBody())
}
