// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package api contains the HTTP route definitions for the server. This
// file defines the chat endpoint: the single POST route that accepts a
// conversation history and returns a grounded reply.
//
// Request handling:
//  1. Bind and validate the JSON body. Malformed bodies, empty message
//     lists, and unknown roles are rejected with 400 before any upstream
//     call is made.
//  2. Run the chat workflow under a per-request timeout.
//  3. On failure, log the stage-level diagnostics and return a generic
//     error body; upstream details never reach the caller.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jaycherian/gcp-go-channel-chat/internal/core/model"
	"github.com/jaycherian/gcp-go-channel-chat/internal/core/workflow"
)

// RequestIDHeader carries the per-request correlation ID. Inbound values
// are honored so callers can trace a request end to end; absent ones are
// minted server-side.
const RequestIDHeader = "X-Request-ID"

// GenericErrorMessage is the only error text the chat endpoint returns.
const GenericErrorMessage = "failed to generate a response"

// RequestIDMiddleware ensures every request carries a correlation ID and
// echoes it on the response.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)
		c.Set(RequestIDHeader, requestID)
		c.Next()
	}
}

// validateChatRequest checks the inbound contract: at least one message,
// and every message carrying a known role. The returned string is a
// caller-facing reason, empty when the request is valid.
func validateChatRequest(request *model.ChatRequest) string {
	if len(request.Messages) == 0 {
		return "messages must not be empty"
	}
	for _, msg := range request.Messages {
		if msg == nil {
			return "messages must not contain null entries"
		}
		if msg.Role != model.RoleUser && msg.Role != model.RoleAssistant {
			return "message role must be \"user\" or \"assistant\""
		}
	}
	return ""
}

// ChatRouter sets up the chat routes on the given group.
func ChatRouter(r *gin.RouterGroup, chatWorkflow *workflow.ChatWorkflow, timeout time.Duration) {
	chat := r.Group("/chat")
	{
		chat.POST("", func(c *gin.Context) {
			var request model.ChatRequest
			if err := c.ShouldBindJSON(&request); err != nil {
				c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request body"})
				return
			}
			if reason := validateChatRequest(&request); reason != "" {
				c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: reason})
				return
			}

			ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
			defer cancel()

			reply, err := chatWorkflow.Run(ctx, &request)
			if err != nil {
				slog.ErrorContext(ctx, "chat pipeline failed",
					"request_id", c.GetString(RequestIDHeader),
					"persona", request.SelectedPersona,
					"include_initial_context", request.IncludeInitialContext,
					"error", err)
				c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: GenericErrorMessage})
				return
			}

			c.JSON(http.StatusOK, model.ChatResponse{Response: reply})
		})
	}
}

// HealthRouter sets up the liveness probe.
func HealthRouter(r *gin.RouterGroup) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
