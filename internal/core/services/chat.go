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

// Package services contains the business logic for interacting with data
// sources. This file defines the ChatService, the boundary to the text
// generation capability. The rest of the pipeline only sees the
// TextGenerator interface, keeping the model client swappable in tests.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/jaycherian/gcp-go-channel-chat/internal/cloud"
	"github.com/jaycherian/gcp-go-channel-chat/internal/core/model"
)

// TextGenerator produces a reply for a fully assembled prompt payload.
type TextGenerator interface {
	GenerateReply(ctx context.Context, payload *model.PromptPayload) (string, error)
}

// ChatService implements TextGenerator on top of the quota-aware Vertex
// AI models. The payload's AgentModel selects among the configured
// models; an unknown or empty key falls back to DefaultAgentModel.
type ChatService struct {
	AgentModels       map[string]*cloud.QuotaAwareGenerativeAIModel
	DefaultAgentModel string

	inputTokenCounter  metric.Int64Counter
	outputTokenCounter metric.Int64Counter
	retryCounter       metric.Int64Counter
}

// NewChatService builds a ChatService over the given agent models and
// wires up its token and retry counters.
func NewChatService(agentModels map[string]*cloud.QuotaAwareGenerativeAIModel, defaultAgentModel string) *ChatService {
	out := &ChatService{
		AgentModels:       agentModels,
		DefaultAgentModel: defaultAgentModel,
	}

	meter := otel.Meter("github.com/jaycherian/gcp-go-channel-chat")
	var err error
	out.inputTokenCounter, err = meter.Int64Counter("chat.gemini.token.input")
	if err != nil {
		slog.Warn("failed to create input token counter", "error", err)
	}
	out.outputTokenCounter, err = meter.Int64Counter("chat.gemini.token.output")
	if err != nil {
		slog.Warn("failed to create output token counter", "error", err)
	}
	out.retryCounter, err = meter.Int64Counter("chat.gemini.retry")
	if err != nil {
		slog.Warn("failed to create retry counter", "error", err)
	}

	return out
}

// GenerateReply sends the payload to the selected model and returns the
// generated text. Transient upstream failures are retried with the shared
// bounded-retry policy; a final failure is surfaced to the caller.
func (s *ChatService) GenerateReply(ctx context.Context, payload *model.PromptPayload) (string, error) {
	agentModel, ok := s.AgentModels[payload.AgentModel]
	if !ok {
		agentModel, ok = s.AgentModels[s.DefaultAgentModel]
		if !ok {
			return "", fmt.Errorf("no agent model configured for %q", payload.AgentModel)
		}
	}

	return cloud.GenerateTextResponse(
		ctx,
		s.inputTokenCounter,
		s.outputTokenCounter,
		s.retryCounter,
		0,
		agentModel,
		payload.SystemInstruction,
		cloud.NewTextContent(payload.Body),
	)
}
