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

// Package commands provides the concrete implementations of the Chain of
// Responsibility (COR) pattern's Command interface for the chat pipeline.
// This file defines the final command of the chain, which sends the
// assembled prompt to the text generator and captures the reply.
package commands

import (
	"fmt"

	"github.com/jaycherian/gcp-go-channel-chat/internal/core/cor"
	"github.com/jaycherian/gcp-go-channel-chat/internal/core/model"
	"github.com/jaycherian/gcp-go-channel-chat/internal/core/services"
)

// ChatReplyGenerator is a command that invokes the text generator with the
// assembled prompt payload and publishes the reply text.
type ChatReplyGenerator struct {
	cor.BaseCommand
	generator services.TextGenerator // The rate-limited generation backend.
}

// NewChatReplyGenerator is the constructor for the ChatReplyGenerator
// command. The reply lands both on the chain's default output key and on
// ParamChatReply so the workflow can read it back after the run.
func NewChatReplyGenerator(name string, generator services.TextGenerator) *ChatReplyGenerator {
	return &ChatReplyGenerator{
		BaseCommand: *cor.NewBaseCommand(name),
		generator:   generator,
	}
}

// Execute sends the payload to the generator. Retries and token telemetry
// live inside the generator; any error surfacing here has already
// exhausted them and fails the request.
func (t *ChatReplyGenerator) Execute(context cor.Context) {
	payload := context.Get(t.GetInputParam()).(*model.PromptPayload)

	reply, err := t.generator.GenerateReply(context.GetContext(), payload)
	if err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("text generation failed: %w", err))
		return
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(ParamChatReply, reply)
	context.Add(t.GetOutputParam(), reply)
}
