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
// This file defines the command that merges the context document with the
// conversation history and resolves the persona answering the request.
//
// Logic Flow:
//  1. Read the compiled context document from the chain's input and the
//     original chat request from its seeded key.
//  2. Resolve the requested persona against the configuration; unknown or
//     empty names fall back to the default persona.
//  3. Assemble the prompt body: the context block (when requested and
//     non-empty) followed by the full serialized history.
//  4. Emit a PromptPayload carrying the persona's system instruction, its
//     agent model, and the body for the generation command.
package commands

import (
	"github.com/jaycherian/gcp-go-channel-chat/internal/cloud"
	"github.com/jaycherian/gcp-go-channel-chat/internal/core/cor"
	"github.com/jaycherian/gcp-go-channel-chat/internal/core/model"
	"github.com/jaycherian/gcp-go-channel-chat/internal/core/services"
)

// PromptAssembler is a command that builds the complete generation input
// for one chat turn.
type PromptAssembler struct {
	cor.BaseCommand
	config *cloud.Config // Application configuration, used for persona resolution.
}

// NewPromptAssembler is the constructor for the PromptAssembler command.
func NewPromptAssembler(name string, config *cloud.Config) *PromptAssembler {
	return &PromptAssembler{
		BaseCommand: *cor.NewBaseCommand(name),
		config:      config,
	}
}

// Execute assembles the prompt payload. Assembly is pure string work and
// cannot fail, so the command only records success.
func (t *PromptAssembler) Execute(context cor.Context) {
	contextDocument := context.Get(t.GetInputParam()).(string)
	request := context.Get(ParamChatRequest).(*model.ChatRequest)

	persona := t.config.ResolvePersona(request.SelectedPersona)
	body := services.AssemblePrompt(request.Messages, contextDocument, request.IncludeInitialContext)

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), &model.PromptPayload{
		SystemInstruction: persona.SystemInstructions,
		AgentModel:        persona.AgentModel,
		Body:              body,
	})
}
