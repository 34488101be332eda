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

// Package workflow defines the high-level business logic orchestrations,
// combining various commands into coherent pipelines. This file implements
// the chat workflow: one request in, one grounded reply out.
package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/jaycherian/gcp-go-channel-chat/internal/cloud"
	"github.com/jaycherian/gcp-go-channel-chat/internal/core/commands"
	"github.com/jaycherian/gcp-go-channel-chat/internal/core/cor"
	"github.com/jaycherian/gcp-go-channel-chat/internal/core/model"
	"github.com/jaycherian/gcp-go-channel-chat/internal/core/services"
)

// ChatWorkflow orchestrates one chat turn as a Chain of Responsibility
// (cor.Chain): channel context retrieval, context compilation, prompt
// assembly, and reply generation. The workflow holds no per-request
// state; a fresh cor.Context is created for every run.
type ChatWorkflow struct {
	cor.BaseCommand
	config    *cloud.Config
	provider  services.ChannelContextProvider
	generator services.TextGenerator
	chain     cor.Chain // The underlying chain of commands to be executed.
}

// Execute runs the chat workflow by invoking the underlying chain.
func (w *ChatWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

// initializeChain builds the four-stage pipeline. The chain pipes each
// command's output to the next command's input; any failed stage aborts
// the run.
func (w *ChatWorkflow) initializeChain() {
	out := cor.NewBaseChain(w.GetName())

	// Step 1: Fetch the ranked channel context when the request asks for
	// it, or pass an empty list through when it does not.
	out.AddCommand(commands.NewChannelContextRetriever("retrieve-channel-context", w.provider))

	// Step 2: Serialize the ranked videos into the context document.
	out.AddCommand(commands.NewContextCompiler("compile-channel-context", w.config.Context.MaxFieldChars))

	// Step 3: Merge the document with the conversation history and resolve
	// the persona into a prompt payload.
	out.AddCommand(commands.NewPromptAssembler("assemble-chat-prompt", w.config))

	// Step 4: Generate the reply.
	out.AddCommand(commands.NewChatReplyGenerator("generate-chat-reply", w.generator))

	w.chain = out
}

// Run executes the workflow for one chat request and returns the reply
// text. Stage errors are joined so operators see every failing command;
// the API layer maps any error here to a generic response.
func (w *ChatWorkflow) Run(ctx context.Context, request *model.ChatRequest) (string, error) {
	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(ctx)
	chainCtx.Add(commands.ParamChatRequest, request)

	w.Execute(chainCtx)

	if chainCtx.HasErrors() {
		errs := make([]error, 0, len(chainCtx.GetErrors()))
		for name, err := range chainCtx.GetErrors() {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
		return "", errors.Join(errs...)
	}

	reply, ok := chainCtx.Get(commands.ParamChatReply).(string)
	if !ok {
		return "", errors.New("chat pipeline produced no reply")
	}
	return reply, nil
}

// NewChatWorkflow is the constructor for the ChatWorkflow. The provider
// and generator are interfaces so tests can substitute fakes for the
// YouTube and Vertex AI backends.
func NewChatWorkflow(
	config *cloud.Config,
	provider services.ChannelContextProvider,
	generator services.TextGenerator) *ChatWorkflow {

	out := &ChatWorkflow{
		BaseCommand: *cor.NewBaseCommand("chat-pipeline"),
		config:      config,
		provider:    provider,
		generator:   generator,
	}
	out.initializeChain()
	return out
}
