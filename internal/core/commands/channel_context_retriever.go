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
// This file defines the first command of the chain, which fetches the
// ranked channel context when the request asks for it.
//
// Logic Flow:
//  1. Read the chat request seeded into the context by the workflow.
//  2. If the caller did not request initial context, emit an empty video
//     list so the downstream compiler produces an empty document.
//  3. Otherwise run one full context-aggregation pass through the channel
//     provider: recent uploads, metadata, ranked comments, ranked videos.
//  4. A provider failure fails the whole request; the pipeline never
//     answers from partial channel context.
package commands

import (
	"fmt"

	"github.com/jaycherian/gcp-go-channel-chat/internal/core/cor"
	"github.com/jaycherian/gcp-go-channel-chat/internal/core/model"
	"github.com/jaycherian/gcp-go-channel-chat/internal/core/services"
)

// ChannelContextRetriever is a command that resolves the chat request to
// the ranked list of channel videos used to ground the reply.
type ChannelContextRetriever struct {
	cor.BaseCommand
	provider services.ChannelContextProvider // Source of the ranked channel context.
}

// NewChannelContextRetriever is the constructor for the
// ChannelContextRetriever command. The command reads the chat request
// directly rather than the chain's default input key, since it is the
// first stage and the request is seeded under its own name.
func NewChannelContextRetriever(name string, provider services.ChannelContextProvider) *ChannelContextRetriever {
	out := &ChannelContextRetriever{
		BaseCommand: *cor.NewBaseCommand(name),
		provider:    provider,
	}
	out.BaseCommand.InputParamName = ParamChatRequest
	return out
}

// Execute fetches the channel context for the request. The output is
// always a video slice, possibly empty, so the chain's piping and the
// downstream preconditions hold on every path.
func (t *ChannelContextRetriever) Execute(context cor.Context) {
	request := context.Get(t.GetInputParam()).(*model.ChatRequest)

	if !request.IncludeInitialContext {
		t.GetSuccessCounter().Add(context.GetContext(), 1)
		context.Add(t.GetOutputParam(), []*model.VideoContext{})
		return
	}

	videos, err := t.provider.GetTopVideos(context.GetContext())
	if err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("failed to aggregate channel context: %w", err))
		return
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), videos)
}
