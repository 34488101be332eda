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

// Package workflow_test contains tests for the chat pipeline. The channel
// provider and the text generator are replaced with fakes so the full
// chain runs without the YouTube or Vertex AI backends.
package workflow_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jaycherian/gcp-go-channel-chat/internal/cloud"
	"github.com/jaycherian/gcp-go-channel-chat/internal/core/model"
	"github.com/jaycherian/gcp-go-channel-chat/internal/core/services"
	"github.com/jaycherian/gcp-go-channel-chat/internal/core/workflow"
	test "github.com/jaycherian/gcp-go-channel-chat/internal/testutil"
)

// fakeProvider records whether the pipeline asked for channel context and
// returns canned videos or a canned error.
type fakeProvider struct {
	calls  int
	videos []*model.VideoContext
	err    error
}

func (f *fakeProvider) GetTopVideos(_ context.Context) ([]*model.VideoContext, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.videos, nil
}

// fakeGenerator records the payload it was handed and returns a canned
// reply or a canned error.
type fakeGenerator struct {
	calls   int
	payload *model.PromptPayload
	reply   string
	err     error
}

func (f *fakeGenerator) GenerateReply(_ context.Context, payload *model.PromptPayload) (string, error) {
	f.calls++
	f.payload = payload
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

// newTestConfig builds an in-memory configuration so the pipeline tests
// do not depend on the TOML files on disk.
func newTestConfig() *cloud.Config {
	config := cloud.NewConfig()
	config.Context.MaxFieldChars = 0
	config.Personas[cloud.DefaultPersona] = cloud.Persona{
		Name:               "Channel Assistant",
		SystemInstructions: "You are a helpful channel assistant.",
		AgentModel:         "chat",
	}
	config.Personas["pirate"] = cloud.Persona{
		Name:               "Pirate",
		SystemInstructions: "Answer every question as a cheerful pirate.",
		AgentModel:         "chat",
	}
	return config
}

func firstTurnRequest() *model.ChatRequest {
	return &model.ChatRequest{
		Messages: []*model.Message{
			{Role: model.RoleUser, Content: "What is the most liked video?"},
		},
		IncludeInitialContext: true,
	}
}

// TestChatWorkflowFirstTurn runs the full chain for an opening turn and
// verifies the generator saw the context block, the history, and the
// default persona.
func TestChatWorkflowFirstTurn(t *testing.T) {
	provider := &fakeProvider{videos: test.GetTestVideoContexts()}
	generator := &fakeGenerator{reply: "The sourdough starter video."}

	wf := workflow.NewChatWorkflow(newTestConfig(), provider, generator)
	reply, err := wf.Run(context.Background(), firstTurnRequest())

	assert.NoError(t, err)
	assert.Equal(t, "The sourdough starter video.", reply)
	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, 1, generator.calls)

	assert.Contains(t, generator.payload.Body, services.ContextBlockLabel)
	assert.Contains(t, generator.payload.Body, "Title: Sourdough Starter From Scratch")
	assert.Contains(t, generator.payload.Body, services.HistoryBlockLabel)
	assert.Contains(t, generator.payload.Body, "User: What is the most liked video?")
	assert.Equal(t, "You are a helpful channel assistant.", generator.payload.SystemInstruction)
	assert.Equal(t, "chat", generator.payload.AgentModel)
}

// TestChatWorkflowFollowUpTurnSkipsContext verifies that when the caller
// does not ask for initial context, the provider is never called and the
// prompt carries only the history.
func TestChatWorkflowFollowUpTurnSkipsContext(t *testing.T) {
	provider := &fakeProvider{videos: test.GetTestVideoContexts()}
	generator := &fakeGenerator{reply: "About twelve minutes."}

	request := &model.ChatRequest{
		Messages: []*model.Message{
			{Role: model.RoleUser, Content: "What is the most liked video?"},
			{Role: model.RoleAssistant, Content: "The sourdough starter video."},
			{Role: model.RoleUser, Content: "How long does it take?"},
		},
		IncludeInitialContext: false,
	}

	wf := workflow.NewChatWorkflow(newTestConfig(), provider, generator)
	reply, err := wf.Run(context.Background(), request)

	assert.NoError(t, err)
	assert.Equal(t, "About twelve minutes.", reply)
	assert.Equal(t, 0, provider.calls)

	assert.NotContains(t, generator.payload.Body, services.ContextBlockLabel)
	assert.Contains(t, generator.payload.Body, "User: What is the most liked video?")
	assert.Contains(t, generator.payload.Body, "Assistant: The sourdough starter video.")
	assert.Contains(t, generator.payload.Body, "User: How long does it take?")
}

// TestChatWorkflowProviderFailureAbortsRun verifies that a channel fetch
// failure fails the whole request and the generator is never invoked.
func TestChatWorkflowProviderFailureAbortsRun(t *testing.T) {
	provider := &fakeProvider{err: errors.New("quota exceeded")}
	generator := &fakeGenerator{reply: "should never be returned"}

	wf := workflow.NewChatWorkflow(newTestConfig(), provider, generator)
	reply, err := wf.Run(context.Background(), firstTurnRequest())

	assert.Error(t, err)
	assert.Equal(t, "", reply)
	assert.Equal(t, 0, generator.calls)
	assert.Contains(t, err.Error(), "quota exceeded")
}

// TestChatWorkflowGeneratorFailureAbortsRun verifies that a generation
// failure after successful aggregation still fails the request.
func TestChatWorkflowGeneratorFailureAbortsRun(t *testing.T) {
	provider := &fakeProvider{videos: test.GetTestVideoContexts()}
	generator := &fakeGenerator{err: errors.New("model unavailable")}

	wf := workflow.NewChatWorkflow(newTestConfig(), provider, generator)
	_, err := wf.Run(context.Background(), firstTurnRequest())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "model unavailable")
}

// TestChatWorkflowSelectedPersona verifies that a known persona's system
// instruction reaches the generator.
func TestChatWorkflowSelectedPersona(t *testing.T) {
	provider := &fakeProvider{videos: test.GetTestVideoContexts()}
	generator := &fakeGenerator{reply: "Arr, the sourdough one."}

	request := firstTurnRequest()
	request.SelectedPersona = "pirate"

	wf := workflow.NewChatWorkflow(newTestConfig(), provider, generator)
	_, err := wf.Run(context.Background(), request)

	assert.NoError(t, err)
	assert.Equal(t, "Answer every question as a cheerful pirate.", generator.payload.SystemInstruction)
}

// TestChatWorkflowUnknownPersonaFallsBack verifies the default persona is
// used when the request names one that is not configured.
func TestChatWorkflowUnknownPersonaFallsBack(t *testing.T) {
	provider := &fakeProvider{videos: test.GetTestVideoContexts()}
	generator := &fakeGenerator{reply: "ok"}

	request := firstTurnRequest()
	request.SelectedPersona = "astronaut"

	wf := workflow.NewChatWorkflow(newTestConfig(), provider, generator)
	_, err := wf.Run(context.Background(), request)

	assert.NoError(t, err)
	assert.Equal(t, "You are a helpful channel assistant.", generator.payload.SystemInstruction)
}

// TestChatWorkflowEmptyChannelContext verifies that a channel with no
// rankable videos still answers: the context block is omitted rather than
// emitted empty.
func TestChatWorkflowEmptyChannelContext(t *testing.T) {
	provider := &fakeProvider{videos: []*model.VideoContext{}}
	generator := &fakeGenerator{reply: "I have no channel data yet."}

	wf := workflow.NewChatWorkflow(newTestConfig(), provider, generator)
	reply, err := wf.Run(context.Background(), firstTurnRequest())

	assert.NoError(t, err)
	assert.Equal(t, "I have no channel data yet.", reply)
	assert.Equal(t, 1, provider.calls)
	assert.NotContains(t, generator.payload.Body, services.ContextBlockLabel)
	assert.True(t, strings.Contains(generator.payload.Body, services.HistoryBlockLabel))
}

// TestChatWorkflowDegradedComments verifies that videos whose comment
// fetches failed upstream (empty comment lists) still flow through the
// pipeline and into the prompt.
func TestChatWorkflowDegradedComments(t *testing.T) {
	videos := test.GetTestVideoContexts()
	for _, v := range videos {
		v.TopComments = []*model.CommentContext{}
	}
	provider := &fakeProvider{videos: videos}
	generator := &fakeGenerator{reply: "ok"}

	wf := workflow.NewChatWorkflow(newTestConfig(), provider, generator)
	_, err := wf.Run(context.Background(), firstTurnRequest())

	assert.NoError(t, err)
	assert.Contains(t, generator.payload.Body, "Title: Sourdough Starter From Scratch")
	assert.NotContains(t, generator.payload.Body, "  User:")
}
