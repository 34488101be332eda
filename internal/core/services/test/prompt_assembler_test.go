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

// Package services_test contains the test suite for the services package.
// This file tests the assembly of the prompt body from the context
// document and the conversation history.
package services_test

import (
	"strings"
	"testing"

	"github.com/zeebo/assert"

	"github.com/jaycherian/gcp-go-channel-chat/internal/core/model"
	"github.com/jaycherian/gcp-go-channel-chat/internal/core/services"
)

func sampleHistory() []*model.Message {
	return []*model.Message{
		{Role: model.RoleUser, Content: "What is the best video on bagels?"},
		{Role: model.RoleAssistant, Content: "The bagel troubleshooting video is the most liked."},
		{Role: model.RoleUser, Content: "How long should I boil them?"},
	}
}

// TestAssemblePromptWithContext verifies that a first-turn prompt carries
// the context block before the history block.
func TestAssemblePromptWithContext(t *testing.T) {
	doc := "Top videos by like count for the channel:\nTitle: Bagels\n"

	prompt := services.AssemblePrompt(sampleHistory(), doc, true)

	contextAt := strings.Index(prompt, services.ContextBlockLabel)
	historyAt := strings.Index(prompt, services.HistoryBlockLabel)
	assert.True(t, contextAt >= 0)
	assert.True(t, historyAt >= 0)
	assert.True(t, contextAt < historyAt)
	assert.True(t, strings.Contains(prompt, "Title: Bagels"))
}

// TestAssemblePromptWithoutContextFlag verifies that a follow-up turn
// carries no context block even when a document is supplied.
func TestAssemblePromptWithoutContextFlag(t *testing.T) {
	doc := "Top videos by like count for the channel:\n"

	prompt := services.AssemblePrompt(sampleHistory(), doc, false)

	assert.False(t, strings.Contains(prompt, services.ContextBlockLabel))
	assert.True(t, strings.Contains(prompt, services.HistoryBlockLabel))
}

// TestAssemblePromptWithEmptyDocument verifies that an empty document is
// omitted even when the caller asked for context.
func TestAssemblePromptWithEmptyDocument(t *testing.T) {
	prompt := services.AssemblePrompt(sampleHistory(), "", true)

	assert.False(t, strings.Contains(prompt, services.ContextBlockLabel))
	assert.True(t, strings.Contains(prompt, services.HistoryBlockLabel))
}

// TestAssemblePromptSerializesEveryTurn verifies that the full history is
// present, oldest first, one labeled line per turn.
func TestAssemblePromptSerializesEveryTurn(t *testing.T) {
	prompt := services.AssemblePrompt(sampleHistory(), "", false)

	assert.True(t, strings.Contains(prompt, "User: What is the best video on bagels?"))
	assert.True(t, strings.Contains(prompt, "Assistant: The bagel troubleshooting video is the most liked."))
	assert.True(t, strings.Contains(prompt, "User: How long should I boil them?"))

	first := strings.Index(prompt, "What is the best video")
	last := strings.Index(prompt, "How long should I boil")
	assert.True(t, first < last)

	userLines := strings.Count(prompt, "User: ")
	assistantLines := strings.Count(prompt, "Assistant: ")
	assert.Equal(t, 2, userLines)
	assert.Equal(t, 1, assistantLines)
}

// TestAssemblePromptSingleTurn verifies the minimal valid conversation.
func TestAssemblePromptSingleTurn(t *testing.T) {
	history := []*model.Message{{Role: model.RoleUser, Content: "Hello"}}

	prompt := services.AssemblePrompt(history, "", false)

	assert.True(t, strings.Contains(prompt, "User: Hello"))
}
