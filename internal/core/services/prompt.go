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
// sources. This file holds the prompt assembler: a pure function merging
// the optional context document with the full conversation history into
// the single prompt body sent to the model.
package services

import (
	"fmt"
	"strings"

	"github.com/jaycherian/gcp-go-channel-chat/internal/core/model"
)

// Labels for the two prompt blocks. The history block is always present;
// the context block only when the caller requested initial context and
// the compiled document is non-empty.
const (
	ContextBlockLabel = "YouTube channel context:"
	HistoryBlockLabel = "Conversation history:"
)

// serializeHistory renders every turn as one "User: ..." or
// "Assistant: ..." line, oldest first, newline-joined.
func serializeHistory(messages []*model.Message) string {
	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		sender := "Assistant"
		if msg.Role == model.RoleUser {
			sender = "User"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", sender, msg.Content))
	}
	return strings.Join(lines, "\n")
}

// AssemblePrompt builds the prompt body for one generation call. The full
// history is re-serialized on every call, by design: the generation
// backend is stateless between calls, so each prompt must carry the whole
// conversation. The caller-supplied includeContext flag gates the context
// block; the assembler never re-derives "first turn" from the history.
func AssemblePrompt(messages []*model.Message, contextDocument string, includeContext bool) string {
	parts := make([]string, 0, 2)
	if includeContext && contextDocument != "" {
		parts = append(parts, fmt.Sprintf("%s\n%s\n", ContextBlockLabel, contextDocument))
	}
	parts = append(parts, fmt.Sprintf("%s\n%s\n", HistoryBlockLabel, serializeHistory(messages)))
	return strings.Join(parts, "\n")
}
