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

// Package model defines the core data structures for the application.
// This file contains the transient request-scoped models used by the chat
// workflow. None of these objects are persisted: conversation history is
// supplied wholesale by the client on every request, and the channel
// context graph lives only for the duration of a single context-aggregation
// run.
package model

// Conversation roles accepted on the inbound chat contract.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// TranscriptPlaceholder is the fixed transcript value for every video.
// The YouTube Data API exposes no transcript endpoint, so the field is
// reserved in the data model for a future transcript collaborator.
const TranscriptPlaceholder = "Transcript not available via the API."

// Message is a single conversation turn. The ordered message list is
// append-only and client-held; the server never stores it.
type Message struct {
	Role    string `json:"role"`    // One of RoleUser or RoleAssistant.
	Content string `json:"content"` // The raw text of the turn.
}

// ChatRequest is the inbound JSON body for the chat endpoint.
type ChatRequest struct {
	Messages []*Message `json:"messages"` // Full turn-by-turn history, oldest first.
	// Page is accepted for wire compatibility with the frontend but is not
	// consulted by the aggregation pipeline.
	Page int `json:"page,omitempty"`
	// IncludeInitialContext gates the channel context fetch. The caller
	// decides what counts as the first turn of a conversation; the server
	// does not re-derive it from the history.
	IncludeInitialContext bool `json:"includeInitialContext,omitempty"`
	// SelectedPersona names the configured persona to answer as. Unknown or
	// empty values fall back to the default persona.
	SelectedPersona string `json:"selectedPersona,omitempty"`
}

// ChatResponse is the success payload for the chat endpoint.
type ChatResponse struct {
	Response string `json:"response"`
}

// ErrorResponse is the failure payload for the chat endpoint. The message
// is intentionally generic; stage-level diagnostics are logged server-side
// and never exposed to the caller.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CommentContext is a single ranked top-level comment on a video.
type CommentContext struct {
	Author string `json:"author"` // Display name of the comment author, "" when absent upstream.
	Text   string `json:"text"`   // Plain-text comment body, "" when absent upstream.
	Likes  int64  `json:"likes"`  // Like count, 0 when absent upstream.
}

// VideoContext is one video of the channel enriched with its ranked
// comments. Instances are immutable after the Video Selector constructs
// them and are discarded at the end of the request.
type VideoContext struct {
	VideoId     string            `json:"videoId"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Transcript  string            `json:"transcript"` // Always TranscriptPlaceholder for now.
	Likes       int64             `json:"likes"`
	TopComments []*CommentContext `json:"topComments"`
}

// PromptPayload is the fully assembled input for a single text-generation
// call: a persona system instruction, the agent model the persona answers
// with, and the prompt body (optional channel context block followed by
// the serialized history).
type PromptPayload struct {
	SystemInstruction string
	AgentModel        string
	Body              string
}
