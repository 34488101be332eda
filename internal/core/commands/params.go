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
// This file defines the shared context parameter names so the workflow and
// the commands agree on where the request and the reply live.
package commands

// Context keys shared across the chat pipeline. The request is seeded by
// the workflow before the chain runs; the reply is written by the final
// command and read back by the workflow.
const (
	ParamChatRequest = "__chat_request__"
	ParamChatReply   = "__chat_reply__"
)
