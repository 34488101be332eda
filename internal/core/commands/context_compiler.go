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
// This file defines the command that serializes the ranked video list into
// the natural-language context document.
package commands

import (
	"github.com/jaycherian/gcp-go-channel-chat/internal/core/cor"
	"github.com/jaycherian/gcp-go-channel-chat/internal/core/model"
	"github.com/jaycherian/gcp-go-channel-chat/internal/core/services"
)

// ContextCompiler is a command that turns the retriever's ranked video
// list into a single context document string. An empty video list compiles
// to an empty document, which the prompt assembler then omits.
type ContextCompiler struct {
	cor.BaseCommand
	maxFieldChars int // Per-field character bound; zero keeps fields verbatim.
}

// NewContextCompiler is the constructor for the ContextCompiler command.
func NewContextCompiler(name string, maxFieldChars int) *ContextCompiler {
	return &ContextCompiler{
		BaseCommand:   *cor.NewBaseCommand(name),
		maxFieldChars: maxFieldChars,
	}
}

// Execute compiles the video list from the chain's input into the context
// document. Compilation is pure and cannot fail, so the command only
// records success.
func (t *ContextCompiler) Execute(context cor.Context) {
	videos := context.Get(t.GetInputParam()).([]*model.VideoContext)

	doc := ""
	if len(videos) > 0 {
		doc = services.CompileContext(videos, t.maxFieldChars)
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), doc)
}
