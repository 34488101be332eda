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
// sources. This file holds the context compiler: a pure, deterministic
// serialization of the ranked video list into the natural-language
// document that grounds the generated replies.
package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jaycherian/gcp-go-channel-chat/internal/core/model"
)

// ContextDocumentHeader opens the compiled context document.
const ContextDocumentHeader = "Top videos by like count for the channel:"

// truncateField applies the per-field character budget. The budget counts
// runes, not bytes, so multi-byte comment text is never cut mid-character.
// A budget of zero or less passes the value through verbatim; a truncated
// value carries an ellipsis marker so the cut is visible in the document.
func truncateField(in string, maxChars int) string {
	if maxChars <= 0 || utf8.RuneCountInString(in) <= maxChars {
		return in
	}
	runes := []rune(in)
	return string(runes[:maxChars]) + "..."
}

// CompileContext serializes an already-ranked video list into a single
// context document. The function is pure and order-preserving: it never
// re-sorts its input, and compiling the same list twice yields identical
// output. maxFieldChars bounds each description and comment body; zero
// disables the bound.
func CompileContext(videos []*model.VideoContext, maxFieldChars int) string {
	var doc strings.Builder
	doc.WriteString(ContextDocumentHeader + "\n")

	for _, video := range videos {
		fmt.Fprintf(&doc, "Title: %s\n", video.Title)
		fmt.Fprintf(&doc, "Description: %s\n", truncateField(video.Description, maxFieldChars))
		fmt.Fprintf(&doc, "Transcript: %s\n", video.Transcript)
		fmt.Fprintf(&doc, "Likes: %d\n", video.Likes)
		doc.WriteString("Comments:\n")
		for _, comment := range video.TopComments {
			fmt.Fprintf(&doc, "  User: %s\n", comment.Author)
			fmt.Fprintf(&doc, "  Comment: %s\n", truncateField(comment.Text, maxFieldChars))
			fmt.Fprintf(&doc, "  Likes: %d\n\n", comment.Likes)
		}
		doc.WriteString("\n")
	}
	return doc.String()
}
