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
// sources. This file holds the pure ranking helpers shared by the Comment
// Ranker and the Video Selector. Ranking is by like count, descending,
// with a stable sort so equal scores keep their upstream fetch order.
package services

import (
	"sort"

	"github.com/jaycherian/gcp-go-channel-chat/internal/core/model"
)

// RankComments returns a new slice with the comments ordered by like
// count descending and truncated to at most limit entries. The input
// slice is not modified.
func RankComments(in []*model.CommentContext, limit int) []*model.CommentContext {
	out := make([]*model.CommentContext, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Likes > out[j].Likes
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// RankVideos returns a new slice with the videos ordered by like count
// descending and truncated to at most limit entries. The input slice is
// not modified.
func RankVideos(in []*model.VideoContext, limit int) []*model.VideoContext {
	out := make([]*model.VideoContext, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Likes > out[j].Likes
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
