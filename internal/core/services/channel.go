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
// sources. This file defines the ChannelService, which discovers a
// channel's most-liked recent videos through the YouTube Data API and
// enriches each with its most-liked comments.
//
// Logic Flow (one context-aggregation run):
//  1. Resolve the configured channel to its uploads playlist. A channel
//     without one is a configuration error and fails the run.
//  2. List the most recent uploads (up to MaxPlaylistResults).
//  3. Batch-fetch snippet and statistics for those video IDs.
//  4. Fan the per-video comment fetches out over a worker pool; a failed
//     comment fetch degrades that one video to an empty comment list.
//  5. Rank videos by like count and keep the top MaxTopVideos.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"google.golang.org/api/youtube/v3"

	"github.com/jaycherian/gcp-go-channel-chat/internal/cloud"
	"github.com/jaycherian/gcp-go-channel-chat/internal/core/model"
)

// ChannelContextProvider is the interface the chat pipeline consumes to
// obtain the ranked video context for the configured channel.
type ChannelContextProvider interface {
	GetTopVideos(ctx context.Context) ([]*model.VideoContext, error)
}

// ChannelService implements ChannelContextProvider on top of the YouTube
// Data API v3. All methods are safe for concurrent use; the service holds
// no per-request state.
type ChannelService struct {
	YouTube            *youtube.Service // Read-only YouTube Data API client.
	ChannelID          string           // The channel whose uploads are ranked.
	MaxPlaylistResults int64            // Recent uploads fetched per run (API max 50).
	MaxCommentResults  int64            // Comment threads fetched per video (API max 50).
	MaxTopVideos       int              // Videos kept after ranking.
	MaxTopComments     int              // Comments kept per video after ranking.
	NumberOfWorkers    int              // Size of the comment fan-out worker pool.

	commentFailureCounter metric.Int64Counter // Counts absorbed comment-fetch failures.
}

// NewChannelService builds a ChannelService from the application
// configuration.
func NewChannelService(yt *youtube.Service, config *cloud.Config) *ChannelService {
	meter := otel.Meter("github.com/jaycherian/gcp-go-channel-chat")
	commentFailureCounter, err := meter.Int64Counter("channel.comments.fetch_failures")
	if err != nil {
		slog.Warn("failed to create comment failure counter", "error", err)
	}

	return &ChannelService{
		YouTube:               yt,
		ChannelID:             config.YouTube.ChannelID,
		MaxPlaylistResults:    config.YouTube.MaxPlaylistResults,
		MaxCommentResults:     config.YouTube.MaxCommentResults,
		MaxTopVideos:          config.YouTube.MaxTopVideos,
		MaxTopComments:        config.YouTube.MaxTopComments,
		NumberOfWorkers:       config.Application.ThreadPoolSize,
		commentFailureCounter: commentFailureCounter,
	}
}

// GetUploadsPlaylistID resolves the configured channel to its uploads
// playlist. Both an unknown channel and a channel without an uploads
// playlist are configuration errors: the caller gets a descriptive error
// and no partial context is produced.
func (s *ChannelService) GetUploadsPlaylistID(ctx context.Context) (string, error) {
	resp, err := s.YouTube.Channels.
		List([]string{"snippet", "contentDetails", "statistics"}).
		Id(s.ChannelID).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to fetch channel %q: %w", s.ChannelID, err)
	}
	if len(resp.Items) == 0 {
		return "", fmt.Errorf("channel %q not found", s.ChannelID)
	}

	channel := resp.Items[0]
	if channel.ContentDetails == nil ||
		channel.ContentDetails.RelatedPlaylists == nil ||
		channel.ContentDetails.RelatedPlaylists.Uploads == "" {
		return "", fmt.Errorf("channel %q has no uploads playlist", s.ChannelID)
	}
	return channel.ContentDetails.RelatedPlaylists.Uploads, nil
}

// listRecentVideoIDs returns the video IDs of the most recent items on
// the uploads playlist, newest first.
func (s *ChannelService) listRecentVideoIDs(ctx context.Context, playlistID string) ([]string, error) {
	resp, err := s.YouTube.PlaylistItems.
		List([]string{"contentDetails"}).
		PlaylistId(playlistID).
		MaxResults(s.MaxPlaylistResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list playlist %q: %w", playlistID, err)
	}

	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.ContentDetails != nil && item.ContentDetails.VideoId != "" {
			ids = append(ids, item.ContentDetails.VideoId)
		}
	}
	return ids, nil
}

// fetchVideoContexts batch-fetches snippet and statistics for the given
// video IDs and maps each result to a VideoContext. Comments are not
// populated here; GetTopVideos fans those fetches out afterwards.
func (s *ChannelService) fetchVideoContexts(ctx context.Context, videoIDs []string) ([]*model.VideoContext, error) {
	if len(videoIDs) == 0 {
		return []*model.VideoContext{}, nil
	}

	resp, err := s.YouTube.Videos.
		List([]string{"snippet", "statistics"}).
		Id(videoIDs...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch video metadata: %w", err)
	}

	videos := make([]*model.VideoContext, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == "" {
			continue
		}
		videos = append(videos, NewVideoContext(item))
	}
	return videos, nil
}

// NewVideoContext maps an upstream video resource to a VideoContext.
// Missing snippet fields default to empty strings and a missing like
// count defaults to zero; a sparse record never fails the run.
func NewVideoContext(item *youtube.Video) *model.VideoContext {
	out := &model.VideoContext{
		VideoId:     item.Id,
		Transcript:  model.TranscriptPlaceholder,
		TopComments: make([]*model.CommentContext, 0),
	}
	if item.Snippet != nil {
		out.Title = item.Snippet.Title
		out.Description = item.Snippet.Description
	}
	if item.Statistics != nil {
		out.Likes = int64(item.Statistics.LikeCount)
	}
	return out
}

// NewCommentContext maps an upstream comment thread to a CommentContext.
// Missing fields default to empty strings and zero likes.
func NewCommentContext(thread *youtube.CommentThread) *model.CommentContext {
	out := &model.CommentContext{}
	if thread.Snippet == nil || thread.Snippet.TopLevelComment == nil {
		return out
	}
	if snippet := thread.Snippet.TopLevelComment.Snippet; snippet != nil {
		out.Author = snippet.AuthorDisplayName
		out.Text = snippet.TextDisplay
		out.Likes = snippet.LikeCount
	}
	return out
}

// GetTopComments fetches up to MaxCommentResults plain-text top-level
// comment threads for the video and returns the MaxTopComments most-liked
// ones. It never returns an error: comments are an enrichment, and their
// absence must not abort video or channel processing. Absorbed failures
// are logged and counted so they stay visible to operators.
func (s *ChannelService) GetTopComments(ctx context.Context, videoID string) []*model.CommentContext {
	if videoID == "" {
		return []*model.CommentContext{}
	}

	resp, err := s.YouTube.CommentThreads.
		List([]string{"snippet"}).
		VideoId(videoID).
		MaxResults(s.MaxCommentResults).
		TextFormat("plainText").
		Context(ctx).
		Do()
	if err != nil {
		slog.WarnContext(ctx, "failed to fetch comments; continuing with empty list",
			"video_id", videoID, "error", err)
		if s.commentFailureCounter != nil {
			s.commentFailureCounter.Add(ctx, 1)
		}
		return []*model.CommentContext{}
	}

	comments := make([]*model.CommentContext, 0, len(resp.Items))
	for _, thread := range resp.Items {
		comments = append(comments, NewCommentContext(thread))
	}
	return RankComments(comments, s.MaxTopComments)
}

// commentJob and commentResult carry the per-video comment fan-out work
// between GetTopVideos and its workers. The index ties a result back to
// its video, since results arrive in completion order.
type commentJob struct {
	index   int
	videoID string
}

type commentResult struct {
	index    int
	comments []*model.CommentContext
}

// commentWorker drains the jobs channel, fetching the ranked comments for
// each video, until the channel is closed.
func (s *ChannelService) commentWorker(ctx context.Context, jobs <-chan *commentJob, results chan<- *commentResult, wg *sync.WaitGroup) {
	defer wg.Done()
	for j := range jobs {
		results <- &commentResult{
			index:    j.index,
			comments: s.GetTopComments(ctx, j.videoID),
		}
	}
}

// GetTopVideos runs one full context-aggregation pass: playlist
// resolution, recent-upload listing, metadata batch fetch, concurrent
// comment enrichment, and final ranking. The returned slice holds at most
// MaxTopVideos entries, ordered by like count descending.
func (s *ChannelService) GetTopVideos(ctx context.Context) ([]*model.VideoContext, error) {
	playlistID, err := s.GetUploadsPlaylistID(ctx)
	if err != nil {
		return nil, err
	}

	videoIDs, err := s.listRecentVideoIDs(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	videos, err := s.fetchVideoContexts(ctx, videoIDs)
	if err != nil {
		return nil, err
	}

	// Comment fetches are independent of one another, so they fan out over
	// a fixed-size worker pool and join before ranking.
	workers := s.NumberOfWorkers
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	jobs := make(chan *commentJob, len(videos))
	results := make(chan *commentResult, len(videos))

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go s.commentWorker(ctx, jobs, results, &wg)
	}

	for i, video := range videos {
		jobs <- &commentJob{index: i, videoID: video.VideoId}
	}
	close(jobs)

	wg.Wait()
	close(results)

	for r := range results {
		videos[r.index].TopComments = r.comments
	}

	return RankVideos(videos, s.MaxTopVideos), nil
}
