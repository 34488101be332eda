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
// This file tests the ChannelService against a fake YouTube Data API
// served over httptest, covering the error paths the live API makes hard
// to reproduce: channels without an uploads playlist, unknown channels,
// and comment-thread outages.
package services_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zeebo/assert"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/jaycherian/gcp-go-channel-chat/internal/core/services"
	test "github.com/jaycherian/gcp-go-channel-chat/internal/testutil"
)

// newFakeYouTube stands up an httptest server for the given handler and
// returns a YouTube client pointed at it. The server is torn down with
// the test.
func newFakeYouTube(t *testing.T, handler http.Handler) *youtube.Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	yt, err := youtube.NewService(context.Background(),
		option.WithAPIKey("test-api-key"),
		option.WithEndpoint(server.URL+"/"))
	test.HandleErr(err, t)
	return yt
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, body)
}

func writeAPIError(w http.ResponseWriter, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	fmt.Fprintf(w, `{"error": {"code": %d, "message": "backend error"}}`, code)
}

// channelBody renders a channels.list response with the given uploads
// playlist value; an empty value models a channel with no uploads.
func channelBody(uploads string) string {
	return fmt.Sprintf(
		`{"items": [{"id": "chan-1", "contentDetails": {"relatedPlaylists": {"uploads": %q}}}]}`,
		uploads)
}

// TestGetUploadsPlaylistIDMissingUploads verifies the descriptive error
// for a channel whose metadata carries no uploads playlist.
func TestGetUploadsPlaylistIDMissingUploads(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/youtube/v3/channels", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, channelBody(""))
	})

	svc := &services.ChannelService{
		YouTube:   newFakeYouTube(t, mux),
		ChannelID: "chan-1",
	}

	_, err := svc.GetUploadsPlaylistID(context.Background())
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), `channel "chan-1" has no uploads playlist`))
}

// TestGetUploadsPlaylistIDUnknownChannel verifies the descriptive error
// when the API resolves the configured ID to nothing.
func TestGetUploadsPlaylistIDUnknownChannel(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/youtube/v3/channels", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, `{"items": []}`)
	})

	svc := &services.ChannelService{
		YouTube:   newFakeYouTube(t, mux),
		ChannelID: "chan-gone",
	}

	_, err := svc.GetUploadsPlaylistID(context.Background())
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), `channel "chan-gone" not found`))
}

// TestGetTopCommentsAbsorbsUpstreamFailure verifies that a failing
// commentThreads call degrades to an empty list instead of an error.
func TestGetTopCommentsAbsorbsUpstreamFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/youtube/v3/commentThreads", func(w http.ResponseWriter, _ *http.Request) {
		writeAPIError(w, http.StatusInternalServerError)
	})

	svc := &services.ChannelService{
		YouTube:           newFakeYouTube(t, mux),
		ChannelID:         "chan-1",
		MaxCommentResults: 50,
		MaxTopComments:    10,
	}

	comments := svc.GetTopComments(context.Background(), "vid-1")
	assert.NotNil(t, comments)
	assert.Equal(t, 0, len(comments))
}

// fullChannelMux serves a complete aggregation pass: one channel, three
// uploads, per-video comments keyed by the videoId query parameter.
func fullChannelMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/youtube/v3/channels", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, channelBody("UU-uploads"))
	})
	mux.HandleFunc("/youtube/v3/playlistItems", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, `{"items": [
			{"contentDetails": {"videoId": "v1"}},
			{"contentDetails": {"videoId": "v2"}},
			{"contentDetails": {"videoId": "v3"}}
		]}`)
	})
	mux.HandleFunc("/youtube/v3/videos", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, `{"items": [
			{"id": "v1", "snippet": {"title": "Starter"}, "statistics": {"likeCount": "5"}},
			{"id": "v2", "snippet": {"title": "Bagels"}, "statistics": {"likeCount": "500"}},
			{"id": "v3", "snippet": {"title": "Focaccia"}, "statistics": {"likeCount": "50"}}
		]}`)
	})
	mux.HandleFunc("/youtube/v3/commentThreads", func(w http.ResponseWriter, r *http.Request) {
		videoID := r.URL.Query().Get("videoId")
		writeJSON(w, fmt.Sprintf(`{"items": [
			{"snippet": {"topLevelComment": {"snippet": {
				"authorDisplayName": "fan-%s", "textDisplay": "nice", "likeCount": 7
			}}}}
		]}`, videoID))
	})
	return mux
}

// TestGetTopVideosEndToEnd runs a full aggregation pass against the fake
// API and verifies ranking, truncation, and comment attachment.
func TestGetTopVideosEndToEnd(t *testing.T) {
	svc := &services.ChannelService{
		YouTube:            newFakeYouTube(t, fullChannelMux()),
		ChannelID:          "chan-1",
		MaxPlaylistResults: 50,
		MaxCommentResults:  50,
		MaxTopVideos:       2,
		MaxTopComments:     10,
		NumberOfWorkers:    2,
	}

	videos, err := svc.GetTopVideos(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, len(videos))

	assert.Equal(t, "v2", videos[0].VideoId)
	assert.Equal(t, int64(500), videos[0].Likes)
	assert.Equal(t, "v3", videos[1].VideoId)

	assert.Equal(t, 1, len(videos[0].TopComments))
	assert.Equal(t, "fan-v2", videos[0].TopComments[0].Author)
	assert.Equal(t, int64(7), videos[0].TopComments[0].Likes)
}

// TestGetTopVideosSurvivesCommentOutage verifies the degradation path end
// to end: a dead commentThreads endpoint still yields the ranked videos,
// each with an empty comment list.
func TestGetTopVideosSurvivesCommentOutage(t *testing.T) {
	mux := fullChannelMux()
	// Re-register would panic; build the outage mux from scratch instead.
	outage := http.NewServeMux()
	outage.Handle("/youtube/v3/channels", mux)
	outage.Handle("/youtube/v3/playlistItems", mux)
	outage.Handle("/youtube/v3/videos", mux)
	outage.HandleFunc("/youtube/v3/commentThreads", func(w http.ResponseWriter, _ *http.Request) {
		writeAPIError(w, http.StatusForbidden)
	})

	svc := &services.ChannelService{
		YouTube:            newFakeYouTube(t, outage),
		ChannelID:          "chan-1",
		MaxPlaylistResults: 50,
		MaxCommentResults:  50,
		MaxTopVideos:       10,
		MaxTopComments:     10,
		NumberOfWorkers:    2,
	}

	videos, err := svc.GetTopVideos(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 3, len(videos))
	for _, v := range videos {
		assert.Equal(t, 0, len(v.TopComments))
	}
}
