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

// Package cloud provides components for interacting with Google Cloud
// services. This file initializes and holds the client objects the
// application needs: the YouTube Data API service for channel data and the
// Generative AI client for reply generation. The resulting ServiceClients
// struct is the dependency container passed through the application.
//
// Logic Flow:
//  1. `NewCloudServiceClients` is called at application startup with the
//     loaded configuration.
//  2. It validates the two required external values: the YouTube API key
//     and the channel identifier. Absence of either is fatal.
//  3. It constructs the YouTube service (API-key auth, read-only) and the
//     GenAI client (Vertex AI backend).
//  4. Each configured agent model is wrapped in the quota-aware decorator
//     and stored in a map keyed by its logical name.
package cloud

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
	"google.golang.org/genai"
)

// ServiceClients is the central container for all external service
// clients. Both clients are safe for concurrent use, so a single instance
// is shared by every request.
type ServiceClients struct {
	YouTubeService *youtube.Service                        // Read-only client for the YouTube Data API v3.
	GenAIClient    *genai.Client                           // Client for Google's Generative AI services (Vertex AI).
	AgentModels    map[string]*QuotaAwareGenerativeAIModel // Configured GenAI agent (LLM) models, keyed by a logical name.
}

// NewCloudServiceClients initializes all required service clients based on
// the provided configuration. A missing YouTube credential or channel
// identifier is a configuration error, not a retryable condition, so the
// constructor fails immediately.
func NewCloudServiceClients(ctx context.Context, config *Config) (cloud *ServiceClients, err error) {
	if config.YouTube.APIKey == "" {
		return nil, fmt.Errorf("youtube api_key is not configured")
	}
	if config.YouTube.ChannelID == "" {
		return nil, fmt.Errorf("youtube channel_id is not configured")
	}

	yt, err := youtube.NewService(ctx, option.WithAPIKey(config.YouTube.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  config.Application.GoogleProjectId,
		Location: config.Application.GoogleLocation,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	// Build a quota-aware wrapper for every configured agent model. The
	// system instruction is left unset here: personas supply it per call.
	agentModels := make(map[string]*QuotaAwareGenerativeAIModel)
	for amKey, values := range config.AgentModels {
		generateConfig := &genai.GenerateContentConfig{
			Temperature:      genai.Ptr[float32](values.Temperature),
			TopP:             genai.Ptr[float32](values.TopP),
			TopK:             genai.Ptr[float32](values.TopK),
			MaxOutputTokens:  values.MaxTokens,
			SafetySettings:   DefaultSafetySettings,
			ResponseMIMEType: values.OutputFormat,
		}
		agentModels[amKey] = NewQuotaAwareModel(generateConfig, values.Model, gc.Models, values.RateLimit)
	}

	cloud = &ServiceClients{
		YouTubeService: yt,
		GenAIClient:    gc,
		AgentModels:    agentModels,
	}

	return cloud, nil
}
