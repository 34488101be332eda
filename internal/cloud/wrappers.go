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
// services. This file wraps the Generative AI model with a rate limiter so
// the application stays inside its Vertex AI quota. Retry on transient
// failure is layered on top by GenerateTextResponse in utils.go.
package cloud

import (
	"context"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// QuotaAwareGenerativeAIModel decorates a GenAI model handle with a rate
// limiter. The generation config it carries is the persona-independent
// base; the system instruction is supplied per call because each request
// may answer as a different persona.
type QuotaAwareGenerativeAIModel struct {
	GenerativeContentConfig *genai.GenerateContentConfig // Base generation parameters from the agent model config.
	ModelName               string                       // The Vertex AI model name (e.g., "gemini-2.0-flash").
	ModelHandle             *genai.Models                // Handle used to issue GenerateContent calls.
	RateLimit               *rate.Limiter                // Limits the request rate to the model.
}

// NewQuotaAwareModel wraps the given model handle and base config with a
// limiter allowing `requestsPerSecond` requests per second.
func NewQuotaAwareModel(wrapped *genai.GenerateContentConfig, name string, modelHandle *genai.Models, requestsPerSecond int) *QuotaAwareGenerativeAIModel {
	return &QuotaAwareGenerativeAIModel{
		GenerativeContentConfig: wrapped,
		ModelName:               name,
		ModelHandle:             modelHandle,
		RateLimit:               rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
	}
}

// GenerateContent waits for a rate-limiter token (respecting the request
// deadline) and then issues a single generation call with the base config
// overlaid with the given system instruction. Retries belong to the
// caller; one invocation is exactly one upstream request.
func (q *QuotaAwareGenerativeAIModel) GenerateContent(
	ctx context.Context,
	systemInstruction string,
	contents []*genai.Content) (*genai.GenerateContentResponse, error) {
	if err := q.RateLimit.Wait(ctx); err != nil {
		return nil, err
	}

	// Copy the base config so concurrent requests with different personas
	// never see each other's system instruction.
	config := *q.GenerativeContentConfig
	if systemInstruction != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		}
	}

	return q.ModelHandle.GenerateContent(ctx, q.ModelName, contents, &config)
}
