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

// Package cloud defines the data structures for application configuration,
// loaded from TOML files. It centralizes the settings for the YouTube Data
// API, the Vertex AI models used for reply generation, the configured
// personas, and the context-document limits.
//
// Structs:
//   - YouTubeDataSource: Credential, channel identity, and fetch limits for
//     the YouTube Data API.
//   - ContextSettings: Size limits applied when compiling the channel
//     context document.
//   - VertexAiLLMModel: Configuration for a Vertex AI Large Language Model.
//   - Persona: A named response style with its own system instructions.
//   - Config: The top-level struct aggregating all of the above.
//
// Functions:
//   - NewConfig: Constructor that initializes a Config with empty maps.
package cloud

import "google.golang.org/genai"

// DefaultPersona is the persona key used when a request names no persona
// or names one that is not configured.
const DefaultPersona = "default"

// DefaultSafetySettings defines the default content safety thresholds for
// GenAI models. Channel comments are untrusted public text, so the
// thresholds block nothing and replies rely on the persona instructions
// to keep the tone in check, matching the upstream chat behavior.
var DefaultSafetySettings = []*genai.SafetySetting{
	{
		Category:  genai.HarmCategoryDangerousContent,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHarassment,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHateSpeech,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategorySexuallyExplicit,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
}

// YouTubeDataSource holds the credential, the channel identity, and the
// fetch limits for the YouTube Data API. The API key and channel ID are
// required; the process cannot serve chat requests without them.
type YouTubeDataSource struct {
	APIKey                  string `toml:"api_key"`                    // YouTube Data API v3 key.
	ChannelID               string `toml:"channel_id"`                 // The channel whose content grounds the replies.
	MaxPlaylistResults      int64  `toml:"max_playlist_results"`       // Upper bound on uploads-playlist items fetched (API max 50).
	MaxCommentResults       int64  `toml:"max_comment_results"`        // Upper bound on comment threads fetched per video (API max 50).
	MaxTopVideos            int    `toml:"max_top_videos"`             // Videos kept after ranking by like count.
	MaxTopComments          int    `toml:"max_top_comments"`           // Comments kept per video after ranking by like count.
	RequestTimeoutInSeconds int    `toml:"request_timeout_in_seconds"` // Deadline applied to each chat request's outbound calls.
}

// ContextSettings bounds the compiled context document. A MaxFieldChars of
// zero passes descriptions and comments through verbatim.
type ContextSettings struct {
	MaxFieldChars int `toml:"max_field_chars"` // Per-field character budget; 0 disables truncation.
}

// VertexAiLLMModel represents the configuration for a Vertex AI large
// language model (LLM).
type VertexAiLLMModel struct {
	Model        string  `toml:"model"`         // The name of the Vertex AI LLM.
	Temperature  float32 `toml:"temperature"`   // The temperature parameter for the LLM.
	TopP         float32 `toml:"top_p"`         // The top_p parameter for the LLM.
	TopK         float32 `toml:"top_k"`         // The top_k parameter for the LLM.
	MaxTokens    int32   `toml:"max_tokens"`    // The maximum number of tokens for the LLM output.
	OutputFormat string  `toml:"output_format"` // The desired output MIME type, text/plain for chat.
	RateLimit    int     `toml:"rate_limit"`    // The rate limit for the LLM in requests per second.
}

// Persona defines a named response style. The chat endpoint resolves the
// request's selectedPersona against this map and falls back to
// DefaultPersona when the name is unknown.
type Persona struct {
	Name               string `toml:"name"`                // User-friendly persona name (e.g., "Channel Owner").
	SystemInstructions string `toml:"system_instructions"` // The system instruction sent with every generation call.
	AgentModel         string `toml:"agent_model"`         // The key of the agent model this persona answers with.
}

// Config represents the overall configuration for the application, loaded
// from TOML files.
type Config struct {
	// Application holds general application settings.
	Application struct {
		Name            string `toml:"name"`              // The name of the application.
		GoogleProjectId string `toml:"google_project_id"` // The Google Cloud project ID.
		GoogleLocation  string `toml:"location"`          // The Google Cloud location.
		ThreadPoolSize  int    `toml:"thread_pool_size"`  // Worker count for the per-video comment fan-out.
	} `toml:"application"`
	YouTube     YouTubeDataSource           `toml:"youtube"`      // YouTube Data API configuration.
	Context     ContextSettings             `toml:"context"`      // Context document limits.
	AgentModels map[string]VertexAiLLMModel `toml:"agent_models"` // Vertex AI LLM models, keyed by a logical name.
	Personas    map[string]Persona          `toml:"personas"`     // Response personas, keyed by the wire persona name.
}

// NewConfig creates a new, initialized Config instance. The maps must be
// initialized before the TOML loader populates them.
func NewConfig() *Config {
	return &Config{
		AgentModels: make(map[string]VertexAiLLMModel),
		Personas:    make(map[string]Persona),
	}
}

// ResolvePersona returns the persona for the given wire name, falling back
// to the default persona when the name is empty or unknown.
func (c *Config) ResolvePersona(name string) Persona {
	if p, ok := c.Personas[name]; ok {
		return p
	}
	return c.Personas[DefaultPersona]
}
