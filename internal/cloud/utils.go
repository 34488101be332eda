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
// services. This file contains the hierarchical configuration loader and
// the resilient text-generation helper used by the chat pipeline.
//
// Functions:
//   - LoadConfig: Reads a base TOML configuration file and then overlays an
//     environment-specific file (e.g. .env.local.toml) selected through
//     environment variables.
//   - GenerateTextResponse: Executes a text generation request with bounded
//     retry and OpenTelemetry token accounting.
//   - NewTextContent: Factory for a plain-text user content part.
package cloud

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"go.opentelemetry.io/otel/metric"

	"github.com/BurntSushi/toml"
	"google.golang.org/genai"
)

// Configuration loading constants and the API retry policy.
const (
	ConfigFileBaseName  = ".env"              // The base name for configuration files (e.g., ".env.toml").
	ConfigFileExtension = ".toml"             // The file extension for configuration files.
	ConfigSeparator     = "."                 // The separator used in config file names (e.g., ".env.local.toml").
	EnvConfigFilePrefix = "GCP_CONFIG_PREFIX" // The environment variable for specifying the config directory.
	EnvConfigRuntime    = "GCP_RUNTIME"       // The environment variable for the runtime context (e.g., "local", "test").
	MaxRetries          = 3                   // The maximum number of times to retry a failed generation call.
)

// fileExists checks if a file or directory exists at the given path.
func fileExists(in string) bool {
	_, err := os.Stat(in)
	return !errors.Is(err, os.ErrNotExist)
}

// LoadConfig loads the base configuration file and then overlays the
// environment-specific file on top of it. The directory prefix and runtime
// environment come from the EnvConfigFilePrefix and EnvConfigRuntime
// environment variables; the runtime defaults to "test".
func LoadConfig(baseConfig interface{}) {
	configurationFilePrefix := os.Getenv(EnvConfigFilePrefix)
	if len(configurationFilePrefix) > 0 && !strings.HasSuffix(configurationFilePrefix, string(os.PathSeparator)) {
		configurationFilePrefix = configurationFilePrefix + string(os.PathSeparator)
	}

	runtimeEnvironment := os.Getenv(EnvConfigRuntime)
	if runtimeEnvironment == "" {
		runtimeEnvironment = "test"
	}

	baseConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigFileExtension
	envConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigSeparator + runtimeEnvironment + ConfigFileExtension

	if fileExists(baseConfigFileName) {
		_, err := toml.DecodeFile(baseConfigFileName, baseConfig)
		if err != nil {
			log.Fatalf("failed to decode base configuration file %s with error: %s", baseConfigFileName, err)
		}
	}

	// Values in the environment-specific file overwrite the base values.
	if fileExists(envConfigFileName) {
		_, err := toml.DecodeFile(envConfigFileName, baseConfig)
		if err != nil {
			log.Fatalf("failed to decode environment configuration file: %s with error: %s", envConfigFileName, err)
		}
	}
}

// GenerateTextResponse sends a text prompt to the quota-aware model and
// returns the concatenated candidate text. Failed calls are retried up to
// MaxRetries times; prompt and candidate token counts are recorded on the
// provided counters along with each retry.
func GenerateTextResponse(
	ctx context.Context,
	inputTokenCounter metric.Int64Counter,
	outputTokenCounter metric.Int64Counter,
	retryCounter metric.Int64Counter,
	tryCount int,
	model *QuotaAwareGenerativeAIModel,
	systemInstruction string,
	content []*genai.Content) (value string, err error) {
	resp, err := model.GenerateContent(ctx, systemInstruction, content)
	if err != nil {
		// The request deadline bounds the whole retry loop; a canceled
		// context fails fast instead of burning the remaining attempts.
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if tryCount < MaxRetries {
			if retryCounter != nil {
				retryCounter.Add(ctx, 1)
			}
			return GenerateTextResponse(ctx, inputTokenCounter, outputTokenCounter, retryCounter, tryCount+1, model, systemInstruction, content)
		}
		return "", err
	}

	if resp.UsageMetadata != nil {
		if inputTokenCounter != nil {
			inputTokenCounter.Add(ctx, int64(resp.UsageMetadata.PromptTokenCount))
		}
		if outputTokenCounter != nil {
			outputTokenCounter.Add(ctx, int64(resp.UsageMetadata.CandidatesTokenCount))
		}
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				builder.WriteString(fmt.Sprint(part.Text))
			}
		}
	}
	return builder.String(), nil
}

// NewTextContent wraps a plain-text prompt as user content for a
// generation call.
func NewTextContent(in string) []*genai.Content {
	return genai.Text(in)
}
