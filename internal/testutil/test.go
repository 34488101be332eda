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

// Package test provides utility functions and sample data to support the
// application's test suite. It sets up a consistent test environment and
// loads the test-specific configuration files.
package test

import (
	"log"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/jaycherian/gcp-go-channel-chat/internal/cloud"
	"github.com/jaycherian/gcp-go-channel-chat/internal/core/model"
)

// StateManager acts as a simple in-memory cache for the application
// configuration during test runs, so the TOML files are read once per
// test binary.
type StateManager struct {
	config *cloud.Config
}

var state = &StateManager{}

// HandleErr fails the test when err is not nil.
func HandleErr(err error, t *testing.T) {
	if err != nil {
		t.Errorf("Error reading config file: %v", err)
	}
}

// SetupOS configures the environment variables the configuration loader
// depends on, pointing it at the test override file (.env.test.toml).
// Test binaries run from their own package directory, so the configs
// directory is resolved from this source file rather than relatively.
func SetupOS() (err error) {
	_, thisFile, _, _ := runtime.Caller(0)
	configDir := filepath.Join(filepath.Dir(thisFile), "..", "..", "configs")

	err = os.Setenv(cloud.EnvConfigFilePrefix, configDir)
	if err != nil {
		return err
	}
	err = os.Setenv(cloud.EnvConfigRuntime, "test")
	return err
}

// GetConfig is a singleton accessor for the test configuration.
func GetConfig() *cloud.Config {
	if state.config == nil {
		err := SetupOS()
		if err != nil {
			log.Fatalf("failed to setup environment for test: %v\n", err)
		}
		config := cloud.NewConfig()
		cloud.LoadConfig(&config)
		state.config = config
	}
	return state.config
}

// GetTestVideoContexts returns a small, already-ranked channel context
// graph for pipeline tests. Likes descend across videos and within each
// comment list, matching what the aggregation run produces.
func GetTestVideoContexts() []*model.VideoContext {
	return []*model.VideoContext{
		{
			VideoId:     "vid-001",
			Title:       "Sourdough Starter From Scratch",
			Description: "Day by day guide to building a starter with nothing but flour and water.",
			Transcript:  model.TranscriptPlaceholder,
			Likes:       4200,
			TopComments: []*model.CommentContext{
				{Author: "BreadHead", Text: "This finally worked for me after three failed starters.", Likes: 310},
				{Author: "Crumb Coat", Text: "Day 4 smells like paint thinner, is that normal?", Likes: 55},
			},
		},
		{
			VideoId:     "vid-002",
			Title:       "Why Your Bagels Are Flat",
			Description: "Boiling times, malt syrup, and the proofing mistakes everyone makes.",
			Transcript:  model.TranscriptPlaceholder,
			Likes:       1800,
			TopComments: []*model.CommentContext{
				{Author: "Lox Fan", Text: "The cold proof tip fixed everything.", Likes: 98},
			},
		},
	}
}
