// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"errors"
	"strings"
	"time"
)

// Config holds configuration for the AI extraction service.
type Config struct {
	// Host is the base URL for the chat completion API.
	// Example: "http://localhost:11434/v1" for a local OpenAI-compatible
	// server.
	Host string

	// Model is the model identifier to use for extraction.
	Model string

	// Token authenticates against the API. Use "none" for local services
	// that don't require authentication.
	Token string

	// RequestsPerMinute is the ceiling on generation calls issued within
	// any rolling 60-second window, shared across all sessions.
	RequestsPerMinute int

	// MaxAttempts bounds generation attempts per document.
	MaxAttempts int

	// BackoffBase is the first backoff delay after a retriable failure.
	BackoffBase time.Duration

	// BackoffCap is the upper bound on the backoff delay.
	BackoffCap time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithHost sets the chat completion service host URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithModel sets the extraction model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithToken sets the API token.
func WithToken(token string) ConfigOption {
	return func(c *Config) {
		c.Token = token
	}
}

// WithRequestsPerMinute sets the rolling-window request ceiling.
func WithRequestsPerMinute(rpm int) ConfigOption {
	return func(c *Config) {
		c.RequestsPerMinute = rpm
	}
}

// WithMaxAttempts sets the per-document attempt bound.
func WithMaxAttempts(n int) ConfigOption {
	return func(c *Config) {
		c.MaxAttempts = n
	}
}

// WithBackoff sets the backoff base delay and cap.
func WithBackoff(base, cap time.Duration) ConfigOption {
	return func(c *Config) {
		c.BackoffBase = base
		c.BackoffCap = cap
	}
}

// DefaultConfig returns a Config with sensible defaults for local
// OpenAI-compatible services.
func DefaultConfig() *Config {
	return &Config{
		Host:              "http://localhost:11434/v1",
		Model:             "qwen2.5:3b",
		Token:             "none",
		RequestsPerMinute: 20,
		MaxAttempts:       3,
		BackoffBase:       time.Second,
		BackoffCap:        60 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It adds the /v1 suffix to the host if missing, which is required by most
// OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	if c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = strings.TrimSuffix(c.Host, "/")
		c.Host = c.Host + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Host == "" {
		return errors.New("ai config: Host is required")
	}
	if c.Model == "" {
		return errors.New("ai config: Model is required")
	}
	if c.Token == "" {
		return errors.New("ai config: Token is required")
	}
	if c.RequestsPerMinute < 1 {
		return errors.New("ai config: RequestsPerMinute must be at least 1")
	}
	if c.MaxAttempts < 1 {
		return errors.New("ai config: MaxAttempts must be at least 1")
	}
	if c.BackoffBase <= 0 {
		return errors.New("ai config: BackoffBase must be positive")
	}
	if c.BackoffCap < c.BackoffBase {
		return errors.New("ai config: BackoffCap must be at least BackoffBase")
	}
	return nil
}
