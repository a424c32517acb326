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


package fetch

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds source fetcher configuration.
type Config struct {
	// BaseURL is the registry API root.
	BaseURL string

	// APIKey authenticates registry requests.
	APIKey string

	// Timeout bounds a single HTTP request.
	Timeout time.Duration

	// LookupTimeout bounds single-attempt speaker lookups. Kept short so a
	// slow registry cannot stall resolution.
	LookupTimeout time.Duration

	// RetryCount is the number of retries after the first attempt.
	RetryCount int

	// RetryWait is the linear wait between retries.
	RetryWait time.Duration
}

// Option configures a Config.
type Option func(*Config)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithLookupTimeout sets the speaker lookup timeout.
func WithLookupTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.LookupTimeout = d
	}
}

// WithRetry sets the retry count and the linear wait between retries.
func WithRetry(count int, wait time.Duration) Option {
	return func(c *Config) {
		c.RetryCount = count
		c.RetryWait = wait
	}
}

// NewConfig creates a Config with defaults applied.
func NewConfig(baseURL, apiKey string, opts ...Option) Config {
	cfg := Config{
		BaseURL:       baseURL,
		APIKey:        apiKey,
		Timeout:       30 * time.Second,
		LookupTimeout: 5 * time.Second,
		RetryCount:    3,
		RetryWait:     500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	parsed, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsed.Host == "" {
		return fmt.Errorf("base URL must have a host, got: %s", c.BaseURL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("base URL scheme must be http or https, got: %s", c.BaseURL)
	}
	if c.APIKey == "" {
		return fmt.Errorf("API key is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.LookupTimeout <= 0 {
		return fmt.Errorf("lookup timeout must be positive, got %v", c.LookupTimeout)
	}
	if c.RetryCount < 0 {
		return fmt.Errorf("retry count cannot be negative, got %d", c.RetryCount)
	}
	return nil
}
