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


package hansard

import (
	"errors"
	"log/slog"

	"github.com/poiesic/hansard/ai"
	"github.com/poiesic/hansard/ai/openai"
	"github.com/poiesic/hansard/fetch"
	"github.com/poiesic/hansard/ingest"
	"github.com/poiesic/hansard/resolve"
	"github.com/poiesic/hansard/storage/badger"
)

// Archive bundles the store, the registry client and the AI provider behind
// one handle. One rate limiter is shared by every extractor the archive
// hands out.
type Archive struct {
	store    *badger.Store
	client   *fetch.Client
	provider ai.Provider
	limiter  *ai.RateLimiter
	logger   *slog.Logger
}

// ArchiveOption configures an Archive.
type ArchiveOption func(*archiveOptions)

type archiveOptions struct {
	aiConfig *ai.Config
	logger   *slog.Logger
}

// WithAIConfig overrides the default extraction service configuration.
func WithAIConfig(config *ai.Config) ArchiveOption {
	return func(o *archiveOptions) {
		o.aiConfig = config
	}
}

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) ArchiveOption {
	return func(o *archiveOptions) {
		o.logger = logger
	}
}

// NewArchive opens the store at filePath and wires the registry client and
// extraction provider.
func NewArchive(filePath string, fetchConfig fetch.Config, opts ...ArchiveOption) (*Archive, error) {
	options := &archiveOptions{
		aiConfig: ai.DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	store, err := badger.OpenStore(filePath, false)
	if err != nil {
		return nil, err
	}

	client, err := fetch.NewClient(fetchConfig, options.logger)
	if err != nil {
		return nil, errors.Join(err, store.Close())
	}

	limiter := ai.NewRateLimiter(options.aiConfig.RequestsPerMinute)
	provider, err := openai.NewProvider(options.aiConfig, limiter)
	if err != nil {
		return nil, errors.Join(err, store.Close())
	}

	return &Archive{
		store:    store,
		client:   client,
		provider: provider,
		limiter:  limiter,
		logger:   options.logger,
	}, nil
}

// Close releases the provider and the store.
func (a *Archive) Close() error {
	if err := a.provider.Close(); err != nil {
		a.logger.Error("error closing AI provider", "err", err)
	}
	return a.store.Close()
}

// Store exposes the underlying repositories.
func (a *Archive) Store() *badger.Store {
	return a.store
}

// Client exposes the registry client.
func (a *Archive) Client() *fetch.Client {
	return a.client
}

// NewPipeline builds an ingestion pipeline over the archive's store, client
// and provider.
func (a *Archive) NewPipeline(opts ...ingest.Option) (*ingest.Pipeline, error) {
	resolver := resolve.NewResolver(
		a.store.Speakers, a.store.Bills, a.store.Categories, a.client, a.logger)

	coordinator, err := ingest.NewCoordinator(
		a.store.Sessions, a.store.Statements, a.store.Votes, a.logger)
	if err != nil {
		return nil, err
	}

	return ingest.NewPipeline(
		a.store.Sessions, a.store.Statements, a.store.Speakers,
		a.client, a.provider.StatementExtractor(), resolver, coordinator,
		opts...)
}
