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

// Package resolve maps extracted names onto stored identities.
//
// Speaker resolution never fails soft targets into lost statements: a name
// that matches neither the local store nor the registry gets a placeholder
// identity that is enumerable for later reconciliation. Bill and category
// resolution are get-or-create.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/hansard/ai"
	"github.com/poiesic/hansard/core"
	"github.com/poiesic/hansard/fetch"
	"github.com/poiesic/hansard/storage"
)

// Registry is the remote speaker directory consulted on a local miss.
type Registry interface {
	// LookupSpeaker finds a member row by exact name. Single attempt with
	// a short timeout.
	LookupSpeaker(ctx context.Context, name string) (*fetch.SpeakerListing, error)
}

// Resolver resolves speaker, bill and category identities.
type Resolver struct {
	speakers   storage.SpeakerRepository
	bills      storage.BillRepository
	categories storage.CategoryRepository
	registry   Registry
	logger     *slog.Logger
}

// NewResolver creates a Resolver. registry may be nil, in which case every
// unknown speaker becomes a placeholder directly.
func NewResolver(
	speakers storage.SpeakerRepository,
	bills storage.BillRepository,
	categories storage.CategoryRepository,
	registry Registry,
	logger *slog.Logger,
) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		speakers:   speakers,
		bills:      bills,
		categories: categories,
		registry:   registry,
		logger:     logger.With("component", "resolve"),
	}
}

// ResolveSpeaker maps a transcript display name to a stored speaker.
//
// Resolution order: local exact-name lookup, then a single registry lookup,
// then placeholder creation. The returned speaker is always persisted; the
// only error surface is storage itself.
func (r *Resolver) ResolveSpeaker(ctx context.Context, name string) (*core.Speaker, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty speaker name", core.ErrInvalidSpeaker)
	}

	existing, err := r.speakers.FindSpeakerByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	if r.registry != nil {
		listing, err := r.registry.LookupSpeaker(ctx, name)
		if err == nil {
			return r.storeRegistrySpeaker(ctx, listing)
		}
		if !errors.Is(err, fetch.ErrNotFound) {
			// A slow or failing registry never blocks ingestion.
			r.logger.Warn("registry lookup failed, falling back to placeholder",
				"name", name, "err", err)
		}
	}

	return r.storePlaceholder(ctx, name)
}

// storeRegistrySpeaker persists a speaker from a registry row.
func (r *Resolver) storeRegistrySpeaker(ctx context.Context, listing *fetch.SpeakerListing) (*core.Speaker, error) {
	speaker := &core.Speaker{
		Id:   listing.Id,
		Name: listing.Name,
	}
	for _, party := range ParsePartyHistory(listing.PartyHistory) {
		speaker.AppendAffiliation(party)
	}

	stored, err := r.speakers.UpsertSpeakers(ctx, speaker)
	if err != nil {
		return nil, fmt.Errorf("store registry speaker %q: %w", listing.Name, err)
	}
	return stored[0], nil
}

// RegisterSpeaker persists a speaker whose identity is already known, e.g.
// from a vote listing row that carries the registry id alongside the name.
func (r *Resolver) RegisterSpeaker(ctx context.Context, id, name string) (*core.Speaker, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)
	if id == "" {
		return r.ResolveSpeaker(ctx, name)
	}

	existing, err := r.speakers.GetSpeaker(ctx, id)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	stored, err := r.speakers.UpsertSpeakers(ctx, &core.Speaker{Id: id, Name: name})
	if err != nil {
		return nil, fmt.Errorf("register speaker %q: %w", name, err)
	}
	return stored[0], nil
}

// storePlaceholder persists a placeholder identity for an unresolvable name.
func (r *Resolver) storePlaceholder(ctx context.Context, name string) (*core.Speaker, error) {
	speaker := &core.Speaker{
		Id:          core.PlaceholderSpeakerID(name),
		Name:        name,
		Placeholder: true,
	}

	stored, err := r.speakers.UpsertSpeakers(ctx, speaker)
	if err != nil {
		return nil, fmt.Errorf("store placeholder speaker %q: %w", name, err)
	}

	r.logger.Warn("unresolved speaker stored as placeholder",
		"name", name, "id", speaker.Id)
	return stored[0], nil
}

// ResolveBill maps a discussed bill name onto a stored bill for the session.
//
// The name is matched case-insensitively against the session's registry
// listings; an unmatched name gets a synthetic bill scoped to the session.
// The classification's categories are registered as a side effect so the
// category table stays complete.
func (r *Resolver) ResolveBill(
	ctx context.Context,
	sessionID, billName string,
	classification ai.PolicyClassification,
	listings []fetch.BillListing,
) (*core.Bill, error) {
	billName = strings.TrimSpace(billName)
	if billName == "" {
		return nil, fmt.Errorf("%w: empty bill name", core.ErrInvalidBill)
	}

	bill := &core.Bill{
		SessionId:     sessionID,
		Name:          billName,
		MainCategory:  classification.MainCategory,
		SubCategories: classification.SubCategories,
		Keywords:      classification.Keywords,
	}

	if listing := matchListing(billName, listings); listing != nil {
		bill.Id = listing.Id
		bill.Name = listing.Name
		bill.Proposer = listing.Proposer
	} else {
		bill.Id = core.SyntheticBillID(sessionID, billName)
		bill.Synthetic = true
		r.logger.Debug("bill not in registry listings, storing synthetic",
			"session", sessionID, "name", billName)
	}

	if classification.MainCategory != "" {
		if _, err := r.ResolveCategory(ctx, core.CategoryKindMain, classification.MainCategory); err != nil {
			return nil, err
		}
	}
	for _, sub := range classification.SubCategories {
		if _, err := r.ResolveCategory(ctx, core.CategoryKindSub, sub); err != nil {
			return nil, err
		}
	}

	stored, err := r.bills.UpsertBills(ctx, bill)
	if err != nil {
		return nil, fmt.Errorf("store bill %q: %w", billName, err)
	}
	return stored[0], nil
}

// ResolveCategory is get-or-create by (kind, name).
func (r *Resolver) ResolveCategory(ctx context.Context, kind, name string) (*core.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty category name", core.ErrInvalidCategory)
	}
	return r.categories.GetOrCreateCategory(ctx, kind, name)
}

// matchListing finds a registry listing by case-insensitive exact name.
func matchListing(name string, listings []fetch.BillListing) *fetch.BillListing {
	for i := range listings {
		if strings.EqualFold(strings.TrimSpace(listings[i].Name), name) {
			return &listings[i]
		}
	}
	return nil
}
