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


// Package storage provides the storage abstraction layer for hansard.
//
// This package defines repository interfaces that decouple storage
// implementation from the ingestion pipeline. It allows for different storage
// backends (BadgerDB, in-memory, etc.) to be used interchangeably, and it is
// the surface downstream consumers read from.
//
// # Architecture
//
// The storage layer follows the Repository pattern, one repository per
// record family:
//
//   - SessionRepository: sessions and their ingestion status
//   - BillRepository: bills scoped to sessions
//   - SpeakerRepository: speakers and their ordered party history
//   - StatementRepository: fingerprint-keyed statements
//   - VoteRepository: (bill, speaker) voting records
//   - CategoryRepository: get-or-create policy categories
//
// All upserts are keyed by natural identifiers (session id, bill id, speaker
// id) or content fingerprints, never by surrogate sequence alone, so that
// repeated ingestion of the same source is a no-op.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support concurrent
// access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation and timeout
// support. Pass context.Background() for operations without specific timeout
// requirements.
package storage
