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

// Package ingest orchestrates the session ingestion pipeline.
//
// One task is enqueued per session. Inside a task the stages run strictly
// sequentially (fetch, normalize, extract, parse, resolve, persist) because
// each stage needs the previous stage's full output; across sessions tasks
// run in parallel on a worker pool, all sharing the one AI rate limiter.
//
// Every write is keyed by a natural identifier or content fingerprint, so
// re-running ingestion for a session is a no-op for already-stored rows and
// a task retry after partial failure reuses the committed work.
package ingest
