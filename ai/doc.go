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

// Package ai defines the statement extraction contract, the shared request
// rate limiter and backoff gate, and the parser for structured model output.
//
// One generation call is issued per normalized transcript; the model returns
// a single JSON object describing every discussion segment and its attributed
// statements. All calls in the process share one RateLimiter instance so
// concurrent session ingestion cannot exceed the provider's request ceiling.
//
// Concrete model clients live in subpackages (openai for OpenAI-compatible
// chat APIs, mock for tests).
package ai
