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

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist upstream.
	ErrNotFound = errors.New("record not found")

	// ErrEnvelope indicates the registry response did not match any known
	// envelope nesting form.
	ErrEnvelope = errors.New("unrecognized registry envelope")

	// ErrRegistryResult indicates the registry answered with a non-success
	// result code.
	ErrRegistryResult = errors.New("registry result code")

	// ErrUnavailable indicates the upstream kept failing after all retry
	// attempts were exhausted. Callers may retry the whole operation later.
	ErrUnavailable = errors.New("upstream unavailable")

	// ErrEmptyDocument indicates a transcript fetch returned no content.
	ErrEmptyDocument = errors.New("empty transcript document")
)
