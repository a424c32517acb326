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


package ingest

import "errors"

var (
	// ErrStoreRequired indicates the pipeline was created without storage.
	ErrStoreRequired = errors.New("storage repositories are required")

	// ErrFetcherRequired indicates the pipeline was created without a fetcher.
	ErrFetcherRequired = errors.New("fetcher is required")

	// ErrExtractorRequired indicates the pipeline was created without an
	// AI extractor.
	ErrExtractorRequired = errors.New("statement extractor is required")

	// ErrInvalidMaxAttempts indicates a non-positive retry bound.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")
)
