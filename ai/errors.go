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
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrAttemptsExhausted indicates all bounded generation attempts failed.
var ErrAttemptsExhausted = errors.New("generation attempts exhausted")

// ParseError indicates the model output could not be decoded into the
// expected schema. Prefix carries the leading bytes of the offending payload
// for diagnostics; never the full document.
type ParseError struct {
	Prefix string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse model output: %v (payload %q)", e.Err, e.Prefix)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// payloadPrefix truncates a payload for inclusion in a ParseError.
func payloadPrefix(payload string) string {
	const max = 120
	if len(payload) > max {
		return payload[:max] + "..."
	}
	return payload
}

// fatalMarkers identify errors that no amount of retrying will fix:
// bad credentials or a request the API rejects as malformed.
var fatalMarkers = []string{
	"401",
	"403",
	"invalid api key",
	"incorrect api key",
	"invalid_request_error",
	"400 bad request",
	"model not found",
}

// retriableMarkers identify throttling and transient upstream failures.
var retriableMarkers = []string{
	"429",
	"rate limit",
	"quota",
	"500",
	"502",
	"503",
	"504",
	"timeout",
	"deadline",
	"connection refused",
	"connection reset",
	"temporarily unavailable",
}

// Retriable classifies a generation failure. Fatal markers win over
// retriable ones; unrecognized errors count as retriable because attempts
// are bounded anyway and transient network faults rarely self-identify.
func Retriable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range fatalMarkers {
		if strings.Contains(msg, marker) {
			return false
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	for _, marker := range retriableMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return true
}
