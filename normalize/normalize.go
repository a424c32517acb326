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

// Package normalize cleans raw transcript page text into a single body
// bounded by the session-open and session-close markers. Normalization is a
// pure function of its input so re-running it over the same document always
// yields the same bytes, which in turn keeps statement fingerprints stable.
package normalize

import (
	"regexp"
	"strings"
)

// Default marker patterns. Transcripts open with a time-stamped convening
// line and close with a time-stamped adjournment line.
var (
	defaultOpenMarker  = regexp.MustCompile(`(?i)opened at \d{1,2}:\d{2}`)
	defaultCloseMarker = regexp.MustCompile(`(?i)adjourned at \d{1,2}:\d{2}`)
)

// defaultBoilerplate is the fixed distribution notice stamped into every
// published transcript.
const defaultBoilerplate = "This record is published for informational purposes and is not the authoritative text."

// Result carries the cleaned body and normalization diagnostics.
type Result struct {
	Text string

	// LowConfidence is set when no open marker was found and the input was
	// passed through unchanged. Downstream stages may still proceed but the
	// body likely contains front matter.
	LowConfidence bool
}

// Normalizer cleans extracted transcript text.
type Normalizer struct {
	openMarker  *regexp.Regexp
	closeMarker *regexp.Regexp
	boilerplate string

	// Lines repeated at least this often are treated as page headers.
	headerThreshold int
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithOpenMarker overrides the session-open marker pattern.
func WithOpenMarker(re *regexp.Regexp) Option {
	return func(n *Normalizer) {
		n.openMarker = re
	}
}

// WithCloseMarker overrides the session-close marker pattern.
func WithCloseMarker(re *regexp.Regexp) Option {
	return func(n *Normalizer) {
		n.closeMarker = re
	}
}

// WithBoilerplate overrides the fixed boilerplate phrase to strip.
func WithBoilerplate(phrase string) Option {
	return func(n *Normalizer) {
		n.boilerplate = phrase
	}
}

// WithHeaderThreshold overrides the repetition count at which a line is
// considered a page header. Must be at least 2.
func WithHeaderThreshold(count int) Option {
	return func(n *Normalizer) {
		if count >= 2 {
			n.headerThreshold = count
		}
	}
}

// New creates a Normalizer with the default markers.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		openMarker:      defaultOpenMarker,
		closeMarker:     defaultCloseMarker,
		boilerplate:     defaultBoilerplate,
		headerThreshold: 3,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize cleans raw extracted page text.
//
// The body is bounded by the first open-marker line and the last close-marker
// line (inclusive). Lines repeated often enough to be page headers are
// removed, as is the fixed boilerplate phrase. When no open marker exists the
// input is returned unchanged with LowConfidence set.
func (n *Normalizer) Normalize(raw string) Result {
	lines := strings.Split(raw, "\n")

	openIdx := -1
	closeIdx := -1
	for i, line := range lines {
		if openIdx == -1 && n.openMarker.MatchString(line) {
			openIdx = i
		}
		if n.closeMarker.MatchString(line) {
			closeIdx = i
		}
	}

	if openIdx == -1 {
		return Result{Text: raw, LowConfidence: true}
	}
	if closeIdx < openIdx {
		// No adjournment line after the opening; keep everything from the
		// opening onward.
		closeIdx = len(lines) - 1
	}
	body := lines[openIdx : closeIdx+1]

	headers := repeatedLines(body, n.headerThreshold)

	var cleaned []string
	for _, line := range body {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			cleaned = append(cleaned, "")
			continue
		}
		if headers[trimmed] {
			continue
		}
		if n.boilerplate != "" && strings.Contains(trimmed, n.boilerplate) {
			continue
		}
		cleaned = append(cleaned, trimmed)
	}

	return Result{Text: collapseBlank(cleaned)}
}

// repeatedLines returns the set of non-blank lines occurring at least
// threshold times.
func repeatedLines(lines []string, threshold int) map[string]bool {
	counts := make(map[string]int)
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		counts[trimmed]++
	}

	headers := make(map[string]bool)
	for line, count := range counts {
		if count >= threshold {
			headers[line] = true
		}
	}
	return headers
}

// collapseBlank joins lines, squeezing runs of blank lines down to one.
func collapseBlank(lines []string) string {
	var b strings.Builder
	blank := false
	wrote := false
	for _, line := range lines {
		if line == "" {
			blank = true
			continue
		}
		if wrote {
			b.WriteByte('\n')
			if blank {
				b.WriteByte('\n')
			}
		}
		b.WriteString(line)
		blank = false
		wrote = true
	}
	return b.String()
}
