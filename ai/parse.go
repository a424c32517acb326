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
	"encoding/json"
	"fmt"
	"strings"
)

// wireStatement matches the statement schema the model is instructed to emit.
type wireStatement struct {
	SpeakerName    string   `json:"speaker_name"`
	Text           string   `json:"text"`
	SentimentScore *float64 `json:"sentiment_score"`
	Reason         string   `json:"reason"`
	PolicyTags     []string `json:"policy_tags"`
}

// wireSegment matches the discussion segment schema.
type wireSegment struct {
	BillName      string          `json:"bill_name"`
	MainCategory  string          `json:"main_category"`
	SubCategories []string        `json:"sub_categories"`
	Keywords      []string        `json:"keywords"`
	Statements    []wireStatement `json:"statements"`
}

// wireDocument is the top-level response object.
type wireDocument struct {
	DiscussionSegments []wireSegment `json:"discussion_segments"`
}

// ParseSegments decodes raw model output into discussion segments.
//
// Optional markdown code fences are stripped and common LLM JSON defects
// repaired before decoding. Any missing required key rejects the whole
// document: a response that cannot be trusted in part is not trusted at all.
// Out-of-range sentiment scores are dropped (ScoreValid false) rather than
// clamped.
func ParseSegments(raw string) ([]Segment, error) {
	text := stripFences(raw)
	text = repairJSON(text)

	var doc wireDocument
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, &ParseError{Prefix: payloadPrefix(text), Err: err}
	}
	if doc.DiscussionSegments == nil {
		return nil, &ParseError{
			Prefix: payloadPrefix(text),
			Err:    fmt.Errorf("missing required key %q", "discussion_segments"),
		}
	}

	segments := make([]Segment, 0, len(doc.DiscussionSegments))
	for i, ws := range doc.DiscussionSegments {
		if strings.TrimSpace(ws.BillName) == "" {
			return nil, &ParseError{
				Prefix: payloadPrefix(text),
				Err:    fmt.Errorf("segment %d: missing required key %q", i, "bill_name"),
			}
		}

		segment := Segment{
			BillName: strings.TrimSpace(ws.BillName),
			Classification: PolicyClassification{
				MainCategory:  strings.TrimSpace(ws.MainCategory),
				SubCategories: ws.SubCategories,
				Keywords:      ws.Keywords,
			},
		}

		for j, wst := range ws.Statements {
			if strings.TrimSpace(wst.SpeakerName) == "" {
				return nil, &ParseError{
					Prefix: payloadPrefix(text),
					Err:    fmt.Errorf("segment %d statement %d: missing required key %q", i, j, "speaker_name"),
				}
			}
			if strings.TrimSpace(wst.Text) == "" {
				return nil, &ParseError{
					Prefix: payloadPrefix(text),
					Err:    fmt.Errorf("segment %d statement %d: missing required key %q", i, j, "text"),
				}
			}

			statement := ExtractedStatement{
				SpeakerName: strings.TrimSpace(wst.SpeakerName),
				Text:        strings.TrimSpace(wst.Text),
				Reason:      strings.TrimSpace(wst.Reason),
				PolicyTags:  wst.PolicyTags,
			}
			if wst.SentimentScore != nil {
				score := *wst.SentimentScore
				if score >= -1 && score <= 1 {
					statement.Score = score
					statement.ScoreValid = true
				}
			}
			segment.Statements = append(segment.Statements, statement)
		}

		segments = append(segments, segment)
	}
	return segments, nil
}

// stripFences removes an optional markdown code fence around the payload.
func stripFences(raw string) string {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
