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

import (
	"encoding/json"
	"fmt"
	"strings"
)

// resultCodeOK is the registry's success code prefix. Codes outside this
// family ("INFO-200" no data, "ERROR-xxx") are mapped to sentinel errors.
const resultCodeOK = "INFO-000"

// resultCodeNoData is returned when the query matched nothing.
const resultCodeNoData = "INFO-200"

// envelopeHead is the result-code section of a registry envelope.
type envelopeHead struct {
	ListTotalCount int `json:"list_total_count"`
	Result         struct {
		Code    string `json:"CODE"`
		Message string `json:"MESSAGE"`
	} `json:"RESULT"`
}

// decodeEnvelope extracts the row array from a registry response.
//
// The canonical shape nests everything under a single service key:
//
//	{"<service>": [{"head": [{...}, {"RESULT": {...}}]}, {"row": [...]}]}
//
// but some endpoints flatten the head or return a bare RESULT object on
// error, so each form is probed in turn before giving up.
func decodeEnvelope(data []byte, rows any) error {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("%w: %v", ErrEnvelope, err)
	}

	// Bare error form: {"RESULT": {"CODE": ..., "MESSAGE": ...}}
	if raw, ok := root["RESULT"]; ok {
		var head envelopeHead
		if err := json.Unmarshal(raw, &head.Result); err == nil && head.Result.Code != "" {
			return resultCodeError(head.Result.Code, head.Result.Message)
		}
	}

	for _, raw := range root {
		var sections []map[string]json.RawMessage
		if err := json.Unmarshal(raw, &sections); err != nil {
			continue
		}

		var rowRaw json.RawMessage
		var code, message string
		for _, section := range sections {
			if headRaw, ok := section["head"]; ok {
				code, message = decodeHead(headRaw)
			}
			if r, ok := section["row"]; ok {
				rowRaw = r
			}
		}

		if code != "" && !strings.HasPrefix(code, resultCodeOK) {
			return resultCodeError(code, message)
		}
		if rowRaw == nil {
			continue
		}
		if err := json.Unmarshal(rowRaw, rows); err != nil {
			return fmt.Errorf("%w: row decode: %v", ErrEnvelope, err)
		}
		return nil
	}

	return fmt.Errorf("%w: no row array found", ErrEnvelope)
}

// decodeHead pulls the result code out of a head section, which is itself a
// list of single-key objects.
func decodeHead(raw json.RawMessage) (code, message string) {
	var entries []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		// Flattened form: head is the result object directly.
		var head envelopeHead
		if err := json.Unmarshal(raw, &head); err == nil {
			return head.Result.Code, head.Result.Message
		}
		return "", ""
	}
	for _, entry := range entries {
		if resultRaw, ok := entry["RESULT"]; ok {
			var result struct {
				Code    string `json:"CODE"`
				Message string `json:"MESSAGE"`
			}
			if err := json.Unmarshal(resultRaw, &result); err == nil {
				return result.Code, result.Message
			}
		}
	}
	return "", ""
}

func resultCodeError(code, message string) error {
	if strings.HasPrefix(code, resultCodeNoData) {
		return fmt.Errorf("%w: %s %s", ErrNotFound, code, message)
	}
	return fmt.Errorf("%w: %s %s", ErrRegistryResult, code, message)
}
