// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package payload

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Document is a JSON object payload as persisted by the snapshot store.
// Accessors never fail: missing keys and values of the wrong shape yield
// zero values so partial or legacy payloads can still be read.
type Document map[string]any

// FromStruct converts v into a Document through its JSON encoding.
func FromStruct(v any) (Document, error) {
	if v == nil {
		return Document{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	doc := Document{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("payload is not a JSON object: %w", err)
	}
	return doc, nil
}

// Decode fills v from the document through its JSON encoding.
func (d Document) Decode(v any) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return nil
}

// AsDocument returns v as a Document when it is a JSON object, nil otherwise.
func AsDocument(v any) Document {
	switch m := v.(type) {
	case Document:
		return m
	case map[string]any:
		return Document(m)
	default:
		return nil
	}
}

// Map returns the object stored under key, or nil.
func (d Document) Map(key string) Document {
	return AsDocument(d[key])
}

// List returns the array stored under key, or nil.
func (d Document) List(key string) []any {
	switch l := d[key].(type) {
	case []any:
		return l
	case []map[string]any:
		out := make([]any, len(l))
		for i, m := range l {
			out[i] = m
		}
		return out
	default:
		return nil
	}
}

// String returns the scalar stored under key rendered as text. Missing,
// null and composite values yield "".
func (d Document) String(key string) string {
	return Text(d[key])
}

// Int returns the integral number stored under key. Floats with a
// fractional part, strings and booleans are rejected.
func (d Document) Int(key string) (int, bool) {
	return Integer(d[key])
}

// IntOr returns the integral number stored under key, or def.
func (d Document) IntOr(key string, def int) int {
	if v, ok := d.Int(key); ok {
		return v
	}
	return def
}

// Text renders a scalar JSON value as text.
func Text(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case int32:
		return strconv.FormatInt(int64(s), 10)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

// Integer converts an integral JSON number to int.
func Integer(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case int32:
		return int(n), true
	case float64:
		if math.IsInf(n, 0) || math.IsNaN(n) || n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}
