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

package file

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strings"
	"unicode/utf8"
)

// Option configures a Parser.
type Option func(*Parser)

// Parser reads delimited text files such as os-release or meminfo.
type Parser struct {
	fsys            fs.FS
	delimiter       string
	maxSize         int
	skipComments    bool
	skipLines       int
	kvDelimiter     string
	vTrimChars      string
	skipEmptyValues bool
}

// WithFS reads files from fsys instead of the host root. Paths given to
// GetLines and GetMap are then relative to fsys.
func WithFS(fsys fs.FS) Option {
	return func(p *Parser) {
		p.fsys = fsys
	}
}

// WithDelimiter sets the entry delimiter. Default is newline.
func WithDelimiter(delim string) Option {
	return func(p *Parser) {
		p.delimiter = delim
	}
}

// WithMaxSize sets the maximum file size in bytes. Default is 1MB.
func WithMaxSize(size int) Option {
	return func(p *Parser) {
		p.maxSize = size
	}
}

// WithSkipComments skips entries starting with '#'. Default is true.
func WithSkipComments(skip bool) Option {
	return func(p *Parser) {
		p.skipComments = skip
	}
}

// WithSkipLines drops the first n non-empty entries, e.g. a header row.
func WithSkipLines(n int) Option {
	return func(p *Parser) {
		p.skipLines = n
	}
}

// WithKVDelimiter sets the key-value delimiter used by GetMap. Default is "=".
func WithKVDelimiter(kvDelim string) Option {
	return func(p *Parser) {
		p.kvDelimiter = kvDelim
	}
}

// WithVTrimChars sets characters trimmed from both ends of values.
func WithVTrimChars(trimChars string) Option {
	return func(p *Parser) {
		p.vTrimChars = trimChars
	}
}

// WithSkipEmptyValues drops keys whose value is empty, including lines
// without a delimiter.
func WithSkipEmptyValues(skip bool) Option {
	return func(p *Parser) {
		p.skipEmptyValues = skip
	}
}

// NewParser creates a parser. Defaults: newline delimiter, 1MB max size,
// comments skipped, "=" key-value delimiter, host root filesystem.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		fsys:         os.DirFS("/"),
		delimiter:    "\n",
		maxSize:      1 << 20,
		skipComments: true,
		kvDelimiter:  "=",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetMap parses the file into key-value pairs. Lines without the delimiter
// map to an empty value unless empty values are skipped.
func (p *Parser) GetMap(name string) (map[string]string, error) {
	parts, err := p.GetLines(name)
	if err != nil {
		return nil, err
	}

	result := make(map[string]string, len(parts))
	for _, part := range parts {
		key, value, found := strings.Cut(part, p.kvDelimiter)
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if !found {
			slog.Debug("line without value", "line", part, "delimiter", p.kvDelimiter)
		}
		if p.vTrimChars != "" {
			value = strings.Trim(value, p.vTrimChars)
		}
		if p.skipEmptyValues && value == "" {
			continue
		}
		result[key] = value
	}
	return result, nil
}

// GetLines reads the file and returns its non-empty, trimmed entries.
// The file must be valid UTF-8 and no larger than the configured maximum.
func (p *Parser) GetLines(name string) ([]string, error) {
	if name == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}

	b, err := fs.ReadFile(p.fsys, p.clean(name))
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", name, err)
	}
	if len(b) > p.maxSize {
		return nil, fmt.Errorf("file %q exceeds maximum size of %d bytes", name, p.maxSize)
	}
	if !utf8.Valid(b) {
		return nil, fmt.Errorf("content of file %q is not valid UTF-8", name)
	}

	parts := strings.Split(string(b), p.delimiter)
	result := make([]string, 0, len(parts))
	skipped := 0
	for _, part := range parts {
		clean := strings.TrimSpace(part)
		if clean == "" {
			continue
		}
		if p.skipComments && strings.HasPrefix(clean, "#") {
			continue
		}
		if skipped < p.skipLines {
			skipped++
			continue
		}
		result = append(result, clean)
	}
	return result, nil
}

// Exists reports whether name exists in the parser's filesystem.
func (p *Parser) Exists(name string) bool {
	_, err := fs.Stat(p.fsys, p.clean(name))
	return err == nil
}

// clean turns absolute host paths into fs.FS paths.
func (p *Parser) clean(name string) string {
	return strings.TrimPrefix(path.Clean("/"+name), "/")
}
