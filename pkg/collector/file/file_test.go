package file

import (
	"strings"
	"testing"
	"testing/fstest"
)

func TestParser_GetMap(t *testing.T) {
	fsys := fstest.MapFS{
		"etc/os-release": {Data: []byte(`# comment
NAME="Ubuntu"
VERSION_ID='22.04'
PRETTY_NAME="Ubuntu 22.04.4 LTS"
MALFORMED
EMPTY=
`)},
	}

	tests := []struct {
		name string
		opts []Option
		want map[string]string
	}{
		{
			name: "trim and skip empty",
			opts: []Option{WithFS(fsys), WithVTrimChars(`"'`), WithSkipEmptyValues(true)},
			want: map[string]string{
				"NAME":        "Ubuntu",
				"VERSION_ID":  "22.04",
				"PRETTY_NAME": "Ubuntu 22.04.4 LTS",
			},
		},
		{
			name: "keep empty values",
			opts: []Option{WithFS(fsys)},
			want: map[string]string{
				"NAME":        `"Ubuntu"`,
				"VERSION_ID":  `'22.04'`,
				"PRETTY_NAME": `"Ubuntu 22.04.4 LTS"`,
				"MALFORMED":   "",
				"EMPTY":       "",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewParser(tt.opts...).GetMap("/etc/os-release")
			if err != nil {
				t.Fatalf("GetMap failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d keys, want %d: %v", len(got), len(tt.want), got)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("%s = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestParser_GetMapColonDelimiter(t *testing.T) {
	fsys := fstest.MapFS{
		"proc/meminfo": {Data: []byte("MemTotal:       16314876 kB\nMemAvailable:    8123456 kB\n")},
	}
	got, err := NewParser(WithFS(fsys), WithKVDelimiter(":")).GetMap("proc/meminfo")
	if err != nil {
		t.Fatalf("GetMap failed: %v", err)
	}
	if got["MemTotal"] != "16314876 kB" || got["MemAvailable"] != "8123456 kB" {
		t.Errorf("unexpected meminfo: %v", got)
	}
}

func TestParser_GetLines(t *testing.T) {
	fsys := fstest.MapFS{
		"table":   {Data: []byte("header a b\n\n row1 \n# not a comment here\nrow2\n")},
		"cmdline": {Data: []byte("nmap\x00-sS\x0010.0.0.0/8\x00")},
	}

	lines, err := NewParser(WithFS(fsys), WithSkipLines(1), WithSkipComments(false)).GetLines("table")
	if err != nil {
		t.Fatalf("GetLines failed: %v", err)
	}
	if strings.Join(lines, ",") != "row1,# not a comment here,row2" {
		t.Errorf("unexpected lines: %q", lines)
	}

	args, err := NewParser(WithFS(fsys), WithDelimiter("\x00")).GetLines("/cmdline")
	if err != nil {
		t.Fatalf("GetLines failed: %v", err)
	}
	if strings.Join(args, " ") != "nmap -sS 10.0.0.0/8" {
		t.Errorf("unexpected args: %q", args)
	}
}

func TestParser_Errors(t *testing.T) {
	fsys := fstest.MapFS{
		"big":    {Data: []byte(strings.Repeat("x", 64))},
		"binary": {Data: []byte{0xff, 0xfe, 0xfd}},
	}
	p := NewParser(WithFS(fsys), WithMaxSize(32))

	if _, err := p.GetLines(""); err == nil {
		t.Error("expected error for empty path")
	}
	if _, err := p.GetLines("missing"); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := p.GetLines("big"); err == nil {
		t.Error("expected error for oversized file")
	}
	if _, err := p.GetLines("binary"); err == nil {
		t.Error("expected error for invalid UTF-8")
	}
	if _, err := p.GetMap("missing"); err == nil {
		t.Error("expected GetMap error for missing file")
	}
}

func TestParser_Exists(t *testing.T) {
	p := NewParser(WithFS(fstest.MapFS{"usr/lib/os-release": {Data: []byte("ID=x")}}))
	if !p.Exists("/usr/lib/os-release") {
		t.Error("expected file to exist")
	}
	if p.Exists("/etc/os-release") {
		t.Error("expected file to be missing")
	}
}
