// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

const testSchema = `
#Doc: {
	count?: int
	label?: string
}
`

type testDoc struct {
	Count int    `json:"count"`
	Label string `json:"label"`
}

func TestCompile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		data       string
		json       bool
		wantSyntax bool
		wantSchema bool
	}{
		{name: "valid json", data: `{"count": 1, "label": "x"}`, json: true},
		{name: "valid cue", data: "count: 1\nlabel: \"x\"\n"},
		{name: "trailing comma in json", data: `{"count": 1,}`, json: true, wantSyntax: true},
		{name: "comment in json", data: "// note\n{\"count\": 1}", json: true, wantSyntax: true},
		{name: "truncated json", data: `{"count": `, json: true, wantSyntax: true},
		{name: "empty json", data: ``, json: true, wantSyntax: true},
		{name: "wrong type", data: `{"count": "many"}`, json: true, wantSchema: true},
		{name: "unknown field", data: `{"extra": true}`, json: true, wantSchema: true},
		{name: "not an object", data: `[1, 2]`, json: true, wantSchema: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			opts := []Option{WithFilename("doc.json")}
			if tt.json {
				opts = append(opts, WithJSON())
			}
			_, err := Compile([]byte(testSchema), []byte(tt.data), "#Doc", opts...)

			switch {
			case tt.wantSyntax:
				var syntaxErr *SyntaxError
				if !errors.As(err, &syntaxErr) || !errors.Is(err, ErrSyntax) {
					t.Fatalf("Compile() error = %v, want SyntaxError", err)
				}
				if syntaxErr.FilePath != "doc.json" {
					t.Errorf("FilePath = %q, want doc.json", syntaxErr.FilePath)
				}
			case tt.wantSchema:
				var valErr *ValidationError
				if !errors.As(err, &valErr) || !errors.Is(err, ErrValidation) {
					t.Fatalf("Compile() error = %v, want ValidationError", err)
				}
				if len(valErr.Issues) == 0 {
					t.Errorf("ValidationError has no issues")
				}
				if !strings.HasPrefix(err.Error(), "doc.json: ") {
					t.Errorf("Error() = %q, want doc.json prefix", err.Error())
				}
			default:
				if err != nil {
					t.Fatalf("Compile() error = %v", err)
				}
			}
		})
	}
}

func TestCompile_IssuePath(t *testing.T) {
	t.Parallel()

	_, err := Compile([]byte(testSchema), []byte(`{"count": "many"}`), "#Doc", WithJSON())
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("Compile() error = %v, want ValidationError", err)
	}
	if valErr.Issues[0].Path != "count" {
		t.Errorf("Issues[0].Path = %q, want count", valErr.Issues[0].Path)
	}
	if strings.Contains(err.Error(), "#Doc") {
		t.Errorf("Error() = %q, leaks the schema definition name", err.Error())
	}
	if !strings.HasPrefix(err.Error(), "<input>: count: ") {
		t.Errorf("Error() = %q, want <input>: count: prefix", err.Error())
	}
}

func TestCompile_PreservesFieldOrder(t *testing.T) {
	t.Parallel()

	schema := `#M: {[string]: int}`
	res, err := Compile([]byte(schema), []byte(`{"z": 1, "a": 2, "m": 3}`), "#M", WithJSON())
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	iter, err := res.Unified.Fields()
	if err != nil {
		t.Fatalf("Fields() error = %v", err)
	}
	var got []string
	for iter.Next() {
		got = append(got, iter.Selector().Unquoted())
	}
	if strings.Join(got, ",") != "z,a,m" {
		t.Errorf("field order = %v, want [z a m]", got)
	}
}

func TestCompile_MaxFileSize(t *testing.T) {
	t.Parallel()

	_, err := Compile([]byte(testSchema), []byte(`{"count": 1}`), "#Doc", WithJSON(), WithMaxFileSize(4), WithFilename("doc.json"))
	var sizeErr *FileSizeError
	if !errors.As(err, &sizeErr) || !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("Compile() error = %v, want FileSizeError", err)
	}
	if sizeErr.FilePath != "doc.json" || sizeErr.Size != 12 || sizeErr.Limit != 4 {
		t.Errorf("FileSizeError = %+v", sizeErr)
	}
	if errors.Is(err, ErrValidation) || errors.Is(err, ErrSyntax) {
		t.Errorf("size error also matches a syntax or validation sentinel")
	}
}

func TestCompile_MissingDefinition(t *testing.T) {
	t.Parallel()

	_, err := Compile([]byte(testSchema), []byte(`{}`), "#Nope", WithJSON())
	if err == nil || !strings.Contains(err.Error(), "internal error") {
		t.Errorf("Compile() error = %v, want internal error", err)
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	doc, err := Decode[testDoc]([]byte(testSchema), []byte(`{"count": 2, "label": "two"}`), "#Doc", WithJSON())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if doc.Count != 2 || doc.Label != "two" {
		t.Errorf("Decode() = %+v", doc)
	}
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path []string
		want string
	}{
		{path: nil, want: ""},
		{path: []string{"log", "level"}, want: "log.level"},
		{path: []string{"ignore", "0"}, want: "ignore[0]"},
		{path: []string{"a", "2", "b"}, want: "a[2].b"},
		{path: []string{"0"}, want: "0"},
	}

	for _, tt := range tests {
		if got := formatPath(tt.path); got != tt.want {
			t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestDropDefinition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path []string
		want string
	}{
		{path: nil, want: ""},
		{path: []string{"#InstanceMetadata", "kind"}, want: "kind"},
		{path: []string{"#Config", "ignore", "0"}, want: "ignore[0]"},
		{path: []string{"#Config"}, want: ""},
		{path: []string{"properties", "Size"}, want: "properties.Size"},
	}

	for _, tt := range tests {
		if got := formatPath(dropDefinition(tt.path)); got != tt.want {
			t.Errorf("formatPath(dropDefinition(%v)) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
