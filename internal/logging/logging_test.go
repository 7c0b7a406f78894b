// SPDX-License-Identifier: MPL-2.0

package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    log.Level
		wantErr bool
	}{
		{in: "debug", want: log.DebugLevel},
		{in: "INFO", want: log.InfoLevel},
		{in: "", want: log.InfoLevel},
		{in: "warn", want: log.WarnLevel},
		{in: "error", want: log.ErrorLevel},
		{in: "trace", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidLevel) {
					t.Errorf("ParseLevel(%q) error = %v, want ErrInvalidLevel", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	if _, err := ParseFormat("xml"); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("ParseFormat(xml) error = %v", err)
	}
	if f, err := ParseFormat("json"); err != nil || f != log.JSONFormatter {
		t.Errorf("ParseFormat(json) = %v, %v", f, err)
	}
	if _, err := Parse("debug", "bogus"); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("Parse() error = %v", err)
	}
}

func TestNew_LevelFilter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&buf, Options{Level: log.WarnLevel, Formatter: log.LogfmtFormatter})
	logger.Info("hidden")
	logger.Warn("shown", "path", "src/init.lua")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record written at warn level:\n%s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "path=src/init.lua") {
		t.Errorf("warn record missing:\n%s", out)
	}
}

func TestNew_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&buf, Options{Level: log.DebugLevel, Formatter: log.JSONFormatter})
	logger.Debug("reconciling project", "scope", 3)

	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if rec["msg"] != "reconciling project" {
		t.Errorf("msg = %v", rec["msg"])
	}
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	logger := Discard()
	logger.Error("nothing")
	if logger.Enabled(t.Context(), slog.LevelError) {
		t.Errorf("Discard() logger is enabled for errors")
	}
}
