// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/treesync/treesync/internal/issue"
	"github.com/treesync/treesync/internal/testutil"
	"github.com/treesync/treesync/pkg/cueutil"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if !slices.Equal(cfg.IgnoreGlobs(), []string{"**/.git", "**/.DS_Store"}) {
		t.Errorf("Ignore = %v", cfg.Ignore)
	}
	if cfg.Log.Level != LogLevelInfo || cfg.Log.Format != LogFormatText {
		t.Errorf("Log = %+v, want info/text", cfg.Log)
	}
	if cfg.UI.Verbose || cfg.UI.Properties {
		t.Errorf("UI = %+v, want all false", cfg.UI)
	}
	if valid, errs := cfg.IsValid(); !valid {
		t.Errorf("default config is invalid: %v", errs)
	}
}

func TestConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG lookup only applies on Linux")
	}

	t.Cleanup(testutil.MustSetenv(t, "XDG_CONFIG_HOME", "/tmp/xdg"))
	got, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error = %v", err)
	}
	if got != filepath.Join("/tmp/xdg", AppName) {
		t.Errorf("ConfigDir() = %q", got)
	}

	home := t.TempDir()
	t.Cleanup(testutil.MustUnsetenv(t, "XDG_CONFIG_HOME"))
	t.Cleanup(testutil.SetHomeDir(t, home))
	got, err = ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error = %v", err)
	}
	if got != filepath.Join(home, ".config", AppName) {
		t.Errorf("ConfigDir() = %q", got)
	}
}

func TestConfigDirOverride(t *testing.T) {
	t.Cleanup(Reset)

	SetConfigDirOverride("/custom/dir")
	got, err := ConfigDir()
	if err != nil || got != "/custom/dir" {
		t.Errorf("ConfigDir() = %q, %v", got, err)
	}

	Reset()
	if configDirOverride != "" {
		t.Errorf("Reset() kept override %q", configDirOverride)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{
		ConfigDirPath: t.TempDir(),
		ProjectDir:    t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Source != "" {
		t.Errorf("Source = %q, want empty", cfg.Source)
	}
	if cfg.Log.Level != LogLevelInfo || len(cfg.Ignore) != 2 {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoad_Precedence(t *testing.T) {
	t.Parallel()

	cfgDir := t.TempDir()
	projectDir := t.TempDir()
	explicit := filepath.Join(t.TempDir(), "custom.cue")

	writeFile(t, filepath.Join(cfgDir, "config.cue"), `log: level: "warn"`)
	writeFile(t, filepath.Join(projectDir, ProjectFileName), `log: level: "debug"`)
	writeFile(t, explicit, `log: level: "error"`)

	tests := []struct {
		name       string
		opts       LoadOptions
		wantLevel  LogLevel
		wantSource string
	}{
		{
			name:       "explicit file wins",
			opts:       LoadOptions{ConfigFilePath: explicit, ConfigDirPath: cfgDir, ProjectDir: projectDir},
			wantLevel:  LogLevelError,
			wantSource: explicit,
		},
		{
			name:       "project file before user file",
			opts:       LoadOptions{ConfigDirPath: cfgDir, ProjectDir: projectDir},
			wantLevel:  LogLevelDebug,
			wantSource: filepath.Join(projectDir, ProjectFileName),
		},
		{
			name:       "user file",
			opts:       LoadOptions{ConfigDirPath: cfgDir},
			wantLevel:  LogLevelWarn,
			wantSource: filepath.Join(cfgDir, "config.cue"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := NewProvider().Load(context.Background(), tt.opts)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.Log.Level != tt.wantLevel {
				t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, tt.wantLevel)
			}
			if cfg.Source != tt.wantSource {
				t.Errorf("Source = %q, want %q", cfg.Source, tt.wantSource)
			}
			if cfg.Log.Format != LogFormatText {
				t.Errorf("unset fields should keep defaults, Log.Format = %q", cfg.Log.Format)
			}
		})
	}
}

func TestLoad_FileValues(t *testing.T) {
	t.Parallel()

	projectDir := t.TempDir()
	writeFile(t, filepath.Join(projectDir, ProjectFileName), `
ignore: ["**/*.spec.lua", "Packages"]
log: {
	level:  "debug"
	format: "json"
}
ui: properties: true
`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir(), ProjectDir: projectDir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !slices.Equal(cfg.IgnoreGlobs(), []string{"**/*.spec.lua", "Packages"}) {
		t.Errorf("Ignore = %v", cfg.Ignore)
	}
	if cfg.Log.Format != LogFormatJSON || !cfg.UI.Properties || cfg.UI.Verbose {
		t.Errorf("Load() = %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "syntax", content: `log: {`, wantErr: cueutil.ErrSyntax},
		{name: "unknown level", content: `log: level: "verbose"`, wantErr: cueutil.ErrValidation},
		{name: "unknown field", content: `colour: "red"`, wantErr: cueutil.ErrValidation},
		{name: "wrong type", content: `ui: verbose: "yes"`, wantErr: cueutil.ErrValidation},
		{name: "bad glob", content: `ignore: ["a/[b"]`, wantErr: ErrInvalidIgnorePattern},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "config.cue")
			writeFile(t, path, tt.content)

			_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Load() error = %v, want %v", err, tt.wantErr)
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) || ae.Issue != issue.ConfigLoadFailedId {
				t.Errorf("error should be an ActionableError tagged ConfigLoadFailedId, got %T", err)
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "nope.cue")
	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: missing})
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("Load() error = %v, want not found", err)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewProvider().Load(ctx, LoadOptions{ConfigDirPath: t.TempDir()}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	projectDir := t.TempDir()
	writeFile(t, filepath.Join(projectDir, ProjectFileName), `log: level: "warn"`)

	t.Cleanup(testutil.MustSetenv(t, "TREESYNC_LOG_LEVEL", "debug"))
	t.Cleanup(testutil.MustSetenv(t, "TREESYNC_UI_VERBOSE", "true"))

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir(), ProjectDir: projectDir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != LogLevelDebug || !cfg.UI.Verbose {
		t.Errorf("env did not override file: %+v", cfg)
	}

	t.Cleanup(testutil.MustSetenv(t, "TREESYNC_LOG_FORMAT", "xml"))
	if _, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()}); !errors.Is(err, ErrInvalidLogFormat) {
		t.Errorf("Load() error = %v, want ErrInvalidLogFormat", err)
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	t.Parallel()

	want := &Config{
		Ignore: []IgnorePattern{"**/.git", "Packages/**"},
		Log:    LogConfig{Level: LogLevelWarn, Format: LogFormatLogfmt},
		UI:     UIConfig{Verbose: true, Properties: true},
	}

	path := filepath.Join(t.TempDir(), ProjectFileName)
	writeFile(t, path, GenerateCUE(want))

	got, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("Load() error = %v\n%s", err, GenerateCUE(want))
	}
	if !slices.Equal(got.Ignore, want.Ignore) || got.Log != want.Log || got.UI != want.UI {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.cue")
	created, err := CreateDefaultConfig(path)
	if err != nil || !created {
		t.Fatalf("CreateDefaultConfig() = %v, %v", created, err)
	}

	writeFile(t, path, `log: level: "error"`)
	created, err = CreateDefaultConfig(path)
	if err != nil || created {
		t.Fatalf("second CreateDefaultConfig() = %v, %v, want no write", created, err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != `log: level: "error"` {
		t.Errorf("existing file was overwritten: %q", data)
	}
}

func TestConfigFilePath(t *testing.T) {
	t.Cleanup(Reset)
	SetConfigDirOverride("/custom/treesync")

	got, err := ConfigFilePath()
	if err != nil || got != filepath.Join("/custom/treesync", "config.cue") {
		t.Errorf("ConfigFilePath() = %q, %v", got, err)
	}
}
