package app

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/five82/grocy-tui/internal/config"
	"github.com/five82/grocy-tui/internal/grocy"
	"github.com/five82/grocy-tui/internal/grocy/grocytest"
	"github.com/five82/grocy-tui/internal/prefs"
)

func TestFetch(t *testing.T) {
	srv := grocytest.New(t)
	srv.Seed(grocy.KindQuantityUnits,
		grocy.QuantityUnit{ID: 1, Name: "Piece"},
		grocy.QuantityUnit{ID: 2, Name: "Box"})
	srv.Seed(grocy.KindQuantityUnitConversions,
		grocy.QuantityUnitConversion{ID: 1, FromQuID: 2, ToQuID: 1, Factor: 6})

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	content := "server_url = \"" + srv.URL + "\"\napi_key = \"" + grocytest.APIKey + "\"\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(config.APIKeyEnv, "")

	snap, cfg, err := Fetch(context.Background(), cfgPath, grocy.KindQuantityUnits, grocy.KindQuantityUnitConversions)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if cfg.ServerURL != srv.URL {
		t.Errorf("ServerURL = %q, want %q", cfg.ServerURL, srv.URL)
	}
	if len(snap.Units) != 2 || snap.Units[1].Name != "Box" {
		t.Errorf("Units = %+v", snap.Units)
	}
	if len(snap.Conversions) != 1 || snap.Conversions[0].Factor != 6 {
		t.Errorf("Conversions = %+v", snap.Conversions)
	}
}

func TestFetchBadKey(t *testing.T) {
	srv := grocytest.New(t)

	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	content := "server_url = \"" + srv.URL + "\"\napi_key = \"wrong\"\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(config.APIKeyEnv, "")

	if _, _, err := Fetch(context.Background(), cfgPath, grocy.KindQuantityUnits); err == nil {
		t.Fatal("Fetch() with a wrong key should fail")
	}
}

func TestOpenLogger(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "grocy-tui.log")
	cfg := config.Config{LogFile: logPath, LogLevel: "warn"}

	logger, closeLog, err := openLogger(cfg)
	if err != nil {
		t.Fatalf("openLogger() error = %v", err)
	}
	logger.Info("dropped")
	logger.Warn("kept", "request_id", "abc")
	closeLog()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	got := string(data)
	if strings.Contains(got, "dropped") {
		t.Errorf("info line written at warn level: %q", got)
	}
	if !strings.Contains(got, "msg=kept") || !strings.Contains(got, "request_id=abc") {
		t.Errorf("log = %q", got)
	}
}

func TestLoadPrefsLogsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(path, []byte("theme = {{{\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	got := loadPrefs(path, logger)
	if got != prefs.Default() {
		t.Fatalf("loadPrefs = %+v, want defaults", got)
	}
	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, `msg="load preferences failed"`) {
		t.Errorf("log = %q, want a warning", out)
	}
	if !strings.Contains(out, "prefs.toml") {
		t.Errorf("log = %q, want the path", out)
	}

	buf.Reset()
	loadPrefs(filepath.Join(t.TempDir(), "missing.toml"), logger)
	if buf.Len() != 0 {
		t.Errorf("missing prefs file logged %q, want nothing", buf.String())
	}
}
