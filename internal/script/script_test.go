package script

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/edvik/inkwell/internal/config"
)

func writeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "init.lua")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestRunInitMissingFileIsNoop(t *testing.T) {
	cfg := config.Default()
	err := RunInit(cfg, filepath.Join(t.TempDir(), "init.lua"))
	if err != nil {
		t.Fatalf("RunInit() error = %v", err)
	}
	if *cfg != *config.Default() {
		t.Errorf("config = %+v, want defaults", cfg)
	}
}

func TestRunInitAppliesOverrides(t *testing.T) {
	cfg := config.Default()
	path := writeScript(t, `
inkwell.set("editor.quit-confirmations", 1)
inkwell.set("theme.match-bg", "cyan")
`)

	if err := RunInit(cfg, path); err != nil {
		t.Fatalf("RunInit() error = %v", err)
	}
	if cfg.Editor.QuitConfirmations != 1 {
		t.Errorf("quit confirmations = %d, want 1", cfg.Editor.QuitConfirmations)
	}
	if cfg.Theme.MatchBG != "cyan" {
		t.Errorf("match background = %q, want %q", cfg.Theme.MatchBG, "cyan")
	}
}

func TestRunInitComputesFromCurrentValues(t *testing.T) {
	cfg := config.Default()
	path := writeScript(t, `
local n = inkwell.get("editor.quit-confirmations")
inkwell.set("editor.quit-confirmations", n + 1)
if inkwell.get("bogus.key") == nil then
  inkwell.set("log.level", "debug")
end
`)

	if err := RunInit(cfg, path); err != nil {
		t.Fatalf("RunInit() error = %v", err)
	}
	if cfg.Editor.QuitConfirmations != 4 {
		t.Errorf("quit confirmations = %d, want 4", cfg.Editor.QuitConfirmations)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q, want %q", cfg.Log.Level, "debug")
	}
}

func TestRunInitUnknownKeyFailsLate(t *testing.T) {
	cfg := config.Default()
	path := writeScript(t, `
inkwell.set("editor.quit-confirmations", 9)
inkwell.set("editor.does-not-exist", 1)
`)

	err := RunInit(cfg, path)
	if err == nil {
		t.Fatalf("RunInit() expected error for unknown key")
	}
	// Statements before the failure stay applied.
	if cfg.Editor.QuitConfirmations != 9 {
		t.Errorf("quit confirmations = %d, want 9", cfg.Editor.QuitConfirmations)
	}
}

func TestRunInitSyntaxErrorReported(t *testing.T) {
	cfg := config.Default()
	path := writeScript(t, "this is not lua")

	if err := RunInit(cfg, path); err == nil {
		t.Fatalf("RunInit() expected parse error")
	}
}

func TestRunInitSandboxHidesSystemAccess(t *testing.T) {
	for _, src := range []string{
		`io.open("/tmp/x", "w")`,
		`os.execute("true")`,
		`dofile("/etc/hostname")`,
		`load("return 1")()`,
	} {
		cfg := config.Default()
		path := writeScript(t, src)
		if err := RunInit(cfg, path); err == nil {
			t.Errorf("RunInit(%q) expected sandbox error", src)
		} else if !strings.Contains(err.Error(), "init.lua") {
			t.Errorf("RunInit(%q) error %q does not name the script", src, err)
		}
	}
}
