package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	cfg := DefaultConfig()
	dir, err := cacheDir(cfg)
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if !strings.HasSuffix(dir, appName) {
		t.Errorf("cacheDir() = %q, should end with %q", dir, appName)
	}

	cfg.Cache.Dir = "/tmp/layouts"
	if dir, _ := cacheDir(cfg); dir != "/tmp/layouts" {
		t.Errorf("cacheDir() = %q, want configured dir", dir)
	}
}

func TestCachePathCommand(t *testing.T) {
	dir := t.TempDir()
	out := captureOutput(t)

	if err := runCLI(t, "cache", "path", "--cache-dir", dir); err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != dir {
		t.Errorf("cache path = %q, want %q", got, dir)
	}
}

func TestCacheClearCommand(t *testing.T) {
	dir := t.TempDir()
	entry := filepath.Join(dir, "ab", "cdef.bin")
	if err := os.MkdirAll(filepath.Dir(entry), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(entry, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	captureOutput(t)

	if err := runCLI(t, "cache", "clear", "--cache-dir", dir); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if _, err := os.Stat(entry); !os.IsNotExist(err) {
		t.Errorf("entry still present after clear: %v", err)
	}
}

func TestCacheClearNoneBackend(t *testing.T) {
	out := captureOutput(t)
	if err := runCLI(t, "cache", "clear", "--cache-backend", "none"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out.String(), "nothing to clear") {
		t.Errorf("output = %q", out.String())
	}
}

// captureOutput redirects command output into a buffer for the test.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

// runCLI executes the root command with args, isolated from the user's
// config file and environment.
func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}
