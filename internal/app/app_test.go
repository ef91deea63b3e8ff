package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"kodi-localsubs-go/pkg/config"
	"kodi-localsubs-go/pkg/logging"
)

func writeAddon(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(dir, "resources"), 0755); err != nil {
		t.Fatal(err)
	}
	addonXML := `<?xml version="1.0" encoding="UTF-8"?>
<addon id="service.subtitles.localfiles" name="Local Subtitles" version="0.3.1"/>
`
	if err := os.WriteFile(filepath.Join(dir, "addon.xml"), []byte(addonXML), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "default.py"), []byte("pass\n"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestApp_BuildServeVerify(t *testing.T) {
	work := t.TempDir()
	addonDir := filepath.Join(work, "service.subtitles.localfiles")
	repoDir := filepath.Join(work, "repo.localfiles")
	writeAddon(t, addonDir)

	cfg := config.Defaults()
	cfg.Directory = repoDir
	cfg.RepoDir = repoDir
	cfg.AddonDirs = []string{addonDir}

	a, err := NewWithLogger(cfg, logging.New("error", false, io.Discard))
	if err != nil {
		t.Fatalf("NewWithLogger() error: %v", err)
	}
	defer a.Shutdown()

	if a.Ctx.Player == nil || a.Ctx.Subtitles == nil || a.Ctx.HTTPClient == nil {
		t.Fatal("application context is not fully wired")
	}

	packages, err := a.BuildRepo()
	if err != nil {
		t.Fatalf("BuildRepo() error: %v", err)
	}
	if len(packages) != 1 || packages[0].Addon.Version != "0.3.1" {
		t.Fatalf("packages = %+v", packages)
	}

	server := httptest.NewServer(a.Server.Handler())
	defer server.Close()

	req, _ := http.NewRequest(http.MethodGet, server.URL+"/addons.xml", nil)
	req.Header.Set("Range", "bytes=0-4")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusPartialContent {
		t.Errorf("status = %d, want 206", resp.StatusCode)
	}
	if string(body) != "<?xml" {
		t.Errorf("body = %q, want <?xml", body)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID from middleware chain")
	}

	checks, err := a.VerifyRepo(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("VerifyRepo() error: %v", err)
	}
	if len(checks) != 2 {
		t.Errorf("got %d checks, want 2", len(checks))
	}
}

func TestNew_InvalidPort(t *testing.T) {
	cfg := config.Defaults()
	cfg.Port = 70000

	if _, err := NewWithLogger(cfg, logging.Discard()); err == nil {
		t.Error("expected error for out-of-range port")
	}
}
