package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseTransportRoutes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []TransportRoute
	}{
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
		{
			name:  "single route with proxy",
			input: "{URL=github.com, PROXY=socks5://127.0.0.1:1080}",
			want: []TransportRoute{
				{URLPattern: "github.com", Proxy: "socks5://127.0.0.1:1080"},
			},
		},
		{
			name:  "multiple routes",
			input: "{URL=a.example, DIRECT=true}, {URL=b.example, DISABLE_SSL=true}",
			want: []TransportRoute{
				{URLPattern: "a.example", Direct: true},
				{URLPattern: "b.example", DisableSSL: true},
			},
		},
		{
			name:  "route without url is dropped",
			input: "{PROXY=http://proxy:3128}",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTransportRoutes(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d routes, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("route %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", "9090")
	t.Setenv("READ_TIMEOUT", "5")
	t.Setenv("SUBS_RECURSIVE", "false")
	t.Setenv("ADDON_DIRS", "a, b,,c")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Addr() != "127.0.0.1:9090" {
		t.Errorf("Addr() = %q, want 127.0.0.1:9090", cfg.Addr())
	}
	if cfg.ReadTimeout != 5*time.Second {
		t.Errorf("ReadTimeout = %v, want 5s", cfg.ReadTimeout)
	}
	if cfg.SubsRecursive {
		t.Error("SubsRecursive should be false")
	}
	if len(cfg.AddonDirs) != 3 || cfg.AddonDirs[2] != "c" {
		t.Errorf("AddonDirs = %v, want [a b c]", cfg.AddonDirs)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[server]
host = "localhost"
port = 8181
directory = "/srv/repo"
write_timeout = "2m"
h2c = true

[repo]
addon_dirs = ["service.subtitles.localfiles", "repository.localfiles"]

[kodi]
url = "http://kodi.lan:8080/jsonrpc"

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg := Defaults()
	if err := cfg.LoadFile(path); err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}

	if cfg.Host != "localhost" || cfg.Port != 8181 {
		t.Errorf("Addr() = %q, want localhost:8181", cfg.Addr())
	}
	if cfg.Directory != "/srv/repo" {
		t.Errorf("Directory = %q", cfg.Directory)
	}
	if cfg.WriteTimeout != 2*time.Minute {
		t.Errorf("WriteTimeout = %v, want 2m", cfg.WriteTimeout)
	}
	if !cfg.H2CEnabled {
		t.Error("H2CEnabled should be true")
	}
	if len(cfg.AddonDirs) != 2 {
		t.Errorf("AddonDirs = %v", cfg.AddonDirs)
	}
	if cfg.KodiURL != "http://kodi.lan:8080/jsonrpc" {
		t.Errorf("KodiURL = %q", cfg.KodiURL)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	// Untouched keys keep their defaults
	if cfg.RepoDir != "repo.localfiles" {
		t.Errorf("RepoDir = %q, want default", cfg.RepoDir)
	}
}

func TestLoadFile_InvalidDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[server]\nread_timeout = \"soon\"\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if err := Defaults().LoadFile(path); err == nil {
		t.Error("expected error for invalid duration")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if err := Defaults().LoadFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParse_FlagsWinOverFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PORT", "")
	t.Setenv("DIRECTORY", "")

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[server]\nport = 7000\ndirectory = \"from-file\"\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	args := []string{"-config", path, "-port", "7001", "extra"}
	cfg, rest, err := Parse("serve-repo", args, nil, ServerFlags)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if cfg.Port != 7001 {
		t.Errorf("Port = %d, want 7001 (flag)", cfg.Port)
	}
	if cfg.Directory != "from-file" {
		t.Errorf("Directory = %q, want from-file", cfg.Directory)
	}
	if len(rest) != 1 || rest[0] != "extra" {
		t.Errorf("rest = %v, want [extra]", rest)
	}
}

func TestRepoFlags_AddonDirList(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("ADDON_DIRS", "")

	cfg, _, err := Parse("build-repo", []string{"-addon-dir", "one,two"}, nil, RepoFlags)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(cfg.AddonDirs) != 2 || cfg.AddonDirs[0] != "one" || cfg.AddonDirs[1] != "two" {
		t.Errorf("AddonDirs = %v, want [one two]", cfg.AddonDirs)
	}
}
