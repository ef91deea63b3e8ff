package server

import (
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/net/http2"

	"kodi-localsubs-go/pkg/config"
	"kodi-localsubs-go/pkg/handlers/files"
	"kodi-localsubs-go/pkg/logging"
)

func startTestServer(t *testing.T, cfg *config.Config) string {
	t.Helper()

	if err := os.WriteFile(filepath.Join(cfg.Directory, "addons.xml"), []byte("<addons></addons>\n"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	log := logging.Discard()
	srv := New(cfg, log)
	files.NewHandler(cfg.Directory, log).RegisterRoutes(srv.Router())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ctx, ln) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-errc:
			if err != nil {
				t.Errorf("Serve() returned error: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Error("server did not stop")
		}
	})

	return "http://" + ln.Addr().String()
}

func TestServer_ServesRanges(t *testing.T) {
	cfg := &config.Config{Directory: t.TempDir(), ReadTimeout: 5 * time.Second}
	base := startTestServer(t, cfg)

	req, _ := http.NewRequest(http.MethodGet, base+"/addons.xml", nil)
	req.Header.Set("Range", "bytes=0-7")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusPartialContent {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusPartialContent)
	}
	if string(body) != "<addons>" {
		t.Errorf("body = %q, want <addons>", body)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestServer_RejectsOtherMethods(t *testing.T) {
	cfg := &config.Config{Directory: t.TempDir()}
	base := startTestServer(t, cfg)

	resp, err := http.Post(base+"/addons.xml", "text/plain", nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusMethodNotAllowed)
	}
}

func TestServer_H2C(t *testing.T) {
	cfg := &config.Config{Directory: t.TempDir(), H2CEnabled: true, CORSEnabled: true}
	base := startTestServer(t, cfg)

	client := &http.Client{
		Transport: &http2.Transport{
			AllowHTTP: true,
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctx, network, addr)
			},
		},
	}

	resp, err := client.Get(base + "/addons.xml")
	if err != nil {
		t.Fatalf("h2c request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.ProtoMajor != 2 {
		t.Errorf("proto = %s, want HTTP/2", resp.Proto)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Error("CORS header missing with CORS enabled")
	}
}
