// Package files serves a directory tree over HTTP with single-range support.
package files

import (
	"io"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"kodi-localsubs-go/pkg/byterange"
	"kodi-localsubs-go/pkg/logging"
)

// contentTypes covers Kodi repository and subtitle artefacts that the
// platform MIME table may not know.
var contentTypes = map[string]string{
	".md5": "text/plain; charset=utf-8",
	".xml": "text/xml; charset=utf-8",
	".zip": "application/zip",
	".srt": "application/x-subrip",
	".vtt": "text/vtt; charset=utf-8",
	".ass": "text/x-ssa",
	".ssa": "text/x-ssa",
}

// Handler serves files below Root. Regular files get Range support;
// directories are delegated to http.FileServer.
type Handler struct {
	root string
	dirs http.Handler
	log  *logging.Logger
}

// NewHandler creates a Handler rooted at root.
func NewHandler(root string, log *logging.Logger) *Handler {
	return &Handler{
		root: root,
		dirs: http.FileServer(http.Dir(root)),
		log:  log.WithComponent("files"),
	}
}

// RegisterRoutes registers the file routes. "GET /" also matches HEAD.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("GET /", h)
}

// Resolve maps a URL path to a filesystem path under the root. The cleaned
// path can never climb above the root.
func (h *Handler) Resolve(urlPath string) string {
	clean := path.Clean("/" + urlPath)
	return filepath.Join(h.root, filepath.FromSlash(clean))
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	log := logging.FromContextOr(r.Context(), h.log)
	name := h.Resolve(r.URL.Path)

	f, err := os.Open(name)
	if err != nil {
		log.Debug("open failed", "file", name, "error", err)
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	if info.IsDir() {
		h.dirs.ServeHTTP(w, r)
		return
	}

	size := info.Size()
	header := w.Header()
	header.Set("Content-Type", ContentType(name))
	header.Set("Accept-Ranges", byterange.Unit)

	rangeHeader := r.Header.Get("Range")
	if rangeHeader == "" {
		header.Set("Content-Length", strconv.FormatInt(size, 10))
		w.WriteHeader(http.StatusOK)
		h.writeBody(w, r, f, size, log)
		return
	}

	rng, err := byterange.Parse(rangeHeader, size)
	if err != nil {
		log.Debug("rejected range", "range", rangeHeader, "size", size)
		header.Del("Content-Type")
		header.Set("Content-Range", byterange.UnsatisfiedContentRange(size))
		w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
		return
	}

	if _, err := f.Seek(rng.Start, io.SeekStart); err != nil {
		log.Error("seek failed", "file", name, "offset", rng.Start, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	header.Set("Content-Range", rng.ContentRange(size))
	header.Set("Content-Length", strconv.FormatInt(rng.Length(), 10))
	w.WriteHeader(http.StatusPartialContent)
	h.writeBody(w, r, f, rng.Length(), log)
}

func (h *Handler) writeBody(w http.ResponseWriter, r *http.Request, f *os.File, n int64, log *logging.Logger) {
	if r.Method == http.MethodHead {
		return
	}

	written, err := CopyRange(w, f, n)
	switch {
	case err != nil:
		log.Debug("transfer interrupted", "written", written, "expected", n, "error", err)
	case written < n:
		log.Debug("transfer truncated", "written", written, "expected", n)
	}
}

// ContentType guesses the MIME type from the file extension.
func ContentType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
