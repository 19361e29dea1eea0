package site

import (
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/patagonia-pages/bookpage/internal/static"
)

// handleStatic serves embedded assets. Fingerprinted names are immutable
// and cached for a year; source names revalidate.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	name := path.Clean("/" + chi.URLParam(r, "*"))
	name = strings.TrimPrefix(name, "/")

	source, fingerprinted := s.manifest.Source(name)
	if !fingerprinted {
		if !s.manifest.Has(name) {
			http.NotFound(w, r)
			return
		}
		source = name
	}

	f, err := s.static.Open(source)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	rs, ok := f.(io.ReadSeeker)
	if !ok {
		data, err := fs.ReadFile(s.static, source)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		rs = strings.NewReader(string(data))
	}

	w.Header().Set("Content-Type", static.ContentType(source))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if fingerprinted {
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	} else {
		w.Header().Set("Cache-Control", "public, max-age=3600, must-revalidate")
	}
	// Embedded files have no modification time.
	http.ServeContent(w, r, source, time.Time{}, rs)
}
