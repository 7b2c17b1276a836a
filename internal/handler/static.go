package handler

import (
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/rc397/FlavorMap/internal/static"
)

// fallback handles every request no route matched. GET and HEAD are served
// from the static bundle; any other method gets a JSON 404.
func (s *Server) fallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		s.writeError(w, http.StatusNotFound, msgNotFound)
		return
	}
	s.serveStatic(w, r)
}

// serveStatic streams the resolved file, or answers a bare 404 when the path
// is missing or escapes the asset root.
func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request) {
	if s.static == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	path, ok := s.static.Resolve(r.URL.Path)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	f, err := os.Open(path)
	if err != nil {
		s.logger.Warn("open static file failed", zap.String("path", path), zap.Error(err))
		w.WriteHeader(http.StatusNotFound)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		s.logger.Warn("stat static file failed", zap.String("path", path), zap.Error(err))
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", static.ContentType(path))
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
