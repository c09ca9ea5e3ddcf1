package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"gallery-indexer/internal/logging"

	"github.com/gorilla/mux"
)

// GetManifest serves the manifest file. Served with no-cache so a watch
// session's rebuilds are picked up on reload.
func (s *Server) GetManifest(w http.ResponseWriter, r *http.Request) {
	if _, err := os.Stat(s.cfg.AbsOutputFile); err != nil {
		if os.IsNotExist(err) {
			writeJSONError(w, "Manifest not generated yet", http.StatusNotFound)
		} else {
			logging.Error("Failed to stat manifest %s: %v", s.cfg.AbsOutputFile, err)
			writeJSONError(w, "Failed to access manifest", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFile(w, r, s.cfg.AbsOutputFile)
}

// ServeImage serves one file from the image tree.
func (s *Server) ServeImage(w http.ResponseWriter, r *http.Request) {
	s.serveTree(w, r, s.cfg.AbsImageDir)
}

// ServeThumb serves one file from the thumbnail tree.
func (s *Server) ServeThumb(w http.ResponseWriter, r *http.Request) {
	s.serveTree(w, r, s.cfg.AbsThumbDir)
}

func (s *Server) serveTree(w http.ResponseWriter, r *http.Request, root string) {
	rel := requestPath(r)
	if rel == "" {
		http.Error(w, "Path is required", http.StatusBadRequest)
		return
	}

	fullPath := filepath.Join(root, filepath.FromSlash(rel))

	// Security check
	absPath, err := filepath.Abs(fullPath)
	if err != nil || !isSubPath(root, absPath) {
		logging.Warn("Rejected request outside %s: %q", root, rel)
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "File not found", http.StatusNotFound)
		} else {
			logging.Error("Failed to stat %s: %v", absPath, err)
			http.Error(w, "Failed to access file", http.StatusInternalServerError)
		}
		return
	}
	if info.IsDir() {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	// Revalidation over caching: images can change between runs during
	// a watch session, and 304s are cheap on localhost.
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFile(w, r, absPath)
}

// requestPath extracts the tree-relative path from a routed request,
// falling back to the URL path for catch-all mounts.
func requestPath(r *http.Request) string {
	if rel, ok := mux.Vars(r)["path"]; ok {
		return rel
	}
	return strings.TrimPrefix(r.URL.Path, "/")
}

// isSubPath reports whether child is parent or lies inside it. A bare
// string prefix is not enough: /data/images-private must not pass for
// parent /data/images.
func isSubPath(parent, child string) bool {
	parent, err := filepath.Abs(parent)
	if err != nil {
		return false
	}
	child, err = filepath.Abs(child)
	if err != nil {
		return false
	}
	if child == parent {
		return true
	}
	return strings.HasPrefix(child, parent+string(filepath.Separator))
}
