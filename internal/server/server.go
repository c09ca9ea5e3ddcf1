package server

import (
	"context"
	"path"
	"path/filepath"
	"strings"
	"time"

	"gallery-indexer/internal/index"
	"gallery-indexer/internal/indexer"
	"gallery-indexer/internal/memory"
)

// Config carries the directory layout the preview routes mirror. The
// relative ImageDir and ThumbDir values double as URL prefixes, so the
// served tree matches the paths recorded in the manifest.
type Config struct {
	ImageDir       string
	ThumbDir       string
	AbsImageDir    string
	AbsThumbDir    string
	AbsOutputFile  string
	ThumbsEnabled  bool
	MetricsEnabled bool
}

// Server exposes the manifest, the image trees, and the observability
// endpoints over HTTP.
type Server struct {
	cfg       Config
	idx       *indexer.Indexer
	ix        *index.Index    // nil when the run index is disabled
	mon       *memory.Monitor // nil when memory monitoring is disabled
	baseCtx   context.Context
	startTime time.Time
}

// New creates a preview server. baseCtx bounds background runs started
// through the reindex endpoint, so shutdown cancels them.
func New(baseCtx context.Context, cfg Config, idx *indexer.Indexer, ix *index.Index, mon *memory.Monitor) *Server {
	return &Server{
		cfg:       cfg,
		idx:       idx,
		ix:        ix,
		mon:       mon,
		baseCtx:   baseCtx,
		startTime: time.Now(),
	}
}

// ManifestRoute is the URL path the manifest is served at: its base
// name under the site root, which is where a gallery page looks for it.
func (s *Server) ManifestRoute() string {
	return "/" + path.Base(filepath.ToSlash(s.cfg.AbsOutputFile))
}

// ImageRoute is the URL prefix of the full-size image tree, with a
// trailing slash. Empty when the configured image root resolves to the
// site root itself.
func (s *Server) ImageRoute() string { return routePrefix(s.cfg.ImageDir) }

// ThumbRoute is the URL prefix of the thumbnail tree.
func (s *Server) ThumbRoute() string { return routePrefix(s.cfg.ThumbDir) }

func routePrefix(dir string) string {
	p := strings.Trim(filepath.ToSlash(filepath.Clean(dir)), "/")
	if p == "." || p == "" {
		return ""
	}
	return "/" + p + "/"
}
