package server

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gallery-indexer/internal/indexer"
	"gallery-indexer/internal/manifest"
	"gallery-indexer/internal/scanner"
	"gallery-indexer/internal/tags"
	"gallery-indexer/internal/thumbs"
)

// testEnv wires a real indexer (thumbnails disabled unless a generator
// is supplied) to a server over a temp directory layout.
type testEnv struct {
	srv      *Server
	idx      *indexer.Indexer
	imageDir string
	thumbDir string
	outFile  string
}

func newTestEnv(t *testing.T, gen *thumbs.Generator) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		imageDir: filepath.Join(dir, "images"),
		thumbDir: filepath.Join(dir, "thumbs"),
		outFile:  filepath.Join(dir, "images.json"),
	}
	if err := os.MkdirAll(env.imageDir, 0o755); err != nil {
		t.Fatal(err)
	}

	deriver, err := tags.NewDeriver(tags.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	env.idx = indexer.New(indexer.Config{
		ImageDir:    "images",
		ThumbDir:    "thumbs",
		AbsImageDir: env.imageDir,
		AbsThumbDir: env.thumbDir,
		Extensions:  scanner.DefaultExtensions,
	}, deriver, gen, manifest.NewWriter(env.outFile), nil, nil)

	env.srv = New(context.Background(), Config{
		ImageDir:      "images",
		ThumbDir:      "thumbs",
		AbsImageDir:   env.imageDir,
		AbsThumbDir:   env.thumbDir,
		AbsOutputFile: env.outFile,
		ThumbsEnabled: gen != nil,
	}, env.idx, nil, nil)
	return env
}

func (env *testEnv) seed(t *testing.T, rel string) {
	t.Helper()
	abs := filepath.Join(env.imageDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(abs, []byte("image bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func (env *testEnv) run(t *testing.T) {
	t.Helper()
	if _, err := env.idx.Run(context.Background()); err != nil {
		t.Fatalf("Index run failed: %v", err)
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("Condition not met before timeout")
}

func TestManifestRoute(t *testing.T) {
	env := newTestEnv(t, nil)

	if got := env.srv.ManifestRoute(); got != "/images.json" {
		t.Errorf("ManifestRoute() = %q, want /images.json", got)
	}
}

func TestRoutePrefix(t *testing.T) {
	tests := []struct {
		name string
		dir  string
		want string
	}{
		{"Simple directory", "images", "/images/"},
		{"Nested directory", "gallery/full", "/gallery/full/"},
		{"Trailing slash trimmed", "thumbs/", "/thumbs/"},
		{"Current directory", ".", ""},
		{"Empty", "", ""},
		{"Absolute path", "/data/photos", "/data/photos/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := routePrefix(tt.dir); got != tt.want {
				t.Errorf("routePrefix(%q) = %q, want %q", tt.dir, got, tt.want)
			}
		})
	}
}

func TestImageAndThumbRoutes(t *testing.T) {
	env := newTestEnv(t, nil)

	if got := env.srv.ImageRoute(); got != "/images/" {
		t.Errorf("ImageRoute() = %q, want /images/", got)
	}
	if got := env.srv.ThumbRoute(); got != "/thumbs/" {
		t.Errorf("ThumbRoute() = %q, want /thumbs/", got)
	}
}
