package startup

import (
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
)

// configEnvKeys is every variable LoadConfig reads. Tests pin all of
// them so values leaking in from the host environment cannot change
// the outcome.
var configEnvKeys = []string{
	"IMAGE_DIR", "THUMB_DIR", "OUTPUT_FILE", "EXTENSIONS",
	"TAGS_ENABLED", "TAG_SEPARATORS", "FILTER_WEAK_TAGS",
	"THUMBNAILS_ENABLED", "THUMB_MAX_DIM", "THUMB_QUALITY",
	"FORCE_JPG", "OVERWRITE_THUMBS", "THUMBNAIL_ENGINE",
	"DATE_SOURCE", "INDEX_DB", "SERVE", "PORT", "METRICS_ENABLED",
	"WATCH", "WATCH_DEBOUNCE",
}

// setBaseEnv clears every config variable and points the three path
// variables at a fresh temp directory. Empty values read as unset.
func setBaseEnv(t *testing.T) string {
	t.Helper()
	for _, key := range configEnvKeys {
		t.Setenv(key, "")
	}
	dir := t.TempDir()
	t.Setenv("IMAGE_DIR", filepath.Join(dir, "images"))
	t.Setenv("THUMB_DIR", filepath.Join(dir, "thumbs"))
	t.Setenv("OUTPUT_FILE", filepath.Join(dir, "out", "images.json"))
	return dir
}

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()

	// Check that all fields are populated
	if info.Version == "" {
		t.Error("Expected Version to be set")
	}
	if info.GoVersion == "" {
		t.Error("Expected GoVersion to be set")
	}
	if info.OS == "" {
		t.Error("Expected OS to be set")
	}
	if info.Arch == "" {
		t.Error("Expected Arch to be set")
	}

	// Verify that runtime values are correct
	if info.GoVersion != GoVersion {
		t.Errorf("Expected GoVersion=%s, got %s", GoVersion, info.GoVersion)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := setBaseEnv(t)

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	wantExts := []string{"jpg", "jpeg", "png", "gif", "webp", "avif"}
	if !reflect.DeepEqual(config.Extensions, wantExts) {
		t.Errorf("Extensions = %v, want %v", config.Extensions, wantExts)
	}

	if !config.TagsEnabled {
		t.Error("Expected TagsEnabled=true by default")
	}
	if !config.FilterWeakTags {
		t.Error("Expected FilterWeakTags=true by default")
	}
	if !config.ThumbnailsEnabled {
		t.Error("Expected ThumbnailsEnabled=true by default")
	}
	if config.ThumbMaxDim != 400 {
		t.Errorf("ThumbMaxDim = %d, want 400", config.ThumbMaxDim)
	}
	if config.ThumbQuality != 85 {
		t.Errorf("ThumbQuality = %d, want 85", config.ThumbQuality)
	}
	if !config.ForceJPG {
		t.Error("Expected ForceJPG=true by default")
	}
	if config.OverwriteThumbs {
		t.Error("Expected OverwriteThumbs=false by default")
	}
	if config.Engine != "imaging" {
		t.Errorf("Engine = %q, want %q", config.Engine, "imaging")
	}
	if config.DateSource != DateSourceModTime {
		t.Errorf("DateSource = %q, want %q", config.DateSource, DateSourceModTime)
	}
	if config.IndexDB != "" {
		t.Errorf("IndexDB = %q, want empty (disabled)", config.IndexDB)
	}
	if config.Serve {
		t.Error("Expected Serve=false by default")
	}
	if config.Port != "8080" {
		t.Errorf("Port = %q, want %q", config.Port, "8080")
	}
	if !config.MetricsEnabled {
		t.Error("Expected MetricsEnabled=true by default")
	}
	if config.Watch {
		t.Error("Expected Watch=false by default")
	}
	if config.WatchDebounce != 2*time.Second {
		t.Errorf("WatchDebounce = %v, want 2s", config.WatchDebounce)
	}

	if !filepath.IsAbs(config.AbsImageDir) {
		t.Errorf("AbsImageDir %q is not absolute", config.AbsImageDir)
	}
	if !filepath.IsAbs(config.AbsThumbDir) {
		t.Errorf("AbsThumbDir %q is not absolute", config.AbsThumbDir)
	}
	if !filepath.IsAbs(config.AbsOutputFile) {
		t.Errorf("AbsOutputFile %q is not absolute", config.AbsOutputFile)
	}

	// LoadConfig creates the image, thumbnail and output directories.
	for _, sub := range []string{"images", "thumbs", "out"} {
		info, err := os.Stat(filepath.Join(dir, sub))
		if err != nil {
			t.Errorf("Expected %s directory to be created: %v", sub, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("Expected %s to be a directory", sub)
		}
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := setBaseEnv(t)
	t.Setenv("EXTENSIONS", " PNG , .Jpg ")
	t.Setenv("TAGS_ENABLED", "false")
	t.Setenv("TAG_SEPARATORS", "[,;]+")
	t.Setenv("FILTER_WEAK_TAGS", "false")
	t.Setenv("THUMB_MAX_DIM", "256")
	t.Setenv("THUMB_QUALITY", "70")
	t.Setenv("FORCE_JPG", "false")
	t.Setenv("OVERWRITE_THUMBS", "true")
	t.Setenv("THUMBNAIL_ENGINE", "vips")
	t.Setenv("DATE_SOURCE", "exif")
	t.Setenv("INDEX_DB", filepath.Join(dir, "idx", "gallery.db"))
	t.Setenv("SERVE", "true")
	t.Setenv("PORT", "9999")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("WATCH", "true")
	t.Setenv("WATCH_DEBOUNCE", "750ms")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if !reflect.DeepEqual(config.Extensions, []string{"png", "jpg"}) {
		t.Errorf("Extensions = %v, want [png jpg]", config.Extensions)
	}
	if config.TagsEnabled {
		t.Error("Expected TagsEnabled=false")
	}
	if config.TagSeparators != "[,;]+" {
		t.Errorf("TagSeparators = %q, want %q", config.TagSeparators, "[,;]+")
	}
	if config.FilterWeakTags {
		t.Error("Expected FilterWeakTags=false")
	}
	if config.ThumbMaxDim != 256 {
		t.Errorf("ThumbMaxDim = %d, want 256", config.ThumbMaxDim)
	}
	if config.ThumbQuality != 70 {
		t.Errorf("ThumbQuality = %d, want 70", config.ThumbQuality)
	}
	if config.ForceJPG {
		t.Error("Expected ForceJPG=false")
	}
	if !config.OverwriteThumbs {
		t.Error("Expected OverwriteThumbs=true")
	}
	if config.Engine != "vips" {
		t.Errorf("Engine = %q, want %q", config.Engine, "vips")
	}
	if config.DateSource != DateSourceEXIF {
		t.Errorf("DateSource = %q, want %q", config.DateSource, DateSourceEXIF)
	}
	if config.IndexDB == "" {
		t.Fatal("Expected IndexDB to be set")
	}
	if !filepath.IsAbs(config.IndexDB) {
		t.Errorf("IndexDB %q is not absolute", config.IndexDB)
	}
	if _, err := os.Stat(filepath.Join(dir, "idx")); err != nil {
		t.Errorf("Expected index database directory to be created: %v", err)
	}
	if !config.Serve {
		t.Error("Expected Serve=true")
	}
	if config.Port != "9999" {
		t.Errorf("Port = %q, want %q", config.Port, "9999")
	}
	if config.MetricsEnabled {
		t.Error("Expected MetricsEnabled=false")
	}
	if !config.Watch {
		t.Error("Expected Watch=true")
	}
	if config.WatchDebounce != 750*time.Millisecond {
		t.Errorf("WatchDebounce = %v, want 750ms", config.WatchDebounce)
	}
}

func TestLoadConfigInvalidValuesFallBack(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("THUMB_MAX_DIM", "0")
	t.Setenv("THUMB_QUALITY", "150")
	t.Setenv("DATE_SOURCE", "ctime")
	t.Setenv("WATCH_DEBOUNCE", "5ms")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if config.ThumbMaxDim != 400 {
		t.Errorf("ThumbMaxDim = %d, want fallback 400", config.ThumbMaxDim)
	}
	if config.ThumbQuality != 85 {
		t.Errorf("ThumbQuality = %d, want fallback 85", config.ThumbQuality)
	}
	if config.DateSource != DateSourceModTime {
		t.Errorf("DateSource = %q, want fallback %q", config.DateSource, DateSourceModTime)
	}
	if config.WatchDebounce != 2*time.Second {
		t.Errorf("WatchDebounce = %v, want fallback 2s", config.WatchDebounce)
	}
}

func TestLoadConfigUnparseableValuesFallBack(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("THUMB_QUALITY", "high")
	t.Setenv("TAGS_ENABLED", "not-a-bool")
	t.Setenv("WATCH_DEBOUNCE", "soon")
	t.Setenv("EXTENSIONS", " , ,, ")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if config.ThumbQuality != 85 {
		t.Errorf("ThumbQuality = %d, want fallback 85", config.ThumbQuality)
	}
	if !config.TagsEnabled {
		t.Error("Expected TagsEnabled to fall back to true")
	}
	if config.WatchDebounce != 2*time.Second {
		t.Errorf("WatchDebounce = %v, want fallback 2s", config.WatchDebounce)
	}
	wantExts := []string{"jpg", "jpeg", "png", "gif", "webp", "avif"}
	if !reflect.DeepEqual(config.Extensions, wantExts) {
		t.Errorf("Extensions = %v, want fallback defaults", config.Extensions)
	}
}

func TestLoadConfigRejectsThumbDirInsideImageRoot(t *testing.T) {
	dir := setBaseEnv(t)
	same := filepath.Join(dir, "pictures")
	t.Setenv("IMAGE_DIR", same)
	t.Setenv("THUMB_DIR", same)

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("Expected error when THUMB_DIR equals IMAGE_DIR")
	}
	if !strings.Contains(err.Error(), "THUMB_DIR") {
		t.Errorf("Expected error to mention THUMB_DIR, got: %v", err)
	}
}

func TestLoadConfigSameDirsAllowedWithThumbnailsOff(t *testing.T) {
	dir := setBaseEnv(t)
	same := filepath.Join(dir, "pictures")
	t.Setenv("IMAGE_DIR", same)
	t.Setenv("THUMB_DIR", same)
	t.Setenv("THUMBNAILS_ENABLED", "false")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if config.ThumbnailsEnabled {
		t.Error("Expected ThumbnailsEnabled=false")
	}
}

func TestLoadConfigDisablesThumbnailsWhenDirUnavailable(t *testing.T) {
	dir := setBaseEnv(t)

	// A file where the thumbnail directory should go makes MkdirAll
	// fail no matter who runs the test.
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("THUMB_DIR", blocker)

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if config.ThumbnailsEnabled {
		t.Error("Expected thumbnails to be disabled when the directory cannot be created")
	}
}

func TestLoadConfigDisablesIndexWhenDirUnavailable(t *testing.T) {
	dir := setBaseEnv(t)

	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("INDEX_DB", filepath.Join(blocker, "sub", "gallery.db"))

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if config.IndexDB != "" {
		t.Errorf("Expected IndexDB to be disabled, got %q", config.IndexDB)
	}
}

func TestLoadConfigFailsOnUnusableOutputDir(t *testing.T) {
	dir := setBaseEnv(t)

	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("OUTPUT_FILE", filepath.Join(blocker, "out", "images.json"))

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("Expected error when the output directory cannot be created")
	}
}

func TestParseExtensions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "Default list",
			input: DefaultExtensions,
			want:  []string{"jpg", "jpeg", "png", "gif", "webp", "avif"},
		},
		{
			name:  "Trims whitespace and dots, lowercases",
			input: " PNG , .Jpg ,  .WEBP",
			want:  []string{"png", "jpg", "webp"},
		},
		{
			name:  "Skips empty entries",
			input: "jpg,,png,",
			want:  []string{"jpg", "png"},
		},
		{
			name:  "Only separators",
			input: " , ,, ",
			want:  []string{},
		},
		{
			name:  "Empty string",
			input: "",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseExtensions(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseExtensions(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
		setEnv       bool
	}{
		{
			name:         "Returns default when env var not set",
			key:          "TEST_UNSET_VAR",
			defaultValue: "default",
			want:         "default",
			setEnv:       false,
		},
		{
			name:         "Returns env value when set",
			key:          "TEST_SET_VAR",
			defaultValue: "default",
			envValue:     "custom",
			want:         "custom",
			setEnv:       true,
		},
		{
			name:         "Empty env value falls back to default",
			key:          "TEST_EMPTY_VAR",
			defaultValue: "default",
			envValue:     "",
			want:         "default",
			setEnv:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.envValue)
			} else {
				// Ensure the variable is not set
				os.Unsetenv(tt.key)
				t.Cleanup(func() {
					os.Unsetenv(tt.key)
				})
			}

			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv(%q, %q) = %q, want %q", tt.key, tt.defaultValue, got, tt.want)
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		envValue     string
		defaultValue bool
		want         bool
		setEnv       bool
	}{
		{
			name:         "Returns default when env var not set",
			key:          "TEST_BOOL_UNSET",
			defaultValue: true,
			want:         true,
			setEnv:       false,
		},
		{
			name:         "Returns true when env var is 'true'",
			key:          "TEST_BOOL_TRUE",
			envValue:     "true",
			defaultValue: false,
			want:         true,
			setEnv:       true,
		},
		{
			name:         "Returns false when env var is 'false'",
			key:          "TEST_BOOL_FALSE",
			envValue:     "false",
			defaultValue: true,
			want:         false,
			setEnv:       true,
		},
		{
			name:         "Returns true when env var is '1'",
			key:          "TEST_BOOL_ONE",
			envValue:     "1",
			defaultValue: false,
			want:         true,
			setEnv:       true,
		},
		{
			name:         "Returns false when env var is '0'",
			key:          "TEST_BOOL_ZERO",
			envValue:     "0",
			defaultValue: true,
			want:         false,
			setEnv:       true,
		},
		{
			name:         "Returns default when env var is invalid",
			key:          "TEST_BOOL_INVALID",
			envValue:     "not-a-bool",
			defaultValue: true,
			want:         true,
			setEnv:       true,
		},
		{
			name:         "Returns default when env var is 'yes'",
			key:          "TEST_BOOL_YES",
			envValue:     "yes",
			defaultValue: false,
			want:         false,
			setEnv:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.envValue)
			}

			got := getEnvBool(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvBool(%q, %v) = %v, want %v (env: %q)", tt.key, tt.defaultValue, got, tt.want, tt.envValue)
			}
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		envValue     string
		defaultValue int
		want         int
		setEnv       bool
	}{
		{
			name:         "Returns default when env var not set",
			key:          "TEST_INT_UNSET",
			defaultValue: 42,
			want:         42,
			setEnv:       false,
		},
		{
			name:         "Parses integer value",
			key:          "TEST_INT_SET",
			envValue:     "256",
			defaultValue: 42,
			want:         256,
			setEnv:       true,
		},
		{
			name:         "Parses negative value",
			key:          "TEST_INT_NEG",
			envValue:     "-7",
			defaultValue: 42,
			want:         -7,
			setEnv:       true,
		},
		{
			name:         "Returns default when not a number",
			key:          "TEST_INT_INVALID",
			envValue:     "lots",
			defaultValue: 42,
			want:         42,
			setEnv:       true,
		},
		{
			name:         "Returns default when fractional",
			key:          "TEST_INT_FLOAT",
			envValue:     "1.5",
			defaultValue: 42,
			want:         42,
			setEnv:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.envValue)
			}

			got := getEnvInt(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvInt(%q, %d) = %d, want %d (env: %q)", tt.key, tt.defaultValue, got, tt.want, tt.envValue)
			}
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		envValue     string
		defaultValue time.Duration
		want         time.Duration
		setEnv       bool
	}{
		{
			name:         "Returns default when env var not set",
			key:          "TEST_DUR_UNSET",
			defaultValue: 2 * time.Second,
			want:         2 * time.Second,
			setEnv:       false,
		},
		{
			name:         "Parses duration value",
			key:          "TEST_DUR_SET",
			envValue:     "1m30s",
			defaultValue: 2 * time.Second,
			want:         90 * time.Second,
			setEnv:       true,
		},
		{
			name:         "Returns default when invalid",
			key:          "TEST_DUR_INVALID",
			envValue:     "whenever",
			defaultValue: 2 * time.Second,
			want:         2 * time.Second,
			setEnv:       true,
		},
		{
			name:         "Returns default when bare number",
			key:          "TEST_DUR_BARE",
			envValue:     "30",
			defaultValue: 2 * time.Second,
			want:         2 * time.Second,
			setEnv:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.envValue)
			}

			got := getEnvDuration(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvDuration(%q, %v) = %v, want %v (env: %q)", tt.key, tt.defaultValue, got, tt.want, tt.envValue)
			}
		})
	}
}

func TestEnsureDirectory(t *testing.T) {
	t.Run("Creates missing directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "newdir")
		if err := ensureDirectory(dir, "test"); err != nil {
			t.Fatalf("ensureDirectory() error: %v", err)
		}
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("Expected directory to exist: %v", err)
		}
		if !info.IsDir() {
			t.Error("Expected a directory")
		}
	})

	t.Run("Accepts existing directory", func(t *testing.T) {
		dir := t.TempDir()
		if err := ensureDirectory(dir, "test"); err != nil {
			t.Errorf("ensureDirectory() error: %v", err)
		}
	})

	t.Run("Rejects file at path", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := ensureDirectory(file, "test"); err == nil {
			t.Error("Expected error for a file path")
		}
	})
}

func TestTestWriteAccess(t *testing.T) {
	t.Run("Writable directory", func(t *testing.T) {
		if err := testWriteAccess(t.TempDir()); err != nil {
			t.Errorf("testWriteAccess() error: %v", err)
		}
	})

	t.Run("Nonexistent directory", func(t *testing.T) {
		if err := testWriteAccess(filepath.Join(t.TempDir(), "missing")); err == nil {
			t.Error("Expected error for missing directory")
		}
	})
}

func TestSetupOptionalDir(t *testing.T) {
	t.Run("Creates and reports ready", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "optional")
		if !setupOptionalDir(dir, "test") {
			t.Error("Expected setupOptionalDir to succeed")
		}
		if _, err := os.Stat(dir); err != nil {
			t.Errorf("Expected directory to exist: %v", err)
		}
	})

	t.Run("Reports unavailable when blocked by a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		if setupOptionalDir(file, "test") {
			t.Error("Expected setupOptionalDir to fail for a file path")
		}
	})
}

func TestEnabledString(t *testing.T) {
	if got := enabledString(true); got != "ENABLED" {
		t.Errorf("enabledString(true) = %q, want ENABLED", got)
	}
	if got := enabledString(false); got != "DISABLED" {
		t.Errorf("enabledString(false) = %q, want DISABLED", got)
	}
}

func TestGetRoutes(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/healthz", func(_ http.ResponseWriter, _ *http.Request) {}).Methods("GET")
	router.PathPrefix("/images/").Handler(http.NotFoundHandler())

	routes, err := GetRoutes(router)
	if err != nil {
		t.Fatalf("GetRoutes() error: %v", err)
	}

	var foundHealth, foundImages bool
	for _, route := range routes {
		if route.Path == "/healthz" && route.Method == "GET" {
			foundHealth = true
		}
		if route.Path == "/images/" && route.Method == "*" {
			foundImages = true
		}
	}
	if !foundHealth {
		t.Error("Expected GET /healthz in route list")
	}
	if !foundImages {
		t.Error("Expected * /images/ in route list")
	}
}

func TestLogRunSummary(_ *testing.T) {
	// Should not panic
	LogRunSummary(RunSummary{
		Files:           3,
		ByExtension:     map[string]int{"jpg": 2, "png": 1},
		ThumbsEnabled:   true,
		ThumbsCreated:   2,
		ThumbsSkipped:   1,
		ManifestPath:    "images.json",
		ManifestWritten: true,
		Duration:        1234 * time.Millisecond,
	})
}

func TestLogRunSummaryEmpty(_ *testing.T) {
	// Should not panic
	LogRunSummary(RunSummary{})
}

func TestLogServerStarted(_ *testing.T) {
	// Should not panic
	LogServerStarted(ServerConfig{
		Port:            "8080",
		MetricsEnabled:  true,
		ManifestName:    "images.json",
		StartupDuration: 100 * time.Millisecond,
	})
}

func TestLogShutdownSequence(_ *testing.T) {
	// Should not panic
	LogShutdownInitiated("SIGTERM")
	LogShutdownStep("Stopping watcher")
	LogShutdownStepComplete("Watcher stopped")
	LogShutdownComplete()
}

func BenchmarkGetEnv(b *testing.B) {
	b.Setenv("BENCH_TEST_VAR", "test-value")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = getEnv("BENCH_TEST_VAR", "default")
	}
}

func BenchmarkParseExtensions(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = parseExtensions(DefaultExtensions)
	}
}
