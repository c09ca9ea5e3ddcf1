package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"gallery-indexer/internal/logging"

	"github.com/gorilla/mux"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Date source values for manifest timestamps.
const (
	DateSourceModTime = "mtime"
	DateSourceEXIF    = "exif"
)

// Config holds all application configuration
type Config struct {
	// Paths exactly as configured. The manifest joins these with each
	// file's in-tree path, so "images" produces browser-friendly
	// entries like images/cats/cat1.jpg.
	ImageDir   string
	ThumbDir   string
	OutputFile string

	// Resolved absolute paths for filesystem work.
	AbsImageDir   string
	AbsThumbDir   string
	AbsOutputFile string

	// Extensions to index, lowercase without dots.
	Extensions []string

	// Tag derivation.
	TagsEnabled    bool
	TagSeparators  string
	FilterWeakTags bool

	// Thumbnails.
	ThumbnailsEnabled bool
	ThumbMaxDim       int
	ThumbQuality      int
	ForceJPG          bool
	OverwriteThumbs   bool
	Engine            string

	// DateSource selects where record timestamps come from.
	DateSource string

	// IndexDB is the run-index database file; empty disables it.
	IndexDB string

	// Preview server.
	Serve           bool
	Port            string
	MetricsEnabled  bool
	LogStaticFiles  bool
	LogHealthChecks bool

	// Watch mode.
	Watch         bool
	WatchDebounce time.Duration
}

// DefaultExtensions is the EXTENSIONS fallback.
const DefaultExtensions = "jpg,jpeg,png,gif,webp,avif"

// LoadConfig loads and validates configuration from environment
// variables, printing the startup banner and the full configuration as
// it goes.
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	imageDir := getEnv("IMAGE_DIR", "images")
	thumbDir := getEnv("THUMB_DIR", "thumbs")
	outputFile := getEnv("OUTPUT_FILE", "images.json")
	extensionsStr := getEnv("EXTENSIONS", DefaultExtensions)
	tagsEnabled := getEnvBool("TAGS_ENABLED", true)
	tagSeparators := getEnv("TAG_SEPARATORS", `[_\-\s\.]+`)
	filterWeakTags := getEnvBool("FILTER_WEAK_TAGS", true)
	thumbnailsEnabled := getEnvBool("THUMBNAILS_ENABLED", true)
	thumbMaxDim := getEnvInt("THUMB_MAX_DIM", 400)
	thumbQuality := getEnvInt("THUMB_QUALITY", 85)
	forceJPG := getEnvBool("FORCE_JPG", true)
	overwriteThumbs := getEnvBool("OVERWRITE_THUMBS", false)
	engine := getEnv("THUMBNAIL_ENGINE", "imaging")
	dateSource := getEnv("DATE_SOURCE", DateSourceModTime)
	indexDB := getEnv("INDEX_DB", "")
	serve := getEnvBool("SERVE", false)
	port := getEnv("PORT", "8080")
	metricsEnabled := getEnvBool("METRICS_ENABLED", true)
	logStaticFiles := getEnvBool("LOG_STATIC_FILES", false)
	logHealthChecks := getEnvBool("LOG_HEALTH_CHECKS", true)
	watch := getEnvBool("WATCH", false)
	watchDebounce := getEnvDuration("WATCH_DEBOUNCE", 2*time.Second)

	logging.Info("  IMAGE_DIR:           %s", imageDir)
	logging.Info("  THUMB_DIR:           %s", thumbDir)
	logging.Info("  OUTPUT_FILE:         %s", outputFile)
	logging.Info("  EXTENSIONS:          %s", extensionsStr)
	logging.Info("  TAGS_ENABLED:        %v", tagsEnabled)
	logging.Info("  TAG_SEPARATORS:      %s", tagSeparators)
	logging.Info("  FILTER_WEAK_TAGS:    %v", filterWeakTags)
	logging.Info("  THUMBNAILS_ENABLED:  %v", thumbnailsEnabled)
	logging.Info("  THUMB_MAX_DIM:       %d", thumbMaxDim)
	logging.Info("  THUMB_QUALITY:       %d", thumbQuality)
	logging.Info("  FORCE_JPG:           %v", forceJPG)
	logging.Info("  OVERWRITE_THUMBS:    %v", overwriteThumbs)
	logging.Info("  THUMBNAIL_ENGINE:    %s", engine)
	logging.Info("  DATE_SOURCE:         %s", dateSource)
	if indexDB != "" {
		logging.Info("  INDEX_DB:            %s", indexDB)
	} else {
		logging.Info("  INDEX_DB:            (disabled)")
	}
	logging.Info("  SERVE:               %v", serve)
	logging.Info("  PORT:                %s", port)
	logging.Info("  METRICS_ENABLED:     %v", metricsEnabled)
	logging.Info("  LOG_STATIC_FILES:    %v", logStaticFiles)
	logging.Info("  LOG_HEALTH_CHECKS:   %v", logHealthChecks)
	logging.Info("  WATCH:               %v", watch)
	logging.Info("  WATCH_DEBOUNCE:      %v", watchDebounce)
	logging.Info("  LOG_LEVEL:           %s", logging.GetLevel())

	if thumbMaxDim < 1 {
		logging.Warn("  Invalid THUMB_MAX_DIM %d, using default: 400", thumbMaxDim)
		thumbMaxDim = 400
	}
	if thumbQuality < 1 || thumbQuality > 100 {
		logging.Warn("  Invalid THUMB_QUALITY %d, using default: 85", thumbQuality)
		thumbQuality = 85
	}
	if dateSource != DateSourceModTime && dateSource != DateSourceEXIF {
		logging.Warn("  Invalid DATE_SOURCE %q, using default: %s", dateSource, DateSourceModTime)
		dateSource = DateSourceModTime
	}
	if watchDebounce < 100*time.Millisecond {
		logging.Warn("  WATCH_DEBOUNCE %v is below 100ms, using default: 2s", watchDebounce)
		watchDebounce = 2 * time.Second
	}

	extensions := parseExtensions(extensionsStr)
	if len(extensions) == 0 {
		logging.Warn("  No usable EXTENSIONS, using defaults: %s", DefaultExtensions)
		extensions = parseExtensions(DefaultExtensions)
	}

	// Resolve paths
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DIRECTORY SETUP")
	logging.Info("------------------------------------------------------------")

	absImageDir, err := filepath.Abs(imageDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve image directory path: %w", err)
	}
	logging.Info("  Image directory (absolute):  %s", absImageDir)

	absThumbDir, err := filepath.Abs(thumbDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve thumbnail directory path: %w", err)
	}
	logging.Info("  Thumbnail root (absolute):   %s", absThumbDir)

	absOutputFile, err := filepath.Abs(outputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output file path: %w", err)
	}
	logging.Info("  Manifest file (absolute):    %s", absOutputFile)

	// A missing image directory only means there is nothing to index
	// yet, so it is a warning rather than an error.
	if err := ensureDirectory(absImageDir, "image"); err != nil {
		logging.Warn("  Image directory issue: %v", err)
	}

	config := &Config{
		ImageDir:          imageDir,
		ThumbDir:          thumbDir,
		OutputFile:        outputFile,
		AbsImageDir:       absImageDir,
		AbsThumbDir:       absThumbDir,
		AbsOutputFile:     absOutputFile,
		Extensions:        extensions,
		TagsEnabled:       tagsEnabled,
		TagSeparators:     tagSeparators,
		FilterWeakTags:    filterWeakTags,
		ThumbnailsEnabled: thumbnailsEnabled,
		ThumbMaxDim:       thumbMaxDim,
		ThumbQuality:      thumbQuality,
		ForceJPG:          forceJPG,
		OverwriteThumbs:   overwriteThumbs,
		Engine:            engine,
		DateSource:        dateSource,
		IndexDB:           indexDB,
		Serve:             serve,
		Port:              port,
		MetricsEnabled:    metricsEnabled,
		LogStaticFiles:    logStaticFiles,
		LogHealthChecks:   logHealthChecks,
		Watch:             watch,
		WatchDebounce:     watchDebounce,
	}

	// The manifest's parent directory must exist and take writes.
	outputDir := filepath.Dir(absOutputFile)
	if err := ensureDirectory(outputDir, "output"); err != nil {
		return nil, fmt.Errorf("output directory error: %w", err)
	}
	logging.Debug("  Testing output directory write access...")
	if err := testWriteAccess(outputDir); err != nil {
		return nil, fmt.Errorf("output directory is not writable (required for the manifest): %w", err)
	}
	logging.Info("  [OK] Output directory is writable")

	if config.ThumbnailsEnabled {
		if absThumbDir == absImageDir {
			return nil, fmt.Errorf("THUMB_DIR and IMAGE_DIR resolve to the same directory (%s)", absThumbDir)
		}
		config.ThumbnailsEnabled = setupOptionalDir(absThumbDir, "thumbnail")
	}

	if config.IndexDB != "" {
		absIndexDB, err := filepath.Abs(config.IndexDB)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve index database path: %w", err)
		}
		config.IndexDB = absIndexDB
		if !setupOptionalDir(filepath.Dir(absIndexDB), "index database") {
			logging.Warn("  Run index will be disabled")
			config.IndexDB = ""
		}
	}

	// Summary
	logging.Info("")
	logging.Info("  Feature availability:")
	logging.Info("    Tags:        %s", enabledString(config.TagsEnabled))
	logging.Info("    Thumbnails:  %s", enabledString(config.ThumbnailsEnabled))
	logging.Info("    Run index:   %s", enabledString(config.IndexDB != ""))
	logging.Info("    Metrics:     %s", enabledString(config.MetricsEnabled))
	logging.Info("    Serve:       %s", enabledString(config.Serve))
	logging.Info("    Watch:       %s", enabledString(config.Watch))

	return config, nil
}

// parseExtensions splits a comma-separated extension list, trimming
// whitespace and leading dots and lowercasing each entry.
func parseExtensions(s string) []string {
	parts := strings.Split(s, ",")
	exts := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(p), "."))
		if p == "" {
			continue
		}
		exts = append(exts, p)
	}
	return exts
}

func setupOptionalDir(path, name string) bool {
	logging.Debug("  Setting up %s directory: %s", name, path)

	if err := os.MkdirAll(path, 0o755); err != nil {
		logging.Warn("    Failed to create %s directory: %v", name, err)
		logging.Warn("    %s will be disabled", name)
		return false
	}

	testFile := filepath.Join(path, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		logging.Warn("    %s directory is not writable: %v", name, err)
		logging.Warn("    %s will be disabled", name)
		return false
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("    failed to remove test file %s: %v", testFile, err)
		// Still return true since write succeeded
	}

	logging.Debug("    [OK] %s directory ready", name)
	return true
}

func enabledString(enabled bool) string {
	if enabled {
		return "ENABLED"
	}
	return "DISABLED"
}

// LogEngineInit opens the thumbnail engine section. The engine is
// constructed right after, so an unavailable engine fails under this
// header.
func LogEngineInit(engine string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("THUMBNAIL ENGINE")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Engine: %s", engine)
}

// LogEngineReady logs a successfully constructed engine.
func LogEngineReady(engine string) {
	logging.Info("  [OK] %s engine ready", engine)
}

// LogIndexDBInit logs run-index database initialization
func LogIndexDBInit(duration time.Duration) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("INDEX DATABASE")
	logging.Info("------------------------------------------------------------")
	logging.Info("  [OK] Index database initialized in %v", duration)
}

// RunSummary holds the figures for the end-of-run report.
type RunSummary struct {
	Files           int
	ByExtension     map[string]int
	ThumbsEnabled   bool
	ThumbsCreated   int
	ThumbsSkipped   int
	ThumbsErrored   int
	ManifestPath    string
	ManifestWritten bool
	Duration        time.Duration
}

// LogRunSummary prints the end-of-run report: files by extension with
// the busiest extension first, thumbnail outcomes, and where the
// manifest went.
func LogRunSummary(s RunSummary) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("INDEX SUMMARY")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Files indexed:  %d", s.Files)

	exts := make([]string, 0, len(s.ByExtension))
	for ext := range s.ByExtension {
		exts = append(exts, ext)
	}
	sort.Slice(exts, func(i, j int) bool {
		if s.ByExtension[exts[i]] != s.ByExtension[exts[j]] {
			return s.ByExtension[exts[i]] > s.ByExtension[exts[j]]
		}
		return exts[i] < exts[j]
	})
	for _, ext := range exts {
		logging.Info("    %-8s %d", ext, s.ByExtension[ext])
	}

	if s.ThumbsEnabled {
		logging.Info("")
		logging.Info("  Thumbnails:")
		logging.Info("    Created:  %d", s.ThumbsCreated)
		logging.Info("    Skipped:  %d", s.ThumbsSkipped)
		logging.Info("    Errored:  %d", s.ThumbsErrored)
	}

	logging.Info("")
	if s.ManifestWritten {
		logging.Info("  [OK] Manifest written to %s", s.ManifestPath)
		logging.Info("  Re-running rebuilds the manifest from disk; manual edits are overwritten")
	} else {
		logging.Info("  Manifest not written (no matching files)")
	}
	logging.Info("  Completed in %v", s.Duration.Round(time.Millisecond))
	logging.Info("------------------------------------------------------------")
	logging.Info("")
}

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// GetRoutes extracts all registered routes from a mux.Router
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return err
		}

		methods, err := route.GetMethods()
		if err != nil {
			// Route might not have methods specified (e.g., static file server)
			methods = []string{"*"}
		}

		name := route.GetName()

		for _, method := range methods {
			routes = append(routes, RouteInfo{
				Method: method,
				Path:   pathTemplate,
				Name:   name,
			})
		}

		return nil
	})

	return routes, err
}

// LogHTTPRoutes logs all registered HTTP routes dynamically
func LogHTTPRoutes(router *mux.Router, logStaticFiles, logHealthChecks bool) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("HTTP SERVER SETUP")
	logging.Info("------------------------------------------------------------")

	if logging.IsDebugEnabled() {
		routes, err := GetRoutes(router)
		if err != nil {
			logging.Warn("error walking routes: %v", err)
		}

		logging.Debug("  Registered routes (%d total):", len(routes))
		for _, route := range routes {
			logging.Debug("    %-6s %s", route.Method, route.Path)
		}
		logging.Debug("")
	}

	logging.Info("  HTTP logging enabled")
	if logStaticFiles {
		logging.Info("    Static file logging: ON")
	} else {
		logging.Info("    Static file logging: OFF (set LOG_STATIC_FILES=true to enable)")
	}
	if logHealthChecks {
		logging.Info("    Health check logging: ON")
	} else {
		logging.Info("    Health check logging: OFF (set LOG_HEALTH_CHECKS=true to enable)")
	}
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	Port            string
	MetricsEnabled  bool
	ManifestName    string
	StartupDuration time.Duration
}

// LogServerStarted logs successful server start with all endpoint information
func LogServerStarted(config ServerConfig) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SERVER STARTED")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Startup time:  %v", config.StartupDuration)
	logging.Info("")
	logging.Info("  Endpoints:")
	logging.Info("    Manifest:    http://localhost:%s/%s", config.Port, config.ManifestName)
	logging.Info("    Health:      http://localhost:%s/healthz", config.Port)
	logging.Info("    Stats:       http://localhost:%s/api/stats", config.Port)
	if config.MetricsEnabled {
		logging.Info("    Metrics:     http://localhost:%s/metrics", config.Port)
	} else {
		logging.Info("    Metrics:     DISABLED")
	}
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop the server")
	logging.Info("------------------------------------------------------------")
	logging.Info("")
}

// LogWatchStarted logs watch mode startup
func LogWatchStarted(root string, debounce time.Duration) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("WATCH MODE")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Watching:  %s", root)
	logging.Info("  Debounce:  %v", debounce)
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop")
	logging.Info("------------------------------------------------------------")
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (received %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

// Helper functions

func printBanner() {
	banner := `
------------------------------------------------------------
   ______        __ __
  / ____/____ _ / // /___   _____ __  __
 / / __ / __ '// // // _ \ / ___// / / /
/ /_/ // /_/ // // //  __// /   / /_/ /
\____/ \__,_//_//_/ \___//_/    \__, /
                               /____/
    ____            __
   /  _/____   ____/ /___   _  __ ___   _____
   / / / __ \ / __  // _ \ | |/_// _ \ / ___/
 _/ / / / / // /_/ //  __/_>  < /  __// /
/___//_/ /_/ \__,_/ \___//_/|_| \___//_/

------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Info("  (Container CPU limit detected)")
	}

	if logging.IsDebugEnabled() {
		logging.Debug("  Goroutines:      %d", runtime.NumGoroutine())

		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}

		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}

	logging.Info("")
}

func ensureDirectory(path, name string) error {
	logging.Debug("  Checking %s directory: %s", name, path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		logging.Debug("    Directory does not exist, creating...")
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		logging.Debug("    [OK] Created directory: %s", path)
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}

	logging.Debug("    [OK] Directory exists")

	if name == "image" && logging.IsDebugEnabled() {
		entries, err := os.ReadDir(path)
		if err == nil {
			fileCount := 0
			dirCount := 0
			for _, e := range entries {
				if e.IsDir() {
					dirCount++
				} else {
					fileCount++
				}
			}
			logging.Debug("    Contents: %d files, %d directories (top level)", fileCount, dirCount)
		}
	}

	return nil
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write test file %s: %v", testFile, err)
		// Don't return error since write access was confirmed
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logging.Warn("Invalid integer value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		logging.Warn("Invalid duration value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
