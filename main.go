package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"gallery-indexer/internal/filesystem"
	"gallery-indexer/internal/index"
	"gallery-indexer/internal/indexer"
	"gallery-indexer/internal/logging"
	"gallery-indexer/internal/manifest"
	"gallery-indexer/internal/memory"
	"gallery-indexer/internal/metrics"
	"gallery-indexer/internal/middleware"
	"gallery-indexer/internal/server"
	"gallery-indexer/internal/startup"
	"gallery-indexer/internal/tags"
	"gallery-indexer/internal/thumbs"
	"gallery-indexer/internal/watcher"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

func main() {
	startTime := time.Now()

	// A .env next to the binary seeds the environment. Real variables
	// and flags both win over it.
	_ = godotenv.Load()

	opts := parseFlags()
	if opts.version {
		printVersion()
		return
	}
	if opts.stats {
		if err := printIndexStats(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Apply any container memory limit before the pipeline starts
	// allocating decode buffers.
	memory.ConfigureFromEnv()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	// Volume names keep filesystem metric labels stable even when the
	// configured directories move between deployments.
	volumes := map[string]string{
		"images": config.AbsImageDir,
		"thumbs": config.AbsThumbDir,
		"output": filepath.Dir(config.AbsOutputFile),
	}
	if config.IndexDB != "" {
		volumes["index"] = filepath.Dir(config.IndexDB)
	}
	filesystem.SetDefaultVolumeResolver(filesystem.NewVolumeResolver(volumes))
	filesystem.SetObserver(metrics.NewFilesystemObserver())

	metrics.InitializeMetrics()
	buildInfo := startup.GetBuildInfo()
	metrics.SetAppInfo(buildInfo.Version, buildInfo.Commit, buildInfo.GoVersion)

	// Initialize thumbnail engine
	var gen *thumbs.Generator
	if config.ThumbnailsEnabled {
		startup.LogEngineInit(config.Engine)
		engine, err := thumbs.NewEngine(config.Engine)
		if err != nil {
			startup.LogFatal("Thumbnail engine error: %v", err)
		}
		defer thumbs.Shutdown()
		startup.LogEngineReady(engine.Name())

		gen = thumbs.NewGenerator(config.AbsThumbDir, engine, thumbs.Options{
			MaxDim:    config.ThumbMaxDim,
			Quality:   config.ThumbQuality,
			ForceJPEG: config.ForceJPG,
		}, config.OverwriteThumbs)
	}

	// Initialize tag deriver. Always constructed: with tags disabled it
	// derives nothing, and the pipeline never has to branch.
	deriver, err := tags.NewDeriver(tags.Config{
		Enabled:    config.TagsEnabled,
		Separators: config.TagSeparators,
		FilterWeak: config.FilterWeakTags,
	})
	if err != nil {
		startup.LogFatal("Tag configuration error: %v", err)
	}

	// Initialize run index
	var ix *index.Index
	if config.IndexDB != "" {
		dbStart := time.Now()
		openCtx, cancelOpen := context.WithTimeout(context.Background(), 10*time.Second)
		ix, err = index.Open(openCtx, config.IndexDB)
		cancelOpen()
		if err != nil {
			startup.LogFatal("Failed to open index database: %v", err)
		}
		defer ix.Close()
		startup.LogIndexDBInit(time.Since(dbStart))
	}

	// Memory backpressure for the thumbnail workers. Without a limit
	// the monitor stays idle.
	monitor := memory.NewMonitor(memory.DefaultConfig())
	monitor.Start()
	defer monitor.Stop()

	idx := indexer.New(indexer.Config{
		ImageDir:     config.ImageDir,
		ThumbDir:     config.ThumbDir,
		AbsImageDir:  config.AbsImageDir,
		AbsThumbDir:  config.AbsThumbDir,
		Extensions:   config.Extensions,
		DateFromEXIF: config.DateSource == startup.DateSourceEXIF,
	}, deriver, gen, manifest.NewWriter(config.AbsOutputFile), ix, monitor)

	// One context bounds everything: the first run, watch-mode
	// rebuilds, and background runs started over HTTP.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		startup.LogShutdownInitiated(sig.String())
		cancel()
	}()

	report, err := idx.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logging.Warn("Index run interrupted")
			return
		}
		startup.LogFatal("Index run failed: %v", err)
	}

	startup.LogRunSummary(startup.RunSummary{
		Files:           report.Files,
		ByExtension:     report.ByExtension,
		ThumbsEnabled:   report.ThumbsEnabled,
		ThumbsCreated:   report.ThumbsCreated,
		ThumbsSkipped:   report.ThumbsSkipped,
		ThumbsErrored:   report.ThumbsErrored,
		ManifestPath:    config.AbsOutputFile,
		ManifestWritten: report.ManifestWritten,
		Duration:        report.Duration,
	})

	if !config.Serve && !config.Watch {
		return
	}

	if config.Watch {
		ignoreFiles := []string{config.AbsOutputFile}
		if config.IndexDB != "" {
			ignoreFiles = append(ignoreFiles, config.IndexDB)
		}
		w, err := watcher.New(watcher.Config{
			Root:        config.AbsImageDir,
			Debounce:    config.WatchDebounce,
			IgnoreDirs:  []string{config.AbsThumbDir},
			IgnoreFiles: ignoreFiles,
		}, func() { rebuild(ctx, idx) })
		if err != nil {
			startup.LogFatal("Watcher error: %v", err)
		}
		go w.Run(ctx)
		startup.LogWatchStarted(config.AbsImageDir, config.WatchDebounce)
	}

	if !config.Serve {
		// Watch-only mode parks here until a signal arrives.
		<-ctx.Done()
		startup.LogShutdownComplete()
		return
	}

	srv := server.New(ctx, server.Config{
		ImageDir:       config.ImageDir,
		ThumbDir:       config.ThumbDir,
		AbsImageDir:    config.AbsImageDir,
		AbsThumbDir:    config.AbsThumbDir,
		AbsOutputFile:  config.AbsOutputFile,
		ThumbsEnabled:  config.ThumbnailsEnabled,
		MetricsEnabled: config.MetricsEnabled,
	}, idx, ix, monitor)

	// Setup router
	router := setupRouter(srv, config)

	// Log routes dynamically
	startup.LogHTTPRoutes(router, config.LogStaticFiles, config.LogHealthChecks)

	// Apply logging middleware
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	handler := middleware.Logger(loggingConfig)(router)

	// Apply compression middleware
	handler = middleware.Compression(middleware.DefaultCompressionConfig())(handler)

	// Apply metrics middleware last so it times the full chain
	if config.MetricsEnabled {
		handler = middleware.Metrics(middleware.DefaultMetricsConfig())(handler)
	}

	// Refresh the index gauges while the server runs
	if ix != nil && config.MetricsEnabled {
		collector := metrics.NewCollector(indexTotals{ix}, 30*time.Second)
		collector.Start()
		defer collector.Stop()
	}

	httpSrv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	serverStopped := make(chan struct{})
	go func() {
		defer close(serverStopped)
		<-ctx.Done()

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancelShutdown()

		startup.LogShutdownStep("Shutting down HTTP server")
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logging.Warn("Server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("HTTP server stopped")
		}
	}()

	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsEnabled:  config.MetricsEnabled,
		ManifestName:    strings.TrimPrefix(srv.ManifestRoute(), "/"),
		StartupDuration: time.Since(startTime).Round(time.Millisecond),
	})
	if err := httpSrv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
	<-serverStopped
	startup.LogShutdownComplete()
}

// rebuild runs one indexing pass for the watcher, logging instead of
// failing the process: watch mode outlives any single bad run.
func rebuild(ctx context.Context, idx *indexer.Indexer) {
	report, err := idx.Run(ctx)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled):
		case errors.Is(err, indexer.ErrRunInProgress):
			logging.Warn("Rebuild skipped: another run is in progress")
		default:
			logging.Error("Rebuild failed: %v", err)
		}
		return
	}
	logging.Info("Rebuild complete: %d files indexed in %v",
		report.Files, report.Duration.Round(time.Millisecond))
}

func setupRouter(srv *server.Server, config *startup.Config) *mux.Router {
	r := mux.NewRouter()

	// Health check and version routes
	r.HandleFunc("/health", srv.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", srv.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", srv.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", srv.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", srv.GetVersion).Methods("GET")

	// API routes
	r.HandleFunc("/api/stats", srv.GetStats).Methods("GET")
	r.HandleFunc("/api/reindex", srv.TriggerReindex).Methods("POST")

	if config.MetricsEnabled {
		r.Handle("/metrics", srv.MetricsHandler()).Methods("GET")
	}

	// The manifest at its base name, then the image trees. Thumbnails
	// register first because the thumbnail root usually nests inside
	// the image root.
	r.HandleFunc(srv.ManifestRoute(), srv.GetManifest).Methods("GET")

	if thumbRoute := srv.ThumbRoute(); config.ThumbnailsEnabled && thumbRoute != "" {
		r.HandleFunc(thumbRoute+"{path:.*}", srv.ServeThumb).Methods("GET")
	}
	if imageRoute := srv.ImageRoute(); imageRoute != "" {
		r.HandleFunc(imageRoute+"{path:.*}", srv.ServeImage).Methods("GET")
	} else {
		// The image root resolves to the working directory, so images
		// hang off the site root itself.
		r.PathPrefix("/").HandlerFunc(srv.ServeImage).Methods("GET")
	}

	return r
}

// indexTotals adapts the run index to the metrics collector. Each
// sample requeries the database, which keeps the stats cache and the
// gauges fresh between runs.
type indexTotals struct{ ix *index.Index }

func (p indexTotals) GetStats() metrics.Stats {
	s, err := p.ix.CalculateStats(context.Background())
	if err != nil {
		logging.Debug("Stats collection failed: %v", err)
		s = p.ix.GetStats()
	}
	return metrics.Stats{TotalFiles: s.TotalFiles, TotalTags: s.TotalTags}
}

type cliOptions struct {
	version bool
	stats   bool
}

// flagEnv maps each flag to the environment variable it overrides.
// Only flags actually given on the command line are bridged, so the
// flag defaults never mask values from the environment or .env.
var flagEnv = map[string]string{
	"images":      "IMAGE_DIR",
	"thumbs":      "THUMB_DIR",
	"out":         "OUTPUT_FILE",
	"extensions":  "EXTENSIONS",
	"engine":      "THUMBNAIL_ENGINE",
	"max-dim":     "THUMB_MAX_DIM",
	"quality":     "THUMB_QUALITY",
	"overwrite":   "OVERWRITE_THUMBS",
	"date-source": "DATE_SOURCE",
	"index-db":    "INDEX_DB",
	"serve":       "SERVE",
	"port":        "PORT",
	"watch":       "WATCH",
}

func parseFlags() cliOptions {
	// flag.CommandLine exits on error, so the returned error is only
	// meaningful for the flag sets tests construct.
	opts, _ := parseArgs(flag.CommandLine, os.Args[1:])
	return opts
}

func parseArgs(fs *flag.FlagSet, args []string) (cliOptions, error) {
	var opts cliOptions

	fs.String("images", "images", "image directory to index")
	fs.String("thumbs", "thumbs", "thumbnail output directory")
	fs.String("out", "images.json", "manifest output path")
	fs.String("extensions", startup.DefaultExtensions, "comma-separated list of extensions to index")
	fs.String("engine", thumbs.EngineImaging, "thumbnail engine (imaging or vips)")
	fs.Int("max-dim", 400, "thumbnail bounding box in pixels")
	fs.Int("quality", 85, "thumbnail JPEG quality (1-100)")
	fs.Bool("overwrite", false, "regenerate thumbnails that already exist")
	fs.String("date-source", startup.DateSourceModTime, "manifest date source (mtime or exif)")
	fs.String("index-db", "", "run-index SQLite database path (empty disables it)")
	fs.Bool("serve", false, "serve the gallery over HTTP after indexing")
	fs.String("port", "8080", "preview server port")
	fs.Bool("watch", false, "watch the image tree and re-index on changes")
	fs.BoolVar(&opts.version, "version", false, "print version information and exit")
	fs.BoolVar(&opts.stats, "stats", false, "print run-index statistics and exit")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	fs.Visit(func(f *flag.Flag) {
		if env, ok := flagEnv[f.Name]; ok {
			os.Setenv(env, f.Value.String())
		}
	})

	return opts, nil
}

func printVersion() {
	info := startup.GetBuildInfo()
	fmt.Printf("gallery-indexer %s\n", info.Version)
	fmt.Printf("  commit:     %s\n", info.Commit)
	fmt.Printf("  built:      %s\n", info.BuildTime)
	fmt.Printf("  go version: %s\n", info.GoVersion)
	fmt.Printf("  platform:   %s/%s\n", info.OS, info.Arch)
}

// printIndexStats prints the run-index totals without the startup
// banner, for quick inspection from scripts.
func printIndexStats() error {
	dbPath := os.Getenv("INDEX_DB")
	if dbPath == "" {
		return errors.New("INDEX_DB is not set (pass -index-db or set the variable)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ix, err := index.Open(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("open index database: %w", err)
	}
	defer ix.Close()

	stats, err := ix.CalculateStats(ctx)
	if err != nil {
		return fmt.Errorf("read index statistics: %w", err)
	}
	fmt.Printf("Files:    %d\n", stats.TotalFiles)
	fmt.Printf("Tags:     %d\n", stats.TotalTags)
	if stats.LastRun.IsZero() {
		fmt.Println("Last run: never")
	} else {
		fmt.Printf("Last run: %s (%d files in %s)\n",
			stats.LastRun.Format(time.RFC3339), stats.LastRunFiles, stats.LastRunDuration)
	}
	return nil
}
