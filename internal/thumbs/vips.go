package thumbs

import (
	"fmt"
	"os"
	"sync"

	"github.com/davidbyttow/govips/v2/vips"

	"gallery-indexer/internal/logging"
)

var (
	vipsInitialized bool
	vipsInitMutex   sync.Mutex
)

// initVips starts libvips once for the life of the process. Logging is
// configured before Startup so the LOG_LEVEL environment variable is
// respected from the first vips message.
func initVips() error {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		return nil
	}

	var vipsLogLevel vips.LogLevel
	var logHandler func(string, vips.LogLevel, string)

	switch logging.GetLevel() {
	case logging.LevelDebug:
		vipsLogLevel = vips.LogLevelInfo
		logHandler = func(domain string, level vips.LogLevel, msg string) {
			switch level {
			case vips.LogLevelError, vips.LogLevelCritical:
				logging.Error("[%s] %s", domain, msg)
			case vips.LogLevelWarning:
				logging.Warn("[%s] %s", domain, msg)
			default:
				logging.Debug("[%s] %s", domain, msg)
			}
		}
	case logging.LevelWarn:
		vipsLogLevel = vips.LogLevelError
		logHandler = func(domain string, level vips.LogLevel, msg string) {
			if level >= vips.LogLevelError {
				logging.Error("[%s] %s", domain, msg)
			}
		}
	case logging.LevelError:
		vipsLogLevel = vips.LogLevelCritical
		logHandler = func(domain string, level vips.LogLevel, msg string) {
			if level >= vips.LogLevelCritical {
				logging.Error("[%s] %s", domain, msg)
			}
		}
	default:
		// Info and anything else: warnings and errors only.
		vipsLogLevel = vips.LogLevelWarning
		logHandler = func(domain string, level vips.LogLevel, msg string) {
			switch level {
			case vips.LogLevelError, vips.LogLevelCritical:
				logging.Error("[%s] %s", domain, msg)
			case vips.LogLevelWarning:
				logging.Warn("[%s] %s", domain, msg)
			}
		}
	}

	vips.LoggingSettings(logHandler, vipsLogLevel)

	// Conservative memory settings; parallelism comes from our worker
	// pool, not from vips itself.
	vips.Startup(&vips.Config{
		ConcurrencyLevel: 1,
		MaxCacheMem:      50 * 1024 * 1024,
		MaxCacheSize:     100,
		ReportLeaks:      false,
		CacheTrace:       false,
		CollectStats:     false,
	})

	vipsInitialized = true
	logging.Info("libvips initialized (version: %s)", vips.Version)
	return nil
}

// shutdownVips releases libvips resources if they were ever acquired.
func shutdownVips() {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		vips.Shutdown()
		vipsInitialized = false
		logging.Info("libvips shutdown complete")
	}
}

// vipsEngine renders thumbnails with libvips. Decode-time shrinking keeps
// memory flat even for very large sources, and AVIF decodes natively.
type vipsEngine struct{}

func (e *vipsEngine) Name() string { return EngineVips }

func (e *vipsEngine) Render(srcPath, dstPath string, opts Options) error {
	ref, err := vips.LoadImageFromFile(srcPath, vips.NewImportParams())
	if err != nil {
		return fmt.Errorf("vips decode %s: %w", srcPath, err)
	}
	defer ref.Close()

	if err := ref.AutoRotate(); err != nil {
		return fmt.Errorf("vips orient %s: %w", srcPath, err)
	}

	if err := ref.ThumbnailWithSize(opts.MaxDim, opts.MaxDim, vips.InterestingNone, vips.SizeDown); err != nil {
		return fmt.Errorf("vips resize %s: %w", srcPath, err)
	}

	var encoded []byte
	if opts.ForceJPEG {
		if ref.HasAlpha() {
			if err := ref.Flatten(&vips.Color{R: 255, G: 255, B: 255}); err != nil {
				return fmt.Errorf("vips flatten %s: %w", srcPath, err)
			}
		}
		params := vips.NewJpegExportParams()
		params.Quality = opts.Quality
		params.StripMetadata = true
		params.OptimizeCoding = true
		encoded, _, err = ref.ExportJpeg(params)
	} else {
		encoded, _, err = ref.ExportNative()
	}
	if err != nil {
		return fmt.Errorf("vips encode %s: %w", srcPath, err)
	}

	if err := os.WriteFile(dstPath, encoded, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dstPath, err)
	}
	return nil
}
