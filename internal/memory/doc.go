// Package memory configures Go's runtime memory limit and provides
// backpressure signals for the memory-hungry stages of an index run.
//
// # Overview
//
// Thumbnail generation decodes full-size photos, and a decoded image
// costs width x height x 4 bytes regardless of how small the file was
// on disk. A 48-megapixel JPEG is a few megabytes in a directory
// listing and roughly 190 MB as pixels. With several decode workers
// running, heap usage spikes far above what the input sizes suggest,
// and in a container that ends with an OOM kill.
//
// Go reads CPU limits from cgroups automatically (GOMAXPROCS) but does
// not do the same for memory: GOMEMLIMIT must be configured
// explicitly. This package provides:
//
//   - [ConfigureFromEnv] to derive GOMEMLIMIT from container limit
//     environment variables
//   - [Monitor] to pause decode workers when heap usage crosses a
//     critical threshold
//
// # Configuration
//
// Call [ConfigureFromEnv] first in main, before any significant
// allocations:
//
//	func main() {
//	    memory.ConfigureFromEnv()
//	    // ... rest of application
//	}
//
// # Environment Variables
//
//   - GOMEMLIMIT: Standard Go environment variable. If set, it takes
//     precedence over everything else. Accepts values like "400MiB".
//
//   - MEMORY_LIMIT: Container memory limit in bytes, typically set via
//     the Kubernetes Downward API. GOMEMLIMIT is calculated from it.
//
//   - MEMORY_RATIO: Fraction of MEMORY_LIMIT given to the Go heap,
//     between 0.0 and 1.0. Default is 0.85. Lower it when the vips
//     engine is in use, because libvips allocates its decode buffers
//     outside the Go heap where GOMEMLIMIT cannot see them.
//
// # Kubernetes Configuration
//
// Pass the container memory limit through the Downward API:
//
//	spec:
//	  containers:
//	  - name: gallery-indexer
//	    resources:
//	      limits:
//	        memory: "512Mi"
//	    env:
//	    - name: MEMORY_LIMIT
//	      valueFrom:
//	        resourceFieldRef:
//	          resource: limits.memory
//	    - name: MEMORY_RATIO
//	      value: "0.75"  # Optional, reserve 25% for libvips
//
// # Memory Ratio Guidelines
//
//	| Engine and workload                  | Recommended Ratio |
//	|--------------------------------------|-------------------|
//	| imaging engine (pure Go decode)      | 0.90              |
//	| Mixed, mostly small files            | 0.85 (default)    |
//	| vips engine (CGO decode buffers)     | 0.75              |
//
// GOMEMLIMIT is a soft limit: the collector works harder near it but
// the process can still exceed it briefly, and it never covers CGO or
// mmap memory. Set it too high and the container is OOM-killed, too
// low and the run burns its time in GC.
//
// # Memory Monitoring
//
// The [Monitor] gives decode workers a backpressure point:
//
//	monitor := memory.NewMonitor(memory.DefaultConfig())
//	monitor.Start()
//	defer monitor.Stop()
//
//	// In a worker, before decoding the next image:
//	monitor.WaitIfPaused()
//
// When heap usage crosses the critical watermark the monitor pauses
// workers, forces a collection, and resumes them once usage falls back
// under the high watermark. The gap between the two thresholds keeps
// the pause from flapping.
//
// # References
//
//   - Go 1.19 Release Notes (GOMEMLIMIT): https://go.dev/doc/go1.19
//   - GC Guide: https://go.dev/doc/gc-guide
//   - Kubernetes Downward API: https://kubernetes.io/docs/concepts/workloads/pods/downward-api/
package memory
