// Package workers determines worker pool sizes that respect container CPU
// limits.
//
// Go 1.19+ sets GOMAXPROCS from cgroup CPU limits automatically, while
// runtime.NumCPU still reports the host's core count. Sizing pools from
// GOMAXPROCS keeps the indexer from oversubscribing a constrained container.
//
// Helpers exist for the common workload shapes:
//
//	workers.ForCPU(8)   // 1 worker per CPU: decode/resize/encode
//	workers.ForIO(16)   // 2 workers per CPU: stat/read/write heavy
//	workers.ForMixed(8) // 1.5 workers per CPU: thumbnail generation
//
// All helpers honor the THUMBNAIL_WORKERS environment variable as an
// operator override.
package workers
