package filesystem

// Observer records filesystem operation metrics. The implementation lives in
// the metrics package to break the import cycle between filesystem and metrics.
type Observer interface {
	// ObserveOperation records duration and error status for a filesystem operation.
	// volume is the resolved mount label (e.g., "images", "thumbs", "output").
	// operation is the fs operation type: "stat", "read", "write", "readdir".
	ObserveOperation(volume, operation string, durationSeconds float64, err error)

	// ObserveRetry* record retry-specific metrics for NFS resilience.
	// retryOp is the retried operation: "stat", "open", "readdir".
	ObserveRetryAttempt(retryOp, volume string)
	ObserveRetrySuccess(retryOp, volume string)
	ObserveRetryFailure(retryOp, volume string)
	ObserveRetryDuration(retryOp, volume string, durationSeconds float64)
	ObserveStaleError(retryOp, volume string)
}

// defaultObserver is the package-level observer set at startup.
var defaultObserver Observer

// SetObserver sets the package-level metrics observer.
// Call this once at startup after creating the observer implementation.
func SetObserver(o Observer) {
	defaultObserver = o
}

// observe returns the package-level observer, or a no-op when none is
// installed, so call sites never need a nil check.
func observe() Observer {
	if defaultObserver == nil {
		return nopObserver{}
	}
	return defaultObserver
}

type nopObserver struct{}

func (nopObserver) ObserveOperation(volume, operation string, durationSeconds float64, err error) {}
func (nopObserver) ObserveRetryAttempt(retryOp, volume string)                                    {}
func (nopObserver) ObserveRetrySuccess(retryOp, volume string)                                    {}
func (nopObserver) ObserveRetryFailure(retryOp, volume string)                                    {}
func (nopObserver) ObserveRetryDuration(retryOp, volume string, durationSeconds float64)          {}
func (nopObserver) ObserveStaleError(retryOp, volume string)                                      {}
