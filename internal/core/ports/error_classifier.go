package ports

// TransientErrorClassifier recognizes storage failures caused by a stale or broken
// connection rather than by the data. Background ticks abort on them so the storage
// handle can be reconnected; everything else is treated as a per-record failure.
type TransientErrorClassifier interface {
	IsTransient(err error) bool
}
