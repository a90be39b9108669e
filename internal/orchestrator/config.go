package orchestrator

import "time"

// Config tunes the worker pool, grounded on spec.md §5's concurrency
// model (bounded worker pool, per-call timeouts, graceful shutdown).
type Config struct {
	// Concurrency is the worker pool size; DefaultConfig caps it at
	// min(8, NumCPU) per spec.md §5/§6 ("internal/orchestrator ...
	// bounded job queue, min(8, cores) worker pool").
	Concurrency int
	// PerFileTimeout bounds one file's full pipeline run.
	PerFileTimeout time.Duration
	// ShutdownTimeout bounds how long Run waits for in-flight files to
	// finish once its context is cancelled before giving up on them.
	ShutdownTimeout time.Duration
	// MinConfidence below which an extracted spec is dropped rather
	// than applied, mirroring ingestion-orchestrator.py's
	// IngestionConfig.min_confidence default.
	MinConfidence float64
	// AutoCreateProducts, when false, leaves an unrecognized model
	// number un-ingested (warning only) instead of creating an active
	// product for it.
	AutoCreateProducts bool
	// AutoAcceptNewerRevision is loaded from
	// ORCHESTRATOR_AUTO_ACCEPT_NEWER_REVISION but the orchestrator does
	// not read it: a strictly-newer document overwrites whenever the
	// Conflict Engine returns Overwrite, and no conflict row is recorded
	// for that overwrite.
	AutoAcceptNewerRevision bool
}

func DefaultConfig(numCPU int) Config {
	concurrency := numCPU
	if concurrency > 8 {
		concurrency = 8
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return Config{
		Concurrency:             concurrency,
		PerFileTimeout:          30 * time.Second,
		ShutdownTimeout:         30 * time.Second,
		MinConfidence:           0.6,
		AutoCreateProducts:      true,
		AutoAcceptNewerRevision: true,
	}
}
