package orchestrator

import (
	"sync"
)

// FileInput is one uploaded file (spec.md §4's ingestion request shape).
type FileInput struct {
	Filename string
	Content  []byte
	MimeType string
}

// Request is one call to Run: a batch of files submitted together under
// a single IngestionJob, grounded on ingestion-orchestrator.py's
// ingest_batch signature.
type Request struct {
	Files      []FileInput
	CallerID   string
	CallerRole string
	Metadata   map[string]any
}

// Stats mirrors ingestion-orchestrator.py's IngestionStats dataclass;
// counters are updated under mu so concurrent workers never race.
type Stats struct {
	mu sync.Mutex

	TotalFiles        int
	ProcessedFiles    int
	FailedFiles       int
	SkippedDuplicate  int
	NewProducts       int
	UpdatedProducts   int
	NewSpecsDiscovered int
	ConflictsFound    int
	ChunksCreated     int
	Errors            []string
	Warnings          []string
}

func newStats(totalFiles int) *Stats {
	return &Stats{TotalFiles: totalFiles}
}

func (s *Stats) addError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FailedFiles++
	s.Errors = append(s.Errors, msg)
}

func (s *Stats) addWarning(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Warnings = append(s.Warnings, msg)
}

func (s *Stats) recordFile(delta fileDelta) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ProcessedFiles++
	s.SkippedDuplicate += delta.skippedDuplicate
	s.NewProducts += delta.newProducts
	s.UpdatedProducts += delta.updatedProducts
	s.NewSpecsDiscovered += delta.newSpecsDiscovered
	s.ConflictsFound += delta.conflictsFound
	s.ChunksCreated += delta.chunksCreated
	s.Warnings = append(s.Warnings, delta.warnings...)
}

// fileDelta accumulates one file's contribution to Stats; processFile
// builds it up locally so nothing needs to lock Stats until the file is
// entirely done.
type fileDelta struct {
	skippedDuplicate   int
	newProducts        int
	updatedProducts    int
	newSpecsDiscovered int
	conflictsFound     int
	chunksCreated      int
	warnings           []string
}

// modelLocks hands out one *sync.Mutex per model_number so two workers
// racing on the same product serialize their upsert attempts entirely
// in-process, ahead of (and in addition to) the row-level `SELECT ...
// FOR UPDATE` the Catalog Store takes inside its transaction -- spec.md
// §5 names both layers explicitly.
type modelLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newModelLocks() *modelLocks {
	return &modelLocks{locks: map[string]*sync.Mutex{}}
}

func (m *modelLocks) get(modelNumber string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[modelNumber]
	if !ok {
		l = &sync.Mutex{}
		m.locks[modelNumber] = l
	}
	return l
}
