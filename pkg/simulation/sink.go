package simulation

import (
	"bufio"
	"encoding/json"
	stderrors "errors"
	"os"
	"sync"

	"cosmossdk.io/errors"

	"github.com/oxygene76/kepler-orbit/internal/types"
)

// Sink receives every snapshot the tick loop publishes
type Sink interface {
	OnSnapshot(s StateVector) error
	Close() error
}

// JSONLSink writes one JSON object per snapshot to a file
type JSONLSink struct {
	f  *os.File
	bw *bufio.Writer
}

type jsonlSnapshot struct {
	UTC string `json:"utc"`
	StateVector
}

// NewJSONLSink creates (or truncates) path for writing
func NewJSONLSink(path string) (*JSONLSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(types.ErrSnapshotSink, "create %s: %v", path, err)
	}
	return &JSONLSink{f: f, bw: bufio.NewWriter(f)}, nil
}

func (w *JSONLSink) OnSnapshot(s StateVector) error {
	rec := jsonlSnapshot{UTC: s.Time().Format("2006-01-02T15:04:05.000Z07:00"), StateVector: s}
	b, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(types.ErrSnapshotSink, err.Error())
	}
	if _, err := w.bw.Write(b); err != nil {
		return errors.Wrap(types.ErrSnapshotSink, err.Error())
	}
	if err := w.bw.WriteByte('\n'); err != nil {
		return errors.Wrap(types.ErrSnapshotSink, err.Error())
	}
	return nil
}

// Flush writes buffered snapshots to the file
func (w *JSONLSink) Flush() error {
	if err := w.bw.Flush(); err != nil {
		return errors.Wrap(types.ErrSnapshotSink, err.Error())
	}
	return nil
}

// Close flushes and closes the file. A failed flush means snapshots were lost.
func (w *JSONLSink) Close() error {
	flushErr := w.bw.Flush()
	closeErr := w.f.Close()
	if err := stderrors.Join(flushErr, closeErr); err != nil {
		return errors.Wrap(types.ErrSnapshotSink, err.Error())
	}
	return nil
}

// MemorySink keeps snapshots in memory, mostly for tests and sweeps
type MemorySink struct {
	mu        sync.Mutex
	snapshots []StateVector
}

func (m *MemorySink) OnSnapshot(s StateVector) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = append(m.snapshots, s)
	return nil
}

func (m *MemorySink) Close() error { return nil }

// Snapshots returns a copy of everything received so far
func (m *MemorySink) Snapshots() []StateVector {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]StateVector, len(m.snapshots))
	copy(out, m.snapshots)
	return out
}
