// Package snapshot resolves CVE identifiers against a previously captured NVD
// export held in memory.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/securego/cwelookup"
	"github.com/securego/cwelookup/cwe"
	"github.com/securego/cwelookup/nvd"
)

// SourceName identifies results produced from a snapshot
const SourceName = "snapshot"

// Snapshot maps canonical CVE identifiers to their NVD records. It is never
// modified after loading and can be shared between goroutines.
type Snapshot map[string]*nvd.CVE

// Parse decodes a snapshot document: a JSON object keyed by CVE id whose
// values are NVD CVE records.
func Parse(r io.Reader) (Snapshot, error) {
	snap := make(Snapshot)
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, &cwelookup.SnapshotLoadError{Err: err}
	}
	return snap, nil
}

// Load reads and decodes the snapshot file at path
func Load(path string) (Snapshot, error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return nil, &cwelookup.SnapshotLoadError{Path: path, Err: err}
	}
	defer f.Close()

	snap := make(Snapshot)
	if err := json.NewDecoder(f).Decode(&snap); err != nil {
		return nil, &cwelookup.SnapshotLoadError{Path: path, Err: fmt.Errorf("decoding: %w", err)}
	}
	return snap, nil
}

// Resolver looks CVE keys up in a snapshot
type Resolver struct {
	snapshot Snapshot
	logger   *zap.Logger
}

var _ cwelookup.Resolver = (*Resolver)(nil)

// NewResolver creates a resolver over snap
func NewResolver(snap Snapshot, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{snapshot: snap, logger: logger}
}

// Name implements cwelookup.Resolver
func (r *Resolver) Name() string {
	return SourceName
}

// Resolve implements cwelookup.Resolver. Keys absent from the snapshot are
// reported as missing rather than unknown.
func (r *Resolver) Resolve(_ context.Context, key string) cwelookup.Result {
	record, ok := r.snapshot[key]
	if !ok {
		r.logger.Debug("not in snapshot", zap.String("cve", key))
		return cwelookup.Missing()
	}
	return Classify(record)
}

// Classify inspects only the first weakness of a record
func Classify(record *nvd.CVE) cwelookup.Result {
	if !record.HasWeaknesses() || len(record.Weaknesses) == 0 {
		return cwelookup.Unknown()
	}
	value, ok := record.Weaknesses[0].Value()
	if !ok {
		return cwelookup.Unknown()
	}
	if value = cwe.Canonical(value); value == cwe.Unknown {
		return cwelookup.Unknown()
	}
	return cwelookup.Resolved(value)
}
