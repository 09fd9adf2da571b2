package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/afero"

	"github.com/fieldlog/fieldlog/internal/domain/model"
	"github.com/fieldlog/fieldlog/internal/domain/model/operation"
	"github.com/fieldlog/fieldlog/internal/domain/repository"
	"github.com/fieldlog/fieldlog/internal/infra/persistence/file"
)

// historySchemaVersion is the current on-disk format version. Version 0
// is the legacy bare array without an envelope.
const historySchemaVersion = 1

// historyEnvelope is the persisted shape of the whole history blob
type historyEnvelope struct {
	SchemaVersion int               `json:"schema_version"`
	Operations    []json.RawMessage `json:"operations"`
}

// numericFields are the document keys that must be strictly number or
// null after normalization
var numericFields = []string{
	"startKm", "endKm", "distanceKm",
	"displacementDuration",
	"mobilizationDuration", "demobilizationDuration",
	"totalWaitingTime", "totalLunchTime", "totalRefuelingTime",
}

// HistoryRepositoryImpl implements repository.HistoryRepository as one
// JSON blob rewritten in full on every mutation. Items are normalized
// on load; the corrected blob is only written back immediately when
// rewriteOnLoad is set, otherwise on the next mutation.
type HistoryRepositoryImpl struct {
	fs            afero.Fs
	path          string
	rewriteOnLoad bool
	mu            sync.Mutex
}

// NewHistoryRepositoryImpl creates a file-based history repository
func NewHistoryRepositoryImpl(fs afero.Fs, path string, rewriteOnLoad bool) *HistoryRepositoryImpl {
	return &HistoryRepositoryImpl{
		fs:            fs,
		path:          path,
		rewriteOnLoad: rewriteOnLoad,
	}
}

// All retrieves every stored operation in insertion order
func (r *HistoryRepositoryImpl) All(ctx context.Context) ([]*operation.Operation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

// FindByID retrieves one operation by its ID
func (r *HistoryRepositoryImpl) FindByID(ctx context.Context, id model.OperationID) (*operation.Operation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ops, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, op := range ops {
		if op.ID().Equals(id) {
			return op, nil
		}
	}
	return nil, repository.ErrOperationNotFound
}

// Last retrieves the most recently appended operation
func (r *HistoryRepositoryImpl) Last(ctx context.Context) (*operation.Operation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ops, err := r.load()
	if err != nil {
		return nil, err
	}
	if len(ops) == 0 {
		return nil, repository.ErrOperationNotFound
	}
	return ops[len(ops)-1], nil
}

// Append adds an operation and rewrites the whole blob
func (r *HistoryRepositoryImpl) Append(ctx context.Context, op *operation.Operation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ops, err := r.load()
	if err != nil {
		return err
	}
	ops = append(ops, op)
	return r.save(ops)
}

// Update replaces the stored operation with the same ID
func (r *HistoryRepositoryImpl) Update(ctx context.Context, op *operation.Operation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ops, err := r.load()
	if err != nil {
		return err
	}
	for i, stored := range ops {
		if stored.ID().Equals(op.ID()) {
			ops[i] = op
			return r.save(ops)
		}
	}
	return repository.ErrOperationNotFound
}

// Count reports how many operations are stored
func (r *HistoryRepositoryImpl) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ops, err := r.load()
	if err != nil {
		return 0, err
	}
	return len(ops), nil
}

// Clear removes the whole history blob
func (r *HistoryRepositoryImpl) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.fs.Remove(r.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove history file: %w", err)
	}
	return nil
}

// load reads, migrates and normalizes the blob into domain operations
func (r *HistoryRepositoryImpl) load() ([]*operation.Operation, error) {
	data, err := afero.ReadFile(r.fs, r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read history file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	raws, changed, err := decodeBlob(data)
	if err != nil {
		return nil, err
	}

	var ops []*operation.Operation
	for _, raw := range raws {
		doc, itemChanged, ok := normalizeItem(raw)
		changed = changed || itemChanged
		if !ok {
			continue
		}
		op, err := operation.FromDocument(doc)
		if err != nil {
			changed = true
			continue
		}
		ops = append(ops, op)
	}

	if changed && r.rewriteOnLoad {
		if err := r.save(ops); err != nil {
			return nil, fmt.Errorf("rewrite normalized history: %w", err)
		}
	}
	return ops, nil
}

// save rewrites the whole blob atomically
func (r *HistoryRepositoryImpl) save(ops []*operation.Operation) error {
	env := historyEnvelope{
		SchemaVersion: historySchemaVersion,
		Operations:    []json.RawMessage{},
	}
	for _, op := range ops {
		data, err := json.Marshal(operation.ToDocument(op))
		if err != nil {
			return fmt.Errorf("marshal operation %s: %w", op.ID(), err)
		}
		env.Operations = append(env.Operations, data)
	}

	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal history envelope: %w", err)
	}
	if err := file.WriteFileAtomic(r.fs, r.path, data); err != nil {
		return fmt.Errorf("write history file: %w", err)
	}
	return nil
}

// decodeBlob reads either the versioned envelope or a legacy bare
// array (treated as version 0). A legacy blob counts as changed.
func decodeBlob(data []byte) ([]json.RawMessage, bool, error) {
	trimmed := bytes.TrimSpace(data)
	if trimmed[0] == '[' {
		var raws []json.RawMessage
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, false, fmt.Errorf("parse legacy history blob: %w", err)
		}
		return raws, true, nil
	}

	var env historyEnvelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, false, fmt.Errorf("parse history envelope: %w", err)
	}
	return env.Operations, false, nil
}

// normalizeItem coerces one stored item into a valid document: numeric
// fields become strictly number|null, the ID is defaulted to a fresh
// one when absent or empty, and null or non-object entries are dropped.
func normalizeItem(raw json.RawMessage) (operation.Document, bool, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return operation.Document{}, true, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return operation.Document{}, true, false
	}

	changed := false
	for _, key := range numericFields {
		if v, ok := fields[key]; ok && !isNumberOrNull(v) {
			fields[key] = json.RawMessage("null")
			changed = true
		}
	}

	if !hasNonEmptyID(fields) {
		idJSON, _ := json.Marshal(model.NewOperationID().String())
		fields["id"] = idJSON
		changed = true
	}

	repacked, err := json.Marshal(fields)
	if err != nil {
		return operation.Document{}, true, false
	}
	var doc operation.Document
	if err := json.Unmarshal(repacked, &doc); err != nil {
		return operation.Document{}, true, false
	}
	return doc, changed, true
}

func isNumberOrNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if bytes.Equal(trimmed, []byte("null")) {
		return true
	}
	var f float64
	return json.Unmarshal(trimmed, &f) == nil
}

func hasNonEmptyID(fields map[string]json.RawMessage) bool {
	v, ok := fields["id"]
	if !ok {
		return false
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return false
	}
	return s != ""
}
