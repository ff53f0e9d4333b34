package tables

import (
	"context"
	"fmt"
	"path"

	"enrollment-backend/config"
	"enrollment-backend/remote"

	"go.uber.org/zap"
)

// LoadStatus describes how a table was obtained. A table that does not exist
// yet is a normal startup state; Err is set only when the host or the file
// could not be read and an empty table was substituted.
type LoadStatus struct {
	Found bool
	Err   error
}

func (s LoadStatus) Degraded() bool {
	return s.Err != nil
}

// Result is the outcome of writing one table.
type Result struct {
	Table   string `json:"table"`
	Path    string `json:"path"`
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Store reads and writes whole tables through a Dialer, one fresh session per call.
type Store struct {
	dialer remote.Dialer
}

func NewStore(dialer remote.Dialer) *Store {
	return &Store{dialer: dialer}
}

// LoadTable never fails: a missing file or an unreachable host both yield an
// empty table shaped by schema, so the caller can keep going offline.
func (s *Store) LoadTable(ctx context.Context, p string, schema Schema) (*Table, LoadStatus) {
	var data []byte
	found := true

	err := remote.WithSession(ctx, s.dialer, func(session remote.Session) error {
		var err error
		data, err = session.ReadFile(p)
		if remote.IsNotExist(err) {
			found = false
			return nil
		}
		return err
	})
	if err != nil {
		config.Logger.Warn("Table unavailable, continuing with an empty table",
			zap.String("table", schema.Name),
			zap.String("path", p),
			zap.Error(err))
		return NewTable(schema), LoadStatus{Err: fmt.Errorf("failed to read %s: %w", p, err)}
	}

	if !found {
		config.Logger.Info("Table does not exist yet, starting empty",
			zap.String("table", schema.Name),
			zap.String("path", p))
		return NewTable(schema), LoadStatus{}
	}

	table, err := Decode(data, schema)
	if err != nil {
		config.Logger.Warn("Table could not be decoded, continuing with an empty table",
			zap.String("table", schema.Name),
			zap.String("path", p),
			zap.Error(err))
		return NewTable(schema), LoadStatus{Found: true, Err: err}
	}

	return table, LoadStatus{Found: true}
}

// SaveTable provisions the parent directory and overwrites p with the whole
// table. Failures are reported in the Result, never returned or panicked.
func (s *Store) SaveTable(ctx context.Context, table *Table, p string) Result {
	result := Result{Table: table.Name, Path: p}

	data, err := Encode(table)
	if err != nil {
		result.Err = err
		result.Message = fmt.Sprintf("could not serialize %s table: %v", table.Name, err)
		return result
	}

	err = remote.WithSession(ctx, s.dialer, func(session remote.Session) error {
		if err := remote.EnsureDirectory(session, path.Dir(p)); err != nil {
			return err
		}
		return session.WriteFile(p, data)
	})
	if err != nil {
		config.Logger.Error("Failed to save table",
			zap.String("table", table.Name),
			zap.String("path", p),
			zap.Error(err))
		result.Err = err
		result.Message = fmt.Sprintf("could not save %s table: %v", table.Name, err)
		return result
	}

	config.Logger.Info("Table saved",
		zap.String("table", table.Name),
		zap.String("path", p),
		zap.Int("rows", table.Len()))
	result.OK = true
	result.Message = fmt.Sprintf("%s table saved (%d rows)", table.Name, table.Len())
	return result
}
