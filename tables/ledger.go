package tables

import (
	"context"
	"fmt"
	"path"
	"strings"
)

// Paths locates the three tables under a storage root.
type Paths struct {
	Applicants string
	Accounts   string
	Documents  string
}

func DefaultPaths(root string) Paths {
	if root == "" {
		root = "/"
	}
	return Paths{
		Applicants: path.Join(root, "datos", "inscritos.csv"),
		Accounts:   path.Join(root, "config", "usuarios.csv"),
		Documents:  path.Join(root, "datos", "documentos_inscritos.csv"),
	}
}

// Ledger is the three tables loaded together. It is a snapshot: nothing
// locks the files between Load and Save, so concurrent writers race and the
// last whole-table save wins.
type Ledger struct {
	Applicants *Table
	Accounts   *Table
	Documents  *Table
	Status     map[string]LoadStatus
}

// NewLedger returns an empty, non-degraded ledger.
func NewLedger() *Ledger {
	return &Ledger{
		Applicants: NewTable(ApplicantSchema),
		Accounts:   NewTable(AccountSchema),
		Documents:  NewTable(DocumentSchema),
		Status:     map[string]LoadStatus{},
	}
}

// Degraded lists the tables that could not be read.
func (l *Ledger) Degraded() []string {
	var names []string
	for _, table := range []*Table{l.Applicants, l.Accounts, l.Documents} {
		if l.Status[table.Name].Degraded() {
			names = append(names, table.Name)
		}
	}
	return names
}

// SaveResult collects the three per-table outcomes of one logical save.
type SaveResult struct {
	Results []Result `json:"results"`
}

// OK holds only when every table was written.
func (r SaveResult) OK() bool {
	if len(r.Results) == 0 {
		return false
	}
	for _, result := range r.Results {
		if !result.OK {
			return false
		}
	}
	return true
}

func (r SaveResult) Failed() []Result {
	var failed []Result
	for _, result := range r.Results {
		if !result.OK {
			failed = append(failed, result)
		}
	}
	return failed
}

func (r SaveResult) Message() string {
	failed := r.Failed()
	if len(failed) == 0 {
		return fmt.Sprintf("%d tables saved", len(r.Results))
	}

	messages := make([]string, 0, len(failed))
	for _, result := range failed {
		messages = append(messages, result.Message)
	}
	return fmt.Sprintf("%d of %d tables failed to save: %s", len(failed), len(r.Results), strings.Join(messages, "; "))
}

// LedgerRepository makes the read-modify-write cycle explicit: Load, mutate
// the tables in memory (Table.UpsertByKey), Save.
type LedgerRepository interface {
	Load(ctx context.Context) *Ledger
	Save(ctx context.Context, ledger *Ledger) SaveResult
	// SaveOnly writes the named tables and leaves the others untouched.
	SaveOnly(ctx context.Context, ledger *Ledger, names ...string) SaveResult
	Paths() Paths
}

type ledgerRepository struct {
	store *Store
	paths Paths
}

func NewLedgerRepository(store *Store, paths Paths) LedgerRepository {
	return &ledgerRepository{store: store, paths: paths}
}

func (r *ledgerRepository) Paths() Paths {
	return r.paths
}

func (r *ledgerRepository) Load(ctx context.Context) *Ledger {
	ledger := &Ledger{Status: map[string]LoadStatus{}}

	var status LoadStatus
	ledger.Applicants, status = r.store.LoadTable(ctx, r.paths.Applicants, ApplicantSchema)
	ledger.Status[ApplicantSchema.Name] = status

	ledger.Accounts, status = r.store.LoadTable(ctx, r.paths.Accounts, AccountSchema)
	ledger.Status[AccountSchema.Name] = status

	ledger.Documents, status = r.store.LoadTable(ctx, r.paths.Documents, DocumentSchema)
	ledger.Status[DocumentSchema.Name] = status

	return ledger
}

// Save writes all three tables, each independently. A table whose load
// degraded on an error is not written back: it holds only this call's rows
// and would erase everything already on the host.
func (r *ledgerRepository) Save(ctx context.Context, ledger *Ledger) SaveResult {
	return r.SaveOnly(ctx, ledger, ApplicantSchema.Name, AccountSchema.Name, DocumentSchema.Name)
}

func (r *ledgerRepository) SaveOnly(ctx context.Context, ledger *Ledger, names ...string) SaveResult {
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}

	targets := []struct {
		table *Table
		path  string
	}{
		{ledger.Applicants, r.paths.Applicants},
		{ledger.Accounts, r.paths.Accounts},
		{ledger.Documents, r.paths.Documents},
	}

	var result SaveResult
	for _, target := range targets {
		if !wanted[target.table.Name] {
			continue
		}
		if status := ledger.Status[target.table.Name]; status.Degraded() {
			result.Results = append(result.Results, Result{
				Table:   target.table.Name,
				Path:    target.path,
				Message: fmt.Sprintf("%s table was unavailable at load time and was not overwritten", target.table.Name),
				Err:     status.Err,
			})
			continue
		}
		result.Results = append(result.Results, r.store.SaveTable(ctx, target.table, target.path))
	}
	return result
}
