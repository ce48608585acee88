// Transaction view handed to instruction handlers. Reads and writes are
// routed by record type to the per-table functions.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/drm/pkg/types"
)

// txn implements types.Tx over a *sql.Tx.
type txn struct {
	tx       *sql.Tx
	readOnly bool
	dirty    map[string]bool // kinds written in this transaction
}

var _ types.Tx = (*txn)(nil)

func newTxn(tx *sql.Tx, readOnly bool) *txn {
	return &txn{tx: tx, readOnly: readOnly, dirty: make(map[string]bool)}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// Get loads the record at addr into dst.
func (t *txn) Get(addr types.Address, dst types.Record) error {
	if addr == "" {
		return types.ErrNotFound
	}
	spec, ok := specForKind(dst.Kind())
	if !ok {
		return types.ErrKindNotFound
	}

	row := t.tx.QueryRow(
		"SELECT "+joinColumns(spec.columns)+" FROM "+spec.table+" WHERE address = ?",
		string(addr),
	)
	if err := scanInto(dst, row); err != nil {
		if err == sql.ErrNoRows {
			return types.ErrNotFound
		}
		return fmt.Errorf("getting %s %s: %w", spec.kind, addr, err)
	}
	return nil
}

// Create inserts rec at its derived address.
func (t *txn) Create(rec types.Record) error {
	if t.readOnly {
		return types.ErrReadOnly
	}
	spec, ok := specForKind(rec.Kind())
	if !ok {
		return types.ErrKindNotFound
	}

	exists, err := t.exists(spec, rec.Address())
	if err != nil {
		return err
	}
	if exists {
		return types.ErrAddressInUse
	}

	args, err := rowValues(rec)
	if err != nil {
		return err
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(spec.columns)), ", ")
	if _, err := t.tx.Exec(
		"INSERT INTO "+spec.table+" ("+joinColumns(spec.columns)+") VALUES ("+placeholders+")",
		args...,
	); err != nil {
		return fmt.Errorf("inserting %s: %w", spec.kind, err)
	}
	t.dirty[spec.kind] = true
	return nil
}

// Put overwrites every column of the record at rec.Address().
func (t *txn) Put(rec types.Record) error {
	if t.readOnly {
		return types.ErrReadOnly
	}
	spec, ok := specForKind(rec.Kind())
	if !ok {
		return types.ErrKindNotFound
	}

	args, err := rowValues(rec)
	if err != nil {
		return err
	}
	// columns[0] is always address; it keys the UPDATE.
	sets := make([]string, 0, len(spec.columns)-1)
	for _, col := range spec.columns[1:] {
		sets = append(sets, col+" = ?")
	}
	updateArgs := append(args[1:], args[0])

	res, err := t.tx.Exec(
		"UPDATE "+spec.table+" SET "+strings.Join(sets, ", ")+" WHERE address = ?",
		updateArgs...,
	)
	if err != nil {
		return fmt.Errorf("updating %s: %w", spec.kind, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating %s: %w", spec.kind, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	t.dirty[spec.kind] = true
	return nil
}

// exists reports whether spec's table holds a row at addr.
func (t *txn) exists(spec tableSpec, addr types.Address) (bool, error) {
	var one int
	err := t.tx.QueryRow("SELECT 1 FROM "+spec.table+" WHERE address = ?", string(addr)).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking %s existence: %w", spec.kind, err)
	}
	return true, nil
}

// rowValues dehydrates rec into bind arguments in tableSpec column order.
func rowValues(rec types.Record) ([]any, error) {
	switch r := rec.(type) {
	case *types.Registry:
		return registryValues(r), nil
	case *types.Content:
		return contentValues(r), nil
	case *types.License:
		return licenseValues(r), nil
	case *types.Package:
		return packageValues(r)
	case *types.TokenAccount:
		return tokenAccountValues(r), nil
	default:
		return nil, types.ErrInvalidData
	}
}

// scanInto hydrates one row into dst.
func scanInto(dst types.Record, row rowScanner) error {
	switch r := dst.(type) {
	case *types.Registry:
		return scanRegistry(row, r)
	case *types.Content:
		return scanContent(row, r)
	case *types.License:
		return scanLicense(row, r)
	case *types.Package:
		return scanPackage(row, r)
	case *types.TokenAccount:
		return scanTokenAccount(row, r)
	default:
		return types.ErrInvalidData
	}
}

// hydrate allocates a record of kind and scans one row into it.
func hydrate(kind string, row rowScanner) (types.Record, error) {
	rec, err := types.NewRecord(kind)
	if err != nil {
		return nil, err
	}
	if err := scanInto(rec, row); err != nil {
		return nil, err
	}
	return rec, nil
}

// Column encoding helpers.

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func formatNullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseNullTime(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := parseTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// bindValue converts a filter value into a SQLite bind argument.
func bindValue(v any) any {
	if b, ok := v.(bool); ok {
		return boolInt(b)
	}
	return v
}

// joinColumns joins column names with commas.
func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}

// joinConditions joins WHERE conditions with AND.
func joinConditions(conds []string) string {
	return strings.Join(conds, " AND ")
}

// orderColumn returns the column Fetch orders by.
func orderColumn(spec tableSpec) string {
	switch spec.kind {
	case types.KindLicense:
		return "purchased_at"
	case types.KindTokenAccount:
		return "owner"
	default:
		return "created_at"
	}
}
