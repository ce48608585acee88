// JSONL loading for Attach. Loading is transactional: every file loads or
// the database stays empty.
package sqlite

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mesh-intelligence/drm/pkg/types"
)

// loadAllJSONL reads each JSONL file from dataDir and inserts the records into
// the corresponding SQLite tables. Foreign keys must still be disabled on db;
// Attach enables them once loading is done. A malformed line or a row that
// violates a constraint fails the load with ErrInvalidData naming the file and
// line. Unknown fields are ignored so that files written by a newer schema
// still load.
func loadAllJSONL(db *sql.DB, dataDir string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	for _, spec := range tableSpecs {
		records, err := readJSONL(filepath.Join(dataDir, spec.file))
		if err != nil {
			return fmt.Errorf("reading %s: %w", spec.file, err)
		}
		if len(records) == 0 {
			continue
		}
		if err := insertRecords(tx, spec, records); err != nil {
			return fmt.Errorf("loading %s: %w", spec.file, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

// insertRecords inserts parsed JSONL records into spec's table. Only columns
// listed in spec are extracted. Numbers are decoded with UseNumber so that
// balances and prices above 2^53 survive the round trip.
func insertRecords(tx *sql.Tx, spec tableSpec, records []jsonlLine) error {
	placeholders := make([]string, len(spec.columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	insertSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		spec.table,
		strings.Join(spec.columns, ", "),
		strings.Join(placeholders, ", "),
	)

	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		return fmt.Errorf("preparing insert for %s: %w", spec.table, err)
	}
	defer stmt.Close()

	for _, rec := range records {
		dec := json.NewDecoder(bytes.NewReader(rec.data))
		dec.UseNumber()
		var obj map[string]any
		if err := dec.Decode(&obj); err != nil {
			return fmt.Errorf("line %d: %v: %w", rec.line, err, types.ErrInvalidData)
		}

		args := make([]any, len(spec.columns))
		for i, col := range spec.columns {
			args[i] = columnValue(obj[col])
		}

		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("line %d: %v: %w", rec.line, err, types.ErrInvalidData)
		}
	}
	return nil
}

// columnValue converts a decoded JSON value into a SQLite bind argument.
func columnValue(val any) any {
	switch v := val.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		f, err := v.Float64()
		if err != nil {
			return nil
		}
		return f
	case bool:
		if v {
			return int64(1)
		}
		return int64(0)
	case map[string]any, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return nil
		}
		return string(b)
	default:
		return val
	}
}
