// JSONL read/write helpers with atomic persistence. JSONL files in DataDir
// are the source of truth; the SQLite database is rebuilt from them on
// every Attach.
package sqlite

import (
	"bufio"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mesh-intelligence/drm/pkg/types"
)

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// jsonlLine is one record read from a JSONL file with its 1-based line number.
type jsonlLine struct {
	line int
	data json.RawMessage
}

// readJSONL reads a JSONL file and returns each non-empty line. A line that
// is not valid JSON fails the read with ErrInvalidData naming the file and
// line. A missing file yields no records.
func readJSONL(path string) ([]jsonlLine, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []jsonlLine
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for scanner.Scan() {
		n++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			return nil, fmt.Errorf("%s line %d: malformed JSON: %w", filepath.Base(path), n, types.ErrInvalidData)
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, jsonlLine{line: n, data: cp})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}

// writeJSONL atomically writes records to a JSONL file.
func writeJSONL(path string, records []json.RawMessage) error {
	return writeFileAtomic(path, func(w *bufio.Writer) error {
		for _, rec := range records {
			if _, err := w.Write(rec); err != nil {
				return fmt.Errorf("writing record: %w", err)
			}
			if err := w.WriteByte('\n'); err != nil {
				return fmt.Errorf("writing newline: %w", err)
			}
		}
		return nil
	})
}

// writeFileAtomic replaces path using the temp-file, fsync, rename pattern.
func writeFileAtomic(path string, write func(w *bufio.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	fail := func(step string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%s: %w", step, err)
	}

	w := bufio.NewWriter(tmp)
	if err := write(w); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := w.Flush(); err != nil {
		return fail("flushing buffer", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("syncing temp file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// syncDir flushes directory entries so that renames survive a crash. Some
// filesystems reject fsync on directories; that is not treated as an error.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	d.Close()
}

// persistTableJSONL reads every row of spec's table through q and writes the
// rows as JSONL to path, ordered by address so that output is stable.
func persistTableJSONL(q queryer, path string, spec tableSpec) error {
	rows, err := q.Query(
		"SELECT " + strings.Join(spec.columns, ", ") + " FROM " + spec.table + " ORDER BY address",
	)
	if err != nil {
		return fmt.Errorf("querying %s for JSONL: %w", spec.table, err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		values := make([]any, len(spec.columns))
		valuePtrs := make([]any, len(spec.columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return fmt.Errorf("scanning %s row: %w", spec.table, err)
		}
		rec := make(map[string]any, len(spec.columns))
		for i, col := range spec.columns {
			if b, ok := values[i].([]byte); ok {
				rec[col] = string(b)
				continue
			}
			rec[col] = values[i]
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshaling %s row: %w", spec.table, err)
		}
		records = append(records, data)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating %s for JSONL: %w", spec.table, err)
	}

	return writeJSONL(path, records)
}
