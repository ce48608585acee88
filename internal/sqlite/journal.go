// Commit journal for multi-file instructions. An instruction that dirties
// several record kinds stages every JSONL file as <file>.pending, then writes
// the journal naming them. The journal is the commit point: once it is on
// disk the pending files are renamed into place, here or on the next Attach.
// Pending files without a journal belong to an instruction that never
// committed and are discarded.
package sqlite

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	journalFileName = "commit.journal"
	pendingSuffix   = ".pending"
)

type commitJournal struct {
	Files []string `json:"files"`
}

func pendingPath(dataDir, file string) string {
	return filepath.Join(dataDir, file+pendingSuffix)
}

// writeJournal records files as committed. It returns only after the journal
// is synced and visible under its final name.
func writeJournal(dataDir string, files []string) error {
	data, err := json.Marshal(commitJournal{Files: files})
	if err != nil {
		return fmt.Errorf("marshaling journal: %w", err)
	}
	err = writeFileAtomic(filepath.Join(dataDir, journalFileName), func(w *bufio.Writer) error {
		_, err := w.Write(data)
		return err
	})
	if err != nil {
		return fmt.Errorf("writing journal: %w", err)
	}
	syncDir(dataDir)
	return nil
}

// readJournal returns the journalled files, or nil when no journal exists.
func readJournal(dataDir string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(dataDir, journalFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading journal: %w", err)
	}
	var j commitJournal
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("decoding journal: %w", err)
	}
	return j.Files, nil
}

// applyJournal rolls a committed journal forward, or discards staged files
// when there is no journal. It is idempotent: a pending file that is already
// gone was renamed by an earlier attempt.
func applyJournal(dataDir string) error {
	files, err := readJournal(dataDir)
	if err != nil {
		return err
	}
	if files == nil {
		discardPending(dataDir, stagedFiles(dataDir))
		return nil
	}

	for _, file := range files {
		err := os.Rename(pendingPath(dataDir, file), filepath.Join(dataDir, file))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("applying %s: %w", file, err)
		}
	}
	syncDir(dataDir)

	if err := os.Remove(filepath.Join(dataDir, journalFileName)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clearing journal: %w", err)
	}
	syncDir(dataDir)
	return nil
}

// discardPending removes the staged copies of files. Missing files are ignored.
func discardPending(dataDir string, files []string) {
	for _, file := range files {
		os.Remove(pendingPath(dataDir, file))
	}
}

// stagedFiles lists the JSONL files that have a pending copy in dataDir.
func stagedFiles(dataDir string) []string {
	var files []string
	for _, spec := range tableSpecs {
		if _, err := os.Lstat(pendingPath(dataDir, spec.file)); err == nil {
			files = append(files, spec.file)
		}
	}
	return files
}
