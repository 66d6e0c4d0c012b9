// Package csvfile stores a table as a delimited-text file with a header row.
//
// Every read loads the whole file and every write replaces it: rows are
// written to a temporary file in the same directory which is then renamed
// over the target.
package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
)

var (
	ErrMissingHeader  = errors.New("missing header row")
	ErrHeaderMismatch = errors.New("header mismatch")
)

// File is a single table backed by a csv file.
type File struct {
	path   string
	header []string
}

// New returns a File at path whose first row must equal header.
func New(path string, header []string) *File {
	return &File{
		path:   path,
		header: slices.Clone(header),
	}
}

// Path returns the file location.
func (f *File) Path() string {
	return f.path
}

// EnsureInitialized creates the file holding only the header row when it does
// not exist. An existing file is left untouched, whatever it contains.
func (f *File) EnsureInitialized() (bool, error) {
	_, err := os.Stat(f.path)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat %s: %w", f.path, err)
	}

	if err := f.WriteAll(nil); err != nil {
		return false, err
	}

	return true, nil
}

// ReadAll returns every data row in file order, excluding the header.
func (f *File) ReadAll() ([][]string, error) {
	fd, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.path, err)
	}
	defer fd.Close()

	r := csv.NewReader(fd)
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read %s: %w", f.path, ErrMissingHeader)
		}
		return nil, fmt.Errorf("read header %s: %w", f.path, err)
	}
	if !slices.Equal(header, f.header) {
		return nil, fmt.Errorf("read %s: %w: got %v, want %v", f.path, ErrHeaderMismatch, header, f.header)
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows %s: %w", f.path, err)
	}

	return rows, nil
}

// WriteAll replaces the file content with the header followed by rows.
func (f *File) WriteAll(rows [][]string) error {
	staged, err := f.Stage(rows)
	if err != nil {
		return err
	}

	return staged.Commit()
}

// Stage writes the header and rows to a temporary file next to the target.
// Nothing is visible until the returned Staged is committed.
func (f *File) Stage(rows [][]string) (*Staged, error) {
	dir, base := filepath.Split(f.path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create temp file for %s: %w", f.path, err)
	}

	staged := &Staged{tmpPath: tmp.Name(), path: f.path}
	if err := writeRows(tmp, f.header, rows); err != nil {
		_ = tmp.Close()
		staged.Discard()
		return nil, fmt.Errorf("write %s: %w", f.path, err)
	}
	if err := tmp.Close(); err != nil {
		staged.Discard()
		return nil, fmt.Errorf("close temp file for %s: %w", f.path, err)
	}
	//nolint:gosec
	if err := os.Chmod(staged.tmpPath, 0o644); err != nil {
		staged.Discard()
		return nil, fmt.Errorf("chmod temp file for %s: %w", f.path, err)
	}

	return staged, nil
}

func writeRows(fd *os.File, header []string, rows [][]string) error {
	w := csv.NewWriter(fd)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}

	return fd.Sync()
}

// Staged is a fully written table waiting to replace its target file.
type Staged struct {
	tmpPath string
	path    string
	done    bool
}

// Commit renames the staged file over the target.
func (s *Staged) Commit() error {
	if s.done {
		return nil
	}
	if err := os.Rename(s.tmpPath, s.path); err != nil {
		s.Discard()
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	s.done = true
	return nil
}

// Discard removes the staged file without touching the target.
func (s *Staged) Discard() {
	if s.done {
		return
	}
	_ = os.Remove(s.tmpPath)
	s.done = true
}
