package csvfile

import "fmt"

// Batch groups writes to several files so they become visible together.
// All files are staged before the first rename, so a failure while writing
// leaves every target untouched.
type Batch struct {
	order []*File
	rows  map[*File][][]string
}

func NewBatch() *Batch {
	return &Batch{rows: make(map[*File][][]string)}
}

// Put records rows as the pending content of f, replacing earlier puts.
func (b *Batch) Put(f *File, rows [][]string) {
	if _, ok := b.rows[f]; !ok {
		b.order = append(b.order, f)
	}
	b.rows[f] = rows
}

// Get returns the pending content of f, if any.
func (b *Batch) Get(f *File) ([][]string, bool) {
	rows, ok := b.rows[f]
	return rows, ok
}

// Len returns the number of files with pending content.
func (b *Batch) Len() int {
	return len(b.order)
}

// Commit stages every pending file and then renames them in put order.
func (b *Batch) Commit() error {
	staged := make([]*Staged, 0, len(b.order))
	discardAll := func() {
		for _, s := range staged {
			s.Discard()
		}
	}

	for _, f := range b.order {
		s, err := f.Stage(b.rows[f])
		if err != nil {
			discardAll()
			return fmt.Errorf("stage batch: %w", err)
		}
		staged = append(staged, s)
	}

	for i, s := range staged {
		if err := s.Commit(); err != nil {
			for _, rest := range staged[i+1:] {
				rest.Discard()
			}
			return fmt.Errorf("commit batch: %w", err)
		}
	}

	return nil
}
