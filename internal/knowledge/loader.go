package knowledge

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadCSV reads an FAQ catalog from a CSV file with header columns
// "question" and "answer" and returns a populated store. A row missing
// either column is a fatal load error — a silently half-loaded catalog is
// worse than a refused start. progress, if non-nil, is called after each
// row is embedded.
func LoadCSV(ctx context.Context, path string, store *Store, progress func()) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening knowledge file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)

	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("reading knowledge header: %w", err)
	}

	qIdx, aIdx := -1, -1
	for i, col := range header {
		switch strings.TrimSpace(strings.ToLower(col)) {
		case "question":
			qIdx = i
		case "answer":
			aIdx = i
		}
	}
	if qIdx < 0 || aIdx < 0 {
		return fmt.Errorf("knowledge file %s: header must contain question and answer columns", path)
	}

	line := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return fmt.Errorf("knowledge file %s line %d: %w", path, line, err)
		}

		question := strings.TrimSpace(record[qIdx])
		answer := strings.TrimSpace(record[aIdx])
		if question == "" || answer == "" {
			return fmt.Errorf("knowledge file %s line %d: empty question or answer", path, line)
		}

		if err := store.Add(ctx, question, answer); err != nil {
			return fmt.Errorf("knowledge file %s line %d: %w", path, line, err)
		}
		if progress != nil {
			progress()
		}
	}

	return nil
}

// CountRows returns the number of data rows in the catalog without
// embedding anything. Used to size progress bars.
func CountRows(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening knowledge file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	n := -1 // discount the header
	for {
		if _, err := r.Read(); err == io.EOF {
			break
		} else if err != nil {
			return 0, err
		}
		n++
	}
	if n < 0 {
		n = 0
	}
	return n, nil
}
