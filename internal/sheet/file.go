package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"
)

// ReadFile reads a sheet file into raw rows. Missing or unreadable files
// surface as *AccessError; CSV syntax problems are malformed content and
// come back as a plain parse error.
func ReadFile(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &AccessError{Op: "read", Path: path, Err: err}
	}

	r := csv.NewReader(bytes.NewReader(sanitizeUTF8(data)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse sheet %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

// WriteFile writes rows to path atomically: the content goes to a
// temporary file in the same directory which is renamed over the target
// only after a successful flush. A failed write leaves any previous file
// untouched.
func WriteFile(path string, rows [][]string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return &AccessError{Op: "write", Path: path, Err: err}
	}
	tmpName := tmp.Name()

	w := csv.NewWriter(tmp)
	err = w.WriteAll(rows)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpName)
		return &AccessError{Op: "write", Path: path, Err: err}
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &AccessError{Op: "rename", Path: path, Err: err}
	}
	return nil
}

// sanitizeUTF8 replaces invalid byte sequences with the replacement
// character so the CSV reader never chokes on stray legacy encodings.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('\uFFFD')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}
	return buf.Bytes()
}
