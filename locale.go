package localise

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	keyColumn   = 0
	valueColumn = 1
)

var header = []string{"Key", "Value", "Context"}

// LocalePath returns the CSV file for lang inside dir.
func LocalePath(dir, lang string) string {
	return filepath.Join(dir, lang+".csv")
}

// ReadLocale loads the key and value columns of a locale CSV, skipping the header row.
// A missing file yields an empty Record. The context column is ignored.
func ReadLocale(fs afero.Fs, path string, r Reporter) (Record, error) {
	if r == nil {
		r = NopReporter
	}
	f, err := fs.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		r.Report(Event{Kind: EventLocaleMissing, Path: path})
		return Record{}, nil
	}
	if err != nil {
		return nil, &Error{Kind: KindLocaleRow, Path: path, Err: err}
	}
	defer f.Close()
	r.Report(Event{Kind: EventLocaleFound, Path: path})

	cr := csv.NewReader(transform.NewReader(f, unicode.UTF8BOM.NewDecoder()))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rec := Record{}
	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return rec, nil
		}
		return nil, &Error{Kind: KindLocaleRow, Path: path, Err: err}
	}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rec, nil
		}
		if err != nil {
			return nil, &Error{Kind: KindLocaleRow, Path: path, Err: err}
		}
		if len(row) <= valueColumn {
			line, _ := cr.FieldPos(0)
			return nil, &Error{
				Kind: KindLocaleRow,
				Path: path,
				Line: line,
				Err:  fmt.Errorf("expected at least %d columns, got %d", valueColumn+1, len(row)),
			}
		}
		rec[row[keyColumn]] = row[valueColumn]
	}
}

// Reconcile makes rec hold exactly the keys in keys. Keys missing from keys are deleted,
// whatever their translation; new keys get themselves as placeholder value. rec is
// modified in place and returned.
func Reconcile(keys KeySet, rec Record, r Reporter) Record {
	if r == nil {
		r = NopReporter
	}
	if rec == nil {
		rec = Record{}
	}
	var stale []string
	for key := range rec {
		if !keys.Has(key) {
			stale = append(stale, key)
		}
	}
	sort.Strings(stale)
	for _, key := range stale {
		r.Report(Event{Kind: EventKeyDeleted, Key: key})
		delete(rec, key)
	}
	for _, key := range keys.Sorted() {
		if _, ok := rec[key]; ok {
			continue
		}
		r.Report(Event{Kind: EventKeyAdded, Key: key})
		rec[key] = keys[key]
	}
	return rec
}

// RenderLocale encodes rec as CSV: the header row, then one [key, value, ""] row per key
// in ascending key order. Rows end in CRLF; line breaks inside fields are kept as they are.
func RenderLocale(rec Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := writeRow(w, &buf, header); err != nil {
		return nil, err
	}
	for _, key := range rec.Sorted() {
		if err := writeRow(w, &buf, []string{key, rec[key], ""}); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// writeRow writes one record through w and swaps its "\n" terminator for "\r\n".
// csv.Writer.UseCRLF is not an option: it also drops every "\r" inside a field.
func writeRow(w *csv.Writer, buf *bytes.Buffer, row []string) error {
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1)
	buf.WriteString("\r\n")
	return nil
}

// WriteLocale renders rec and replaces path with it. The content goes to a temporary
// file in the same directory first, so a failed write leaves the old file untouched.
// An existing file keeps its permission bits.
func WriteLocale(fs afero.Fs, path string, rec Record) error {
	data, err := RenderLocale(rec)
	if err != nil {
		return &Error{Kind: KindWrite, Path: path, Err: err}
	}
	if err := writeFileAtomic(fs, path, data); err != nil {
		return &Error{Kind: KindWrite, Path: path, Err: err}
	}
	return nil
}

func writeFileAtomic(fs afero.Fs, path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	mode := os.FileMode(0o644)
	if info, err := fs.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = fs.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = fs.Chmod(tmp.Name(), mode); err != nil {
		return err
	}
	return fs.Rename(tmp.Name(), path)
}

// localeChanged reports whether writing rec to path would alter the file.
func localeChanged(fs afero.Fs, path string, rec Record) (bool, error) {
	want, err := RenderLocale(rec)
	if err != nil {
		return false, &Error{Kind: KindWrite, Path: path, Err: err}
	}
	have, err := afero.ReadFile(fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, &Error{Kind: KindLocaleRow, Path: path, Err: err}
	}
	return !bytes.Equal(have, want), nil
}
