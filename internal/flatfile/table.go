// Package flatfile stores rows in CSV files with a fixed header.
//
// Appends go straight to the end of the file. Every other mutation reads the
// whole file, modifies the rows in memory and writes the result to a temp
// file in the same directory, which then replaces the original (rename).
// A crash mid-write therefore never leaves a half written table behind.
//
// Writers are serialized only within one process: the tables assume a single
// writer process.
package flatfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/2beens/fittrack/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var (
	// ErrNeedsMigration is returned by Append when the stored header is not
	// the table's current one. Appending would drop the missing columns.
	ErrNeedsMigration = errors.New("table header is outdated, migration needed")
	// ErrUnknownHeader is returned by Migrate when the stored header lacks
	// columns the migration needs to carry the rows over.
	ErrUnknownHeader = errors.New("unknown table header")
)

// Record is a single row, column name -> raw value.
type Record map[string]string

type Table struct {
	path    string
	columns []string
	mutex   sync.Mutex
}

func NewTable(path string, columns []string) *Table {
	return &Table{
		path:    path,
		columns: columns,
	}
}

func (t *Table) Path() string {
	return t.path
}

func (t *Table) Columns() []string {
	return append([]string{}, t.columns...)
}

// Ensure creates the file (and its directory) with the table header, if missing.
func (t *Table) Ensure() error {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.ensure()
}

func (t *Table) ensure() error {
	if _, err := os.Stat(t.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
		return fmt.Errorf("create table dir: %w", err)
	}
	return t.writeAtomic(t.columns, nil)
}

// Header returns the header stored in the file, nil if the file does not exist.
func (t *Table) Header() ([]string, error) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	f, err := os.Open(t.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	header, err := newReader(f).Read()
	if errors.Is(err, io.EOF) {
		return []string{}, nil
	}
	return header, err
}

// ReadAll returns all well formed rows. Values are mapped by the header found
// in the file, so columns missing from an older file come back empty.
// Rows with a field count different from the header are skipped.
func (t *Table) ReadAll(ctx context.Context) (_ []Record, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "flatfile.readAll")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("table.path", t.path))

	t.mutex.Lock()
	defer t.mutex.Unlock()

	_, records, err := t.readAll()
	return records, err
}

func (t *Table) readAll() ([]string, []Record, error) {
	f, err := os.Open(t.path)
	if os.IsNotExist(err) {
		return nil, []Record{}, nil
	}
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	reader := newReader(f)
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, []Record{}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header of %s: %w", t.path, err)
	}

	records := []Record{}
	skipped := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			skipped++
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		if len(row) != len(header) {
			skipped++
			continue
		}

		rec := make(Record, len(header))
		for i, col := range header {
			rec[col] = row[i]
		}
		records = append(records, rec)
	}

	if skipped > 0 {
		log.Debugf("flatfile: skipped %d malformed rows in %s", skipped, t.path)
	}

	return header, records, nil
}

// Append adds records to the end of the file, creating it when missing.
func (t *Table) Append(ctx context.Context, records ...Record) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "flatfile.append")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("table.path", t.path),
		attribute.Int("table.records", len(records)),
	)

	t.mutex.Lock()
	defer t.mutex.Unlock()

	if err := t.ensure(); err != nil {
		return err
	}

	f, err := os.OpenFile(t.path, os.O_APPEND|os.O_RDWR, 0o644)
	if err != nil {
		return err
	}

	header, err := newReader(f).Read()
	if errors.Is(err, io.EOF) || len(header) == 0 {
		if err := csv.NewWriter(f).WriteAll([][]string{t.columns}); err != nil {
			_ = f.Close()
			return err
		}
	} else if err != nil {
		_ = f.Close()
		return fmt.Errorf("read header of %s: %w", t.path, err)
	} else if !sameColumns(header, t.columns) {
		_ = f.Close()
		return fmt.Errorf("append to %s with header %v: %w", t.path, header, ErrNeedsMigration)
	} else if err := ensureTrailingNewline(f); err != nil {
		_ = f.Close()
		return err
	}

	w := csv.NewWriter(f)
	for _, rec := range records {
		if err := w.Write(t.row(t.columns, rec)); err != nil {
			_ = f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

// Update reads all rows and hands them to fn. When fn reports a change, the
// returned rows replace the table content (atomic rewrite with the table header).
func (t *Table) Update(ctx context.Context, fn func(records []Record) ([]Record, bool, error)) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "flatfile.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("table.path", t.path))

	t.mutex.Lock()
	defer t.mutex.Unlock()

	_, records, err := t.readAll()
	if err != nil {
		return err
	}

	updated, changed, err := fn(records)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
		return fmt.Errorf("create table dir: %w", err)
	}
	return t.writeAtomic(t.columns, updated)
}

// Migrate rewrites the table if its stored header differs from the current
// columns. fn converts the old rows; rows it drops are gone for good.
// A stored header without all of the required columns is left untouched and
// reported as ErrUnknownHeader. Returns whether a rewrite happened.
func (t *Table) Migrate(ctx context.Context, required []string, fn func(header []string, records []Record) []Record) (_ bool, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "flatfile.migrate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	t.mutex.Lock()
	defer t.mutex.Unlock()

	header, records, err := t.readAll()
	if err != nil {
		return false, err
	}
	if header == nil {
		// missing or empty file, nothing to migrate
		return false, t.ensure()
	}
	if sameColumns(header, t.columns) {
		return false, nil
	}

	var missing []string
	for _, col := range required {
		if !slices.Contains(header, col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		log.Errorf("flatfile: not migrating %s, header %v is missing %v", t.path, header, missing)
		return false, fmt.Errorf("%s, missing columns %v: %w", t.path, missing, ErrUnknownHeader)
	}

	log.Warnf("flatfile: migrating %s from %v to %v", t.path, header, t.columns)
	if err := t.writeAtomic(t.columns, fn(header, records)); err != nil {
		return false, err
	}
	return true, nil
}

func (t *Table) row(columns []string, rec Record) []string {
	row := make([]string, len(columns))
	for i, col := range columns {
		row[i] = rec[col]
	}
	return row
}

func (t *Table) writeAtomic(columns []string, records []Record) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(t.path), "."+filepath.Base(t.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	w := csv.NewWriter(tmp)
	if err := w.Write(columns); err != nil {
		return err
	}
	for _, rec := range records {
		if err := w.Write(t.row(columns, rec)); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), t.path)
}

// ensureTrailingNewline makes sure appended rows do not get glued to a last
// line that was written without a line break (e.g. edited by hand).
func ensureTrailingNewline(f *os.File) error {
	stat, err := f.Stat()
	if err != nil {
		return err
	}
	if stat.Size() == 0 {
		return nil
	}

	last := make([]byte, 1)
	if _, err := f.ReadAt(last, stat.Size()-1); err != nil {
		return err
	}
	if last[0] == '\n' {
		return nil
	}
	_, err = f.Write([]byte("\n"))
	return err
}

func newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	return reader
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
