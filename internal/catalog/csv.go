package catalog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	ioutils "github.com/kittenwhisky/yoto-maker/internal/io"
	"github.com/kittenwhisky/yoto-maker/internal/model"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Writer writes records with every field quoted and CRLF line endings.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter returns a Writer that writes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write writes a single record. The first error is sticky.
func (w *Writer) Write(record []string) error {
	if w.err != nil {
		return w.err
	}

	var buf bytes.Buffer
	for i, field := range record {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(field, `"`, `""`))
		buf.WriteByte('"')
	}
	buf.WriteString("\r\n")

	_, w.err = w.w.Write(buf.Bytes())
	return w.err
}

// Error reports any error from a previous Write.
func (w *Writer) Error() error {
	return w.err
}

// Encode renders a header followed by the given rows.
func Encode(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// WriteFile writes tracks as a catalog, replacing any existing file at path.
func WriteFile(path string, tracks []*model.Track) error {
	rows := make([][]string, 0, len(tracks))
	for _, t := range tracks {
		rows = append(rows, []string{strconv.Itoa(t.Number), t.Title, t.URL})
	}

	data, err := Encode(model.CatalogColumns, rows)
	if err != nil {
		return err
	}
	if err := ioutils.WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("failed to write catalog %s: %w", path, err)
	}
	return nil
}

// WriteReport writes failed rows to path. The header is taken from the first
// failure; each row keeps the values it was loaded with.
func WriteReport(path string, failures []model.Outcome) error {
	if len(failures) == 0 {
		return nil
	}

	first := failures[0].Track.Columns()
	header := make([]string, len(first))
	for i, f := range first {
		header[i] = f.Name
	}

	rows := make([][]string, 0, len(failures))
	for _, o := range failures {
		row := make([]string, len(header))
		for i, f := range o.Track.Columns() {
			if i < len(row) {
				row[i] = f.Value
			}
		}
		rows = append(rows, row)
	}

	data, err := Encode(header, rows)
	if err != nil {
		return err
	}
	if err := ioutils.WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("failed to write error report %s: %w", path, err)
	}
	return nil
}

// Load reads and validates the catalog at path.
func Load(path string) (*model.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	tracks, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return model.NewCatalog(path, tracks), nil
}

// Decode parses catalog rows from r. The header must name a title and a url
// column; other columns are carried along in Track.Fields.
func Decode(r io.Reader) ([]*model.Track, error) {
	reader := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, model.ErrEmptyCatalog
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	names := make([]string, len(header))
	index := make(map[string]int, len(header))
	for i, h := range header {
		names[i] = strings.TrimSpace(h)
		key := strings.ToLower(names[i])
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}

	var missing []string
	for _, col := range []string{model.ColumnTitle, model.ColumnURL} {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &model.MissingColumnsError{Missing: missing, Found: names}
	}

	numberCol, hasNumber := index[model.ColumnTrackNumber]
	var tracks []*model.Track
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", line, err)
		}

		// short rows read as empty trailing values
		for len(record) < len(names) {
			record = append(record, "")
		}

		fields := make([]model.Field, len(names))
		for i, name := range names {
			fields[i] = model.Field{Name: name, Value: record[i]}
		}

		track := &model.Track{
			Number: line,
			Title:  record[index[model.ColumnTitle]],
			URL:    record[index[model.ColumnURL]],
			Fields: fields,
		}
		if hasNumber {
			if n, ok := model.ParseTrackNumber(record[numberCol]); ok {
				track.Number = n
			}
		}
		tracks = append(tracks, track)
	}

	if len(tracks) == 0 {
		return nil, model.ErrEmptyCatalog
	}
	return tracks, nil
}
