package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrMalformedFile is returned when the upload cannot be decoded as tabular
// data at all. This is a batch-fatal condition, never a per-row one.
var ErrMalformedFile = errors.New("malformed tabular file")

// Row maps a source column header (trimmed, as it appears in the file) to the
// raw cell value rendered as a trimmed string.
type Row map[string]string

// Table is the result of parsing one upload: the header row plus every
// non-empty data row, in file order.
type Table struct {
	Headers []string
	Rows    []Row
}

// Reader parses spreadsheet uploads into a Table. It understands xlsx
// workbooks and plain CSV; the first non-empty row is always treated as the
// header row.
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a reader. A nil logger falls back to slog.Default.
func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{logger: logger.With(slog.String("component", "tabular_reader"))}
}

// Parse decodes file bytes into headers and rows. Cell values are trimmed
// strings; completely empty rows are dropped. A payload that is neither a
// readable workbook nor CSV fails with ErrMalformedFile.
func (r *Reader) Parse(data []byte) (*Table, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrMalformedFile)
	}

	var (
		grid [][]string
		err  error
	)
	if isZipContainer(data) {
		grid, err = r.parseWorkbook(data)
	} else {
		grid, err = r.parseCSV(data)
	}
	if err != nil {
		return nil, err
	}

	table := gridToTable(grid)
	if table == nil {
		return nil, fmt.Errorf("%w: no header row found", ErrMalformedFile)
	}

	r.logger.Debug("file parsed",
		slog.Int("headers", len(table.Headers)),
		slog.Int("rows", len(table.Rows)))
	return table, nil
}

// isZipContainer checks the xlsx (ZIP) magic bytes.
func isZipContainer(data []byte) bool {
	return len(data) >= 4 && bytes.HasPrefix(data, []byte{0x50, 0x4B, 0x03, 0x04})
}

func (r *Reader) parseWorkbook(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no worksheets", ErrMalformedFile)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFile, err)
	}
	return rows, nil
}

func (r *Reader) parseCSV(data []byte) ([][]string, error) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var grid [][]string
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedFile, err)
		}
		grid = append(grid, record)
	}
	return grid, nil
}

// gridToTable converts the raw cell grid into headers plus keyed rows.
// Returns nil when no non-empty row exists to serve as header.
func gridToTable(grid [][]string) *Table {
	headerIdx := -1
	for i, row := range grid {
		if !rowIsEmpty(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return nil
	}

	headers := make([]string, len(grid[headerIdx]))
	for i, cell := range grid[headerIdx] {
		h := strings.TrimSpace(cell)
		if h == "" {
			h = fmt.Sprintf("Column %d", i+1)
		}
		headers[i] = h
	}

	table := &Table{Headers: headers}
	for _, row := range grid[headerIdx+1:] {
		if rowIsEmpty(row) {
			continue
		}
		record := make(Row, len(headers))
		for i, header := range headers {
			if i < len(row) {
				record[header] = strings.TrimSpace(row[i])
			} else {
				record[header] = ""
			}
		}
		table.Rows = append(table.Rows, record)
	}
	return table
}

func rowIsEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
