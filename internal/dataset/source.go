package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/topsis/internal/topsis"
)

// Load reads the table at path. Unknown extensions fail with a FormatError,
// missing files with a NotFoundError and files without a header line with an
// EmptyInputError. Other failures are returned unclassified for the caller's
// boundary to wrap.
func Load(path string) (*topsis.Table, error) {
	format := DetectFormat(path)
	if !format.IsReadable() {
		return nil, topsis.FormatErrorf("input must be a CSV file (.csv, .csv.gz or .csv.zst): %q", path)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, topsis.NotFoundErrorf("file not found at %q", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r, closeFn, err := decompress(f, format)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", path, err)
	}
	defer closeFn()

	table, err := ReadCSV(r)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("path", path).
		Str("format", format.String()).
		Int("columns", len(table.Header)).
		Int("rows", len(table.Rows)).
		Msg("loaded table")

	return table, nil
}

func decompress(r io.Reader, format Format) (io.Reader, func(), error) {
	switch format {
	case FormatCSVGzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return gz, func() { _ = gz.Close() }, nil
	case FormatCSVZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return zr, zr.Close, nil
	default:
		return r, func() {}, nil
	}
}

// ReadCSV parses a header row followed by data rows. Row lengths are not
// enforced here; validation reports ragged rows as a ShapeError.
func ReadCSV(r io.Reader) (*topsis.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, topsis.EmptyInputErrorf("file is empty, please provide valid data")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	table := &topsis.Table{Header: header}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(table.Rows)+1, err)
		}
		table.Rows = append(table.Rows, record)
	}

	return table, nil
}
