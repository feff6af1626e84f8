package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/topsis/internal/topsis"
)

// Row is one scored alternative in the JSON output. Values line up with
// Document.Header.
type Row struct {
	Values []string `json:"values"`
	Score  float64  `json:"score"`
	Rank   int      `json:"rank"`
}

// Document is the JSON output layout. Header is the input header; each row's
// score and rank are separate fields.
type Document struct {
	Header []string `json:"header"`
	Rows   []Row    `json:"rows"`
}

// Save writes the result to path in the format implied by its extension. The
// file is written to a temporary sibling first so a failed write never leaves
// partial output behind.
func Save(path string, result *topsis.Result) (err error) {
	format := DetectFormat(path)
	if format == FormatUnknown {
		return topsis.FormatErrorf("output must be .csv, .csv.gz, .csv.zst or .json: %q", path)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".topsis-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = Write(tmp, format, result); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}

	log.Debug().Str("path", path).Str("format", format.String()).Int("rows", len(result.Scores)).Msg("saved result")
	return nil
}

// Write encodes result to w.
func Write(w io.Writer, format Format, result *topsis.Result) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, result)
	case FormatCSVGzip:
		gz := gzip.NewWriter(w)
		if err := WriteCSV(gz, result); err != nil {
			_ = gz.Close()
			return err
		}
		return gz.Close()
	case FormatCSVZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return fmt.Errorf("zstd writer: %w", err)
		}
		if err := WriteCSV(zw, result); err != nil {
			_ = zw.Close()
			return err
		}
		return zw.Close()
	case FormatJSON:
		return WriteJSON(w, result)
	default:
		return topsis.FormatErrorf("unsupported output format %s", format)
	}
}

func WriteCSV(w io.Writer, result *topsis.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(result.Records()); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func WriteJSON(w io.Writer, result *topsis.Result) error {
	doc := NewDocument(result)

	data, err := sonic.ConfigStd.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

func NewDocument(result *topsis.Result) Document {
	doc := Document{
		Header: append([]string(nil), result.Table.Header...),
		Rows:   make([]Row, len(result.Table.Rows)),
	}
	for i, row := range result.Table.Rows {
		values := append([]string(nil), row...)
		doc.Rows[i] = Row{Values: values, Score: result.Scores[i], Rank: result.Ranks[i]}
	}
	return doc
}
