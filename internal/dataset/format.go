// Package dataset loads alternative tables from disk and writes scored
// results back.
package dataset

import (
	"strings"
)

type Format int

const (
	FormatUnknown Format = iota
	FormatCSV
	FormatCSVGzip
	FormatCSVZstd
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatCSVGzip:
		return "csv+gzip"
	case FormatCSVZstd:
		return "csv+zstd"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// DetectFormat picks a format from the file extension.
func DetectFormat(path string) Format {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".csv"):
		return FormatCSV
	case strings.HasSuffix(lower, ".csv.gz"):
		return FormatCSVGzip
	case strings.HasSuffix(lower, ".csv.zst"):
		return FormatCSVZstd
	case strings.HasSuffix(lower, ".json"):
		return FormatJSON
	default:
		return FormatUnknown
	}
}

// IsReadable reports whether f can be used as a data source.
func (f Format) IsReadable() bool {
	return f == FormatCSV || f == FormatCSVGzip || f == FormatCSVZstd
}
