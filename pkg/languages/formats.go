package languages

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileFormat represents the supported candidate file formats
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatJSON               // {"en": "English", ...}
	FormatText               // one "code<TAB>name" per line
	FormatTOML               // [languages] table
)

// FormatInfo contains metadata about a candidate file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatJSON: {
		Format:      FormatJSON,
		Description: "JSON language object",
		Extensions:  []string{".json"},
		MinSize:     2, // {}
	},
	FormatText: {
		Format:      FormatText,
		Description: "Tab separated language list",
		Extensions:  []string{".txt", ".tsv"},
		MinSize:     1,
	},
	FormatTOML: {
		Format:      FormatTOML,
		Description: "TOML languages table",
		Extensions:  []string{".toml"},
		MinSize:     1,
	},
}

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "unknown"
}

// DetectFileFormat picks a format from the file extension and checks the
// file is big enough to hold anything in that format.
func DetectFileFormat(filename string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	for format, info := range supportedFormats {
		for _, e := range info.Extensions {
			if e != ext {
				continue
			}
			if err := validateSize(filename, info); err != nil {
				return FormatUnknown, err
			}
			return format, nil
		}
	}
	return FormatUnknown, fmt.Errorf("unable to detect format for file %s", filename)
}

func validateSize(filename string, info FormatInfo) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}
	if fileInfo.Size() < info.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), info.Description, info.MinSize)
	}
	return nil
}
