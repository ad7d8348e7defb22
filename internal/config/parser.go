package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	batcherrors "github.com/alexisbeaulieu97/batchdef/pkg/errors"
)

// Format identifies a definition file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	// FormatJSON covers plain JSON and JSONC (comments and trailing commas).
	FormatJSON Format = "json"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

var extensionFormats = map[string]Format{
	".yaml":  FormatYAML,
	".yml":   FormatYAML,
	".json":  FormatJSON,
	".jsonc": FormatJSON,
}

// FormatForPath picks the decoder from the file extension. Unknown extensions are read as YAML.
func FormatForPath(path string) Format {
	if format, ok := extensionFormats[strings.ToLower(filepath.Ext(path))]; ok {
		return format
	}
	return FormatYAML
}

// SupportedExtensions lists the recognised definition file extensions in lexical order.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(extensionFormats))
	for ext := range extensionFormats {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Load reads a definition file from disk, validates it, and returns the resulting document.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, batcherrors.NewParseError(path, 0, err)
	}
	return Parse(path, data, FormatForPath(path))
}

// Parse decodes and validates a definition document. name is used for error reporting only.
func Parse(name string, data []byte, format Format) (*Document, error) {
	var doc Document

	switch format {
	case FormatJSON:
		if err := decodeJSON(data, &doc); err != nil {
			return nil, batcherrors.NewParseError(name, jsonErrorLine(data, err), err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				err = fmt.Errorf("document is empty")
			}
			return nil, batcherrors.NewParseError(name, extractLine(err), err)
		}
	default:
		return nil, batcherrors.NewParseError(name, 0, fmt.Errorf("unsupported format %q", format))
	}

	if err := ValidateDocument(&doc); err != nil {
		return nil, err
	}

	return &doc, nil
}

func decodeJSON(data []byte, doc *Document) error {
	return strictJSON(jsonc.ToJSON(data), doc)
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	_, scanErr := fmt.Sscanf(matches[1], "%d", &line)
	if scanErr != nil {
		return 0
	}

	return line
}

// jsonErrorLine maps a decoder offset back to a line. jsonc.ToJSON keeps offsets intact,
// so the offset is valid against the original bytes. Errors from collection decoders carry
// offsets relative to the collection and report no line.
func jsonErrorLine(data []byte, err error) int {
	var nested *nestedJSONError
	if errors.As(err, &nested) {
		return 0
	}

	var offset int64
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	case errors.As(err, &typeErr):
		offset = typeErr.Offset
	default:
		return 0
	}
	if offset <= 0 || offset > int64(len(data)) {
		return 0
	}
	return bytes.Count(data[:offset], []byte("\n")) + 1
}
