package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/modtower/pkg/errors"
)

// Format identifies the syntax of a tower document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the document format from a file extension. Anything
// that is not .toml is read as YAML, which also covers JSON documents.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Load reads and validates the tower document at path.
func Load(path string) (*TowerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read config %s", path)
	}
	cfg, err := Parse(data, FormatFromPath(path))
	if err != nil {
		if v, ok := err.(*errors.ValidationError); ok {
			v.Source = path
		}
		return nil, err
	}
	return cfg, nil
}

// Parse decodes data in the given format and validates it into a
// [TowerConfig]. Syntax errors and schema violations are both reported as a
// *errors.ValidationError; schema violations list every offending field.
func Parse(data []byte, format Format) (*TowerConfig, error) {
	doc, err := decodeDocument(data, format)
	if err != nil {
		v := &errors.ValidationError{}
		v.Add("", "%s syntax: %v", format, err)
		return nil, v
	}
	return fromDocument(doc)
}

func decodeDocument(data []byte, format Format) (any, error) {
	var doc any
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
			return nil, err
		}
	case FormatYAML, "":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	return doc, nil
}
