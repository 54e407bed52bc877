// Package rules loads the YAML annotation rules file: column aliases,
// employee columns, date layouts, classifier and extraction rules.
package rules

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the top-level YAML structure of a rules file. Every section is
// optional; omitted sections fall back to the built-in defaults.
type File struct {
	Columns       *ColumnsRules     `yaml:"columns,omitempty"`
	Employees     *EmployeeRules    `yaml:"employees,omitempty"`
	DateLayouts   []string          `yaml:"date_layouts,omitempty"`
	Classifier    []ClassifierEntry `yaml:"classifier,omitempty"`
	Extraction    []ExtractionEntry `yaml:"extraction,omitempty"`
	KeywordFields []string          `yaml:"keyword_fields,omitempty"`
}

// ColumnsRules lists header aliases per structured field, tried in order.
type ColumnsRules struct {
	Date     []string `yaml:"date,omitempty"`
	Project  []string `yaml:"project,omitempty"`
	Truck    []string `yaml:"truck,omitempty"`
	Reporter []string `yaml:"reporter,omitempty"`
	Action   []string `yaml:"action,omitempty"`
	Hours    []string `yaml:"hours,omitempty"`
}

// EmployeeRules configures participant columns. Columns wins over Prefix.
type EmployeeRules struct {
	Columns []string `yaml:"columns,omitempty"`
	Prefix  string   `yaml:"prefix,omitempty"`
}

// ClassifierEntry maps a case-insensitive substring to an activity.
type ClassifierEntry struct {
	Pattern  string `yaml:"pattern"`
	Activity string `yaml:"activity"`
}

// ExtractionEntry is one activity's quantity extraction rule.
type ExtractionEntry struct {
	Activity string   `yaml:"activity"`
	Fields   []string `yaml:"fields"`
	Pattern  string   `yaml:"pattern"`
	Pick     string   `yaml:"pick,omitempty"`
}

// Parse decodes a rules document. Unknown keys are rejected so a typo in
// a section name does not silently fall back to defaults.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("decoding rules: %w", err)
	}
	return &f, nil
}

// LoadFile reads and parses the rules file at path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}
	f, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Marshal renders f as YAML, used by `fiberpay rules dump`.
func Marshal(f *File) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return nil, fmt.Errorf("encoding rules: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding rules: %w", err)
	}
	return buf.Bytes(), nil
}
