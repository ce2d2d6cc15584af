// Package config implements the on-disk configuration document of
// spec.md §6: a JSON object describing which driver populates the
// engine's SourceBuffer, what to ignore, and which function to seed.
package config

import (
	"encoding/json"
	"os"

	"github.com/asyncwand/asyncwand/internal/engine/errors"
)

// IgnoreEntry locates a node to suppress, per spec.md §6/§4.4.
type IgnoreEntry struct {
	Path  string `json:"path"`
	Line  int    `json:"line"`
	Type  string `json:"type"`
	Index int    `json:"index"`
}

// SeedRef locates the function to treat as the analysis seed.
type SeedRef struct {
	Path          string `json:"path"`
	Line          int    `json:"line"`
	FunctionIndex int    `json:"functionIndex"`
}

// Driver is the "driver" section of the configuration document.
type Driver struct {
	Type       string        `json:"type"`
	Root       string        `json:"root"`
	Scripts    []string      `json:"scripts,omitempty"`
	PathToHTML string        `json:"pathToHTML,omitempty"`
	Ignore     []IgnoreEntry `json:"ignore,omitempty"`
	MarkAsync  SeedRef       `json:"markAsync"`
}

// Serializer is the "serializer" section; consumed by the report
// collaborator (internal/reportio), not by the core engine.
type Serializer struct {
	Type    string                 `json:"type"`
	Options map[string]interface{} `json:"options,omitempty"`
}

// Document is the full configuration document of spec.md §6.
type Document struct {
	Driver     Driver     `json:"driver"`
	Serializer Serializer `json:"serializer"`
}

const (
	DriverJavaScript = "javascript"
	DriverHTML       = "html"
)

// Load reads and validates a configuration document from path.
func Load(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.Io, "reading configuration document", err).At(path, 0)
	}
	var doc Document
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, errors.Wrap(errors.InvalidInput, "parsing configuration document", err).At(path, 0)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks the recognized fields spec.md §6 names. Unknown
// JSON keys are ignored by construction (json.Unmarshal into a typed
// struct simply drops them), matching "Extra keys ignored".
func (d *Document) Validate() error {
	switch d.Driver.Type {
	case DriverJavaScript:
		if len(d.Driver.Scripts) == 0 {
			return errors.New(errors.InvalidInput, "driver.scripts must be non-empty for the javascript driver")
		}
	case DriverHTML:
		if d.Driver.PathToHTML == "" {
			return errors.New(errors.InvalidInput, "driver.pathToHTML is required for the html driver")
		}
	default:
		return errors.New(errors.InvalidInput, "driver.type must be \"javascript\" or \"html\", got "+d.Driver.Type)
	}
	if d.Driver.Root == "" {
		return errors.New(errors.InvalidInput, "driver.root is required")
	}
	if d.Driver.MarkAsync.Path == "" {
		return errors.New(errors.InvalidInput, "driver.markAsync.path is required")
	}
	return nil
}

// Save writes doc to path as indented JSON.
func Save(path string, doc *Document) error {
	content, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.InvalidInput, "encoding configuration document", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return errors.Wrap(errors.Io, "writing configuration document", err).At(path, 0)
	}
	return nil
}
