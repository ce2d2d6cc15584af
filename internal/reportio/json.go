// Package reportio renders a report.Model to the wire formats the CLI's
// --format flag and the HTTP API's report endpoint expose: JSON and
// Markdown. Neither writer mutates the model; both are pure functions
// of it, following the teacher's internal/output.JSONWriter shape of
// a versioned envelope with explicit counts.
package reportio

import (
	"encoding/json"

	"github.com/asyncwand/asyncwand/internal/engine/errors"
	"github.com/asyncwand/asyncwand/internal/propagate"
	"github.com/asyncwand/asyncwand/internal/report"
)

const schemaVersion = 1

// Edge is the JSON-serializable form of a propagate.Edge: node
// identities are rendered as their report.Model.Serialize strings
// rather than carrying *sitter.Node pointers over the wire.
type Edge struct {
	Await string `json:"await"`
	Async string `json:"async,omitempty"`
}

// FunctionReport is one entry of the JSON envelope's "functions" array:
// a newly-async function and the await sites that forced it.
type FunctionReport struct {
	Function      string `json:"function"`
	IsSyntaxError bool   `json:"isAsyncSyntaxError,omitempty"`
	Edges         []Edge `json:"edges"`
}

// Document is the top-level JSON envelope written by WriteJSON.
type Document struct {
	SchemaVersion int              `json:"schemaVersion"`
	Seed          string           `json:"seed"`
	FunctionCount int              `json:"functionCount"`
	Root          []Edge           `json:"root"`
	Functions     []FunctionReport `json:"functions"`
}

// BuildDocument flattens m into the wire Document, resolving every
// node through m.Serialize/m.NameOf so the result carries no pointers.
func BuildDocument(m *report.Model) (*Document, error) {
	seedName, err := m.Serialize(m.Seed)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		SchemaVersion: schemaVersion,
		Seed:          seedName,
	}
	for _, e := range m.AsyncMap.Root {
		edge, err := serializeEdge(m, e)
		if err != nil {
			return nil, err
		}
		doc.Root = append(doc.Root, edge)
	}

	for _, fn := range m.AsyncMap.Keys() {
		name, err := m.Serialize(fn)
		if err != nil {
			return nil, err
		}
		fr := FunctionReport{
			Function:      name,
			IsSyntaxError: m.IsAsyncSyntaxError(fn),
		}
		for _, e := range m.AsyncMap.Edges(fn) {
			edge, err := serializeEdge(m, e)
			if err != nil {
				return nil, err
			}
			fr.Edges = append(fr.Edges, edge)
		}
		doc.Functions = append(doc.Functions, fr)
	}
	doc.FunctionCount = len(doc.Functions)
	return doc, nil
}

func serializeEdge(m *report.Model, e propagate.Edge) (Edge, error) {
	var out Edge
	if e.AwaitNode != nil {
		await, err := m.Serialize(e.AwaitNode)
		if err != nil {
			return out, err
		}
		out.Await = await
	}
	if e.HasAsyncNode && e.AsyncNode != nil {
		async, err := m.Serialize(e.AsyncNode)
		if err != nil {
			return out, err
		}
		out.Async = async
	}
	return out, nil
}

// WriteJSON renders m as indented JSON, per SPEC_FULL.md §4.6.
func WriteJSON(m *report.Model) ([]byte, error) {
	doc, err := BuildDocument(m)
	if err != nil {
		return nil, err
	}
	content, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.InvalidInput, "encoding report as JSON", err)
	}
	return content, nil
}
