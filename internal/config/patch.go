package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/asyncwand/asyncwand/internal/engine/errors"
)

// PatchSaveConfig implements the CLI's `--save-config FILE` flag: it
// surgically sets driver.markAsync and, if non-empty, driver.ignore on
// an existing configuration document, leaving every other field (and
// any keys this tool doesn't recognize) untouched. If path doesn't
// exist yet, it starts from an empty object.
//
// This uses gjson/sjson rather than Load+Save's full unmarshal into
// Document: round-tripping through the typed struct would silently
// drop any field spec.md §6 doesn't name but a hand-authored config
// file still carries (comments-as-fields, tooling metadata, …).
func PatchSaveConfig(path string, seed SeedRef, ignore []IgnoreEntry) error {
	content := []byte("{}")
	if existing, err := os.ReadFile(path); err == nil {
		content = existing
	} else if !os.IsNotExist(err) {
		return errors.Wrap(errors.Io, "reading existing configuration for patch", err).At(path, 0)
	}

	if !gjson.ValidBytes(content) {
		return errors.New(errors.InvalidInput, "existing configuration file is not valid JSON").At(path, 0)
	}

	patched, err := sjson.SetBytes(content, "driver.markAsync", seed)
	if err != nil {
		return errors.Wrap(errors.InvalidInput, "patching driver.markAsync", err).At(path, 0)
	}
	if len(ignore) > 0 {
		patched, err = sjson.SetBytes(patched, "driver.ignore", ignore)
		if err != nil {
			return errors.Wrap(errors.InvalidInput, "patching driver.ignore", err).At(path, 0)
		}
	}

	if err := os.WriteFile(path, patched, 0o644); err != nil {
		return errors.Wrap(errors.Io, "writing patched configuration", err).At(path, 0)
	}
	return nil
}

// IgnoreEntryFromFlag parses a repeatable `--ignore PATH:LINE:TYPE:INDEX`
// CLI flag value into an IgnoreEntry.
func IgnoreEntryFromFlag(raw string) (IgnoreEntry, error) {
	var e IgnoreEntry
	parts := strings.Split(raw, ":")
	if len(parts) != 4 {
		return e, errors.New(errors.InvalidInput, "--ignore must be PATH:LINE:TYPE:INDEX, got "+raw)
	}
	e.Path = parts[0]
	e.Type = parts[2]
	line, err := strconv.Atoi(parts[1])
	if err != nil {
		return e, errors.New(errors.InvalidInput, "--ignore line must be an integer, got "+parts[1])
	}
	index, err := strconv.Atoi(parts[3])
	if err != nil {
		return e, errors.New(errors.InvalidInput, "--ignore index must be an integer, got "+parts[3])
	}
	e.Line = line
	e.Index = index
	return e, nil
}
