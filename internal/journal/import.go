package journal

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/mod/semver"

	"github.com/abhisek/naturepower/internal/events"
	"github.com/abhisek/naturepower/internal/schema"
)

var entrySchema = schema.Schema{
	Name: "journal-entry",
	Definition: `{
		"type": "object",
		"required": ["lessonId", "title", "timestamp"],
		"properties": {
			"id":        {"type": "string"},
			"lessonId":  {"type": "string", "minLength": 1},
			"title":     {"type": "string", "minLength": 1},
			"timestamp": {"type": "number", "exclusiveMinimum": 0},
			"facts":     {"type": ["array", "string", "null"]},
			"reflection":  {"type": ["string", "null"]},
			"evidenceImg": {"type": ["string", "null"]}
		}
	}`,
}

// ImportJSON replaces the whole collection with the valid entries of
// payload, which is either an entry array or an export document. Entries
// failing validation are skipped. Nothing changes when the payload is not
// recognisable or no entry is valid.
func (s *Service) ImportJSON(ctx context.Context, payload []byte) (int, error) {
	candidates, err := importCandidates(payload)
	if err != nil {
		return 0, err
	}

	var valid []Entry
	for i, raw := range candidates {
		if err := entrySchema.ValidateJSON(raw); err != nil {
			s.log.Debug("skipping invalid import entry", "index", i, "error", err)
			continue
		}
		var e Entry
		if err := json.Unmarshal(raw, &e); err != nil {
			s.log.Debug("skipping undecodable import entry", "index", i, "error", err)
			continue
		}
		if e.ID == "" {
			e.ID = entryID(e.LessonID, e.Timestamp)
		}
		valid = append(valid, e)
	}
	if len(valid) == 0 {
		return 0, ErrEmptyImport
	}

	s.mu.Lock()
	kept := s.save(ctx, valid)
	s.mu.Unlock()

	s.bus.Publish(events.Event{Kind: events.JournalImported, Count: len(kept)})
	return len(kept), nil
}

func importCandidates(payload []byte) ([]json.RawMessage, error) {
	var list []json.RawMessage
	if err := json.Unmarshal(payload, &list); err == nil && list != nil {
		return list, nil
	}

	var (
		entries []json.RawMessage
		version string
	)
	var top map[string]json.RawMessage
	if err := json.Unmarshal(payload, &top); err != nil {
		return nil, &FormatError{Reason: "not a JSON array or object", Err: err}
	}
	raw, ok := top["entries"]
	if !ok {
		return nil, &FormatError{Reason: "missing entries array"}
	}
	if err := json.Unmarshal(raw, &entries); err != nil || entries == nil {
		return nil, &FormatError{Reason: "entries is not an array", Err: err}
	}
	if v, ok := top["version"]; ok && json.Unmarshal(v, &version) == nil {
		if err := checkVersion(version); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

// checkVersion rejects exports from a newer major format.
func checkVersion(v string) error {
	sv := "v" + v
	if !semver.IsValid(sv) {
		return nil
	}
	if semver.Compare(semver.Major(sv), semver.Major("v"+ExportVersion)) > 0 {
		return &FormatError{Reason: fmt.Sprintf("export version %s is newer than supported %s", v, ExportVersion)}
	}
	return nil
}
