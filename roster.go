package graveyard

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// RosterEntry is one configured dashboard entity.
type RosterEntry struct {
	Name  string
	Type  ItemType
	Model string
}

// rosterFile mirrors the on-disk roster document: two sections of named
// entries, each carrying at least a model assignment.
type rosterFile struct {
	Agents     map[string]rosterModel `json:"agents"`
	Categories map[string]rosterModel `json:"categories"`
}

type rosterModel struct {
	Model string `json:"model"`
}

// LoadRoster reads the roster config. Sections are read tolerantly: a
// missing or malformed section yields no entries for it rather than an
// error. Entries come out sorted by name within each section, agents first.
func LoadRoster(path string) ([]RosterEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	var file rosterFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}

	var entries []RosterEntry
	entries = append(entries, sectionEntries(file.Agents, TypeAgent)...)
	entries = append(entries, sectionEntries(file.Categories, TypeCategory)...)
	return entries, nil
}

func sectionEntries(section map[string]rosterModel, itemType ItemType) []RosterEntry {
	names := make([]string, 0, len(section))
	for name := range section {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]RosterEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, RosterEntry{
			Name:  name,
			Type:  itemType,
			Model: section[name].Model,
		})
	}
	return entries
}

// ReplaceRosterModel swaps the model assigned to agentID in the roster file
// and returns the previous model. The file is backed up before the write and
// restored if the write fails, so a crash mid-replace never corrupts the
// roster.
func ReplaceRosterModel(path, agentID, newModel string) (string, error) {
	itemType, name, err := ParseItemID(agentID)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read roster: %w", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return "", fmt.Errorf("parse roster: %w", err)
	}

	sectionKey := "agents"
	if itemType == TypeCategory {
		sectionKey = "categories"
	}
	var section map[string]map[string]any
	if err := json.Unmarshal(raw[sectionKey], &section); err != nil {
		return "", fmt.Errorf("parse roster section %q: %w", sectionKey, err)
	}
	entry, ok := section[name]
	if !ok {
		return "", fmt.Errorf("%q not found in roster %s", name, sectionKey)
	}

	oldModel, _ := entry["model"].(string)
	entry["model"] = newModel

	updatedSection, err := json.Marshal(section)
	if err != nil {
		return "", fmt.Errorf("encode roster section: %w", err)
	}
	raw[sectionKey] = updatedSection
	updated, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode roster: %w", err)
	}

	backupPath := path + ".bak"
	if err := os.WriteFile(backupPath, data, 0o644); err != nil {
		return "", fmt.Errorf("back up roster: %w", err)
	}
	if err := os.WriteFile(path, append(updated, '\n'), 0o644); err != nil {
		// Restore the backup so the roster is never left half-written.
		if restoreErr := os.WriteFile(path, data, 0o644); restoreErr != nil {
			return "", fmt.Errorf("write roster: %w (restore also failed: %v)", err, restoreErr)
		}
		return "", fmt.Errorf("write roster: %w", err)
	}
	return oldModel, nil
}
