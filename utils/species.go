package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"game-night-bot/chat"
)

// LoadSpecies reads the species lookup table from a JSON file shaped like
// {"1": "フシギダネ", "2": "フシギソウ", ...}. Keys are numeric strings
// because the source file is shared with tooling that cannot emit int keys.
func LoadSpecies(path string) (chat.SpeciesTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read species file %s: %w", path, err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse species file %s: %w", path, err)
	}

	table := make(chat.SpeciesTable, len(raw))
	for key, name := range raw {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("species file %s has non-numeric id %q", path, key)
		}
		table[id] = name
	}
	return table, nil
}
