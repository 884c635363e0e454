package rawg

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadRawRecords reads a JSON export file containing an array of raw game
// objects, as saved from a previous crawl. Records
// are kept as raw messages so they flow through the same normalization path
// as live API responses.
func LoadRawRecords(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export file %s: %w", path, err)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		// Some exports wrap the array in a results envelope like the API does.
		var page Page
		if envErr := json.Unmarshal(data, &page); envErr == nil && len(page.Results) > 0 {
			return page.Results, nil
		}
		return nil, fmt.Errorf("parse export file %s: %w", path, err)
	}
	return records, nil
}
