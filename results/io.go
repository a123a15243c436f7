package results

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteJSON writes a run document to a JSON file
func WriteJSON(run *Run, filename string) error {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}

// ReadJSON reads a run document from a JSON file
func ReadJSON(filename string) (*Run, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("unmarshal run: %w", err)
	}

	return &run, nil
}

// ToJSON converts a run document to a JSON string
func ToJSON(run *Run) (string, error) {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FromJSON parses a run document from a JSON string
func FromJSON(jsonStr string) (*Run, error) {
	var run Run
	if err := json.Unmarshal([]byte(jsonStr), &run); err != nil {
		return nil, err
	}
	return &run, nil
}
