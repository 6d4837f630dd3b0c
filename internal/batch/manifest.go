package batch

import (
	"encoding/json"
	"os"
)

// ManifestEntry represents one item in the output manifest.
type ManifestEntry struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Group  string `json:"group,omitempty"`
	Cached bool   `json:"cached"`
	Bytes  int    `json:"bytes,omitempty"`
	Error  string `json:"error,omitempty"`
}

// WriteManifest writes the run results as indented JSON to path.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		entries[i] = ManifestEntry{
			Key:    r.Key,
			Label:  r.Label,
			Group:  r.Group,
			Cached: r.Success,
			Bytes:  r.Bytes,
			Error:  r.Error,
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
