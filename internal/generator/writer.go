package generator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestEntry summarises one generated document in manifest.json.
type ManifestEntry struct {
	File      string `json:"file"`
	Accounts  int    `json:"accounts"`
	HasHeader bool   `json:"hasHeader"`
}

// WriteDataset writes every document as <FileName> under dir, plus a
// manifest.json listing them.
func WriteDataset(dataset Dataset, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	manifest := make([]ManifestEntry, 0, len(dataset.Reports))
	for _, doc := range dataset.Reports {
		data, err := doc.Profile.Marshal()
		if err != nil {
			return fmt.Errorf("render %s: %w", doc.FileName, err)
		}
		path := filepath.Join(dir, doc.FileName)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		manifest = append(manifest, ManifestEntry{
			File:      doc.FileName,
			Accounts:  len(doc.Profile.Accounts),
			HasHeader: doc.Profile.Header != nil,
		})
	}

	return writeJSON(filepath.Join(dir, "manifest.json"), manifest)
}

func writeJSON(path string, data any) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encode json for %s: %w", path, err)
	}
	return nil
}
