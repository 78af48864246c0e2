package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"mailharvest-engine/internal/domain"
)

// Write dumps a run summary as JSON under dir, once timestamped for
// history and once as latest.json for dashboards that want a stable path.
func Write(dir string, summary domain.RunSummary) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	b, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("run_%s.json", time.Now().UTC().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, "latest.json"), b, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
