package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailharvest-engine/internal/domain"
)

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")

	path, err := Write(dir, domain.RunSummary{
		StartedAt: "2026-08-29T10:00:00Z",
		Fetched:   12,
		Inserted:  3,
	})
	require.NoError(t, err)
	assert.DirExists(t, dir)

	for _, p := range []string{path, filepath.Join(dir, "latest.json")} {
		b, err := os.ReadFile(p)
		require.NoError(t, err)

		var got domain.RunSummary
		require.NoError(t, json.Unmarshal(b, &got))
		assert.Equal(t, 12, got.Fetched)
		assert.Equal(t, 3, got.Inserted)
	}
}
