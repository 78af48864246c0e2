package run

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// AcquireLock takes the single-instance lock under dataDir. Two engines
// sharing one sqlite file and one set of UID marks would double-process
// mail, so a second instance refuses to start.
func AcquireLock(dataDir string) (*flock.Flock, error) {
	lk := flock.New(filepath.Join(dataDir, "engine.lock"))
	ok, err := lk.TryLock()
	if err != nil {
		return nil, fmt.Errorf("run lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("run lock: another instance holds %s", lk.Path())
	}
	return lk, nil
}
