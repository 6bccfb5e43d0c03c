package port

import (
	"io"
	"time"
)

// SnapshotInfo describes one stored snapshot
type SnapshotInfo struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// SnapshotStore keeps point-in-time copies of the collections outside the
// primary storage
type SnapshotStore interface {
	// WriteSnapshot stores the content of r under name, replacing any previous
	// snapshot of that name only once the write completed
	WriteSnapshot(name string, r io.Reader) (string, int64, error)

	// ListSnapshots returns stored snapshots, oldest first
	ListSnapshots() ([]SnapshotInfo, error)

	// DeleteSnapshot removes a snapshot by path
	DeleteSnapshot(path string) error

	// CleanOldTempFiles removes interrupted writes older than the given age
	CleanOldTempFiles(olderThan time.Duration) (int, error)
}
