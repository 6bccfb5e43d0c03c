package filesystem

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/vertextoedge/academic-admin/internal/port"
)

const (
	snapshotExt = ".json"
	partialExt  = ".partial"
)

// Manager stores collection snapshots as files under a root directory
type Manager struct {
	rootDir string
}

// Ensure Manager implements port.SnapshotStore
var _ port.SnapshotStore = (*Manager)(nil)

// NewManager creates a new snapshot manager, creating rootDir if needed
func NewManager(rootDir string) (*Manager, error) {
	if err := os.MkdirAll(rootDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot dir: %w", err)
	}
	return &Manager{rootDir: rootDir}, nil
}

// RootDir returns the snapshot directory
func (m *Manager) RootDir() string {
	return m.rootDir
}

// SnapshotPath returns the file path for a snapshot name
func (m *Manager) SnapshotPath(name string) string {
	if !strings.HasSuffix(name, snapshotExt) {
		name += snapshotExt
	}
	return filepath.Join(m.rootDir, filepath.Base(name))
}

// WriteSnapshot writes r to a temp file and renames it into place
func (m *Manager) WriteSnapshot(name string, r io.Reader) (string, int64, error) {
	path := m.SnapshotPath(name)
	tempPath := path + partialExt

	f, err := os.Create(tempPath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create temp file: %w", err)
	}

	written, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(tempPath)
		return "", 0, fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempPath)
		return "", 0, fmt.Errorf("failed to sync snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return "", 0, fmt.Errorf("failed to close snapshot: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return "", 0, fmt.Errorf("failed to rename temp file: %w", err)
	}
	return path, written, nil
}

// ListSnapshots returns completed snapshots ordered by modification time, then name
func (m *Manager) ListSnapshots() ([]port.SnapshotInfo, error) {
	entries, err := os.ReadDir(m.rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot dir: %w", err)
	}

	var out []port.SnapshotInfo
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != snapshotExt {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue // removed concurrently
		}
		out = append(out, port.SnapshotInfo{
			Path:    filepath.Join(m.rootDir, entry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].ModTime.Equal(out[j].ModTime) {
			return out[i].ModTime.Before(out[j].ModTime)
		}
		return out[i].Path < out[j].Path
	})
	return out, nil
}

// DeleteSnapshot removes a snapshot file
func (m *Manager) DeleteSnapshot(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// CleanOldTempFiles removes interrupted snapshot writes older than the specified duration
func (m *Manager) CleanOldTempFiles(olderThan time.Duration) (int, error) {
	count := 0
	threshold := time.Now().Add(-olderThan)

	entries, err := os.ReadDir(m.rootDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read snapshot dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != partialExt {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(threshold) {
			continue
		}
		if err := os.Remove(filepath.Join(m.rootDir, entry.Name())); err == nil {
			count++
		}
	}
	return count, nil
}

// GetSize returns the total size of stored snapshots
func (m *Manager) GetSize() (int64, error) {
	snapshots, err := m.ListSnapshots()
	if err != nil {
		return 0, err
	}
	var size int64
	for _, s := range snapshots {
		size += s.Size
	}
	return size, nil
}
