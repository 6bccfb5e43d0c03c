package store

import (
	"encoding/json"
	"fmt"

	"github.com/vertextoedge/academic-admin/internal/domain"
	"github.com/vertextoedge/academic-admin/internal/port"
)

// Collection keys
const (
	KeyCourses     = "courses"
	KeyStudents    = "students"
	KeyEnrollments = "enrollments"
	KeyPayments    = "payments"
	KeyReminders   = "reminders"
)

// AllKeys lists every collection key
var AllKeys = []string{KeyCourses, KeyStudents, KeyEnrollments, KeyPayments, KeyReminders}

// Load reads the collection stored under key.
// An absent key yields an empty slice; an undecodable value is an error
// wrapping domain.ErrCorruptCollection and is left untouched.
func Load[T any](kv port.KeyValue, key string) ([]T, error) {
	raw, ok, err := kv.Get(key)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !ok || len(raw) == 0 {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", key, domain.ErrCorruptCollection, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Save overwrites the collection stored under key. A nil slice is written as [].
func Save[T any](kv port.KeyValue, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := kv.Set(key, raw); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func indexOf[T any](items []T, match func(*T) bool) int {
	for i := range items {
		if match(&items[i]) {
			return i
		}
	}
	return -1
}

func filter[T any](items []T, match func(*T) bool) []T {
	out := make([]T, 0)
	for i := range items {
		if match(&items[i]) {
			out = append(out, items[i])
		}
	}
	return out
}
