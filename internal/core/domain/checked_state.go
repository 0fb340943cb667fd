package domain

import "fmt"

// CheckedState maps "{dayIndex}_{slotIndex}" keys to completion flags. Entries
// are only ever added or flipped in place, never removed, so the map records
// every slot the client has touched.
type CheckedState map[string]bool

// CheckedKey builds the composite key for a day/slot pair.
func CheckedKey(dayIndex, slotIndex int) string {
	return fmt.Sprintf("%d_%d", dayIndex, slotIndex)
}

// IsChecked reports whether the slot is marked completed.
func (s CheckedState) IsChecked(dayIndex, slotIndex int) bool {
	return s[CheckedKey(dayIndex, slotIndex)]
}

// WithToggled returns a new map with the slot's flag flipped. The receiver is
// never mutated; callers replace their reference with the returned map.
func (s CheckedState) WithToggled(dayIndex, slotIndex int) CheckedState {
	next := make(CheckedState, len(s)+1)
	for k, v := range s {
		next[k] = v
	}
	key := CheckedKey(dayIndex, slotIndex)
	next[key] = !next[key]
	return next
}
