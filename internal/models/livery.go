package models

import "strings"

// DefaultLivery is the key used when the sim reports an empty livery path,
// i.e. the aircraft's built-in paint.
const DefaultLivery LiveryKey = "Default"

// LiveryKey identifies the active livery. Keys are derived from the last
// component of the livery folder and compared case-insensitively by always
// storing the lower-cased form.
type LiveryKey string

// NewLiveryKey normalizes a livery path or folder name into a key.
// An empty (or separator-only) path yields DefaultLivery, as do "." and
// "..", so a key is always a single directory name below the model dir.
func NewLiveryKey(path string) LiveryKey {
	trimmed := strings.TrimRight(path, `/\`)
	if i := strings.LastIndexAny(trimmed, `/\`); i >= 0 {
		trimmed = trimmed[i+1:]
	}
	trimmed = strings.TrimSpace(trimmed)
	switch trimmed {
	case "", ".", "..":
		return DefaultLivery
	}
	if strings.EqualFold(trimmed, string(DefaultLivery)) {
		return DefaultLivery
	}
	return LiveryKey(strings.ToLower(trimmed))
}

func (k LiveryKey) String() string { return string(k) }

// Equal compares two keys by their normalized form, so keys that were not
// built through NewLiveryKey still compare correctly.
func (k LiveryKey) Equal(o LiveryKey) bool {
	return NewLiveryKey(string(k)) == NewLiveryKey(string(o))
}

// IsZero reports whether the key is unset.
func (k LiveryKey) IsZero() bool { return k == "" }
