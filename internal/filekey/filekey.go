// Package filekey generates storage keys for uploaded files and resolves
// user-supplied keys back to stored object names.
//
// A stored object is named key+extension, where key is a random UUID and
// extension is the lower-cased suffix of the original filename. Every key has
// the same length and contains no dot, so no key is ever a prefix of another.
package filekey

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// Name is the result of naming a new upload.
type Name struct {
	Key         string
	Extension   string
	StorageName string
}

// Generate returns a fresh key for originalFilename together with the name
// the object must be stored under.
func Generate(originalFilename string) Name {
	key := uuid.NewString()
	ext := ExtensionOf(originalFilename)
	return Name{
		Key:         key,
		Extension:   ext,
		StorageName: key + ext,
	}
}

// ExtensionOf returns the lower-cased extension of name including the leading
// dot, or "" when the base name has no dot.
func ExtensionOf(name string) string {
	// Browsers may send Windows paths; only the base name matters.
	name = name[strings.LastIndexAny(name, `/\`)+1:]
	return strings.ToLower(path.Ext(name))
}

// Split breaks a storage name into its key and extension.
func Split(storageName string) (key, ext string) {
	ext = path.Ext(storageName)
	return strings.TrimSuffix(storageName, ext), strings.ToLower(ext)
}

// Valid reports whether key has the shape of a generated key.
func Valid(key string) bool {
	if len(key) != 36 {
		return false
	}
	_, err := uuid.Parse(key)
	return err == nil
}

// Match is a storage name found by Resolve.
type Match struct {
	StorageName string
	Extension   string
	Position    int // index of StorageName in the listing
}

// Resolve scans listing in order and returns the first name that starts with
// key. An empty key matches nothing.
func Resolve(listing []string, key string) (Match, bool) {
	if key == "" {
		return Match{}, false
	}
	for i, name := range listing {
		if strings.HasPrefix(name, key) {
			return Match{
				StorageName: name,
				Extension:   strings.ToLower(path.Ext(name)),
				Position:    i,
			}, true
		}
	}
	return Match{}, false
}
