// Package namespace derives and compares hierarchical namespace keys.
//
// A key is the slash-separated path of a folder or file, rooted at the
// organization's root folder key ("root-<name>"). Keys double as object-store
// addresses. They are assigned once at creation and never rewritten, so a
// string-prefix test is equivalent to walking parent links. Renaming or moving
// folders would break that equivalence.
package namespace

import (
	"fmt"
	"strings"
)

// Separator joins key segments
const Separator = "/"

// RootPrefix prefixes every organization root folder name and key
const RootPrefix = "root-"

// DeriveChildKey joins parentKey and childName with exactly one separator.
func DeriveChildKey(parentKey, childName string) string {
	return strings.TrimSuffix(parentKey, Separator) + Separator + childName
}

// IsDescendantOf reports whether candidateKey lies at or below ancestorKey.
// This is the only ancestry check in the service.
//
// It is stricter than a bare string-prefix test: the prefix must end on a
// segment boundary, so "root-Acme2/x" is not inside "root-Acme" although
// "root-Acme" is a string prefix of it. Equal keys count as descendants.
func IsDescendantOf(candidateKey, ancestorKey string) bool {
	ancestorKey = strings.TrimSuffix(ancestorKey, Separator)
	if candidateKey == ancestorKey {
		return true
	}
	return strings.HasPrefix(candidateKey, ancestorKey+Separator)
}

// MarkerKey is the object-store key of the zero-length folder marker.
func MarkerKey(folderKey string) string {
	if strings.HasSuffix(folderKey, Separator) {
		return folderKey
	}
	return folderKey + Separator
}

// RootKey is the key (and name) of an organization's root folder.
func RootKey(organizationName string) string {
	return RootPrefix + organizationName
}

// ValidateName checks that name can be used as a single key segment.
func ValidateName(name string, maxLength int) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("name is required")
	case len(name) > maxLength:
		return fmt.Errorf("name must be at most %d bytes", maxLength)
	case strings.Contains(name, Separator):
		return fmt.Errorf("name cannot contain %q", Separator)
	case name == "." || name == "..":
		return fmt.Errorf("name cannot be %q", name)
	}
	return nil
}
