package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// maxTypeNameLen bounds type names; the longest Gen 1 name is "Electric".
const maxTypeNameLen = 32

// ValidateTypeName checks that name can be used as an elemental type name.
// The "/" separator is reserved for compound type keys, so a plain type name
// may not contain it.
func ValidateTypeName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidDataset, "type name cannot be empty")
	}
	if len(name) > maxTypeNameLen {
		return New(ErrCodeInvalidDataset, "type name %q too long (max %d characters)", name, maxTypeNameLen)
	}
	if strings.Contains(name, "/") {
		return New(ErrCodeInvalidDataset, "type name %q must not contain '/'", name)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidDataset, "type name %q contains control characters", name)
		}
	}
	return nil
}

// ValidateAssetDir checks that dir is a usable asset directory argument.
// It only validates the string; existence is checked when assets are read.
func ValidateAssetDir(dir string) error {
	if dir == "" {
		return nil
	}
	if strings.ContainsRune(dir, 0) {
		return New(ErrCodeInvalidInput, "asset directory contains null byte")
	}
	if filepath.Clean(dir) == string(filepath.Separator) {
		return New(ErrCodeInvalidInput, "refusing to use filesystem root as asset directory")
	}
	return nil
}
