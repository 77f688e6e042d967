package ioutils

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// Invalid path/file characters: < > : " / \ | ? * and control
	// characters (0x00-0x1f). Windows has the most restrictive rules.
	invalidChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots = regexp.MustCompile(`\.+$`)
	multiSpace   = regexp.MustCompile(`\s+`)
)

// SanitizeFileName removes or replaces characters that are invalid in
// file/folder names.
//
// The following transformations are applied:
//   - Invalid characters → underscore
//   - Trailing dots → removed
//   - Multiple whitespace → single space
//   - Trailing whitespace → removed
//
// Example:
//
//	SanitizeFileName("Mod: Part 1/2")  // Returns "Mod_ Part 1_2"
func SanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = multiSpace.ReplaceAllString(name, " ")
	return strings.TrimRight(name, " ")
}

// SafeFileName reduces an untrusted name, such as one taken verbatim
// from a manifest, to a bare file name that cannot escape the directory
// it is joined to. Names that reduce to nothing become "download".
func SafeFileName(name string) string {
	name = SanitizeFileName(filepath.Base(name))
	if name == "" || name == "." {
		name = "download"
	}
	return name
}

// EnsureDir creates a directory and all parent directories if they
// don't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
