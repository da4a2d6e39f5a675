// Package paths provides path resolution utilities.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ScriptExt is appended to candidates that name a script without its extension.
const ScriptExt = ".js"

// Canonicalize resolves candidate to an absolute, symlink-free path.
//
// Resolution rules:
//   - a candidate that is not absolute is joined onto root
//   - "app/main" becomes "app/main.js" when that regular file exists
//   - ".", ".." and symlinks are resolved through the filesystem
//
// The returned error wraps fs.ErrNotExist when nothing exists at the
// resolved location. Both namespace registration and module lookup go
// through this function so that a namespace root always resolves
// consistently against itself.
func Canonicalize(root, candidate string) (string, error) {
	path := candidate
	if !isAbs(path) {
		path = root + string(filepath.Separator) + path
	}

	if IsRegularFile(path + ScriptExt) {
		path += ScriptExt
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", candidate, err)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", candidate, err)
	}
	return resolved, nil
}

// IsRegularFile reports whether path exists and is a regular file.
// Symlinks are followed.
func IsRegularFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// isAbs treats a leading separator as absolute on every platform, matching
// how asset configs are usually written, and defers to filepath for volume
// paths such as C:\assets.
func isAbs(path string) bool {
	return strings.HasPrefix(path, string(filepath.Separator)) || filepath.IsAbs(path)
}
