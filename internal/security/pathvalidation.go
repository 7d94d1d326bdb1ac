// Package security guards the file names the tools derive from user data.
package security

import (
	"fmt"
	"path/filepath"
	"strings"
)

// maxNameLen bounds derived file names.
const maxNameLen = 128

// SanitizeFilename turns a field code, principle or other user-supplied
// identifier into a file name. Characters outside ASCII letters, digits, dot,
// underscore and dash become a single underscore; leading and trailing dots
// and underscores are trimmed. An empty result becomes "unknown".
func SanitizeFilename(s string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		if b.Len() >= maxNameLen {
			break
		}
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'),
			r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
			lastUnderscore = r == '_'
		default:
			if !lastUnderscore {
				b.WriteRune('_')
				lastUnderscore = true
			}
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "unknown"
	}
	return out
}

// JoinWithin joins name onto dir and rejects results that escape dir.
// Symlinks are not resolved; dir is trusted as given.
func JoinWithin(dir, name string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve directory: %w", err)
	}
	joined := filepath.Join(absDir, name)
	rel, err := filepath.Rel(absDir, joined)
	if err != nil {
		return "", fmt.Errorf("path is outside %s: %w", dir, err)
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal detected: %s attempts to escape %s", name, dir)
	}
	return joined, nil
}
