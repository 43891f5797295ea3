// Package perms holds the file modes used when the installer writes to disk.
package perms

import "os"

const (
	// RegularFile is used for the declaration file (mcp.yml), which is meant to be committed and shared.
	RegularFile os.FileMode = 0o644

	// SecureFile is used for editor settings, which may hold tokens entered at install time.
	SecureFile os.FileMode = 0o600

	// RegularDir is used for parent directories created on demand.
	RegularDir os.FileMode = 0o755
)
