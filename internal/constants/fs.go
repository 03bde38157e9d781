package constants

import "os"

const (
	// DefaultFilePermissions sets the default permissions for regular files: (rw-r--r--).
	// Owner: read and write;
	// Group: read;
	// Others: read.
	DefaultFilePermissions os.FileMode = 0o644

	// CacheFilePermissions sets the permissions for cached responses: (rw-------).
	// Cached bodies are scoped to an API key, so only the owner may read them.
	CacheFilePermissions os.FileMode = 0o600

	// CacheFolderPermissions sets the permissions for cache folders: (rwx------).
	CacheFolderPermissions os.FileMode = 0o700
)
