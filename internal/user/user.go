// Package user resolves who is acting on records.
package user

import (
	"os"
	"os/user"
	"strings"
)

// OwnerEnvVar overrides the detected owner of new records
const OwnerEnvVar = "EMBUDO_OWNER"

// DefaultOwner returns the owner stamped on records created without one.
// It tries, in order:
// 1. EMBUDO_OWNER
// 2. user.Current() - the OS account
// 3. USER environment variable - fallback for restricted environments
// 4. "unknown"
func DefaultOwner() string {
	if owner := strings.TrimSpace(os.Getenv(OwnerEnvVar)); owner != "" {
		return owner
	}

	currentUser, err := user.Current()
	if err == nil && currentUser.Username != "" {
		return currentUser.Username
	}

	if username := os.Getenv("USER"); username != "" {
		return username
	}
	return "unknown"
}
