package fileutil

import (
	"strings"
)

// characters which break path handling on common filesystems. colons are
// included for the benefit of SMB/Windows mounts.
var safePathReplacer = strings.NewReplacer(
	"\x00", "",
	"/", "_",
	`\`, "_",
	":", "_",
)

// SafePath returns name usable as a single path segment.
func SafePath(name string) string {
	return safePathReplacer.Replace(name)
}
