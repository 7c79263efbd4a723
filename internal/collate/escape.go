package collate

import "strings"

// shellQuoter replaces in a single pass, so the backslashes it inserts
// are never escaped again.
var shellQuoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// EscapeForShellQuoting makes line safe to embed between double quotes
// in a shell or AppleScript string. It is not idempotent: apply it once
// per line.
func EscapeForShellQuoting(line string) string {
	return shellQuoter.Replace(line)
}
