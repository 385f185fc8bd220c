// Package magetasks provides the build, test and lint tasks behind the
// Magefile. Each external tool runs through the task supervisor, so its
// output streams line by line with stderr tagged the same way the
// dashboard shows it.
package magetasks
