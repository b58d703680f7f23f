/*
Package petscii normalizes host filenames into names a Commodore DOS
directory can carry.
*/
package petscii

import "strings"

// NameLength is the maximum length of a file or disk name in a Commodore
// DOS directory entry.
const NameLength = 16

// Name converts s to the uppercase form used in disk directories,
// truncated to NameLength bytes. Characters without a safe PETSCII
// equivalent are replaced with '.'.
func Name(s string) string {
	b := []byte(strings.ToUpper(s))
	for i, c := range b {
		switch {
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '.' || c == '-' || c == '+' || c == ' ':
		default:
			b[i] = '.'
		}
	}
	if len(b) > NameLength {
		b = b[:NameLength]
	}
	return string(b)
}
