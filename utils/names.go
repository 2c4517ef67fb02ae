package utils

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

var fileNameReplacer = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
	"\"", "_", "<", "_", ">", "_", "|", "_", "\x00", "_",
)

// FileName turns an object name into a name safe to use as a file name.
// Names are NFC normalized so visually equal names map to the same file.
func FileName(name string) string {
	name = norm.NFC.String(name)
	name = fileNameReplacer.Replace(name)
	if name == "" || name == "." || name == ".." {
		name = "_" + name
	}
	return name
}
