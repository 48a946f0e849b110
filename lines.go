package gradlepatch

import (
	"bytes"
	"strings"
)

// SplitLines splits file contents on '\n'. A final newline does not produce
// a trailing empty line; '\r' is kept as part of the line.
func SplitLines(data []byte) []string {
	if len(data) == 0 {
		return []string{}
	}
	s := string(data)
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

// JoinLines joins lines with '\n' and appends one trailing newline.
func JoinLines(lines []string) []byte {
	var buf bytes.Buffer
	for _, ln := range lines {
		buf.WriteString(ln)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
