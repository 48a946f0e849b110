package gradlepatch

import (
	"github.com/pmezard/go-difflib/difflib"
)

// Diff renders a unified diff between two versions of the file at path.
// It returns "" when the versions are identical.
func Diff(path string, before, after []string) (string, error) {
	if equalLines(before, after) {
		return "", nil
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(JoinLines(before))),
		B:        difflib.SplitLines(string(JoinLines(after))),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	})
}
