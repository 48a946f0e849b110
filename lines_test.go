package gradlepatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitJoinLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
		out  string
	}{
		{name: "empty", in: "", want: []string{}, out: ""},
		{name: "final newline", in: "a\nb\n", want: []string{"a", "b"}, out: "a\nb\n"},
		{name: "no final newline", in: "a\nb", want: []string{"a", "b"}, out: "a\nb\n"},
		{name: "blank lines kept", in: "a\n\n\nb\n", want: []string{"a", "", "", "b"}, out: "a\n\n\nb\n"},
		{name: "crlf kept", in: "a\r\nb\r\n", want: []string{"a\r", "b\r"}, out: "a\r\nb\r\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitLines([]byte(tt.in))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.out, string(JoinLines(got)))
		})
	}
}

func TestDiffShowsOnlyInsertedLines(t *testing.T) {
	before := []string{"buildscript {", "    repositories {", "        jcenter()", "    }", "}"}
	after := []string{"buildscript {", "    repositories {", "        jcenter()", "        mavenLocal()", "    }", "}"}

	d, err := Diff("build.gradle", before, after)
	require.NoError(t, err)
	assert.Contains(t, d, "--- a/build.gradle")
	assert.Contains(t, d, "+++ b/build.gradle")
	assert.Contains(t, d, "+        mavenLocal()\n")
	assert.NotContains(t, d, "-        jcenter()")
}

func TestDiffIdentical(t *testing.T) {
	d, err := Diff("x", []string{"a"}, []string{"a"})
	require.NoError(t, err)
	assert.Empty(t, d)
}

func TestParseLayout(t *testing.T) {
	l, err := ParseLayout("root")
	require.NoError(t, err)
	assert.Equal(t, RootBuildFile, l)

	l, err = ParseLayout("")
	require.NoError(t, err)
	assert.Equal(t, ModuleBuildFile, l)

	_, err = ParseLayout("app")
	assert.ErrorIs(t, err, ErrInvalidLayout)
}
