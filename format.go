package gradlepatch

import (
	"fmt"
	"strings"
)

// Layout selects which Gradle file variant is being patched. It only affects
// the indentation of inserted buildscript lines.
type Layout int

const (
	// ModuleBuildFile is mainTemplate.gradle carrying its own buildscript
	// closure (Unity before 2019.3).
	ModuleBuildFile Layout = iota
	// RootBuildFile is the root build.gradle of a Unity 2019.3+ export.
	RootBuildFile
)

func (l Layout) String() string {
	switch l {
	case ModuleBuildFile:
		return "module"
	case RootBuildFile:
		return "root"
	default:
		return fmt.Sprintf("Layout(%d)", int(l))
	}
}

// ParseLayout maps "module" or "root" to a Layout.
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "module", "":
		return ModuleBuildFile, nil
	case "root":
		return RootBuildFile, nil
	}
	return ModuleBuildFile, fmt.Errorf("%w: %q", ErrInvalidLayout, s)
}

func (l Layout) buildScriptIndent() string {
	if l == RootBuildFile {
		return "            "
	}
	return "        "
}

func (l Layout) buildScriptLine(line string) string {
	return l.buildScriptIndent() + line
}

func apiKeyLine(apiKey string) string {
	return fmt.Sprintf(qualityServiceKeyFormat, apiKey)
}

// pluginClosure renders the block inserted right after the apply line:
//
//	applovin {
//	    // NOTE: ...
//	    apiKey '456...a1b'
//	}
func pluginClosure(apiKey string) []string {
	return []string{
		"",
		qualityServiceMarker,
		qualityServiceKeyComment,
		apiKeyLine(apiKey),
		"}",
	}
}
