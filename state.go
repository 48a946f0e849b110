package gradlepatch

import "strings"

// removeState tracks one Remove pass. Each removable element is dropped at
// most once; the plugin block is entered on the first marker only.
type removeState struct {
	plugin Plugin

	repoRemoved       bool
	dependencyRemoved bool
	applyRemoved      bool
	blockMatched      bool
	insideBlock       bool
}

// step consumes one line and reports whether it is kept in the output.
func (s *removeState) step(line string) bool {
	if !s.blockMatched && s.plugin.Marker != "" && strings.Contains(line, s.plugin.Marker) {
		s.blockMatched = true
		s.insideBlock = true
	}

	if s.insideBlock && strings.Contains(line, "}") {
		s.insideBlock = false
		return false
	}
	if s.insideBlock {
		return false
	}

	if !s.repoRemoved && strings.Contains(line, s.plugin.MavenRepo) {
		s.repoRemoved = true
		return false
	}
	if !s.dependencyRemoved && strings.Contains(line, s.plugin.Classpath) {
		s.dependencyRemoved = true
		return false
	}
	if !s.applyRemoved && s.plugin.ApplyPattern != nil && s.plugin.ApplyPattern.MatchString(line) {
		s.applyRemoved = true
		return false
	}
	return true
}

// keyUpdateState tracks the in-place credential update of an existing block.
type keyUpdateState struct {
	apiKey string

	blockMatched bool
	insideBlock  bool
	updated      bool
}

// step returns the line to emit in place of line.
func (s *keyUpdateState) step(line string) string {
	if !s.blockMatched && strings.Contains(line, qualityServiceMarker) {
		s.blockMatched = true
		s.insideBlock = true
	}
	if s.insideBlock && strings.Contains(line, "}") {
		s.insideBlock = false
	}

	if s.insideBlock && !s.updated && s.apiKey != "" && tokenAPIKey.MatchString(line) {
		s.updated = true
		return apiKeyLine(s.apiKey)
	}
	return line
}

// buildScriptState tracks buildscript closures and the two insertions made
// inside them.
type buildScriptState struct {
	layout Layout

	matched         bool
	inside          bool
	depth           int
	repoAdded       bool
	dependencyAdded bool
}

func (s *buildScriptState) done() bool {
	return s.repoAdded && s.dependencyAdded
}

// step returns the lines to insert after line.
func (s *buildScriptState) step(line string) []string {
	if !s.matched && strings.Contains(line, buildScriptMarker) {
		s.matched = true
		s.inside = true
	}

	if s.inside {
		if strings.Contains(line, "{") {
			s.depth++
		}
		if strings.Contains(line, "}") {
			s.depth--
		}
		if s.depth == 0 {
			s.inside = false
			// Keep looking in later buildscript closures until both lines are in.
			s.matched = s.done()
		}
	}

	if !s.inside {
		return nil
	}
	switch {
	case !s.repoAdded && tokenBuildScriptRepositories.MatchString(line):
		s.repoAdded = true
		return []string{s.layout.buildScriptLine(qualityServiceMavenRepo)}
	case !s.dependencyAdded && tokenBuildScriptDependencies.MatchString(line):
		s.dependencyAdded = true
		return []string{s.layout.buildScriptLine(qualityServiceClasspath)}
	}
	return nil
}

// insertState tracks insertion of the apply line and plugin block.
type insertState struct {
	apiKey string
	added  bool
}

func (s *insertState) step(line string) []string {
	if s.added || !tokenApplicationPlugin.MatchString(line) {
		return nil
	}
	s.added = true
	return append([]string{qualityServiceApplyLine}, pluginClosure(s.apiKey)...)
}
