package gradlepatch

// Remove strips the plugin's configuration block together with its maven
// repository, classpath and apply lines. Every other line is returned
// unchanged and in order. Each element is removed at most once.
func Remove(lines []string, p Plugin) []string {
	st := removeState{plugin: p}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if st.step(line) {
			out = append(out, line)
		}
	}
	return out
}

// RemoveLegacySafeDK strips the legacy SafeDK plugin.
func RemoveLegacySafeDK(lines []string) []string {
	return Remove(lines, LegacySafeDK)
}

// RemoveQualityService strips the AppLovin Quality Service plugin.
func RemoveQualityService(lines []string) []string {
	return Remove(lines, QualityService)
}

// RemoveAll strips the legacy SafeDK plugin and then the Quality Service plugin.
func RemoveAll(lines []string) []string {
	return RemoveQualityService(RemoveLegacySafeDK(lines))
}
