package gradlepatch

// Decision names the edit an Upsert pass performed.
type Decision int

const (
	// NoOp left the lines as they were.
	NoOp Decision = iota
	// UpdateExistingPlugin rewrote the key line of an existing plugin block.
	UpdateExistingPlugin
	// InsertNewPlugin added the apply line and the plugin block.
	InsertNewPlugin
	// InsertBuildScriptLinesOnly added only the repository and classpath lines.
	InsertBuildScriptLinesOnly
	// Failure means a requested insertion found no anchor.
	Failure
)

func (d Decision) String() string {
	switch d {
	case NoOp:
		return "no-op"
	case UpdateExistingPlugin:
		return "update-existing-plugin"
	case InsertNewPlugin:
		return "insert-new-plugin"
	case InsertBuildScriptLinesOnly:
		return "insert-build-script-lines"
	case Failure:
		return "failure"
	}
	return "unknown"
}

// Options configures an Upsert pass.
type Options struct {
	// APIKey is the derived Quality Service key. Empty skips plugin
	// insertion and leaves an existing block untouched.
	APIKey string
	// AddBuildScriptLines requests the maven repository and classpath lines
	// inside the buildscript closure.
	AddBuildScriptLines bool
	Layout              Layout
}

// Result is the output of a successful Upsert.
type Result struct {
	Lines    []string
	Decision Decision
}

// A sample of the template file:
//
//	allprojects {
//	    repositories {**ARTIFACTORYREPOSITORY**
//	        google()
//	        jcenter()
//	    }
//	}
//
//	apply plugin: 'com.android.application'
//	    **APPLY_PLUGINS**
//
//	dependencies {
//	    implementation fileTree(dir: 'libs', include: ['*.jar'])
//	    **DEPS**}

// Upsert adds the Quality Service plugin to lines, or updates the key of an
// existing plugin block. If a requested insertion finds no anchor, it returns
// an *IncompleteError and no lines.
func Upsert(lines []string, opts Options) (Result, error) {
	if HasPlugin(lines) {
		return updateExisting(lines, opts.APIKey), nil
	}
	return insertNew(lines, opts)
}

// HasPlugin reports whether lines already apply the Quality Service plugin.
func HasPlugin(lines []string) bool {
	for _, line := range lines {
		if tokenQualityServicePlugin.MatchString(line) {
			return true
		}
	}
	return false
}

func updateExisting(lines []string, apiKey string) Result {
	st := keyUpdateState{apiKey: apiKey}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, st.step(line))
	}
	d := NoOp
	if st.updated {
		d = UpdateExistingPlugin
	}
	return Result{Lines: out, Decision: d}
}

func insertNew(lines []string, opts Options) (Result, error) {
	addPlugin := opts.APIKey != ""
	bs := buildScriptState{layout: opts.Layout}
	ins := insertState{apiKey: opts.APIKey}

	out := make([]string, 0, len(lines)+8)
	for _, line := range lines {
		out = append(out, line)
		if opts.AddBuildScriptLines {
			out = append(out, bs.step(line)...)
		}
		if addPlugin {
			out = append(out, ins.step(line)...)
		}
	}

	if (opts.AddBuildScriptLines && !bs.done()) || (addPlugin && !ins.added) {
		return Result{Decision: Failure}, &IncompleteError{
			PluginRequested:      addPlugin,
			PluginAdded:          ins.added,
			BuildScriptRequested: opts.AddBuildScriptLines,
			RepoAdded:            bs.repoAdded,
			DependencyAdded:      bs.dependencyAdded,
		}
	}

	d := NoOp
	switch {
	case ins.added:
		d = InsertNewPlugin
	case bs.done():
		d = InsertBuildScriptLinesOnly
	}
	return Result{Lines: out, Decision: d}, nil
}
