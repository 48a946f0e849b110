package gradlepatch

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mainTemplate = `// GENERATED BY UNITY. REMOVE THIS COMMENT TO PREVENT OVERWRITING WHEN EXPORTING AGAIN

allprojects {
    repositories {
        google()
        jcenter()
    }
}

apply plugin: 'com.android.application'

dependencies {
    implementation fileTree(dir: 'libs', include: ['*.jar'])
}
`

func countMatching(lines []string, substr string) int {
	n := 0
	for _, ln := range lines {
		if strings.Contains(ln, substr) {
			n++
		}
	}
	return n
}

func TestUpsertBuildScriptExample(t *testing.T) {
	in := []string{
		"buildscript {",
		"    repositories {",
		"        jcenter()",
		"    }",
		"    dependencies {",
		"        classpath 'com.android.tools.build:gradle:3.0'",
		"    }",
		"}",
	}

	res, err := Upsert(in, Options{AddBuildScriptLines: true})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"buildscript {",
		"    repositories {",
		"        jcenter()",
		"        maven { url 'https://applovin.bintray.com/Quality-Service' }",
		"    }",
		"    dependencies {",
		"        classpath 'com.android.tools.build:gradle:3.0'",
		"        classpath 'com.applovin.quality:AppLovinQualityServiceGradlePlugin:3.+'",
		"    }",
		"}",
	}, res.Lines)
	assert.Equal(t, InsertBuildScriptLinesOnly, res.Decision)
}

func TestUpsertRootLayoutIndentsDeeper(t *testing.T) {
	in := []string{
		"buildscript {",
		"    repositories {",
		"        jcenter()",
		"    }",
		"    dependencies {",
		"        classpath 'com.android.tools.build:gradle:3.4.0'",
		"    }",
		"}",
	}

	res, err := Upsert(in, Options{AddBuildScriptLines: true, Layout: RootBuildFile})
	require.NoError(t, err)
	assert.Equal(t, "            maven { url 'https://applovin.bintray.com/Quality-Service' }", res.Lines[3])
	assert.Equal(t, "            classpath 'com.applovin.quality:AppLovinQualityServiceGradlePlugin:3.+'", res.Lines[7])
}

func TestUpsertInsertsPluginAfterApplicationLine(t *testing.T) {
	in := SplitLines([]byte(mainTemplate))

	res, err := Upsert(in, Options{APIKey: "abc"})
	require.NoError(t, err)
	assert.Equal(t, InsertNewPlugin, res.Decision)

	idx := -1
	for i, ln := range res.Lines {
		if ln == "apply plugin: 'com.android.application'" {
			idx = i
			break
		}
	}
	require.NotEqual(t, -1, idx)
	assert.Equal(t, []string{
		"apply plugin: 'applovin-quality-service'",
		"",
		"applovin {",
		"    // NOTE: DO NOT CHANGE - this is NOT your AppLovin MAX SDK key - this is a derived key.",
		"    apiKey 'abc'",
		"}",
	}, res.Lines[idx+1:idx+7])
	assert.Len(t, res.Lines, len(in)+6)

	// The jcenter() outside any buildscript closure is not an anchor.
	assert.Equal(t, 0, countMatching(res.Lines, "Quality-Service"))
}

func TestUpsertIsIdempotent(t *testing.T) {
	in := SplitLines([]byte(mainTemplate))

	first, err := Upsert(in, Options{APIKey: "abc"})
	require.NoError(t, err)

	second, err := Upsert(first.Lines, Options{APIKey: "abc"})
	require.NoError(t, err)

	assert.Equal(t, UpdateExistingPlugin, second.Decision)
	assert.Equal(t, first.Lines, second.Lines)
	assert.Equal(t, 1, countMatching(second.Lines, "applovin {"))
	assert.Equal(t, 1, countMatching(second.Lines, "apiKey"))
}

func TestUpsertUpdatesExistingKeyOnly(t *testing.T) {
	in := SplitLines([]byte(mainTemplate))
	first, err := Upsert(in, Options{APIKey: "abc"})
	require.NoError(t, err)

	second, err := Upsert(first.Lines, Options{APIKey: "xyz"})
	require.NoError(t, err)

	require.Len(t, second.Lines, len(first.Lines))
	changed := 0
	for i := range first.Lines {
		if first.Lines[i] != second.Lines[i] {
			changed++
			assert.Equal(t, "    apiKey 'abc'", first.Lines[i])
			assert.Equal(t, "    apiKey 'xyz'", second.Lines[i])
		}
	}
	assert.Equal(t, 1, changed)
}

func TestUpsertExistingPluginWithEmptyKeyIsVerbatim(t *testing.T) {
	in := []string{
		"apply plugin: 'com.android.application'",
		"apply plugin: 'applovin-quality-service'",
		"applovin {",
		"    apiKey 'abc'",
		"}",
	}

	res, err := Upsert(in, Options{})
	require.NoError(t, err)
	assert.Equal(t, in, res.Lines)
	assert.Equal(t, NoOp, res.Decision)
}

func TestUpsertExistingBlockWithoutKeyLineIsSilentNoOp(t *testing.T) {
	in := []string{
		"apply plugin: 'applovin-quality-service'",
		"applovin {",
		"    enabled true",
		"}",
		"apiKey 'outside'",
	}

	res, err := Upsert(in, Options{APIKey: "abc"})
	require.NoError(t, err)
	assert.Equal(t, in, res.Lines)
	assert.Equal(t, NoOp, res.Decision)
}

func TestUpsertOnlyFirstKeyLineInBlockIsReplaced(t *testing.T) {
	in := []string{
		"apply plugin: 'applovin-quality-service'",
		"applovin {",
		"    apiKey 'one'",
		"    apiKey 'two'",
		"}",
	}

	res, err := Upsert(in, Options{APIKey: "new"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"apply plugin: 'applovin-quality-service'",
		"applovin {",
		"    apiKey 'new'",
		"    apiKey 'two'",
		"}",
	}, res.Lines)
}

func TestUpsertWithoutAnchorsReturnsInputUnchanged(t *testing.T) {
	in := []string{"android {", "    compileSdkVersion 29", "}", "", "dependencies {", "}"}

	res, err := Upsert(in, Options{})
	require.NoError(t, err)
	assert.Equal(t, in, res.Lines)
	assert.Equal(t, NoOp, res.Decision)
}

func TestUpsertSingleRepoAcrossBuildScriptClosures(t *testing.T) {
	in := []string{
		"buildscript {",
		"    repositories {",
		"        jcenter()",
		"    }",
		"}",
		"buildscript {",
		"    repositories {",
		"        jcenter()",
		"    }",
		"    dependencies {",
		"        classpath 'com.android.tools.build:gradle:3.4.0'",
		"    }",
		"}",
	}

	res, err := Upsert(in, Options{AddBuildScriptLines: true})
	require.NoError(t, err)
	assert.Equal(t, 1, countMatching(res.Lines, "Quality-Service"))
	assert.Equal(t, 1, countMatching(res.Lines, "AppLovinQualityServiceGradlePlugin"))
	assert.Equal(t, "        maven { url 'https://applovin.bintray.com/Quality-Service' }", res.Lines[3])
	assert.Equal(t, "        classpath 'com.applovin.quality:AppLovinQualityServiceGradlePlugin:3.+'", res.Lines[12])
}

func TestUpsertFailsWithoutBuildScript(t *testing.T) {
	in := []string{"apply plugin: 'com.android.application'", "dependencies {", "}"}

	res, err := Upsert(in, Options{AddBuildScriptLines: true, APIKey: "abc"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPatchIncomplete))
	assert.Nil(t, res.Lines)
	assert.Equal(t, Failure, res.Decision)

	var inc *IncompleteError
	require.ErrorAs(t, err, &inc)
	assert.True(t, inc.PluginAdded)
	assert.False(t, inc.RepoAdded)
	assert.False(t, inc.DependencyAdded)
}

func TestUpsertFailsWithoutApplicationPlugin(t *testing.T) {
	in := []string{"apply plugin: 'com.android.library'"}

	_, err := Upsert(in, Options{APIKey: "abc"})

	var inc *IncompleteError
	require.ErrorAs(t, err, &inc)
	assert.True(t, inc.PluginRequested)
	assert.False(t, inc.PluginAdded)
	assert.False(t, inc.BuildScriptRequested)
}

func TestUpsertFailsWhenOnlyRepoAnchorFound(t *testing.T) {
	in := []string{
		"buildscript {",
		"    repositories {",
		"        jcenter()",
		"    }",
		"}",
	}

	_, err := Upsert(in, Options{AddBuildScriptLines: true})

	var inc *IncompleteError
	require.ErrorAs(t, err, &inc)
	assert.True(t, inc.RepoAdded)
	assert.False(t, inc.DependencyAdded)
	assert.Contains(t, err.Error(), "dependency added: false")
}

func TestRemoveThenUpsertRestoresBlock(t *testing.T) {
	in := SplitLines([]byte(mainTemplate))
	installed, err := Upsert(in, Options{APIKey: "abc"})
	require.NoError(t, err)

	stripped := RemoveQualityService(installed.Lines)
	assert.Equal(t, 0, countMatching(stripped, "applovin"))

	again, err := Upsert(stripped, Options{APIKey: "abc"})
	require.NoError(t, err)
	assert.Equal(t, InsertNewPlugin, again.Decision)
	assert.Equal(t, 1, countMatching(again.Lines, "    apiKey 'abc'"))
	assert.Equal(t, 1, countMatching(again.Lines, "applovin {"))
	assert.Equal(t, 1, countMatching(again.Lines, "apply plugin: 'applovin-quality-service'"))
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "insert-new-plugin", InsertNewPlugin.String())
	assert.Equal(t, "failure", Failure.String())
	assert.Equal(t, "unknown", Decision(42).String())
}
