package gradlepatch

import "regexp"

// Plugin describes the lines a Gradle build plugin contributes to a build file.
// All fields except ApplyPattern are matched as plain substrings.
type Plugin struct {
	Name         string
	Marker       string         // opening line of the plugin's configuration block
	MavenRepo    string         // buildscript repository line
	Classpath    string         // buildscript dependency line
	ApplyPattern *regexp.Regexp // "apply plugin:" line
}

const (
	buildScriptMarker = "buildscript"

	qualityServiceMavenRepo  = "maven { url 'https://applovin.bintray.com/Quality-Service' }"
	qualityServiceClasspath  = "classpath 'com.applovin.quality:AppLovinQualityServiceGradlePlugin:3.+'"
	qualityServiceApplyLine  = "apply plugin: 'applovin-quality-service'"
	qualityServiceMarker     = "applovin {"
	qualityServiceKeyFormat  = "    apiKey '%s'"
	qualityServiceKeyComment = "    // NOTE: DO NOT CHANGE - this is NOT your AppLovin MAX SDK key - this is a derived key."
)

// Anchor patterns. Matching is unanchored, so these behave like "line contains".
var (
	tokenBuildScriptRepositories = regexp.MustCompile(`jcenter`)
	tokenBuildScriptDependencies = regexp.MustCompile(`classpath 'com\.android\.tools\.build:gradle`)
	tokenApplicationPlugin       = regexp.MustCompile(`apply plugin: 'com\.android\.application'`)
	tokenAPIKey                  = regexp.MustCompile(`apiKey`)
	tokenQualityServicePlugin    = regexp.MustCompile(`apply plugin:.+?applovin-quality-service`)
	tokenSafeDKPlugin            = regexp.MustCompile(`apply plugin:.+?safedk`)
)

// QualityService is the AppLovin Quality Service plugin.
var QualityService = Plugin{
	Name:         "applovin-quality-service",
	Marker:       qualityServiceMarker,
	MavenRepo:    qualityServiceMavenRepo,
	Classpath:    qualityServiceClasspath,
	ApplyPattern: tokenQualityServicePlugin,
}

// LegacySafeDK is the SafeDK plugin the Quality Service replaced.
var LegacySafeDK = Plugin{
	Name:         "safedk",
	Marker:       "safedk {",
	MavenRepo:    "http://download.safedk.com",
	Classpath:    "com.safedk:SafeDKGradlePlugin:",
	ApplyPattern: tokenSafeDKPlugin,
}
