package gradlepatch

import (
	"errors"
	"fmt"
)

var (
	// ErrPatchIncomplete means a required anchor line was missing and the
	// build file was left untouched.
	ErrPatchIncomplete = errors.New("gradlepatch: could not complete the patch")
	// ErrEmptySDKKey means Install was called without an SDK key.
	ErrEmptySDKKey     = errors.New("gradlepatch: SDK key is empty")
	// ErrWriteFailed wraps a failure to replace the gradle file on disk.
	ErrWriteFailed     = errors.New("gradlepatch: gradle file write failed")
	// ErrInvalidLayout is returned by ParseLayout for unknown names.
	ErrInvalidLayout   = errors.New("gradlepatch: invalid layout")
)

// IncompleteError reports which insertions of an upsert pass did not happen.
// Only the insertions that were requested are meaningful.
type IncompleteError struct {
	PluginRequested      bool
	PluginAdded          bool
	BuildScriptRequested bool
	RepoAdded            bool
	DependencyAdded      bool
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("gradlepatch: failed to add AppLovin Quality Service plugin (plugin added: %t, repo added: %t, dependency added: %t)",
		e.PluginAdded, e.RepoAdded, e.DependencyAdded)
}

func (e *IncompleteError) Unwrap() error { return ErrPatchIncomplete }
