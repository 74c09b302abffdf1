package build

import "errors"

// Sentinel errors wrapped by subset builds; callers branch on them with
// errors.Is.
var (
	ErrDataMissing = errors.New("alacarte: subset data directory missing")
	ErrNoArtifacts = errors.New("alacarte: build produced no artifacts")
)
