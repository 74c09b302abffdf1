// Package testfixture builds on-disk base packages and release
// configurations for tests.
package testfixture

const (
	dirPermissions  = 0o750
	filePermissions = 0o600
)
