// Package build materializes and builds the per-service subset packages.
//
// A SubsetBuilder turns one service's data directory into a distributable
// package inside its own temporary tree, and the Orchestrator fans the
// builders out over a bounded worker pool. Every temporary tree is removed
// before its builder returns, including on failure and cancellation.
package build
