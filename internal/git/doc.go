// Package git inspects the work tree holding the base package before a
// release mutates it.
package git
