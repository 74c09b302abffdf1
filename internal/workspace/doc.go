// Package workspace manages the temporary package trees that subset builds
// run in.
//
// A tree lives at <work_dir>/<dist_name>-<service>. Creation fails when the
// path already exists, and removal is tied to successful creation, so a
// builder never deletes a directory it did not make.
package workspace
