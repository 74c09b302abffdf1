// Package testtoolchain provides a fake packaging toolchain for tests.
//
// The fake stands in for both the build command and the publish command. A
// build reads the name and version from the setup.py in its working
// directory and leaves an sdist and a wheel under dist/, the same artifacts
// `python setup.py sdist bdist_wheel` would produce.
package testtoolchain

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	rerrors "github.com/thejcannon/alacarte/internal/errors"
)

// FailMode defines how the fake toolchain should fail.
type FailMode int

const (
	FailModeNone FailMode = iota
	FailModeBuild
	FailModePublish
)

// Call is one recorded invocation.
type Call struct {
	Dir  string
	Argv []string
}

// Toolchain implements toolchain.Runner without spawning processes.
type Toolchain struct {
	mu          sync.Mutex
	calls       []Call
	failMode    FailMode
	failNames   map[string]bool
	delay       time.Duration
	inFlight    int
	maxInFlight int
}

var (
	nameRE    = regexp.MustCompile(`name=['"]([^'"]+)['"]`)
	versionRE = regexp.MustCompile(`version=['"]([^'"]+)['"]`)
)

// New returns a fake toolchain that succeeds for every command.
func New() *Toolchain {
	return &Toolchain{failNames: map[string]bool{}}
}

// SetFailMode configures how the fake toolchain should fail.
func (tc *Toolchain) SetFailMode(mode FailMode) *Toolchain {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.failMode = mode
	return tc
}

// FailBuildOf makes builds of the named package fail.
func (tc *Toolchain) FailBuildOf(name string) *Toolchain {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.failNames[name] = true
	return tc
}

// SetDelay adds artificial delay to every command.
func (tc *Toolchain) SetDelay(delay time.Duration) *Toolchain {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.delay = delay
	return tc
}

// Calls returns a copy of the recorded invocations in call order.
func (tc *Toolchain) Calls() []Call {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	out := make([]Call, len(tc.calls))
	copy(out, tc.calls)
	return out
}

// MaxInFlight returns the highest number of concurrent invocations seen.
func (tc *Toolchain) MaxInFlight() int {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return tc.maxInFlight
}

// Run implements toolchain.Runner. Commands whose argv contains "upload" are
// treated as publishes; everything else is a build.
func (tc *Toolchain) Run(ctx context.Context, dir string, argv []string) error {
	tc.mu.Lock()
	tc.calls = append(tc.calls, Call{Dir: dir, Argv: append([]string(nil), argv...)})
	tc.inFlight++
	if tc.inFlight > tc.maxInFlight {
		tc.maxInFlight = tc.inFlight
	}
	delay, mode := tc.delay, tc.failMode
	tc.mu.Unlock()
	defer func() {
		tc.mu.Lock()
		tc.inFlight--
		tc.mu.Unlock()
	}()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return tc.fail(argv, dir, ctx.Err())
		}
	}

	for _, a := range argv {
		if a == "upload" {
			if mode == FailModePublish {
				return tc.fail(argv, dir, errors.New("simulated upload failure"))
			}
			return nil
		}
	}
	return tc.build(dir, argv, mode)
}

func (tc *Toolchain) build(dir string, argv []string, mode FailMode) error {
	setup, err := os.ReadFile(filepath.Join(dir, "setup.py"))
	if err != nil {
		return tc.fail(argv, dir, err)
	}
	name := firstMatch(nameRE, setup)
	version := firstMatch(versionRE, setup)
	if name == "" || version == "" {
		return tc.fail(argv, dir, fmt.Errorf("setup.py has no literal name or version"))
	}

	tc.mu.Lock()
	failName := tc.failNames[name]
	tc.mu.Unlock()
	if mode == FailModeBuild || failName {
		return tc.fail(argv, dir, fmt.Errorf("simulated build failure of %s", name))
	}

	dist := filepath.Join(dir, "dist")
	if err := os.MkdirAll(dist, 0o750); err != nil {
		return tc.fail(argv, dir, err)
	}
	for _, artifact := range Artifacts(name, version) {
		if err := os.WriteFile(filepath.Join(dist, artifact), []byte(name), 0o600); err != nil {
			return tc.fail(argv, dir, err)
		}
	}
	return nil
}

func (tc *Toolchain) fail(argv []string, dir string, cause error) error {
	return rerrors.CommandFailed(strings.Join(argv, " "), dir, 1, cause.Error(), cause)
}

func firstMatch(re *regexp.Regexp, data []byte) string {
	m := re.FindSubmatch(data)
	if m == nil {
		return ""
	}
	return string(m[1])
}

// Artifacts returns the file names a build of name at version produces.
func Artifacts(name, version string) []string {
	wheelName := strings.ReplaceAll(name, "-", "_")
	return []string{
		fmt.Sprintf("%s-%s.tar.gz", name, version),
		fmt.Sprintf("%s-%s-py3-none-any.whl", wheelName, version),
	}
}
