package errors

import (
	"bytes"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestReleaseError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ReleaseError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(CategoryConfig, SeverityFatal, "configuration invalid"),
			expected: "config (fatal): configuration invalid",
		},
		{
			name:     "error with cause",
			err:      Wrap(fmt.Errorf("file not found"), CategoryConfig, SeverityFatal, "failed to load config"),
			expected: "config (fatal): failed to load config: file not found",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := test.err.Error()
			if result != test.expected {
				t.Errorf("Error() = %q, want %q", result, test.expected)
			}
		})
	}
}

func TestReleaseError_WithContext(t *testing.T) {
	err := New(CategoryFileSystem, SeverityFatal, "move failed").
		WithContext("service", "ec2").
		WithContext("path", "/tmp/data")

	if err.Context == nil {
		t.Fatal("Context should not be nil")
	}
	if err.Context["service"] != "ec2" {
		t.Errorf("Context[service] = %v, want ec2", err.Context["service"])
	}
	if err.Context["path"] != "/tmp/data" {
		t.Errorf("Context[path] = %v, want /tmp/data", err.Context["path"])
	}
}

func TestIsCategory(t *testing.T) {
	configErr := New(CategoryConfig, SeverityFatal, "config error")
	cmdErr := New(CategoryCommand, SeverityFatal, "command error")
	wrapped := fmt.Errorf("stage build_subsets: %w", cmdErr)
	standardErr := fmt.Errorf("standard error")

	tests := []struct {
		name     string
		err      error
		category ErrorCategory
		expected bool
	}{
		{"config error matches config category", configErr, CategoryConfig, true},
		{"config error doesn't match command category", configErr, CategoryCommand, false},
		{"wrapped command error matches command category", wrapped, CategoryCommand, true},
		{"standard error doesn't match any category", standardErr, CategoryConfig, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsCategory(test.err, test.category)
			if result != test.expected {
				t.Errorf("IsCategory() = %v, want %v", result, test.expected)
			}
		})
	}
}

func TestGetCategory(t *testing.T) {
	if got := GetCategory(fmt.Errorf("plain")); got != CategoryInternal {
		t.Errorf("GetCategory(plain) = %v, want %v", got, CategoryInternal)
	}
	if got := GetCategory(FileSystem("rename", "/x", fmt.Errorf("boom"))); got != CategoryFileSystem {
		t.Errorf("GetCategory(fs) = %v, want %v", got, CategoryFileSystem)
	}
}

func TestConvenienceFunctions(t *testing.T) {
	t.Run("ConfigNotFound", func(t *testing.T) {
		err := ConfigNotFound("/path/to/alacarte.yaml")
		if err.Category != CategoryConfig {
			t.Errorf("Category = %v, want %v", err.Category, CategoryConfig)
		}
		if err.Severity != SeverityFatal {
			t.Errorf("Severity = %v, want %v", err.Severity, SeverityFatal)
		}
		if err.Context["path"] != "/path/to/alacarte.yaml" {
			t.Errorf("Context[path] = %v, want /path/to/alacarte.yaml", err.Context["path"])
		}
	})

	t.Run("CommandFailed", func(t *testing.T) {
		cause := fmt.Errorf("exit status 3")
		err := CommandFailed("python setup.py sdist", "/tmp/tree", 3, "boom", cause)
		if err.Category != CategoryCommand {
			t.Errorf("Category = %v, want %v", err.Category, CategoryCommand)
		}
		if err.Context["exit_code"] != 3 {
			t.Errorf("Context[exit_code] = %v, want 3", err.Context["exit_code"])
		}
		if err.Context["output"] != "boom" {
			t.Errorf("Context[output] = %v, want boom", err.Context["output"])
		}
		if !stdErrors.Is(err, cause) {
			t.Errorf("Cause should match wrapped cause: %v", cause)
		}
	})

	t.Run("ValidationFailed", func(t *testing.T) {
		err := ValidationFailed("version", "must not be empty")
		if err.Category != CategoryValidation {
			t.Errorf("Category = %v, want %v", err.Category, CategoryValidation)
		}
		if err.Context["field"] != "version" {
			t.Errorf("Context[field] = %v, want version", err.Context["field"])
		}
	})
}

func TestCLIErrorAdapter_ExitCodes(t *testing.T) {
	a := NewCLIErrorAdapter(false, nil)

	cases := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{fmt.Errorf("plain"), 1},
		{ValidationFailed("version", "empty"), 2},
		{ConfigRequired("base.root"), 7},
		{CommandFailed("twine", ".", 1, "", fmt.Errorf("exit status 1")), 8},
		{fmt.Errorf("stage: %w", FileSystem("rename", "/x", fmt.Errorf("gone"))), 11},
		{InternalError("bug", nil), 10},
	}
	for _, c := range cases {
		if got := a.ExitCodeFor(c.err); got != c.want {
			t.Errorf("ExitCodeFor(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var logs, stderr bytes.Buffer
	a := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&logs, nil)))
	a.stderr = &stderr
	exitCode := -1
	a.exit = func(code int) { exitCode = code }

	a.HandleError(CommandFailed("python setup.py sdist bdist_wheel", "/tmp/t", 2, "", fmt.Errorf("exit status 2")))

	if exitCode != 8 {
		t.Errorf("exit code = %d, want 8", exitCode)
	}
	if got := stderr.String(); got != "command: external command failed\n" {
		t.Errorf("stderr = %q", got)
	}
	if !strings.Contains(logs.String(), "category=command") {
		t.Errorf("log output missing category: %s", logs.String())
	}
	if !strings.Contains(logs.String(), "exit_code=2") {
		t.Errorf("log output missing exit_code: %s", logs.String())
	}
}
