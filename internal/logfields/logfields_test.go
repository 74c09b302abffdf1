package logfields

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"RunID", KeyRunID, "r1", RunID("r1")},
		{"Service", KeyService, "ec2", Service("ec2")},
		{"Version", KeyVersion, "1.2.3", Version("1.2.3")},
		{"Stage", KeyStage, "build_subsets", Stage("build_subsets")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"Command", KeyCommand, "twine upload", Command("twine upload")},
		{"Artifact", KeyArtifact, "a.whl", Artifact("a.whl")},
		{"Commit", KeyCommit, "abc123", Commit("abc123")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if tc.attr.Value.String() != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %s", tc.name, tc.attrVal, tc.attr.Value.String())
		}
	}
}

func TestIntHelpers(t *testing.T) {
	if a := Services(3); a.Key != KeyServices || a.Value.Int64() != 3 {
		t.Fatalf("Services: got %v", a)
	}
	if a := Workers(8); a.Key != KeyWorkers || a.Value.Int64() != 8 {
		t.Fatalf("Workers: got %v", a)
	}
	if a := Artifacts(2); a.Key != KeyArtifacts || a.Value.Int64() != 2 {
		t.Fatalf("Artifacts: got %v", a)
	}
}

func TestSince(t *testing.T) {
	a := Since(time.Now().Add(-50 * time.Millisecond))
	if a.Key != KeyDurationMS {
		t.Fatalf("expected key %s, got %s", KeyDurationMS, a.Key)
	}
	if a.Value.Float64() < 50 {
		t.Fatalf("expected at least 50ms, got %v", a.Value.Float64())
	}
}

func TestError(t *testing.T) {
	if a := Error(nil); a.Value.String() != "" {
		t.Fatalf("nil error should render empty, got %q", a.Value.String())
	}
	if a := Error(errors.New("boom")); a.Value.String() != "boom" {
		t.Fatalf("expected boom, got %q", a.Value.String())
	}
}
