package testing

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/hookscope/pkg/hooks"
	"github.com/go-drift/hookscope/pkg/host"
)

// UpdateSnapshotsEnv names the environment variable that switches MatchesFile
// into update mode when set to "1".
const UpdateSnapshotsEnv = "HOOKSCOPE_UPDATE_SNAPSHOTS"

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot captures the output and hook layout of every mounted component.
type Snapshot struct {
	Components []ComponentSnapshot `yaml:"components"`
}

// ComponentSnapshot is one mounted component.
type ComponentSnapshot struct {
	Name   string     `yaml:"name"`
	Output string     `yaml:"output,omitempty"`
	Error  string     `yaml:"error,omitempty"`
	Layout *ScopeNode `yaml:"layout"`
}

// ScopeNode is one slot sequence of a component's hook state.
type ScopeNode struct {
	Path   string       `yaml:"path"`
	Slots  []string     `yaml:"slots,omitempty"`
	Scopes []*ScopeNode `yaml:"scopes,omitempty"`
}

// CaptureSnapshot captures the current state of every mounted component in
// mount order.
func (t *Tester) CaptureSnapshot() *Snapshot {
	snap := &Snapshot{}
	for _, e := range t.owner.Elements() {
		c := ComponentSnapshot{
			Name:   e.Instance().Name(),
			Output: describeOutput(e.Output()),
			Layout: captureScope(e.Instance().Inspect()),
		}
		if err := e.Err(); err != nil {
			c.Error = err.Error()
		}
		snap.Components = append(snap.Components, c)
	}
	return snap
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When HOOKSCOPE_UPDATE_SNAPSHOTS=1
// is set, the file is silently updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv(UpdateSnapshotsEnv) == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: %s=1 go test -run %s", path, UpdateSnapshotsEnv, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s\n%s\n\nTo update: %s=1 go test -run %s", path, diff, UpdateSnapshotsEnv, t.Name())
	}
}

// UpdateFile writes this snapshot to the given path, creating directories
// as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := marshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a line diff between this snapshot and other. Returns
// empty string if equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	a, _ := marshalSnapshot(s)
	b, _ := marshalSnapshot(other)
	if string(a) == string(b) {
		return ""
	}
	return unifiedDiff(string(b), string(a))
}

func describeOutput(out any) string {
	switch v := out.(type) {
	case nil:
		return ""
	case host.Span:
		return v.Prop
	default:
		return fmt.Sprintf("%v", v)
	}
}

func captureScope(info hooks.SlotInfo) *ScopeNode {
	node := &ScopeNode{Path: info.Path, Slots: info.Slots}
	for _, site := range info.Sites {
		for _, child := range site.Scopes {
			node.Scopes = append(node.Scopes, captureScope(child))
		}
	}
	return node
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot YAML: %w", err)
	}
	return &snap, nil
}

func marshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf strings.Builder
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}

// unifiedDiff produces a simple line-oriented diff.
func unifiedDiff(expected, actual string) string {
	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")

	var buf strings.Builder
	buf.WriteString("--- expected\n+++ actual\n")

	for i := range max(len(expectedLines), len(actualLines)) {
		var e, a string
		if i < len(expectedLines) {
			e = expectedLines[i]
		}
		if i < len(actualLines) {
			a = actualLines[i]
		}
		if e == a {
			continue
		}
		if i < len(expectedLines) {
			fmt.Fprintf(&buf, "-%s\n", e)
		}
		if i < len(actualLines) {
			fmt.Fprintf(&buf, "+%s\n", a)
		}
	}

	return buf.String()
}
