package testing

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-drift/hookscope/pkg/hooks"
)

func mountList(t *testing.T) (*Tester, *hooks.Ref[listHandle]) {
	t.Helper()
	tester := NewTesterWithT(t)
	factor := 2
	ref := hooks.NewRef(listHandle{})
	Mount(tester, "List", newList(&factor), listProps{ref: ref})
	tester.Flush()
	return tester, ref
}

func TestCaptureSnapshot_Layout(t *testing.T) {
	tester, ref := mountList(t)
	ref.Current.setList([]int{3, 1})
	tester.Flush()

	snap := tester.CaptureSnapshot()
	if len(snap.Components) != 1 {
		t.Fatalf("Expected 1 component, got %d", len(snap.Components))
	}
	c := snap.Components[0]
	if c.Name != "List" || c.Output != "List: 6,2" || c.Error != "" {
		t.Errorf("Unexpected component %+v", c)
	}

	root := c.Layout
	if root.Path != "root" || len(root.Slots) != 2 {
		t.Errorf("Unexpected root %+v", root)
	}
	var paths []string
	for _, s := range root.Scopes {
		paths = append(paths, s.Path)
	}
	if strings.Join(paths, " ") != "root/named[0][1] root/named[0][3]" {
		t.Errorf("Expected keyed scopes in insertion order, got %v", paths)
	}
}

func TestSnapshot_Diff_Equal(t *testing.T) {
	tester, _ := mountList(t)

	a := tester.CaptureSnapshot()
	b := tester.CaptureSnapshot()

	if diff := a.Diff(b); diff != "" {
		t.Errorf("expected no diff for identical snapshots, got:\n%s", diff)
	}
}

func TestSnapshot_Diff_Different(t *testing.T) {
	tester, ref := mountList(t)
	a := tester.CaptureSnapshot()

	ref.Current.setList([]int{1, 2})
	tester.Flush()
	b := tester.CaptureSnapshot()

	diff := a.Diff(b)
	if diff == "" {
		t.Fatal("expected diff for different snapshots")
	}
	if !strings.Contains(diff, "List: 2,4") {
		t.Errorf("expected diff to mention the new output, got:\n%s", diff)
	}
}

func TestSnapshot_UpdateAndMatch(t *testing.T) {
	t.Setenv(UpdateSnapshotsEnv, "")
	tester, _ := mountList(t)
	snap := tester.CaptureSnapshot()

	dir := t.TempDir()
	path := filepath.Join(dir, "testdata", "list.snapshot.yaml")

	if err := snap.UpdateFile(path); err != nil {
		t.Fatalf("UpdateFile failed: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("snapshot file should exist after UpdateFile")
	}

	// MatchesFile should pass now
	snap.MatchesFile(t, path)
}

func TestSnapshot_MatchesFile_MissingFile(t *testing.T) {
	t.Setenv(UpdateSnapshotsEnv, "")
	tester, _ := mountList(t)
	snap := tester.CaptureSnapshot()

	failed := false
	sub := &fatalRecorder{name: t.Name(), onFatal: func() { failed = true }}
	snap.MatchesFile(sub, filepath.Join(t.TempDir(), "missing.yaml"))

	if !failed {
		t.Error("expected MatchesFile to fail for missing file")
	}
}

func TestSnapshot_MatchesFile_Mismatch(t *testing.T) {
	t.Setenv(UpdateSnapshotsEnv, "")
	tester, ref := mountList(t)
	first := tester.CaptureSnapshot()

	path := filepath.Join(t.TempDir(), "snap.yaml")
	if err := first.UpdateFile(path); err != nil {
		t.Fatalf("UpdateFile failed: %v", err)
	}

	ref.Current.setList([]int{5})
	tester.Flush()
	second := tester.CaptureSnapshot()

	errored := false
	sub := &errorRecorder{name: t.Name(), onError: func() { errored = true }}
	second.MatchesFile(sub, path)

	if !errored {
		t.Error("expected MatchesFile to report error for mismatch")
	}
}

func TestSnapshot_UpdateMode(t *testing.T) {
	tester, _ := mountList(t)
	snap := tester.CaptureSnapshot()

	path := filepath.Join(t.TempDir(), "update.snapshot.yaml")

	t.Setenv(UpdateSnapshotsEnv, "1")
	snap.MatchesFile(t, path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("snapshot file should be created in update mode")
	}
}

// fatalRecorder intercepts Fatalf calls for testing MatchesFile failures.
type fatalRecorder struct {
	name    string
	onFatal func()
}

func (r *fatalRecorder) Fatalf(format string, args ...any) { r.onFatal() }
func (r *fatalRecorder) Errorf(format string, args ...any) {}
func (r *fatalRecorder) Helper()                           {}
func (r *fatalRecorder) Name() string                      { return r.name }

// errorRecorder intercepts Errorf calls for testing MatchesFile mismatches.
type errorRecorder struct {
	name    string
	onError func()
}

func (r *errorRecorder) Fatalf(format string, args ...any) {}
func (r *errorRecorder) Errorf(format string, args ...any) { r.onError() }
func (r *errorRecorder) Helper()                           {}
func (r *errorRecorder) Name() string                      { return r.name }
