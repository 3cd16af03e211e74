// Package testsupport holds helpers shared by this module's test
// suites; nothing outside a _test.go file imports it.
package testsupport

import (
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// AssertGolden fails t with a line-level diff between expected and
// actual if they differ, instead of testify's default full-string
// dump. Grounded on the teacher's own golden-file comparison tooling
// (cmd/neurotest/internal/golden.Differ.ShowDetailedDiff), trimmed to
// the one piece this module's test suite actually needs: a readable
// diff on mismatch, not a CLI for replaying recorded scripts.
func AssertGolden(t *testing.T, expected, actual string) {
	t.Helper()
	if expected == actual {
		return
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(expected, actual, false)
	t.Errorf("golden mismatch:\n%s", dmp.DiffPrettyText(diffs))
}
