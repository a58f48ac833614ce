package seoulmetro

import (
	"fmt"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

func testTempdir(t *testing.T) string {
	dir, err := os.MkdirTemp("", "")
	require.NoError(t, err)
	t.Cleanup(func() {
		if t.Failed() {
			fmt.Println("Preserving tempdir after failed test", dir)
		} else {
			_ = os.RemoveAll(dir)
		}
	})
	return dir
}

func writeTestFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func assertTextEqual(t *testing.T, name, expected, actual string) {
	t.Helper()
	edits := myers.ComputeEdits(span.URIFromPath(name), expected, actual)
	if len(edits) > 0 {
		t.Fail()
		t.Log(fmt.Sprint(gotextdiff.ToUnified("expected/"+name, "actual/"+name, expected, edits)))
	}
}

func assertFileEqual(t *testing.T, expectedPath, actual string) {
	t.Helper()
	expected, err := os.ReadFile(expectedPath)
	require.NoError(t, err)
	assertTextEqual(t, filepath.Base(expectedPath), string(expected), actual)
}
