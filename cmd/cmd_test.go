package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathpace/internal/store"
)

// resetFlags restores every scalar flag of c and its children, since
// rootCmd is shared between tests.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if f.Value.Type() == "stringSlice" {
			return
		}
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "mathpace (devel)\n", out)
}

func TestResolvedVersion(t *testing.T) {
	old := version
	t.Cleanup(func() { version = old })

	version = "1.4.0"
	assert.Equal(t, "v1.4.0", resolvedVersion())
	version = "v2.0.1+abc"
	assert.Equal(t, "v2.0.1+abc", resolvedVersion())
}

func TestLevels(t *testing.T) {
	out, err := execute(t, "", "levels", "--lang", "es")
	require.NoError(t, err)
	assert.Contains(t, out, "Fácil")
	assert.Contains(t, out, "Experto")
	assert.Contains(t, out, "Languages: ")
}

func TestInvalidConfig(t *testing.T) {
	_, err := execute(t, "", "levels", "--puzzles", "2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "puzzles must be between 5 and 50")
}

func TestPreview(t *testing.T) {
	out, err := execute(t, "", "preview", "--level", "hard", "--seed", "9", "-n", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "Hard")
	assert.Contains(t, out, "  4. ")
	assert.NotContains(t, out, "  5. ")
}

func TestPlay_QuitEarly(t *testing.T) {
	out, err := execute(t, "abc\nq\n", "play", "--learner", "Ada", "--puzzles", "5", "--seed", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Hi Ada!")
	assert.Contains(t, out, "Please type a whole number.")
	assert.Contains(t, out, "Answered:    0/5")
}

func TestPlay_FullSession(t *testing.T) {
	out, err := execute(t, strings.Repeat("9999\n", 5), "play", "--puzzles", "5", "--seed", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Answered:    5/5")
	assert.Contains(t, out, "Correct:     0 (0%)")
	assert.Contains(t, out, "already at min")
}

func TestRunsShareNoState(t *testing.T) {
	dataHome := t.TempDir()
	home := t.TempDir()
	work := t.TempDir()
	run := func() string {
		t.Setenv("XDG_DATA_HOME", dataHome)
		t.Setenv("HOME", home)
		t.Chdir(work)
		resetFlags(rootCmd)
		var out bytes.Buffer
		rootCmd.SetArgs([]string{"play", "--learner", "Zed", "--puzzles", "5", "--timeline"})
		rootCmd.SetIn(strings.NewReader("5\nq\n"))
		rootCmd.SetOut(&out)
		rootCmd.SetErr(io.Discard)
		require.NoError(t, rootCmd.Execute())
		return out.String()
	}

	first := sessionIDs(run())
	second := run()
	require.Len(t, first, 1)
	require.Len(t, sessionIDs(second), 1)
	assert.NotContains(t, second, first[0], "second run saw the first run's session")
	sessionRows := "  " + fmt.Sprintf("%-10s", store.KindSession) + "  "
	assert.Equal(t, 2, strings.Count(second, sessionRows), "only this run's start and end")

	for _, dir := range []string{dataHome, home, work} {
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries, "%s should stay empty", dir)
	}
}

// sessionIDs returns the ids of the "Session <id>" lines printed by
// play --timeline.
func sessionIDs(out string) []string {
	var ids []string
	for _, line := range strings.Split(out, "\n") {
		if id, ok := strings.CutPrefix(line, "Session "); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func TestReplayJSON(t *testing.T) {
	fixture, err := filepath.Abs("../internal/replay/testdata/climb.json")
	require.NoError(t, err)

	out, err := execute(t, "", "replay", fixture, "--json")
	require.NoError(t, err)

	var res struct {
		Name  string           `json:"name"`
		Steps []map[string]any `json:"steps"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "fast and accurate learner climbs to expert", res.Name)
	assert.NotEmpty(t, res.Steps)
}
