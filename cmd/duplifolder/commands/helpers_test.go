package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/thoreinstein/duplifolder/internal/paths"
)

// testEnv is an isolated settings, state and backup layout for one test.
type testEnv struct {
	dir    string
	source string
	root   string
	state  string
}

// isolate points every duplifolder location into a temp dir and creates a
// small source folder.
func isolate(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	env := &testEnv{
		dir:    dir,
		source: filepath.Join(dir, "project"),
		root:   filepath.Join(dir, "backups"),
		state:  filepath.Join(dir, "state", "state.json"),
	}

	t.Setenv(paths.ConfigDirEnv, filepath.Join(dir, "config"))
	t.Setenv("DUPLIFOLDER_STATE_FILE", env.state)
	t.Setenv("DUPLIFOLDER_BACKUP_ROOT", env.root)
	t.Setenv("DUPLIFOLDER_IGNORE_MODE", "")
	t.Setenv(debugEnv, "")

	work := filepath.Join(dir, "work")
	mustMkdir(t, work)
	t.Chdir(work)

	mustMkdir(t, filepath.Join(env.source, "src"))
	mustMkdir(t, filepath.Join(env.source, "node_modules", "dep"))
	mustWrite(t, filepath.Join(env.source, "README.md"), "hello")
	mustWrite(t, filepath.Join(env.source, "src", "main.go"), "package main")
	mustWrite(t, filepath.Join(env.source, "node_modules", "dep", "index.js"), "x")
	mustWrite(t, filepath.Join(env.source, ".gitignore"), "node_modules\n")

	return env
}

// execute runs the root command with args and returns what it wrote to
// stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeWithInput(t, "", args...)
}

func executeWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	if err != nil {
		t.Logf("stderr: %s", errOut.String())
	}
	return out.String(), err
}

// resetFlags returns every flag of cmd and its children to its default so
// one test's flags do not leak into the next.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// backupDirs lists the folders created under root.
func backupDirs(t *testing.T, root string) []string {
	t.Helper()
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("reading %s: %v", root, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names
}

func mustMkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatal(err)
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

