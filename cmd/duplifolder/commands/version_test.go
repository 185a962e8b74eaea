package commands

import (
	"strings"
	"testing"

	"github.com/thoreinstein/duplifolder/cmd"
)

func TestVersionCommand_Output(t *testing.T) {
	isolate(t)

	output, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	tests := []struct {
		name     string
		contains string
	}{
		{name: "version header", contains: "duplifolder version " + cmd.Version},
		{name: "commit field", contains: "commit: " + cmd.Commit},
		{name: "built field", contains: "built:  " + cmd.Date},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(output, tt.contains) {
				t.Errorf("version output missing %q\nGot:\n%s", tt.contains, output)
			}
		})
	}

	if lines := strings.Split(strings.TrimSpace(output), "\n"); len(lines) != 3 {
		t.Errorf("version output has %d lines, want 3\nGot:\n%s", len(lines), output)
	}
}

func TestVersionCommand_CommandMetadata(t *testing.T) {
	if versionCmd.Use != "version" {
		t.Errorf("versionCmd.Use = %q, want %q", versionCmd.Use, "version")
	}
	if versionCmd.Short == "" {
		t.Error("versionCmd.Short should not be empty")
	}
	if versionCmd.Long == "" {
		t.Error("versionCmd.Long should not be empty")
	}
}

func TestGenDoc_FilePrepender(t *testing.T) {
	got := filePrepender("/tmp/docs/duplifolder_dest_add.md")
	if !strings.Contains(got, `title: "duplifolder dest add"`) {
		t.Errorf("filePrepender() = %q, want title for dest add", got)
	}
	if got := linkHandler("duplifolder_dest.md"); got != "/docs/reference/duplifolder_dest/" {
		t.Errorf("linkHandler() = %q", got)
	}
}
