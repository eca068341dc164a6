package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const contactYAML = `
id: contact
label: Contacts
fields:
  - id: lastname
    label: Lastname
    inMany: true
    inSearch: true
    required: true
  - id: firstname
    label: Firstname
    inMany: true
    inSearch: true
  - id: category
    label: Category
    type: lov
    lovtable: contact_category
    inMany: true
collections:
  - id: notes
    table: contact_note
    column: contact_id
    fields:
      - id: note
`

// setupProject writes a config file and a models directory, and returns the
// config path
func setupProject(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	modelsDir := filepath.Join(dir, "models")
	if err := os.Mkdir(modelsDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(modelsDir, "contact.yml"), []byte(contactYAML), 0644); err != nil {
		t.Fatalf("write model: %v", err)
	}

	cfg := "models:\n  dir: " + modelsDir + "\nlog:\n  level: error\n"
	path := filepath.Join(dir, "querykit.yml")
	if err := os.WriteFile(path, []byte(cfg), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// execute runs the root command with fresh flags
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--no-color"))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	if cmd.Use != "querykit" {
		t.Errorf("expected Use to be 'querykit', got %s", cmd.Use)
	}

	if cmd.Short == "" || cmd.Long == "" {
		t.Error("expected descriptions to be set")
	}

	for _, expected := range []string{"version", "serve", "sql", "models", "completion"} {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == expected {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected command %s to be registered", expected)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	Version = "1.0.0-test"
	GitCommit = "abc123"
	BuildDate = "2025-01-01"
	GoVersion = "go1.23"
	defer func() {
		Version, GitCommit, BuildDate, GoVersion = "dev", "unknown", "unknown", "unknown"
	}()

	out, _, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}

	for _, want := range []string{"1.0.0-test", "abc123", "2025-01-01", "go1.23"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestCompletionCommand(t *testing.T) {
	out, _, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion failed: %v", err)
	}
	if !strings.Contains(out, "querykit") {
		t.Error("expected completion script for querykit")
	}

	if _, _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("expected error for unsupported shell")
	}
}

func TestModelsCommand(t *testing.T) {
	path := setupProject(t)

	out, _, err := execute(t, "models", "--config", path)
	if err != nil {
		t.Fatalf("models failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header, separator and one row, got:\n%s", out)
	}
	for _, want := range []string{"contact", "evolutility.contact", "3", "lastname, firstname", "notes"} {
		if !strings.Contains(lines[2], want) {
			t.Errorf("expected %q in row %q", want, lines[2])
		}
	}
}

func TestModelsCommandMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "querykit.yml")
	if err := os.WriteFile(path, []byte("models:\n  dir: /nonexistent/models\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, _, err := execute(t, "models", "--config", path); err == nil {
		t.Error("expected error for missing models directory")
	}
}
