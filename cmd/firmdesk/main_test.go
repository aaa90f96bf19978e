package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/firmdesk/internal/db"
	"github.com/tgienger/firmdesk/internal/importer"
)

// --- Test Setup ---

// setupTests isolates config lookup and returns a fresh database path.
func setupTests(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_DATA_HOME", dir)
	t.Setenv("FIRMDESK_LOG_LEVEL", "error")
	return filepath.Join(dir, "test.db")
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// resetFlags puts every flag back to its default between runs.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// executeCommand runs the root command and captures everything it prints.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	b := new(bytes.Buffer)
	rootCmd.SetOut(b)
	rootCmd.SetErr(b)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return b.String(), err
}

// --- Test Functions ---

func TestVersion(t *testing.T) {
	out, err := executeCommand(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "firmdesk dev (commit: none, built: unknown)\n", out)
}

func TestTemplateCommand(t *testing.T) {
	setupTests(t)

	t.Run("prints to stdout", func(t *testing.T) {
		out, err := executeCommand(t, "template", "Assignee", "--stdout")
		require.NoError(t, err)
		assert.Equal(t, "Team Name,Captain\nAlpha,Jordan\n", out)
	})

	t.Run("writes the named file", func(t *testing.T) {
		dir := t.TempDir()
		out, err := executeCommand(t, "template", "todos", "--dir", dir)
		require.NoError(t, err)

		path := filepath.Join(dir, "todos_upload_template.csv")
		assert.Contains(t, out, path)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "Title,Description,Due Date,Completed,Priority\n")
	})

	t.Run("unknown entity", func(t *testing.T) {
		_, err := executeCommand(t, "template", "invoices", "--stdout")
		assert.Error(t, err)
	})
}

func TestImportCommand(t *testing.T) {
	dbPath := setupTests(t)

	t.Run("invalid rows block the upload", func(t *testing.T) {
		file := writeFile(t, "teams.csv", "Team Name,Captain\nAlpha,Jordan\nBeta,\n")
		out, err := executeCommand(t, "--db", dbPath, "import", "assignees", file)
		require.ErrorIs(t, err, importer.ErrValidationFailed)
		assert.Contains(t, out, "teams.csv: 1 error(s) in 1 row(s)")
		assert.Contains(t, out, "row 3")
		assert.Contains(t, out, "Captain is required")

		out, err = executeCommand(t, "--db", dbPath, "list", "assignees")
		require.NoError(t, err)
		assert.Contains(t, out, "No assignees")
	})

	t.Run("dry run writes nothing", func(t *testing.T) {
		file := writeFile(t, "clients.csv", "Name,Phone\nAcme,555\n")
		out, err := executeCommand(t, "--db", dbPath, "import", "client", file, "--dry-run")
		require.NoError(t, err)
		assert.Contains(t, out, "1 row(s) valid, nothing written")

		out, err = executeCommand(t, "--db", dbPath, "list", "clients")
		require.NoError(t, err)
		assert.Contains(t, out, "No clients")
	})

	t.Run("valid upload is created and exports back", func(t *testing.T) {
		content := "Team Name,Captain\nAlpha,Jordan\nBeta,Sam\n"
		file := writeFile(t, "teams.csv", content)
		out, err := executeCommand(t, "--db", dbPath, "import", "assignees", file)
		require.NoError(t, err)
		assert.Contains(t, out, "2 assignees created")

		out, err = executeCommand(t, "--db", dbPath, "list", "assignees")
		require.NoError(t, err)
		assert.Contains(t, out, "Alpha")
		assert.Contains(t, out, "Jordan")

		out, err = executeCommand(t, "--db", dbPath, "export", "assignees")
		require.NoError(t, err)
		assert.Equal(t, content, out)
	})
}

func TestAddCommand(t *testing.T) {
	dbPath := setupTests(t)

	t.Run("form errors are printed", func(t *testing.T) {
		out, err := executeCommand(t, "--db", dbPath, "add", "assignee", "--name", "Gamma")
		require.ErrorIs(t, err, errInvalidForm)
		assert.Contains(t, out, "Captain is required")
	})

	t.Run("task for unknown client warns with suggestions", func(t *testing.T) {
		_, err := executeCommand(t, "--db", dbPath, "add", "client", "--name", "Acme Traders")
		require.NoError(t, err)

		out, err := executeCommand(t, "--db", dbPath, "add", "task",
			"--client", "acme", "--category", "GST", "--sub-category", "GSTR-1", "--bill", "1500")
		require.NoError(t, err)
		assert.Contains(t, out, `no client named "acme"; did you mean Acme Traders?`)
		assert.Contains(t, out, "Pending")
		assert.Contains(t, out, "1500")
	})

	t.Run("todo is stored and deleted", func(t *testing.T) {
		out, err := executeCommand(t, "--db", dbPath, "add", "todo", "--title", "Call bank", "--priority", "2")
		require.NoError(t, err)
		assert.Contains(t, out, "Call bank")

		out, err = executeCommand(t, "--db", dbPath, "delete", "todo", "1")
		require.NoError(t, err)
		assert.Contains(t, out, "deleted todo 1")

		_, err = executeCommand(t, "--db", dbPath, "delete", "todo", "1")
		assert.ErrorIs(t, err, db.ErrNotFound)
	})
}

func TestExportFoldsMultilineNotes(t *testing.T) {
	dbPath := setupTests(t)

	_, err := executeCommand(t, "--db", dbPath, "add", "client", "--name", "Acme", "--notes", "line one\nline two")
	require.NoError(t, err)

	out, err := executeCommand(t, "--db", dbPath, "export", "clients")
	require.NoError(t, err)
	assert.Equal(t, "Name,Contact Person,Phone,Email,Address,Notes\nAcme,,,,,line one line two\n", out)

	file := writeFile(t, "clients.csv", out)
	out, err = executeCommand(t, "--db", dbPath, "import", "clients", file, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "1 row(s) valid, nothing written")
}
