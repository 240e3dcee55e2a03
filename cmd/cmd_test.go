package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command against a file store in dir.
func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--data", dir, "--backend", "file", "--log", "prod"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestLessonFlow(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, dir, "lesson", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "0/10 complete")

	_, err = execute(t, dir, "lesson", "start", "L5")
	require.Error(t, err)

	out, err = execute(t, dir, "lesson", "finish", "l1", "--reflection", "Plants need light", "--fact", "Leaves face the sun")
	require.NoError(t, err)
	assert.Contains(t, out, "L1 complete: +50 XP")
	assert.Contains(t, out, "Badge earned:")
	assert.Contains(t, out, "Next up: L2")

	out, err = execute(t, dir, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "1/10 complete (10%)")
	assert.Contains(t, out, "Badges    1/10")
	assert.Contains(t, out, "Journal   1 entries")

	out, err = execute(t, dir, "journal", "list", "--lesson", "L1")
	require.NoError(t, err)
	assert.Contains(t, out, "1 entries")
}

func TestJournalExportImport(t *testing.T) {
	dir := t.TempDir()
	export := filepath.Join(t.TempDir(), "journal.json")

	_, err := execute(t, dir, "widget", "shade", "50", "--save")
	require.NoError(t, err)

	_, err = execute(t, dir, "journal", "export", "--format", "json", "-o", export)
	require.NoError(t, err)
	data, err := os.ReadFile(export)
	require.NoError(t, err)
	assert.Contains(t, string(data), "wonder_finding")

	_, err = execute(t, dir, "journal", "clear", "--yes")
	require.NoError(t, err)

	out, err := execute(t, dir, "journal", "import", export)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 entries")

	_, err = execute(t, dir, "journal", "export", "--format", "pdf")
	assert.Error(t, err)
}

func TestPrefsSet(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, dir, "prefs", "set", "high-contrast", "true")
	require.NoError(t, err)
	_, err = execute(t, dir, "prefs", "set", "tab", "teacher")
	require.NoError(t, err)

	out, err := execute(t, dir, "prefs")
	require.NoError(t, err)
	assert.Contains(t, out, "tab             teacher")
	assert.Contains(t, out, "high-contrast   true")

	_, err = execute(t, dir, "prefs", "set", "tab", "principal")
	assert.Error(t, err)
	_, err = execute(t, dir, "prefs", "set", "read-aloud", "maybe")
	assert.Error(t, err)
}

func TestWidgets(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, dir, "widget", "circuit", "--part", "battery:0,0", "--part", "wire:0,1", "--part", "lamp:0,2")
	require.NoError(t, err)
	assert.Contains(t, out, "It works!")

	_, err = execute(t, dir, "widget", "circuit", "--part", "battery")
	assert.Error(t, err)

	_, err = execute(t, dir, "widget", "weather", "atlantis", "london")
	assert.Error(t, err)

	_, err = execute(t, dir, "widget", "design", "moat")
	assert.Error(t, err)
}

func TestClassroomWidgetsSave(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, dir, "widget", "citizenship", "strangers", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Great choice!")
	assert.Contains(t, out, "Golden rule: Never share personal information with strangers")

	out, err = execute(t, dir, "widget", "citizenship", "--save", "--rule", "Be kind online", "--class", "5A")
	require.NoError(t, err)
	assert.Contains(t, out, "1. Be kind online")
	assert.Contains(t, out, "Saved to journal as")

	out, err = execute(t, dir, "widget", "plates", "--magnitude", "6.5")
	require.NoError(t, err)
	assert.Contains(t, out, "Strong")

	out, err = execute(t, dir, "widget", "plates", "tokyo", "london", "--ring-of-fire", "--save", "--reflection", "Quakes follow plate edges")
	require.NoError(t, err)
	assert.Contains(t, out, "In the Ring of Fire: Tokyo, Japan")

	out, err = execute(t, dir, "widget", "houses", "desert=ventilation")
	require.NoError(t, err)
	assert.Contains(t, out, "Matched 0 of 3")

	_, err = execute(t, dir, "widget", "houses", "tropical=ventilation", "arctic=insulation", "desert=thermal-mass", "--save")
	require.NoError(t, err)

	out, err = execute(t, dir, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Journal   3 entries")
}

func TestParsePart(t *testing.T) {
	p, err := parsePart("lamp:2,3")
	require.NoError(t, err)
	assert.Equal(t, "lamp", p.Type)
	assert.Equal(t, 2, p.Row)
	assert.Equal(t, 3, p.Col)

	_, err = parsePart("lamp@2,3")
	assert.Error(t, err)
}
