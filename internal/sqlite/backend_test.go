package sqlite

import (
	"bytes"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/swprops/pkg/types"
)

func TestBackend_Attach(t *testing.T) {
	dir := t.TempDir()
	b := NewBackend(quietLogger())
	config := types.Config{Backend: types.BackendDocument, DataDir: dir}

	require.NoError(t, b.Attach(config))
	defer b.Detach()

	assert.FileExists(t, filepath.Join(dir, dbFileName))
	assert.FileExists(t, filepath.Join(dir, documentsFileName))
	assert.Equal(t, dir, b.DataDir())

	assert.ErrorIs(t, b.Attach(config), types.ErrAlreadyAttached)
}

func TestBackend_AttachRejectsInvalidConfig(t *testing.T) {
	b := NewBackend(quietLogger())
	err := b.Attach(types.Config{Backend: "postgres", DataDir: t.TempDir()})
	assert.ErrorIs(t, err, types.ErrBackendUnknown)
}

func TestBackend_Detach(t *testing.T) {
	b := NewBackend(quietLogger())
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendDocument, DataDir: t.TempDir()}))

	require.NoError(t, b.Detach())
	require.NoError(t, b.Detach(), "Detach is idempotent")

	_, err := b.OpenDocument("Frame.SLDASM")
	assert.ErrorIs(t, err, types.ErrDetached)
	assert.ErrorIs(t, b.Import(frameRecord()), types.ErrDetached)
}

func TestBackend_ImportSurvivesReattach(t *testing.T) {
	dir := t.TempDir()

	b := NewBackend(quietLogger())
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendDocument, DataDir: dir}))
	require.NoError(t, b.Import(frameRecord()))
	require.NoError(t, b.Detach())

	b2 := attachAt(t, dir)
	doc, err := b2.OpenDocument("Frame.SLDASM")
	require.NoError(t, err)
	assert.Equal(t, "Frame.SLDASM", doc.Name())
	assert.Equal(t, types.KindAssembly, doc.Kind())
	assert.Equal(t, "Default", doc.ActiveConfiguration())
}

func TestBackend_ImportReplacesByName(t *testing.T) {
	b := attach(t)
	require.NoError(t, b.Import(frameRecord()))

	updated := frameRecord()
	updated.Properties[0].Value = "Aluminium"
	require.NoError(t, b.Import(updated))

	records, err := readJSONL(filepath.Join(b.DataDir(), documentsFileName))
	require.NoError(t, err)
	assert.Len(t, records, 1)

	doc, err := b.OpenDocument("Frame.SLDASM")
	require.NoError(t, err)
	v, _, found, err := b.GetProperty(doc, "Material")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Aluminium", v)
}

func TestBackend_ImportRejectsInvalidRecord(t *testing.T) {
	b := attach(t)
	assert.ErrorIs(t, b.Import(&types.DocumentRecord{Name: "x", Kind: "sketch"}), types.ErrInvalidDocument)
	assert.ErrorIs(t, b.Import(nil), types.ErrInvalidDocument)
}

func TestBackend_LoadSkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	content := `{"name":"Good.SLDPRT","kind":"part","properties":[{"name":"Material","value":"Steel"}]}
not json at all
{"name":"","kind":"part"}

{"name":"Other.SLDPRT","kind":"part","future_field":true}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, documentsFileName), []byte(content), 0o644))

	b := attachAt(t, dir)
	docs, err := b.Documents()
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "Good.SLDPRT", docs[0].Name())
	assert.Equal(t, "Other.SLDPRT", docs[1].Name())
}

func TestBackend_LoadLogsUndecodableLines(t *testing.T) {
	dir := t.TempDir()
	content := "not json at all\n" + `{"name":"Good.SLDPRT","kind":"part"}` + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, documentsFileName), []byte(content), 0o644))

	var buf bytes.Buffer
	b := NewBackend(slog.New(slog.NewTextHandler(&buf, nil)))
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendDocument, DataDir: dir}))
	defer b.Detach()

	assert.Contains(t, buf.String(), "skipping undecodable document record")
	assert.Contains(t, buf.String(), "line=1")
}

func TestBackend_ImportKeepsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, documentsFileName)
	content := `{"name":"Good.SLDPRT","kind":"part"}` + "\n{hand edited, broken\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	b := attachAt(t, dir)
	require.NoError(t, b.Import(frameRecord()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `{"name":"Good.SLDPRT","kind":"part"}`, lines[0])
	assert.Equal(t, "{hand edited, broken", lines[1])
	assert.Contains(t, lines[2], `"name":"Frame.SLDASM"`)
}

func TestBackend_ImportFailedCommitLeavesFileUntouched(t *testing.T) {
	b := attach(t)
	require.NoError(t, b.Import(frameRecord()))
	path := filepath.Join(b.DataDir(), documentsFileName)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	commitTx = func(*sql.Tx) error { return errors.New("database is locked") }
	defer func() { commitTx = (*sql.Tx).Commit }()

	updated := frameRecord()
	updated.Properties[0].Value = "Aluminium"
	require.Error(t, b.Import(updated))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))

	doc, err := b.OpenDocument("Frame.SLDASM")
	require.NoError(t, err)
	v, _, _, err := b.GetProperty(doc, "Material")
	require.NoError(t, err)
	assert.Equal(t, "Steel", v)
}

func TestBackend_OpenDocumentNotFound(t *testing.T) {
	b := attach(t)
	_, err := b.OpenDocument("Missing.SLDPRT")
	assert.ErrorIs(t, err, types.ErrDocumentNotFound)
}

func TestBackend_LoadRecordRoundTrip(t *testing.T) {
	b := attach(t)
	want := frameRecord()
	require.NoError(t, b.Import(want))

	got, err := b.LoadRecord("Frame.SLDASM")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestBackend_ConfigurationNames(t *testing.T) {
	b := attach(t)
	require.NoError(t, b.Import(frameRecord()))
	doc, err := b.OpenDocument("Frame.SLDASM")
	require.NoError(t, err)

	names, err := b.ConfigurationNames(doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"Default", "Heavy"}, names)
}
