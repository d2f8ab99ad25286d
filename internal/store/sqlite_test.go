package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUpsertProjectCreatesAndReplaces(t *testing.T) {
	s := newSQLiteStore(t)

	created, err := s.UpsertProject("123-abc-rfp.txt", "rfp.txt", "rfp text", "pid v1")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "pid v1", created.PIDText)

	updated, err := s.UpsertProject("123-abc-rfp.txt", "rfp.txt", "rfp text", "pid v2")
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "pid v2", updated.PIDText)

	loaded, err := s.GetProjectByFileID("123-abc-rfp.txt")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "pid v2", loaded.PIDText)
	assert.Equal(t, "rfp text", loaded.RFPText)
}

func TestGetProjectByFileIDMissing(t *testing.T) {
	s := newSQLiteStore(t)

	project, err := s.GetProjectByFileID("nope")
	require.NoError(t, err)
	assert.Nil(t, project)
}

func TestUpdateProjectPID(t *testing.T) {
	s := newSQLiteStore(t)

	_, err := s.UpsertProject("file-1-a.txt", "a.txt", "rfp", "original pid")
	require.NoError(t, err)

	require.NoError(t, s.UpdateProjectPID("file-1-a.txt", "refined pid"))

	loaded, err := s.GetProjectByFileID("file-1-a.txt")
	require.NoError(t, err)
	assert.Equal(t, "refined pid", loaded.PIDText)

	assert.Error(t, s.UpdateProjectPID("missing", "pid"))
}

func TestMessagesAppendOnlyOrdered(t *testing.T) {
	s := newSQLiteStore(t)

	project, err := s.UpsertProject("file-2-b.txt", "b.txt", "rfp", "pid")
	require.NoError(t, err)

	_, err = s.AddMessage(project.ID, "user", "Expand risks")
	require.NoError(t, err)
	_, err = s.AddMessage(project.ID, "model", "Done.")
	require.NoError(t, err)

	messages, err := s.GetMessagesByProjectID(project.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "user", messages[0].Sender)
	assert.Equal(t, "Expand risks", messages[0].Content)
	assert.Equal(t, "model", messages[1].Sender)
}

func TestDeleteProjectByFileID(t *testing.T) {
	s := newSQLiteStore(t)

	project, err := s.UpsertProject("file-3-c.txt", "c.txt", "rfp", "pid")
	require.NoError(t, err)
	_, err = s.AddMessage(project.ID, "user", "hello")
	require.NoError(t, err)

	require.NoError(t, s.DeleteProjectByFileID("file-3-c.txt"))

	loaded, err := s.GetProjectByFileID("file-3-c.txt")
	require.NoError(t, err)
	assert.Nil(t, loaded)

	messages, err := s.GetMessagesByProjectID(project.ID)
	require.NoError(t, err)
	assert.Empty(t, messages)

	// Deleting a record that never existed is not an error.
	assert.NoError(t, s.DeleteProjectByFileID("never-there"))
}
