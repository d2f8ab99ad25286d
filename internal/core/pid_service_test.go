package core

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rfpworks.com/pid-backend/internal/apperr"
	"rfpworks.com/pid-backend/internal/store"
)

type stubGenerator struct {
	text       string
	err        error
	calls      int
	lastPrompt string
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.calls++
	g.lastPrompt = prompt
	if g.err != nil {
		return "", g.err
	}
	return g.text, nil
}

func newServiceEnv(t *testing.T) (*PIDService, *store.MemStore, *store.SQLiteStore, *stubGenerator) {
	t.Helper()
	files := store.NewMemStore()
	projects, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { projects.Close() })
	gen := &stubGenerator{text: "Generated PID"}
	return NewPIDService(files, projects, gen), files, projects, gen
}

func TestGeneratePIDFromText(t *testing.T) {
	svc, _, _, gen := newServiceEnv(t)

	pid, err := svc.GeneratePID(context.Background(), "", "Build a website")
	require.NoError(t, err)
	assert.Equal(t, "Generated PID", pid)
	assert.Contains(t, gen.lastPrompt, "Build a website")
}

func TestGeneratePIDRequiresContent(t *testing.T) {
	svc, _, _, gen := newServiceEnv(t)

	_, err := svc.GeneratePID(context.Background(), "", "")
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = svc.GeneratePID(context.Background(), "", "   \n\t ")
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	assert.Zero(t, gen.calls)
}

func TestGeneratePIDFileNotFound(t *testing.T) {
	svc, _, _, gen := newServiceEnv(t)

	_, err := svc.GeneratePID(context.Background(), "123-abcd-missing.txt", "")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Zero(t, gen.calls)
}

func TestGeneratePIDFromFilePersistsRecord(t *testing.T) {
	svc, files, projects, _ := newServiceEnv(t)

	info, err := files.Put([]byte("Build a website"), "sample.txt")
	require.NoError(t, err)

	pid, err := svc.GeneratePID(context.Background(), info.FileID, "")
	require.NoError(t, err)
	assert.Equal(t, "Generated PID", pid)

	project, err := projects.GetProjectByFileID(info.FileID)
	require.NoError(t, err)
	require.NotNil(t, project)
	assert.Equal(t, "sample.txt", project.OriginalName)
	assert.Equal(t, "Build a website", project.RFPText)
	assert.Equal(t, "Generated PID", project.PIDText)
}

func TestGeneratePIDUnsupportedFile(t *testing.T) {
	svc, files, _, gen := newServiceEnv(t)

	info, err := files.Put([]byte("binary"), "sample.docx")
	require.NoError(t, err)

	_, err = svc.GeneratePID(context.Background(), info.FileID, "")
	assert.ErrorIs(t, err, apperr.ErrUnsupportedType)
	assert.Zero(t, gen.calls)
}

func TestGeneratePIDDirectTextWinsOverFile(t *testing.T) {
	svc, files, _, gen := newServiceEnv(t)

	info, err := files.Put([]byte("from file"), "sample.txt")
	require.NoError(t, err)

	_, err = svc.GeneratePID(context.Background(), info.FileID, "from body")
	require.NoError(t, err)
	assert.Contains(t, gen.lastPrompt, "from body")
	assert.NotContains(t, gen.lastPrompt, "from file")
}

func TestRefinePIDValidation(t *testing.T) {
	svc, _, _, gen := newServiceEnv(t)

	_, err := svc.RefinePID(context.Background(), "", "", "Expand risks")
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = svc.RefinePID(context.Background(), "", "Draft PID", "")
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = svc.RefinePID(context.Background(), "", "Draft PID", "   ")
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	assert.Zero(t, gen.calls)
}

func TestRefinePIDSuccess(t *testing.T) {
	svc, _, _, gen := newServiceEnv(t)
	gen.text = "Expanded PID"

	refined, err := svc.RefinePID(context.Background(), "", "Draft PID", "Expand risks")
	require.NoError(t, err)
	assert.Equal(t, "Expanded PID", refined)
	assert.Contains(t, gen.lastPrompt, "Draft PID")
	assert.Contains(t, gen.lastPrompt, "Expand risks")
}

func TestRefinePIDSuccessReplacesStoredPID(t *testing.T) {
	svc, files, projects, gen := newServiceEnv(t)

	info, err := files.Put([]byte("Build a website"), "sample.txt")
	require.NoError(t, err)
	_, err = svc.GeneratePID(context.Background(), info.FileID, "")
	require.NoError(t, err)

	gen.text = "Expanded PID"
	refined, err := svc.RefinePID(context.Background(), info.FileID, "Generated PID", "Expand risks")
	require.NoError(t, err)
	assert.Equal(t, "Expanded PID", refined)

	project, err := projects.GetProjectByFileID(info.FileID)
	require.NoError(t, err)
	assert.Equal(t, "Expanded PID", project.PIDText)

	messages, err := projects.GetMessagesByProjectID(project.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "user", messages[0].Sender)
	assert.Equal(t, "Expand risks", messages[0].Content)
	assert.Equal(t, "model", messages[1].Sender)
	assert.Equal(t, refineAckNotice, messages[1].Content)
}

func TestRefinePIDFailureLeavesStoredPIDUntouched(t *testing.T) {
	svc, files, projects, gen := newServiceEnv(t)

	info, err := files.Put([]byte("Build a website"), "sample.txt")
	require.NoError(t, err)
	_, err = svc.GeneratePID(context.Background(), info.FileID, "")
	require.NoError(t, err)

	before, err := projects.GetProjectByFileID(info.FileID)
	require.NoError(t, err)

	gen.err = apperr.ErrProviderError
	_, err = svc.RefinePID(context.Background(), info.FileID, before.PIDText, "Expand risks")
	assert.ErrorIs(t, err, apperr.ErrProviderError)

	after, err := projects.GetProjectByFileID(info.FileID)
	require.NoError(t, err)
	assert.Equal(t, before.PIDText, after.PIDText)

	messages, err := projects.GetMessagesByProjectID(after.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, refineFailureNotice, messages[1].Content)
}

func TestRefinePIDWithoutRecordStillRefines(t *testing.T) {
	svc, _, _, gen := newServiceEnv(t)
	gen.text = "Expanded PID"

	// fileID given but no record exists: refinement succeeds, nothing
	// is persisted, nothing errors.
	refined, err := svc.RefinePID(context.Background(), "123-abcd-ghost.txt", "Draft PID", "Expand risks")
	require.NoError(t, err)
	assert.Equal(t, "Expanded PID", refined)
}
