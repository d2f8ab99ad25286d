package core

import (
	"context"
	"fmt"
	"log"
	"strings"

	"rfpworks.com/pid-backend/internal/apperr"
	"rfpworks.com/pid-backend/internal/extract"
	"rfpworks.com/pid-backend/internal/store"
)

const (
	refineAckNotice     = "Done. I've updated the document as requested."
	refineFailureNotice = "I couldn't apply that change. The document was left as it was."
)

// PIDService orchestrates PID generation and instruction-driven
// refinement over the file store, the project store and the generator.
type PIDService struct {
	files     store.FileStore
	projects  *store.SQLiteStore
	generator Generator
}

func NewPIDService(files store.FileStore, projects *store.SQLiteStore, generator Generator) *PIDService {
	return &PIDService{
		files:     files,
		projects:  projects,
		generator: generator,
	}
}

// GeneratePID drafts a PID from either raw RFP text or an uploaded file.
// Direct text wins when both are given. On a successful file-based
// generation the project record is created (or replaced) so the PID and
// its source text survive on the server side.
func (s *PIDService) GeneratePID(ctx context.Context, fileID, rfpText string) (string, error) {
	text := rfpText
	if text == "" && fileID != "" {
		content, err := s.files.Get(fileID)
		if err != nil {
			return "", err
		}
		// The file id ends with the original filename, so extension
		// dispatch works on the id directly.
		text, err = extract.FromBytes(content, fileID)
		if err != nil {
			return "", err
		}
	}

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: no content to process", apperr.ErrInvalidArgument)
	}

	pid, err := s.generator.Generate(ctx, GenerationPrompt(text))
	if err != nil {
		return "", err
	}

	if fileID != "" && s.projects != nil {
		originalName := fileID
		if info, err := store.ParseFileID(fileID); err == nil {
			originalName = info.OriginalName
		}
		if _, err := s.projects.UpsertProject(fileID, originalName, text, pid); err != nil {
			// Persistence is best-effort here; the caller still gets
			// the generated document.
			log.Printf("Failed to persist project record for file %s: %v", fileID, err)
		}
	}

	return pid, nil
}

// RefinePID rewrites the current PID according to one instruction. On
// success the stored document (when a record exists for fileID) is
// replaced wholesale and the transcript gains the instruction plus a
// short acknowledgement. On failure the stored document is untouched,
// the transcript records a generic notice, and the underlying error is
// returned to the caller.
func (s *PIDService) RefinePID(ctx context.Context, fileID, currentPID, instruction string) (string, error) {
	if strings.TrimSpace(currentPID) == "" {
		return "", fmt.Errorf("%w: currentPid is required", apperr.ErrInvalidArgument)
	}
	if strings.TrimSpace(instruction) == "" {
		return "", fmt.Errorf("%w: instruction is required", apperr.ErrInvalidArgument)
	}

	refined, genErr := s.generator.Generate(ctx, RefinementPrompt(currentPID, instruction))

	if fileID != "" && s.projects != nil {
		project, err := s.projects.GetProjectByFileID(fileID)
		if err != nil {
			log.Printf("Failed to load project record for file %s: %v", fileID, err)
		} else if project != nil {
			s.recordRefinement(project, instruction, refined, genErr)
		}
	}

	if genErr != nil {
		return "", genErr
	}
	return refined, nil
}

func (s *PIDService) recordRefinement(project *store.Project, instruction, refined string, genErr error) {
	if _, err := s.projects.AddMessage(project.ID, "user", instruction); err != nil {
		log.Printf("Failed to record instruction for project %s: %v", project.ID, err)
	}

	if genErr != nil {
		if _, err := s.projects.AddMessage(project.ID, "model", refineFailureNotice); err != nil {
			log.Printf("Failed to record failure notice for project %s: %v", project.ID, err)
		}
		return
	}

	if err := s.projects.UpdateProjectPID(project.FileID, refined); err != nil {
		log.Printf("Failed to persist refined PID for project %s: %v", project.ID, err)
	}
	if _, err := s.projects.AddMessage(project.ID, "model", refineAckNotice); err != nil {
		log.Printf("Failed to record acknowledgement for project %s: %v", project.ID, err)
	}
}
