package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rfpworks.com/pid-backend/internal/apperr"
	"rfpworks.com/pid-backend/internal/auth"
	"rfpworks.com/pid-backend/internal/core"
	"rfpworks.com/pid-backend/internal/extract"
	"rfpworks.com/pid-backend/internal/store"
)

type APIHandler struct {
	files           store.FileStore
	projects        *store.SQLiteStore
	pidService      *core.PIDService
	maxUploadBytes  int64
	placeholderMode bool
}

func NewAPIHandler(files store.FileStore, projects *store.SQLiteStore, pidService *core.PIDService, maxUploadMB int, placeholderMode bool) *APIHandler {
	return &APIHandler{
		files:           files,
		projects:        projects,
		pidService:      pidService,
		maxUploadBytes:  int64(maxUploadMB) * 1024 * 1024,
		placeholderMode: placeholderMode,
	}
}

func (h *APIHandler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		maxMB := h.maxUploadBytes / (1024 * 1024)
		writeError(w, http.StatusBadRequest, fmt.Sprintf("File too large (max %dMB) or invalid form", maxMB), err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded", nil)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		log.Printf("Error reading uploaded file %s: %v", header.Filename, err)
		writeError(w, http.StatusInternalServerError, "Failed to read uploaded file", nil)
		return
	}

	info, err := h.files.Put(content, header.Filename)
	if err != nil {
		log.Printf("Error storing uploaded file %s: %v", header.Filename, err)
		writeError(w, http.StatusInternalServerError, "Failed to store file", nil)
		return
	}

	writeJSON(w, http.StatusOK, info)
}

func (h *APIHandler) DownloadHandler(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")

	content, err := h.files.Get(fileID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeError(w, http.StatusNotFound, "File not found", nil)
			return
		}
		log.Printf("Error reading file %s: %v", fileID, err)
		writeError(w, http.StatusInternalServerError, "Failed to read file", nil)
		return
	}

	name := fileID
	if info, err := store.ParseFileID(fileID); err == nil {
		name = info.OriginalName
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Write(content)
}

func (h *APIHandler) ViewHandler(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")

	content, err := h.files.Get(fileID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeError(w, http.StatusNotFound, "File not found", nil)
			return
		}
		log.Printf("Error reading file %s: %v", fileID, err)
		writeError(w, http.StatusInternalServerError, "Failed to read file", nil)
		return
	}

	text, err := extract.FromBytes(content, fileID)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrUnsupportedType):
			writeError(w, http.StatusBadRequest, "Unsupported file type", err)
		case errors.Is(err, apperr.ErrExtractionFailed):
			writeError(w, http.StatusBadRequest, "Could not extract text from this file; try a text-based (non-scanned) PDF", err)
		default:
			log.Printf("Error extracting text from %s: %v", fileID, err)
			writeError(w, http.StatusInternalServerError, "Failed to read file", nil)
		}
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(text))
}

func (h *APIHandler) ListProjectsHandler(w http.ResponseWriter, r *http.Request) {
	infos, err := h.files.List()
	if err != nil {
		log.Printf("Error listing uploads: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to list projects", nil)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}

func (h *APIHandler) DeleteProjectHandler(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")

	if err := h.files.Delete(fileID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeError(w, http.StatusNotFound, "File not found", nil)
			return
		}
		log.Printf("Error deleting file %s: %v", fileID, err)
		writeError(w, http.StatusInternalServerError, "Failed to delete file", nil)
		return
	}

	if h.projects != nil {
		if err := h.projects.DeleteProjectByFileID(fileID); err != nil {
			log.Printf("Error deleting project record for file %s: %v", fileID, err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "File deleted successfully"})
}

type projectRecordResponse struct {
	*store.Project
	Messages []store.Message `json:"messages"`
}

func (h *APIHandler) ProjectRecordHandler(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")

	project, err := h.projects.GetProjectByFileID(fileID)
	if err != nil {
		log.Printf("Error loading project record for file %s: %v", fileID, err)
		writeError(w, http.StatusInternalServerError, "Failed to load project record", nil)
		return
	}
	if project == nil {
		writeError(w, http.StatusNotFound, "Project record not found", nil)
		return
	}

	messages, err := h.projects.GetMessagesByProjectID(project.ID)
	if err != nil {
		log.Printf("Error loading messages for project %s: %v", project.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to load project record", nil)
		return
	}
	if messages == nil {
		messages = []store.Message{}
	}

	writeJSON(w, http.StatusOK, projectRecordResponse{Project: project, Messages: messages})
}

type generatePIDRequest struct {
	FileID  string `json:"fileId"`
	RFPText string `json:"rfpText"`
}

func (h *APIHandler) GeneratePIDHandler(w http.ResponseWriter, r *http.Request) {
	var req generatePIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.FileID == "" && req.RFPText == "" {
		writeError(w, http.StatusBadRequest, "Either fileId or rfpText is required", nil)
		return
	}

	pid, err := h.pidService.GeneratePID(r.Context(), req.FileID, req.RFPText)
	if err != nil {
		h.writeGenerateError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"pid": pid})
}

func (h *APIHandler) writeGenerateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, http.StatusNotFound, "File not found", nil)
	case errors.Is(err, apperr.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, "No content to process", err)
	case errors.Is(err, apperr.ErrUnsupportedType):
		writeError(w, http.StatusBadRequest, "Unsupported file type", err)
	case errors.Is(err, apperr.ErrExtractionFailed):
		writeError(w, http.StatusBadRequest, "Failed to extract text from file; try a text-based (non-scanned) PDF", err)
	case errors.Is(err, apperr.ErrProviderUnavailable):
		if h.placeholderMode {
			writeJSON(w, http.StatusOK, map[string]string{"pid": "Generated PID placeholder (AI service not configured)"})
			return
		}
		writeError(w, http.StatusInternalServerError, "Gemini API key not configured", nil)
	case errors.Is(err, apperr.ErrProviderError), errors.Is(err, apperr.ErrEmptyResponse):
		if h.placeholderMode {
			writeJSON(w, http.StatusOK, map[string]string{"pid": fmt.Sprintf("Generated PID placeholder (AI generation error: %v)", err)})
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to generate PID", err)
	default:
		log.Printf("Error generating PID: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate PID", nil)
	}
}

type refinePIDRequest struct {
	CurrentPID  string `json:"currentPid"`
	Instruction string `json:"instruction"`
	FileID      string `json:"fileId,omitempty"`
}

func (h *APIHandler) RefinePIDHandler(w http.ResponseWriter, r *http.Request) {
	var req refinePIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.CurrentPID == "" || req.Instruction == "" {
		writeError(w, http.StatusBadRequest, "currentPid and instruction are required", nil)
		return
	}

	refined, err := h.pidService.RefinePID(r.Context(), req.FileID, req.CurrentPID, req.Instruction)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrInvalidArgument):
			writeError(w, http.StatusBadRequest, "currentPid and instruction are required", err)
		case errors.Is(err, apperr.ErrProviderUnavailable):
			writeError(w, http.StatusServiceUnavailable, "AI service not configured", nil)
		default:
			writeError(w, http.StatusInternalServerError, "Failed to refine PID", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"refinedPid": refined})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required", nil)
		return
	}

	if !auth.CheckDemoCredentials(req.Email, req.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid email or password", nil)
		return
	}

	token, err := auth.GenerateJWT(req.Email)
	if err != nil {
		log.Printf("Error generating JWT for %s: %v", req.Email, err)
		writeError(w, http.StatusInternalServerError, "Failed to generate token", nil)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
