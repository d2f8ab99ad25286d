package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"rfpworks.com/pid-backend/internal/apperr"
)

type FileInfo struct {
	FileID       string    `json:"fileId"`
	OriginalName string    `json:"originalName"`
	Size         int64     `json:"size"`
	UploadTime   time.Time `json:"uploadTime"`
}

// FileStore holds uploaded RFP documents keyed by a generated file id.
type FileStore interface {
	Put(content []byte, originalName string) (FileInfo, error)
	Get(fileID string) ([]byte, error)
	List() ([]FileInfo, error)
	Delete(fileID string) error
}

// NewFileID builds an id of the form {unix-ms}-{random}-{originalName}.
// The timestamp prefix keeps ids roughly ordered and the random segment
// makes collisions within a process run a non-issue.
func NewFileID(originalName string) string {
	suffix := uuid.NewString()[:8]
	return fmt.Sprintf("%d-%s-%s", time.Now().UnixMilli(), suffix, sanitizeName(originalName))
}

// ParseFileID recovers the metadata encoded in a file id. The original
// name is everything after the two generated segments, so names that
// themselves contain dashes survive the round trip.
func ParseFileID(fileID string) (FileInfo, error) {
	parts := strings.SplitN(fileID, "-", 3)
	if len(parts) != 3 || parts[2] == "" {
		return FileInfo{}, fmt.Errorf("malformed file id %q", fileID)
	}
	ms, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return FileInfo{}, fmt.Errorf("malformed file id %q: %w", fileID, err)
	}
	return FileInfo{
		FileID:       fileID,
		OriginalName: parts[2],
		UploadTime:   time.UnixMilli(ms),
	}, nil
}

func sanitizeName(name string) string {
	name = filepath.Base(name)
	if name == "." || name == string(filepath.Separator) {
		name = "upload"
	}
	return name
}

// DiskStore keeps uploads as files in a single directory. The directory
// is the source of truth for List and Delete; the stored filename is the
// file id itself, so no index is needed and uploads survive restarts.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) Put(content []byte, originalName string) (FileInfo, error) {
	fileID := NewFileID(originalName)
	path := filepath.Join(s.dir, fileID)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return FileInfo{}, fmt.Errorf("failed to write upload: %w", err)
	}
	info, _ := ParseFileID(fileID)
	info.Size = int64(len(content))
	return info, nil
}

func (s *DiskStore) Get(fileID string) ([]byte, error) {
	path, err := s.path(fileID)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: file %s", apperr.ErrNotFound, fileID)
		}
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return content, nil
}

func (s *DiskStore) List() ([]FileInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload directory: %w", err)
	}

	infos := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := ParseFileID(entry.Name())
		if err != nil {
			continue // not one of ours
		}
		if fi, err := entry.Info(); err == nil {
			info.Size = fi.Size()
		}
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].UploadTime.Equal(infos[j].UploadTime) {
			return infos[i].UploadTime.After(infos[j].UploadTime)
		}
		return infos[i].FileID > infos[j].FileID
	})
	return infos, nil
}

func (s *DiskStore) Delete(fileID string) error {
	path, err := s.path(fileID)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: file %s", apperr.ErrNotFound, fileID)
		}
		return fmt.Errorf("failed to delete upload: %w", err)
	}
	return nil
}

// path rejects ids that could escape the upload directory.
func (s *DiskStore) path(fileID string) (string, error) {
	if fileID == "" || fileID != filepath.Base(fileID) || strings.HasPrefix(fileID, ".") {
		return "", fmt.Errorf("%w: invalid file id %q", apperr.ErrNotFound, fileID)
	}
	return filepath.Join(s.dir, fileID), nil
}
