package store

import (
	"fmt"
	"sort"
	"sync"

	"rfpworks.com/pid-backend/internal/apperr"
)

// MemStore is an in-process FileStore. Contents are lost on restart; it
// backs tests and can serve deployments that explicitly accept ephemeral
// uploads.
type MemStore struct {
	mu    sync.RWMutex
	files map[string][]byte
	infos map[string]FileInfo
}

func NewMemStore() *MemStore {
	return &MemStore{
		files: make(map[string][]byte),
		infos: make(map[string]FileInfo),
	}
}

func (s *MemStore) Put(content []byte, originalName string) (FileInfo, error) {
	fileID := NewFileID(originalName)
	info, _ := ParseFileID(fileID)
	info.Size = int64(len(content))

	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(content))
	copy(stored, content)
	s.files[fileID] = stored
	s.infos[fileID] = info
	return info, nil
}

func (s *MemStore) Get(fileID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.files[fileID]
	if !ok {
		return nil, fmt.Errorf("%w: file %s", apperr.ErrNotFound, fileID)
	}
	out := make([]byte, len(content))
	copy(out, content)
	return out, nil
}

func (s *MemStore) List() ([]FileInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	infos := make([]FileInfo, 0, len(s.infos))
	for _, info := range s.infos {
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

func (s *MemStore) Delete(fileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[fileID]; !ok {
		return fmt.Errorf("%w: file %s", apperr.ErrNotFound, fileID)
	}
	delete(s.files, fileID)
	delete(s.infos, fileID)
	return nil
}
