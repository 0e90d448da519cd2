package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const metaDirName = ".meta"

// LocalStorage implements Storage using the local filesystem. Each file has a JSON metadata
// sidecar under <user>/.meta.
type LocalStorage struct {
	basePath string
	now      func() time.Time
}

// NewLocalStorage creates a new local filesystem storage
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath, now: time.Now}, nil
}

// Upload stores a file and returns its metadata
func (s *LocalStorage) Upload(ctx context.Context, userID, filename, contentType string, r io.Reader) (*FileInfo, error) {
	fileID := uuid.New()

	userDir := s.userDir(userID)
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create user directory: %w", err)
	}

	storedFilename := fmt.Sprintf("%s_%s", fileID.String()[:8], sanitizeFilename(filepath.Base(filename)))
	filePath := filepath.Join(userDir, storedFilename)

	f, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(filePath)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	info := &FileInfo{
		ID:          fileID,
		UserID:      userID,
		Name:        filename,
		Size:        size,
		ContentType: contentType,
		Path:        storedFilename,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.saveMetadata(info); err != nil {
		os.Remove(filePath)
		return nil, err
	}

	return info, nil
}

// Download retrieves a file by its ID
func (s *LocalStorage) Download(ctx context.Context, userID string, fileID uuid.UUID) (io.ReadCloser, *FileInfo, error) {
	info, err := s.getInfo(userID, fileID)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(filepath.Join(s.userDir(userID), info.Path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, ErrFileNotFound
		}
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}

	return f, info, nil
}

// Delete removes a file by its ID
func (s *LocalStorage) Delete(ctx context.Context, userID string, fileID uuid.UUID) error {
	info, err := s.getInfo(userID, fileID)
	if err != nil {
		return err
	}

	filePath := filepath.Join(s.userDir(userID), info.Path)
	if err := os.Remove(filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	if err := os.Remove(s.metaPath(userID, fileID)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete metadata: %w", err)
	}
	return nil
}

// List returns all files for a user
func (s *LocalStorage) List(ctx context.Context, userID string) ([]*FileInfo, error) {
	metaDir := filepath.Join(s.userDir(userID), metaDirName)
	entries, err := os.ReadDir(metaDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []*FileInfo{}, nil
		}
		return nil, fmt.Errorf("failed to list metadata: %w", err)
	}

	files := make([]*FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := readMetadata(filepath.Join(metaDir, entry.Name()))
		if err != nil {
			continue
		}
		files = append(files, info)
	}
	return files, nil
}

// ListBefore walks every user directory.
func (s *LocalStorage) ListBefore(ctx context.Context, cutoff time.Time) ([]*FileInfo, error) {
	users, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to list storage directory: %w", err)
	}

	var old []*FileInfo
	for _, u := range users {
		if !u.IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return old, err
		}

		metaDir := filepath.Join(s.basePath, u.Name(), metaDirName)
		entries, err := os.ReadDir(metaDir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			info, err := readMetadata(filepath.Join(metaDir, entry.Name()))
			if err != nil {
				continue
			}
			if info.CreatedAt.Before(cutoff) {
				old = append(old, info)
			}
		}
	}
	return old, nil
}

func (s *LocalStorage) getInfo(userID string, fileID uuid.UUID) (*FileInfo, error) {
	return readMetadata(s.metaPath(userID, fileID))
}

func (s *LocalStorage) userDir(userID string) string {
	return filepath.Join(s.basePath, sanitizeFilename(userID))
}

func (s *LocalStorage) metaPath(userID string, fileID uuid.UUID) string {
	return filepath.Join(s.userDir(userID), metaDirName, fileID.String()+".json")
}

func (s *LocalStorage) saveMetadata(info *FileInfo) error {
	metaDir := filepath.Join(s.userDir(info.UserID), metaDirName)
	if err := os.MkdirAll(metaDir, 0o755); err != nil {
		return fmt.Errorf("failed to create metadata directory: %w", err)
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	if err := os.WriteFile(s.metaPath(info.UserID, info.ID), data, 0o644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	return nil
}

func readMetadata(path string) (*FileInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	var info FileInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}
	return &info, nil
}
