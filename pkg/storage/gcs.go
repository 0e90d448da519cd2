package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Object metadata keys.
const (
	metaFileID = "file-id"
	metaUserID = "user-id"
	metaName   = "original-name"
)

// GCSStorage implements Storage on a Google Cloud Storage bucket. Objects are named
// <user>/<file id>_<file name>.
type GCSStorage struct {
	client *gcs.Client
	bucket *gcs.BucketHandle
}

// NewGCSStorage opens a client for bucket. With an empty credentialsFile, application default
// credentials are used.
func NewGCSStorage(ctx context.Context, bucket, credentialsFile string) (*GCSStorage, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSStorage{client: client, bucket: client.Bucket(bucket)}, nil
}

// Close releases the underlying client.
func (s *GCSStorage) Close() error {
	return s.client.Close()
}

func (s *GCSStorage) Upload(ctx context.Context, userID, filename, contentType string, r io.Reader) (*FileInfo, error) {
	fileID := uuid.New()
	name := objectName(userID, fileID, filename)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.bucket.Object(name).NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{
		metaFileID: fileID.String(),
		metaUserID: userID,
		metaName:   filename,
	}

	size, err := io.Copy(w, r)
	if err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to copy file to GCS writer: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize upload: %w", err)
	}

	return &FileInfo{
		ID:          fileID,
		UserID:      userID,
		Name:        filename,
		Size:        size,
		ContentType: contentType,
		Path:        name,
		CreatedAt:   w.Attrs().Created,
	}, nil
}

func (s *GCSStorage) Download(ctx context.Context, userID string, fileID uuid.UUID) (io.ReadCloser, *FileInfo, error) {
	info, err := s.find(ctx, userID, fileID)
	if err != nil {
		return nil, nil, err
	}

	r, err := s.bucket.Object(info.Path).NewReader(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return nil, nil, ErrFileNotFound
		}
		return nil, nil, fmt.Errorf("failed to open GCS object reader: %w", err)
	}
	return r, info, nil
}

func (s *GCSStorage) Delete(ctx context.Context, userID string, fileID uuid.UUID) error {
	info, err := s.find(ctx, userID, fileID)
	if err != nil {
		return err
	}

	if err := s.bucket.Object(info.Path).Delete(ctx); err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete GCS object: %w", err)
	}
	return nil
}

func (s *GCSStorage) List(ctx context.Context, userID string) ([]*FileInfo, error) {
	return s.list(ctx, sanitizeFilename(userID)+"/", func(*gcs.ObjectAttrs) bool { return true })
}

func (s *GCSStorage) ListBefore(ctx context.Context, cutoff time.Time) ([]*FileInfo, error) {
	return s.list(ctx, "", func(attrs *gcs.ObjectAttrs) bool { return attrs.Created.Before(cutoff) })
}

func (s *GCSStorage) find(ctx context.Context, userID string, fileID uuid.UUID) (*FileInfo, error) {
	prefix := sanitizeFilename(userID) + "/" + fileID.String() + "_"
	files, err := s.list(ctx, prefix, func(*gcs.ObjectAttrs) bool { return true })
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrFileNotFound
	}
	return files[0], nil
}

func (s *GCSStorage) list(ctx context.Context, prefix string, keep func(*gcs.ObjectAttrs) bool) ([]*FileInfo, error) {
	it := s.bucket.Objects(ctx, &gcs.Query{Prefix: prefix})

	var files []*FileInfo
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list GCS objects: %w", err)
		}
		if !keep(attrs) {
			continue
		}
		if info, ok := fileInfoFromAttrs(attrs); ok {
			files = append(files, info)
		}
	}
	return files, nil
}

func objectName(userID string, fileID uuid.UUID, filename string) string {
	return sanitizeFilename(userID) + "/" + fileID.String() + "_" + sanitizeFilename(path.Base(filename))
}

// fileInfoFromAttrs rebuilds FileInfo from object metadata, falling back to the object name for
// objects written by other tools.
func fileInfoFromAttrs(attrs *gcs.ObjectAttrs) (*FileInfo, bool) {
	idText := attrs.Metadata[metaFileID]
	userID := attrs.Metadata[metaUserID]
	name := attrs.Metadata[metaName]

	if idText == "" || userID == "" {
		dir, base, ok := strings.Cut(attrs.Name, "/")
		if !ok {
			return nil, false
		}
		idPart, rest, ok := strings.Cut(base, "_")
		if !ok {
			return nil, false
		}
		idText, userID, name = idPart, dir, rest
	}

	id, err := uuid.Parse(idText)
	if err != nil {
		return nil, false
	}
	return &FileInfo{
		ID:          id,
		UserID:      userID,
		Name:        name,
		Size:        attrs.Size,
		ContentType: attrs.ContentType,
		Path:        attrs.Name,
		CreatedAt:   attrs.Created,
	}, true
}
