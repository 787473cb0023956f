package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"zoo-server/services/media-api/internal/config"
	domain "zoo-server/services/media-api/internal/domain/media"
	"zoo-server/services/media-api/internal/infrastructure/metrics"
)

const (
	BackendLocal = "local"

	maxNameAttempts = 3
)

var errFileNotFound = errors.New("file not found")

// LocalStorage keeps images on disk under {root}/{animals|exhibits}/.
type LocalStorage struct {
	root    string
	baseURL string
	keys    keyGenerator
	log     zerolog.Logger
}

// NewLocalStorage creates the root and the per-kind folders.
func NewLocalStorage(cfg *config.Config, log zerolog.Logger) (*LocalStorage, error) {
	root := strings.TrimSpace(cfg.LocalStoragePath)
	if root == "" {
		return nil, &domain.ConfigurationError{Backend: BackendLocal, Detail: "missing MEDIA_LOCAL_STORAGE_PATH"}
	}

	for _, kind := range []domain.EntityKind{domain.EntityAnimal, domain.EntityExhibit} {
		if err := os.MkdirAll(filepath.Join(root, kind.Folder()), 0o755); err != nil {
			return nil, fmt.Errorf("create %s directory: %w", kind.Folder(), err)
		}
	}

	storage := &LocalStorage{
		root:    root,
		baseURL: strings.TrimSuffix(strings.TrimSpace(cfg.LocalStorageBaseURL), "/"),
		keys:    newKeyGenerator(),
		log:     log.With().Str("component", "local-storage").Logger(),
	}
	storage.log.Info().Str("path", root).Str("base_url", storage.baseURL).Msg("local storage initialized")
	return storage, nil
}

func (l *LocalStorage) Backend() string {
	return BackendLocal
}

func (l *LocalStorage) IsConfigured() bool {
	return l.root != ""
}

// Upload writes obj into the kind's folder under a randomized filename.
func (l *LocalStorage) Upload(ctx context.Context, obj *domain.BlobObject) (*domain.StoredBlobReference, error) {
	if !l.IsConfigured() {
		return nil, &domain.ConfigurationError{Backend: BackendLocal, Detail: "missing MEDIA_LOCAL_STORAGE_PATH"}
	}

	start := time.Now()
	filename, err := l.writeUnique(obj.Kind, obj.Extension, obj.Data)
	metrics.RecordStorageOperation(BackendLocal, "write", statusLabel(err), time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	key := path.Join(obj.Kind.Folder(), filename)
	ref := &domain.StoredBlobReference{
		Kind:     obj.Kind,
		Backend:  BackendLocal,
		Key:      key,
		Filename: filename,
		URL:      l.URL(key),
		Size:     int64(len(obj.Data)),
	}

	if len(obj.Thumbnail) > 0 {
		thumbKey := ThumbnailKey(key)
		if err := os.WriteFile(l.fullPath(thumbKey), obj.Thumbnail, 0o644); err != nil {
			l.log.Warn().Err(err).Str("key", thumbKey).Msg("thumbnail write failed")
		} else {
			ref.ThumbnailURL = l.URL(thumbKey)
		}
	}

	l.log.Debug().Str("key", key).Int64("bytes", ref.Size).Msg("file written")
	return ref, nil
}

// writeUnique creates a new file without clobbering an existing one.
func (l *LocalStorage) writeUnique(kind domain.EntityKind, ext string, data []byte) (string, error) {
	dir := filepath.Join(l.root, kind.Folder())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create directory: %w", err)
	}

	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		filename := l.keys.LocalFilename(kind, ext)
		file, err := os.OpenFile(filepath.Join(dir, filename), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create file: %w", err)
		}
		if _, err := file.Write(data); err != nil {
			file.Close()
			_ = os.Remove(file.Name())
			return "", fmt.Errorf("write file: %w", err)
		}
		if err := file.Close(); err != nil {
			return "", fmt.Errorf("close file: %w", err)
		}
		return filename, nil
	}
	return "", fmt.Errorf("could not allocate a unique filename in %s", kind.Folder())
}

// DeleteImageFile removes filename from the kind's folder. An empty name or a
// missing file is a no-op.
func (l *LocalStorage) DeleteImageFile(kind domain.EntityKind, filename string) domain.CleanupResult {
	filename = filepath.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		return domain.NotFound("")
	}
	key := path.Join(kind.Folder(), filename)
	fullPath := l.fullPath(key)

	if _, err := os.Stat(fullPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.NotFound(key)
		}
		return domain.Failed(key, err)
	}
	if err := os.Remove(fullPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.NotFound(key)
		}
		return domain.Failed(key, err)
	}

	if !isThumbnailKey(key) {
		if err := os.Remove(l.fullPath(ThumbnailKey(key))); err != nil && !errors.Is(err, fs.ErrNotExist) {
			l.log.Debug().Err(err).Str("key", key).Msg("thumbnail cleanup failed")
		}
	}
	return domain.Deleted(key)
}

// Delete resolves urlOrKey to a folder and filename and removes the file.
func (l *LocalStorage) Delete(ctx context.Context, urlOrKey string) domain.CleanupResult {
	kind, filename := l.resolve(urlOrKey)
	result := l.DeleteImageFile(kind, filename)
	metrics.RecordCleanup(BackendLocal, string(result.Status))
	return result
}

// resolve maps a URL, a "{folder}/{file}" key, or a bare filename onto a kind
// and filename. The folder falls back to the path rule used for routing.
func (l *LocalStorage) resolve(urlOrKey string) (domain.EntityKind, string) {
	key := ParseObjectKey(urlOrKey, "")
	if key == "" {
		return domain.EntityAnimal, ""
	}
	dir, filename := path.Split(key)
	if kind, err := domain.ParseEntityKind(path.Base(dir)); err == nil && dir != "" {
		return kind, filename
	}
	if strings.HasPrefix(filename, domain.EntityExhibit.FilePrefix()+"-") {
		return domain.EntityExhibit, filename
	}
	return domain.KindFromPath(dir), filename
}

// Open returns a reader for key along with its content type.
func (l *LocalStorage) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	fullPath := l.fullPath(key)
	file, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("%w: %s", errFileNotFound, key)
		}
		return nil, "", fmt.Errorf("open file: %w", err)
	}
	info, err := file.Stat()
	if err != nil || info.IsDir() {
		file.Close()
		return nil, "", fmt.Errorf("%w: %s", errFileNotFound, key)
	}
	return file, contentTypeForPath(fullPath), nil
}

// IsNotFound reports whether err came from opening a missing file.
func IsNotFound(err error) bool {
	return errors.Is(err, errFileNotFound)
}

// URL returns the public URL for key.
func (l *LocalStorage) URL(key string) string {
	if l.baseURL == "" {
		return "/" + key
	}
	return l.baseURL + "/" + key
}

// Health checks that the storage directory is writable.
func (l *LocalStorage) Health(ctx context.Context) error {
	probe := filepath.Join(l.root, ".health_check")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return fmt.Errorf("storage directory not writable: %w", err)
	}
	_ = os.Remove(probe)
	return nil
}

// fullPath confines key to the storage root.
func (l *LocalStorage) fullPath(key string) string {
	clean := path.Clean("/" + filepath.ToSlash(key))
	return filepath.Join(l.root, filepath.FromSlash(strings.TrimPrefix(clean, "/")))
}

func contentTypeForPath(p string) string {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
