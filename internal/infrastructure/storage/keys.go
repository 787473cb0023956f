package storage

import (
	"fmt"
	"math/rand"
	"net/url"
	"path"
	"strings"
	"time"

	domain "zoo-server/services/media-api/internal/domain/media"
)

const thumbnailSuffix = "-thumb"

// keyGenerator produces time-stamped, randomized names. Uniqueness is
// probabilistic: two uploads in the same millisecond collide with chance 1e-9.
type keyGenerator struct {
	now    func() time.Time
	random func() int64
}

func newKeyGenerator() keyGenerator {
	return keyGenerator{
		now:    time.Now,
		random: func() int64 { return rand.Int63n(1_000_000_000) },
	}
}

func (g keyGenerator) stamp() string {
	return fmt.Sprintf("%d-%d", g.now().UnixMilli(), g.random())
}

// ObjectKey returns "{folder}/{folder}-{millis}-{rand}{ext}".
func (g keyGenerator) ObjectKey(kind domain.EntityKind, ext string) string {
	folder := kind.Folder()
	return fmt.Sprintf("%s/%s-%s%s", folder, folder, g.stamp(), normalizeExt(ext))
}

// LocalFilename returns "{prefix}-{millis}-{rand}{ext}".
func (g keyGenerator) LocalFilename(kind domain.EntityKind, ext string) string {
	return fmt.Sprintf("%s-%s%s", kind.FilePrefix(), g.stamp(), normalizeExt(ext))
}

// ThumbnailKey derives the thumbnail name stored next to key.
func ThumbnailKey(key string) string {
	if key == "" {
		return ""
	}
	ext := path.Ext(key)
	base := strings.TrimSuffix(key, ext)
	if strings.HasSuffix(base, thumbnailSuffix) {
		return key
	}
	return base + thumbnailSuffix + ".webp"
}

func isThumbnailKey(key string) bool {
	return strings.HasSuffix(strings.TrimSuffix(key, path.Ext(key)), thumbnailSuffix)
}

// ParseObjectKey extracts the bucket-relative key from a public URL or a bare
// key. For URLs the scheme and host are dropped along with a leading bucket
// segment when present. It returns "" when nothing usable remains.
func ParseObjectKey(raw, bucket string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	keyPath := raw
	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return ""
		}
		keyPath = u.Path
	} else if idx := strings.IndexAny(raw, "?#"); idx >= 0 {
		keyPath = raw[:idx]
	}

	if unescaped, err := url.PathUnescape(keyPath); err == nil {
		keyPath = unescaped
	}
	keyPath = strings.TrimPrefix(keyPath, "/")

	if bucket != "" {
		if keyPath == bucket {
			return ""
		}
		keyPath = strings.TrimPrefix(keyPath, bucket+"/")
	}

	keyPath = path.Clean("/" + keyPath)
	keyPath = strings.TrimPrefix(keyPath, "/")
	if keyPath == "" || keyPath == "." {
		return ""
	}
	return keyPath
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
