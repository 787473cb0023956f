package media

import (
	"context"
	"sync"
)

type fakeTransformer struct {
	optimizeFunc  func(ctx context.Context, data []byte, profile TransformProfile) (*ImageVariant, error)
	thumbnailFunc func(ctx context.Context, data []byte, size int) ([]byte, error)
	variantsFunc  func(ctx context.Context, data []byte, kind EntityKind) (*VariantSet, error)

	optimizeCalls  int
	thumbnailCalls int
}

func (f *fakeTransformer) Optimize(ctx context.Context, data []byte, profile TransformProfile) (*ImageVariant, error) {
	f.optimizeCalls++
	if f.optimizeFunc != nil {
		return f.optimizeFunc(ctx, data, profile)
	}
	return &ImageVariant{
		Data:             []byte("optimized"),
		OriginalSize:     int64(len(data)),
		OptimizedSize:    9,
		CompressionRatio: CompressionRatio(int64(len(data)), 9),
		Width:            profile.MaxWidth,
		Height:           profile.MaxWidth / 2,
		Format:           profile.Format,
	}, nil
}

func (f *fakeTransformer) GenerateThumbnail(ctx context.Context, data []byte, size int) ([]byte, error) {
	f.thumbnailCalls++
	if f.thumbnailFunc != nil {
		return f.thumbnailFunc(ctx, data, size)
	}
	return []byte("thumb"), nil
}

func (f *fakeTransformer) CreateImageVariants(ctx context.Context, data []byte, kind EntityKind) (*VariantSet, error) {
	if f.variantsFunc != nil {
		return f.variantsFunc(ctx, data, kind)
	}
	return nil, nil
}

type fakeStorage struct {
	backend       string
	notConfigured bool
	uploadFunc    func(ctx context.Context, obj *BlobObject) (*StoredBlobReference, error)
	deleteFunc    func(ctx context.Context, urlOrKey string) CleanupResult

	uploaded []*BlobObject
	deleted  []string
}

func (f *fakeStorage) Backend() string {
	if f.backend == "" {
		return "fake"
	}
	return f.backend
}

func (f *fakeStorage) IsConfigured() bool {
	return !f.notConfigured
}

func (f *fakeStorage) Upload(ctx context.Context, obj *BlobObject) (*StoredBlobReference, error) {
	f.uploaded = append(f.uploaded, obj)
	if f.uploadFunc != nil {
		return f.uploadFunc(ctx, obj)
	}
	key := obj.Kind.Folder() + "/" + obj.Kind.Folder() + "-1-2" + obj.Extension
	return &StoredBlobReference{
		Kind:     obj.Kind,
		Backend:  f.Backend(),
		Key:      key,
		Filename: obj.Kind.Folder() + "-1-2" + obj.Extension,
		URL:      "https://cdn.test/zoo/" + key,
		Size:     int64(len(obj.Data)),
	}, nil
}

func (f *fakeStorage) Delete(ctx context.Context, urlOrKey string) CleanupResult {
	f.deleted = append(f.deleted, urlOrKey)
	if f.deleteFunc != nil {
		return f.deleteFunc(ctx, urlOrKey)
	}
	return Deleted(urlOrKey)
}

func (f *fakeStorage) Health(ctx context.Context) error {
	return nil
}

type imageKey struct {
	kind EntityKind
	id   int64
}

type fakeRepository struct {
	mu sync.Mutex

	getImageURLFunc func(ctx context.Context, kind EntityKind, entityID int64) (string, error)
	setImageURLFunc func(ctx context.Context, kind EntityKind, entityID int64, url string) error
	createFunc      func(ctx context.Context, record *ReplacementRecord) error
	listFunc        func(ctx context.Context, state ReplaceState, limit int) ([]*ReplacementRecord, error)

	images  map[imageKey]string
	records map[string]ReplacementRecord
	states  []ReplaceState
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		images:  make(map[imageKey]string),
		records: make(map[string]ReplacementRecord),
	}
}

func (f *fakeRepository) GetImageURL(ctx context.Context, kind EntityKind, entityID int64) (string, error) {
	if f.getImageURLFunc != nil {
		return f.getImageURLFunc(ctx, kind, entityID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.images[imageKey{kind, entityID}], nil
}

func (f *fakeRepository) SetImageURL(ctx context.Context, kind EntityKind, entityID int64, url string) error {
	if f.setImageURLFunc != nil {
		return f.setImageURLFunc(ctx, kind, entityID, url)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.images[imageKey{kind, entityID}] = url
	return nil
}

func (f *fakeRepository) CreateReplacement(ctx context.Context, record *ReplacementRecord) error {
	if f.createFunc != nil {
		return f.createFunc(ctx, record)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[record.ID] = *record
	f.states = append(f.states, record.State)
	return nil
}

func (f *fakeRepository) UpdateReplacement(ctx context.Context, id string, state ReplaceState, newURL, detail string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	record := f.records[id]
	record.ID = id
	record.State = state
	record.NewURL = newURL
	record.Detail = detail
	f.records[id] = record
	f.states = append(f.states, state)
	return nil
}

func (f *fakeRepository) GetReplacement(ctx context.Context, id string) (*ReplacementRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[id]
	if !ok {
		return nil, errRecordMissing
	}
	return &record, nil
}

func (f *fakeRepository) ListReplacements(ctx context.Context, state ReplaceState, limit int) ([]*ReplacementRecord, error) {
	if f.listFunc != nil {
		return f.listFunc(ctx, state, limit)
	}
	return nil, nil
}
