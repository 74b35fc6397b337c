package vectorstore

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/freehekimteam/quietvector/internal/admin/domain"
)

type memCollection struct {
	spec      domain.CollectionSpec
	points    map[string]domain.Point
	snapshots []domain.Snapshot
	blobs     map[string][]byte
}

// Memory is an in-process Store used by tests and local development.
// Snapshots are JSON encodings of the collection's points.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]*memCollection
	uploads     map[string][]byte
	resets      int
	closed      bool
	now         func() time.Time

	// OnUpload, when set, replaces the default restore behaviour. It sees
	// the full uploaded payload.
	OnUpload func(ctx context.Context, collection, filename string, data []byte) (bool, error)
	// HealthErr is returned from Health when non-nil.
	HealthErr error
}

func NewMemory() *Memory {
	return &Memory{
		collections: make(map[string]*memCollection),
		uploads:     make(map[string][]byte),
		now:         time.Now,
	}
}

func pointKey(id domain.PointID) string {
	if id.IsNum {
		return "n:" + id.String()
	}
	return "s:" + id.Str
}

func notFoundCollection(name string) error {
	return domain.NotFound("Collection `%s` doesn't exist!", name)
}

func (m *Memory) ListCollections(context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.collections)), nil
}

func (m *Memory) GetCollection(_ context.Context, name string) (domain.CollectionInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.collections[name]
	if !ok {
		return domain.CollectionInfo{}, notFoundCollection(name)
	}
	n := uint64(len(c.points))
	return domain.CollectionInfo{
		Name:         name,
		Status:       "green",
		PointsCount:  n,
		VectorsCount: n,
		VectorSize:   c.spec.VectorSize,
		Distance:     string(c.spec.Distance),
	}, nil
}

func (m *Memory) CreateCollection(_ context.Context, spec domain.CollectionSpec) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.collections[spec.Name]; ok {
		return domain.Conflict("Collection `%s` already exists!", spec.Name)
	}
	if spec.Distance == "" {
		spec.Distance = domain.DistanceCosine
	}
	m.collections[spec.Name] = &memCollection{
		spec:   spec,
		points: make(map[string]domain.Point),
		blobs:  make(map[string][]byte),
	}
	return nil
}

func (m *Memory) DeleteCollection(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.collections[name]; !ok {
		return notFoundCollection(name)
	}
	delete(m.collections, name)
	return nil
}

func (m *Memory) Upsert(_ context.Context, collection string, points []domain.Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.collections[collection]
	if !ok {
		return notFoundCollection(collection)
	}
	for _, p := range points {
		if uint64(len(p.Vector)) != c.spec.VectorSize {
			return domain.Validation("Wrong input: Vector dimension error: expected dim: %d, got %d",
				c.spec.VectorSize, len(p.Vector))
		}
	}
	for _, p := range points {
		p.Vector = slices.Clone(p.Vector)
		p.Payload = maps.Clone(p.Payload)
		c.points[pointKey(p.ID)] = p
	}
	return nil
}

func (m *Memory) Search(_ context.Context, q domain.SearchQuery) ([]domain.ScoredPoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.collections[q.Collection]
	if !ok {
		return nil, notFoundCollection(q.Collection)
	}
	if uint64(len(q.Vector)) != c.spec.VectorSize {
		return nil, domain.Validation("Wrong input: Vector dimension error: expected dim: %d, got %d",
			c.spec.VectorSize, len(q.Vector))
	}

	out := make([]domain.ScoredPoint, 0, len(c.points))
	for _, p := range c.points {
		sp := domain.ScoredPoint{ID: p.ID, Score: score(c.spec.Distance, q.Vector, p.Vector)}
		if q.WithPayload {
			sp.Payload = maps.Clone(p.Payload)
		}
		out = append(out, sp)
	}

	// Euclid is a distance, smaller is closer.
	asc := c.spec.Distance == domain.DistanceEuclid
	slices.SortFunc(out, func(a, b domain.ScoredPoint) int {
		if asc {
			return cmp.Compare(a.Score, b.Score)
		}
		return cmp.Compare(b.Score, a.Score)
	})
	if q.Limit > 0 && uint64(len(out)) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func score(d domain.Distance, a, b []float32) float32 {
	var dot, na, nb, sq float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
		sq += (x - y) * (x - y)
	}
	switch d {
	case domain.DistanceDot:
		return float32(dot)
	case domain.DistanceEuclid:
		return float32(math.Sqrt(sq))
	default:
		if na == 0 || nb == 0 {
			return 0
		}
		return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
	}
}

func (m *Memory) DeletePoints(_ context.Context, collection string, ids []domain.PointID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.collections[collection]
	if !ok {
		return notFoundCollection(collection)
	}
	for _, id := range ids {
		delete(c.points, pointKey(id))
	}
	return nil
}

func (m *Memory) ListSnapshots(_ context.Context, collection string) ([]domain.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.collections[collection]
	if !ok {
		return nil, notFoundCollection(collection)
	}
	return slices.Clone(c.snapshots), nil
}

func (m *Memory) CreateSnapshot(_ context.Context, collection string) (domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.collections[collection]
	if !ok {
		return domain.Snapshot{}, notFoundCollection(collection)
	}

	blob, err := json.Marshal(slices.Collect(maps.Values(c.points)))
	if err != nil {
		return domain.Snapshot{}, domain.Upstream(err)
	}
	now := m.now().UTC()
	snap := domain.Snapshot{
		Name:         fmt.Sprintf("%s-%d.snapshot", collection, now.UnixNano()),
		Size:         int64(len(blob)),
		CreationTime: now,
	}
	c.snapshots = append(c.snapshots, snap)
	c.blobs[snap.Name] = blob
	return snap, nil
}

func (m *Memory) DownloadSnapshot(_ context.Context, collection, name string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.collections[collection]
	if !ok {
		return nil, notFoundCollection(collection)
	}
	blob, ok := c.blobs[name]
	if !ok {
		return nil, domain.NotFound("Snapshot %s not found", name)
	}
	return io.NopCloser(bytes.NewReader(blob)), nil
}

// UploadSnapshot records the payload and, when it decodes as a snapshot
// produced by CreateSnapshot, replaces the collection's points with it.
func (m *Memory) UploadSnapshot(ctx context.Context, collection, filename string, r io.Reader) (bool, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return false, domain.Upstream(err)
	}
	if err := ctx.Err(); err != nil {
		return false, domain.Upstream(err)
	}

	m.mu.Lock()
	m.uploads[collection] = data
	hook := m.OnUpload
	m.mu.Unlock()

	if hook != nil {
		return hook(ctx, collection, filename, data)
	}

	var points []domain.Point
	if json.Unmarshal(data, &points) != nil {
		return true, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.collections[collection]
	if !ok {
		return false, notFoundCollection(collection)
	}
	c.points = make(map[string]domain.Point, len(points))
	for _, p := range points {
		c.points[pointKey(p.ID)] = p
	}
	return true, nil
}

// Uploaded returns the last payload uploaded for collection.
func (m *Memory) Uploaded(collection string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.uploads[collection]
	return b, ok
}

func (m *Memory) Health(context.Context) error { return m.HealthErr }

func (m *Memory) Reset() {
	m.mu.Lock()
	m.resets++
	m.mu.Unlock()
}

// Resets counts Reset calls.
func (m *Memory) Resets() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.resets
}

func (m *Memory) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

// Closed reports whether Close has been called.
func (m *Memory) Closed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*Qdrant)(nil)
)
