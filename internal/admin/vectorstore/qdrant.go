package vectorstore

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/freehekimteam/quietvector/internal/admin/domain"
	"github.com/qdrant/go-client/qdrant"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// QdrantConfig holds connection settings for Qdrant. The gRPC port serves
// collection and point calls; the REST port serves snapshot transfer, which
// gRPC does not expose.
type QdrantConfig struct {
	Host     string
	RESTPort int
	GRPCPort int
	APIKey   string
	// APIKeyFile, when it exists, overrides APIKey. It is re-read on Reset
	// so a rotated key takes effect without a restart.
	APIKeyFile string
	// Timeout bounds every upstream call except snapshot transfer.
	Timeout time.Duration
	// UseTLS switches both transports to TLS. Defaults to RESTPort == 443.
	UseTLS bool

	Logger *slog.Logger
}

func (c QdrantConfig) withDefaults() QdrantConfig {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.RESTPort == 0 {
		c.RESTPort = 6333
	}
	if c.GRPCPort == 0 {
		c.GRPCPort = 6334
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.RESTPort == 443 {
		c.UseTLS = true
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Qdrant implements Store against a Qdrant server.
type Qdrant struct {
	cfg QdrantConfig

	mu     sync.Mutex
	client *qdrant.Client
	apiKey string

	// rest has no overall timeout; snapshot transfers can be large and are
	// bounded by their context instead.
	rest    *http.Client
	restURL string
}

// NewQdrant builds the adapter. The gRPC connection is created lazily on
// first use.
func NewQdrant(cfg QdrantConfig) *Qdrant {
	cfg = cfg.withDefaults()

	scheme := "http"
	if cfg.UseTLS {
		scheme = "https"
	}
	q := &Qdrant{
		cfg: cfg,
		rest: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		restURL: fmt.Sprintf("%s://%s:%d", scheme, cfg.Host, cfg.RESTPort),
	}
	q.apiKey = q.loadAPIKey()
	return q
}

// loadAPIKey prefers the key file when it is readable and non-empty.
func (q *Qdrant) loadAPIKey() string {
	if q.cfg.APIKeyFile != "" {
		b, err := os.ReadFile(q.cfg.APIKeyFile)
		if err == nil {
			if key := strings.TrimSpace(string(b)); key != "" {
				return key
			}
		} else if !os.IsNotExist(err) {
			q.cfg.Logger.Warn("qdrant api key file unreadable", "path", q.cfg.APIKeyFile, "error", err)
		}
	}
	return q.cfg.APIKey
}

func (q *Qdrant) grpc() (*qdrant.Client, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.client != nil {
		return q.client, nil
	}

	q.cfg.Logger.Info("connecting to qdrant",
		"host", q.cfg.Host,
		"grpc_port", q.cfg.GRPCPort,
		"tls", q.cfg.UseTLS,
	)
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:                   q.cfg.Host,
		Port:                   q.cfg.GRPCPort,
		APIKey:                 q.apiKey,
		UseTLS:                 q.cfg.UseTLS,
		SkipCompatibilityCheck: true,
	})
	if err != nil {
		return nil, domain.Upstream(fmt.Errorf("qdrant connect: %w", err))
	}
	q.client = client
	return client, nil
}

func (q *Qdrant) key() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.apiKey
}

// Reset closes the cached connection and reloads the API key.
func (q *Qdrant) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.client != nil {
		q.cfg.Logger.Info("resetting qdrant client")
		if err := q.client.Close(); err != nil {
			q.cfg.Logger.Warn("error closing qdrant client", "error", err)
		}
		q.client = nil
	}
	q.apiKey = q.loadAPIKey()
}

func (q *Qdrant) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.client == nil {
		return nil
	}
	err := q.client.Close()
	q.client = nil
	q.cfg.Logger.Info("qdrant client closed")
	return err
}

func (q *Qdrant) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, q.cfg.Timeout)
}

func (q *Qdrant) Health(ctx context.Context) error {
	c, err := q.grpc()
	if err != nil {
		return err
	}
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	if _, err := c.HealthCheck(ctx); err != nil {
		return classify(err)
	}
	return nil
}

func (q *Qdrant) ListCollections(ctx context.Context) ([]string, error) {
	c, err := q.grpc()
	if err != nil {
		return nil, err
	}
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	names, err := c.ListCollections(ctx)
	if err != nil {
		return nil, classify(err)
	}
	return names, nil
}

func (q *Qdrant) GetCollection(ctx context.Context, name string) (domain.CollectionInfo, error) {
	c, err := q.grpc()
	if err != nil {
		return domain.CollectionInfo{}, err
	}
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	info, err := c.GetCollectionInfo(ctx, name)
	if err != nil {
		return domain.CollectionInfo{}, classify(err)
	}

	exact := true
	count, err := c.Count(ctx, &qdrant.CountPoints{CollectionName: name, Exact: &exact})
	if err != nil {
		return domain.CollectionInfo{}, classify(err)
	}

	return collectionInfoFromProto(name, info, count), nil
}

func (q *Qdrant) CreateCollection(ctx context.Context, spec domain.CollectionSpec) error {
	c, err := q.grpc()
	if err != nil {
		return err
	}
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	if err := c.CreateCollection(ctx, createCollectionRequest(spec)); err != nil {
		return classify(err)
	}
	return nil
}

func (q *Qdrant) DeleteCollection(ctx context.Context, name string) error {
	c, err := q.grpc()
	if err != nil {
		return err
	}
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	exists, err := c.CollectionExists(ctx, name)
	if err != nil {
		return classify(err)
	}
	if !exists {
		return domain.NotFound("Collection not found: %s", name)
	}
	if err := c.DeleteCollection(ctx, name); err != nil {
		return classify(err)
	}
	return nil
}

func (q *Qdrant) Upsert(ctx context.Context, collection string, points []domain.Point) error {
	c, err := q.grpc()
	if err != nil {
		return err
	}
	structs, err := pointsToProto(points)
	if err != nil {
		return domain.Validation("%s", err.Error())
	}

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	wait := true
	if _, err := c.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points:         structs,
		Wait:           &wait,
	}); err != nil {
		return classify(err)
	}
	return nil
}

func (q *Qdrant) Search(ctx context.Context, s domain.SearchQuery) ([]domain.ScoredPoint, error) {
	c, err := q.grpc()
	if err != nil {
		return nil, err
	}
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	limit := s.Limit
	resp, err := c.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.Collection,
		Query:          qdrant.NewQuery(s.Vector...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(s.WithPayload),
	})
	if err != nil {
		return nil, classify(err)
	}
	return scoredPointsFromProto(resp), nil
}

func (q *Qdrant) DeletePoints(ctx context.Context, collection string, ids []domain.PointID) error {
	c, err := q.grpc()
	if err != nil {
		return err
	}
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	wait := true
	if _, err := c.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collection,
		Points:         qdrant.NewPointsSelectorIDs(pointIDsToProto(ids)),
		Wait:           &wait,
	}); err != nil {
		return classify(err)
	}
	return nil
}

func (q *Qdrant) ListSnapshots(ctx context.Context, collection string) ([]domain.Snapshot, error) {
	c, err := q.grpc()
	if err != nil {
		return nil, err
	}
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	descs, err := c.ListSnapshots(ctx, collection)
	if err != nil {
		return nil, classify(err)
	}
	out := make([]domain.Snapshot, 0, len(descs))
	for _, d := range descs {
		out = append(out, snapshotFromProto(d))
	}
	return out, nil
}

func (q *Qdrant) CreateSnapshot(ctx context.Context, collection string) (domain.Snapshot, error) {
	c, err := q.grpc()
	if err != nil {
		return domain.Snapshot{}, err
	}
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	d, err := c.CreateSnapshot(ctx, collection)
	if err != nil {
		return domain.Snapshot{}, classify(err)
	}
	return snapshotFromProto(d), nil
}
