package adminsdk

import "github.com/freehekimteam/quietvector/internal/admin/domain"

// ============================================================================
// Common
// ============================================================================

// ErrorResponse is the body of every error the API returns.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is returned by /health and /health/ready.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// ============================================================================
// Auth
// ============================================================================

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	TOTPCode string `json:"totp_code,omitempty"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	CSRFToken   string `json:"csrf_token"`
	ExpiresIn   int    `json:"expires_in"` // seconds
}

// ============================================================================
// Collections
// ============================================================================

type CollectionSummary struct {
	Name string `json:"name"`
}

type CollectionsResponse struct {
	Collections []CollectionSummary `json:"collections"`
}

type CollectionInfo struct {
	Name         string `json:"name"`
	Status       string `json:"status"`
	PointsCount  uint64 `json:"points_count"`
	VectorsCount uint64 `json:"vectors_count"`
	VectorSize   uint64 `json:"vector_size"`
	Distance     string `json:"distance"`
}

type CreateCollectionRequest struct {
	Name        string  `json:"name"`
	VectorsSize uint64  `json:"vectors_size"`
	Distance    string  `json:"distance,omitempty"` // Cosine, Dot or Euclid; Cosine when empty
	EfConstruct *uint64 `json:"ef_construct,omitempty"`
	M           *uint64 `json:"m,omitempty"`
}

type CreateCollectionResponse struct {
	Name    string `json:"name"`
	Created bool   `json:"created"`
}

type DeleteCollectionResponse struct {
	Deleted bool `json:"deleted"`
}

// ============================================================================
// Vectors
// ============================================================================

// PointID is an unsigned integer or UUID string point id.
type PointID = domain.PointID

var (
	NumID = domain.NumID
	StrID = domain.StrID
)

type Point struct {
	ID      PointID        `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload,omitempty"`
}

type InsertVectorsRequest struct {
	Collection string  `json:"collection"`
	Points     []Point `json:"points"`
}

type InsertVectorsResponse struct {
	Inserted int `json:"inserted"`
}

// SearchRequest queries a collection. Nil Limit means 10; nil WithPayload
// means true.
type SearchRequest struct {
	Collection  string    `json:"collection"`
	Vector      []float32 `json:"vector"`
	Limit       *uint64   `json:"limit,omitempty"`
	WithPayload *bool     `json:"with_payload,omitempty"`
}

type SearchResult struct {
	ID      PointID        `json:"id"`
	Score   float32        `json:"score"`
	Payload map[string]any `json:"payload"`
}

type SearchResponse struct {
	Results []SearchResult `json:"results"`
}

type DeleteVectorsRequest struct {
	Collection string    `json:"collection"`
	IDs        []PointID `json:"ids"`
}

type DeleteVectorsResponse struct {
	Deleted int `json:"deleted"`
}

// ============================================================================
// Snapshots
// ============================================================================

type Snapshot struct {
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	CreationTime string `json:"creation_time,omitempty"` // RFC 3339
}

type SnapshotsResponse struct {
	Snapshots []Snapshot `json:"snapshots"`
}

type RestoreResponse struct {
	OpID  string `json:"op_id"`
	Stage string `json:"stage"`
}

// ============================================================================
// Operations
// ============================================================================

// Operation is a tracked asynchronous job. Timestamps are epoch seconds.
type Operation struct {
	ID        string         `json:"id"`
	Kind      string         `json:"kind"`
	Stage     string         `json:"stage"`
	Error     *string        `json:"error"`
	CreatedAt float64        `json:"created_at"`
	UpdatedAt float64        `json:"updated_at"`
	Meta      map[string]any `json:"meta"`
}

// Terminal reports whether the operation has completed or failed.
func (o Operation) Terminal() bool {
	return o.Stage == string(domain.StageCompleted) || o.Stage == string(domain.StageFailed)
}

type OperationsResponse struct {
	Operations []Operation `json:"operations"`
}

// ============================================================================
// Stats
// ============================================================================

type CollectionStats struct {
	Name         string `json:"name"`
	PointsCount  uint64 `json:"points_count"`
	VectorsCount uint64 `json:"vectors_count"`
}

type StatsResponse struct {
	Collections int               `json:"collections"`
	TotalPoints uint64            `json:"total_points"`
	Items       []CollectionStats `json:"items"`
}

// ============================================================================
// Security
// ============================================================================

type PrepareKeyRequest struct {
	NewKey        string `json:"new_key"`
	AdminPassword string `json:"admin_password"`
	TOTPCode      string `json:"totp_code,omitempty"`
}

type PrepareKeyResponse struct {
	OpID              string   `json:"op_id"`
	ApplyInstructions []string `json:"apply_instructions"`
}

type OpsApplyRequest struct {
	AdminPassword string `json:"admin_password"`
	TOTPCode      string `json:"totp_code,omitempty"`
	DryRun        bool   `json:"dry_run"`
}

type OpsApplyResponse struct {
	Executed bool   `json:"executed"`
	Command  string `json:"command"`
	RC       *int   `json:"rc,omitempty"`
	Stdout   string `json:"stdout,omitempty"`
	Stderr   string `json:"stderr,omitempty"`
	OpID     string `json:"op_id,omitempty"`
}
