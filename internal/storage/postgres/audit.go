package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klauspost/compress/zstd"

	"martpos/internal/core/appctx"
	"martpos/pkg/logger"
)

// Compression algorithms recorded alongside audit payloads.
const (
	compressionNone = "none"
	compressionZstd = "zstd"
)

// AuditEntry is one row of the hosted backend's audit trail.
type AuditEntry struct {
	ID                int64           `db:"id"`
	EntityType        string          `db:"entity_type"`
	EntityID          int64           `db:"entity_id"`
	Action            string          `db:"action"`
	UserID            *int64          `db:"user_id"`
	Payload           json.RawMessage `db:"payload"`
	PayloadCompressed []byte          `db:"payload_compressed"`
	Compression       string          `db:"compression"`
	CreatedAt         time.Time       `db:"created_at"`
}

// Trail records who created which sale or movement on the shared backend.
// Recording is best effort: a trail failure is logged, never propagated,
// so the sale itself is never blocked by its audit row.
type Trail struct {
	pool              *pgxpool.Pool
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

// NewTrail creates the audit trail over the given pool.
func NewTrail(pool *pgxpool.Pool) (*Trail, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &Trail{
		pool:              pool,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 10 * 1024,
	}, nil
}

// Record writes one audit row. The operator id comes from the request
// context when present. Large payloads are stored zstd-compressed.
func (t *Trail) Record(ctx context.Context, entityType string, entityID int64, action string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.Warn(ctx, "audit payload marshal failed",
			"entity_type", entityType, "entity_id", entityID, "error", err)
		return
	}

	var userID *int64
	if id := appctx.GetUserID(ctx); id != 0 {
		userID = &id
	}

	var compressed []byte
	compression := compressionNone
	if len(body) > t.compressThreshold {
		compressed = t.encoder.EncodeAll(body, nil)
		body = nil
		compression = compressionZstd
	}

	_, err = t.pool.Exec(ctx, `
		INSERT INTO audit_log (entity_type, entity_id, action, user_id, payload, payload_compressed, compression)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entityType, entityID, action, userID, body, compressed, compression)
	if err != nil {
		logger.Warn(ctx, "audit record failed",
			"entity_type", entityType, "entity_id", entityID, "error", err)
	}
}

// History returns the newest audit rows for one entity, decompressed.
func (t *Trail) History(ctx context.Context, entityType string, entityID int64, limit int) ([]AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	var entries []AuditEntry
	err := pgxscan.Select(ctx, t.pool, &entries, `
		SELECT id, entity_type, entity_id, action, user_id, payload, payload_compressed, compression, created_at
		FROM audit_log
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY id DESC
		LIMIT $3`, entityType, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit history: %w", err)
	}

	for i := range entries {
		e := &entries[i]
		if e.Compression == compressionZstd && len(e.PayloadCompressed) > 0 {
			decompressed, err := t.decoder.DecodeAll(e.PayloadCompressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress audit payload: %w", err)
			}
			e.Payload = decompressed
			e.PayloadCompressed = nil
		}
	}
	return entries, nil
}
