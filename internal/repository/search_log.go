package repository

import (
	"context"
	"encoding/json"

	"github.com/cloo-solutions/sitelens/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// SearchLogRepository stores completed searches for analytics.
type SearchLogRepository struct {
	pool *pgxpool.Pool
}

func NewSearchLogRepository(pool *pgxpool.Pool) *SearchLogRepository {
	return &SearchLogRepository{pool: pool}
}

func (r *SearchLogRepository) CreateSearchLog(ctx context.Context, entry service.SearchLogEntry) (string, error) {
	resultsJSON, _ := json.Marshal(entry.Results)

	var embedding interface{}
	if len(entry.QueryEmbedding) > 0 {
		embedding = pgvector.NewVector(entry.QueryEmbedding)
	}

	var id string
	err := r.pool.QueryRow(ctx,
		`INSERT INTO search_logs (website, query, combined_query, has_image, results, result_count, duration_ms, query_embedding, image_key)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		entry.Website,
		nullableString(entry.Query),
		entry.CombinedQuery,
		entry.HasImage,
		resultsJSON,
		len(entry.Results),
		entry.DurationMs,
		embedding,
		nullableString(entry.ImageKey),
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
