// Package storage is the persistent side of the agent: a pgvector-backed
// content store for bibliography chunks and a plain SQL table of workflow
// run history.
package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/Divas-Gupta30/marco-agent/internal/model"
)

// SourceContext tags chunks re-indexed from previously generated sections so
// they can be cleared without touching the original bibliography.
const SourceContext = "contexto_previo"

// Store is the vector content store.
type Store struct {
	pool *pgxpool.Pool
}

func Open(ctx context.Context, url string) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() { s.pool.Close() }

// EnsureSchema creates the extension and chunk table if missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS chunks (
			id UUID PRIMARY KEY,
			source TEXT NOT NULL,
			tag TEXT NOT NULL DEFAULT 'bibliografia',
			content TEXT NOT NULL,
			embedding vector(768)
		)`,
	}
	for _, q := range stmts {
		if _, err := s.pool.Exec(ctx, q); err != nil {
			return fmt.Errorf("schema: %w", err)
		}
	}
	return nil
}

// Insert adds one chunk with its embedding.
func (s *Store) Insert(ctx context.Context, source, tag, content string, embedding []float32) error {
	_, err := s.pool.Exec(ctx,
		"INSERT INTO chunks (id, source, tag, content, embedding) VALUES ($1, $2, $3, $4, $5)",
		uuid.New(), source, tag, content, pgvector.NewVector(embedding))
	return err
}

// QuerySimilar returns the topK chunks closest to the query embedding,
// converting the pgvector distance into a similarity score.
func (s *Store) QuerySimilar(ctx context.Context, queryEmb []float32, topK int) ([]model.SourceChunk, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT content, source, embedding <-> $1 AS distance FROM chunks ORDER BY embedding <-> $1 LIMIT $2",
		pgvector.NewVector(queryEmb), topK)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var results []model.SourceChunk
	for rows.Next() {
		var c model.SourceChunk
		var distance float64
		if err := rows.Scan(&c.Content, &c.Source, &distance); err != nil {
			return nil, err
		}
		c.Score = 1 - distance
		results = append(results, c)
	}
	return results, rows.Err()
}

// DeleteByTag removes every chunk with the given tag and reports how many.
func (s *Store) DeleteByTag(ctx context.Context, tag string) (int64, error) {
	ct, err := s.pool.Exec(ctx, "DELETE FROM chunks WHERE tag = $1", tag)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

// Count reports the total number of stored chunks.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, "SELECT count(*) FROM chunks").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
