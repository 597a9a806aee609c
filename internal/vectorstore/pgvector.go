package vectorstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"docqa/internal/models"
)

// PgvectorConfig holds configuration for the Postgres/pgvector backend.
type PgvectorConfig struct {
	DatabaseURL string
	Collection  string
	Dimension   int
}

// PgvectorStore persists the collection in a Postgres table with a pgvector
// embedding column. Several logical collections can share one database; rows
// are scoped by the collection name.
type PgvectorStore struct {
	db         *sql.DB
	collection string
	logger     *zap.Logger
}

// metadata fields addressable through GetWhere, mapped to their columns.
var pgFields = map[string]string{
	"document_hash": "document_hash",
	"company_name":  "company_name",
	"document_name": "document_name",
}

func NewPgvectorStore(ctx context.Context, cfg PgvectorConfig, logger *zap.Logger) (*PgvectorStore, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping db: %v", ErrBackendUnavailable, err)
	}

	if err := ensureSchema(pingCtx, db, cfg.Dimension); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}

	logger.Info("pgvector store ready", zap.String("collection", cfg.Collection))
	return &PgvectorStore{db: db, collection: cfg.Collection, logger: logger}, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, dimension int) error {
	schema := fmt.Sprintf(`
		CREATE EXTENSION IF NOT EXISTS vector;
		CREATE TABLE IF NOT EXISTS passages (
			id            text PRIMARY KEY,
			collection    text NOT NULL,
			company_name  text NOT NULL,
			document_name text NOT NULL,
			document_hash text NOT NULL,
			page_number   int  NOT NULL DEFAULT 0,
			chunk_index   int  NOT NULL,
			section       text NOT NULL DEFAULT '',
			processed_at  timestamptz NOT NULL,
			text          text NOT NULL,
			embedding     vector(%d) NOT NULL
		);
		CREATE INDEX IF NOT EXISTS passages_hash_idx
			ON passages (collection, document_hash);
	`, dimension)
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Add inserts records in a single transaction. IDs embed the content
// fingerprint, so a conflicting insert is the same passage and is skipped.
func (s *PgvectorStore) Add(ctx context.Context, records []models.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("%w: begin tx: %v", ErrBackendUnavailable, err)
	}

	const q = `
		INSERT INTO passages
			(id, collection, company_name, document_name, document_hash,
			 page_number, chunk_index, section, processed_at, text, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO NOTHING
	`
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range records {
		p := &records[i].Passage
		vec := pgvector.NewVector(records[i].Embedding)
		if _, err := stmt.ExecContext(ctx,
			p.ID, s.collection, p.CompanyName, p.DocumentName, p.DocumentHash,
			p.PageNumber, p.ChunkIndex, p.Section, p.ProcessedAt, p.Text, vec,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("%w: insert passage %s: %v", ErrBackendUnavailable, p.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrBackendUnavailable, err)
	}
	return nil
}

func (s *PgvectorStore) GetWhere(ctx context.Context, field, value string, limit int) ([]models.Passage, error) {
	column, ok := pgFields[field]
	if !ok {
		return nil, fmt.Errorf("unknown metadata field %q", field)
	}
	if limit <= 0 {
		limit = 1
	}
	q := fmt.Sprintf(`
		SELECT id, company_name, document_name, document_hash,
		       page_number, chunk_index, section, processed_at, text
		FROM passages
		WHERE collection = $1 AND %s = $2
		ORDER BY chunk_index ASC
		LIMIT $3
	`, column)

	rows, err := s.db.QueryContext(ctx, q, s.collection, value, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: filtered get: %v", ErrBackendUnavailable, err)
	}
	defer rows.Close()

	var out []models.Passage
	for rows.Next() {
		var p models.Passage
		if err := rows.Scan(
			&p.ID, &p.CompanyName, &p.DocumentName, &p.DocumentHash,
			&p.PageNumber, &p.ChunkIndex, &p.Section, &p.ProcessedAt, &p.Text,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PgvectorStore) Query(ctx context.Context, embedding []float32, topK int) ([]models.RetrievalCandidate, error) {
	if topK <= 0 {
		topK = 10
	}
	const q = `
		SELECT id, company_name, document_name, document_hash,
		       page_number, chunk_index, section, processed_at, text,
		       1 - (embedding <=> $2) AS score
		FROM passages
		WHERE collection = $1
		ORDER BY embedding <=> $2
		LIMIT $3
	`
	rows, err := s.db.QueryContext(ctx, q, s.collection, pgvector.NewVector(embedding), topK)
	if err != nil {
		return nil, fmt.Errorf("%w: vector query: %v", ErrBackendUnavailable, err)
	}
	defer rows.Close()

	var out []models.RetrievalCandidate
	for rows.Next() {
		var c models.RetrievalCandidate
		p := &c.Passage
		if err := rows.Scan(
			&p.ID, &p.CompanyName, &p.DocumentName, &p.DocumentHash,
			&p.PageNumber, &p.ChunkIndex, &p.Section, &p.ProcessedAt, &p.Text,
			&c.Score,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PgvectorStore) ListDocuments(ctx context.Context) ([]models.DocumentInfo, error) {
	const q = `
		SELECT DISTINCT company_name, document_name
		FROM passages
		WHERE collection = $1
		ORDER BY company_name, document_name
	`
	rows, err := s.db.QueryContext(ctx, q, s.collection)
	if err != nil {
		return nil, fmt.Errorf("%w: list documents: %v", ErrBackendUnavailable, err)
	}
	defer rows.Close()

	var out []models.DocumentInfo
	for rows.Next() {
		var info models.DocumentInfo
		if err := rows.Scan(&info.Company, &info.Document); err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

func (s *PgvectorStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM passages WHERE collection = $1`, s.collection).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%w: count: %v", ErrBackendUnavailable, err)
	}
	return n, nil
}

func (s *PgvectorStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
