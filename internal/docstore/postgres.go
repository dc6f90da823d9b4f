package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PostgresStore keeps each collection's documents in a single JSONB table.
type PostgresStore struct {
	db *sqlx.DB
}

// Config holds Postgres connection settings.
type Config struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id TEXT NOT NULL,
	doc JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (collection, id)
)`

func NewPostgresStore(cfg Config) (*PostgresStore, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to ensure documents table: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Put(ctx context.Context, collection, id string, data []byte) (string, error) {
	if !json.Valid(data) {
		return "", fmt.Errorf("invalid document payload")
	}
	if id == "" {
		id = uuid.New().String()
	}

	query := `
		INSERT INTO documents (collection, id, doc)
		VALUES ($1, $2, $3)
		ON CONFLICT (collection, id)
		DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()
	`
	if _, err := s.db.ExecContext(ctx, query, collection, id, data); err != nil {
		return "", fmt.Errorf("failed to put document: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	query := `
		SELECT id, doc, created_at, updated_at
		FROM documents
		WHERE collection = $1 AND id = $2
	`
	var row struct {
		ID        string `db:"id"`
		Doc       []byte `db:"doc"`
		CreatedAt sql.NullTime `db:"created_at"`
		UpdatedAt sql.NullTime `db:"updated_at"`
	}
	if err := s.db.GetContext(ctx, &row, query, collection, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &Document{
		ID:        row.ID,
		Data:      row.Doc,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}, nil
}

func (s *PostgresStore) Patch(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	patch, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode patch: %w", err)
	}

	query := `
		UPDATE documents
		SET doc = doc || $3, updated_at = now()
		WHERE collection = $1 AND id = $2
	`
	result, err := s.db.ExecContext(ctx, query, collection, id, patch)
	if err != nil {
		return fmt.Errorf("failed to patch document: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	query := `DELETE FROM documents WHERE collection = $1 AND id = $2`
	result, err := s.db.ExecContext(ctx, query, collection, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, collection string, q Query) ([]Document, error) {
	query := `
		SELECT id, doc, created_at, updated_at
		FROM documents
		WHERE collection = $1
	`
	args := []interface{}{collection}
	argCount := 2

	if q.Field != "" {
		query += fmt.Sprintf(" AND doc->>$%d = $%d", argCount, argCount+1)
		args = append(args, q.Field, q.Value)
		argCount += 2
	}

	if q.OrderBy != "" {
		// RFC 3339 timestamps sort correctly as text.
		query += fmt.Sprintf(" ORDER BY doc->>$%d", argCount)
		args = append(args, q.OrderBy)
	} else {
		query += " ORDER BY created_at"
	}
	if q.Desc {
		query += " DESC"
	}

	var rows []struct {
		ID        string       `db:"id"`
		Doc       []byte       `db:"doc"`
		CreatedAt sql.NullTime `db:"created_at"`
		UpdatedAt sql.NullTime `db:"updated_at"`
	}
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, Document{
			ID:        row.ID,
			Data:      row.Doc,
			CreatedAt: row.CreatedAt.Time,
			UpdatedAt: row.UpdatedAt.Time,
		})
	}
	return docs, nil
}
