package store

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionRecord is the persisted form of a review session.
type SessionRecord struct {
	ID         uuid.UUID
	SourcePath string
	PageCount  int
	StartPage  int
	EndPage    int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PageTrim is one persisted per-page trim entry (zero-based page index).
type PageTrim struct {
	Page   int
	Top    float64
	Bottom float64
}

// ExportRecord logs one produced output file.
type ExportRecord struct {
	ID         uuid.UUID
	SessionID  uuid.UUID
	OutputPath string
	PageCount  int
	CreatedAt  time.Time
}

type DBStorer interface {
	SaveSession(context.Context, SessionRecord) error
	GetSessionByID(context.Context, uuid.UUID) (*SessionRecord, error)
	SavePageTrim(ctx context.Context, sessionID uuid.UUID, trim PageTrim) error
	GetPageTrims(ctx context.Context, sessionID uuid.UUID) ([]PageTrim, error)
	ResetPageTrims(ctx context.Context, sessionID uuid.UUID, start, end int) error
	SaveExport(context.Context, ExportRecord) error
}

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{
		pool: pool,
	}, nil
}

func (p *PostgresStore) SaveSession(ctx context.Context, s SessionRecord) error {
	query := `INSERT INTO sessions (id, source_path, page_count, start_page, end_page, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			source_path = EXCLUDED.source_path,
			page_count = EXCLUDED.page_count,
			start_page = EXCLUDED.start_page,
			end_page = EXCLUDED.end_page,
			updated_at = EXCLUDED.updated_at
			`
	_, err := p.pool.Exec(
		ctx,
		query,
		s.ID,
		s.SourcePath,
		s.PageCount,
		s.StartPage,
		s.EndPage,
		s.CreatedAt,
		s.UpdatedAt,
	)
	return err
}

func (p *PostgresStore) GetSessionByID(ctx context.Context, id uuid.UUID) (*SessionRecord, error) {
	row := p.pool.QueryRow(ctx, "select id, source_path, page_count, start_page, end_page, created_at, updated_at from sessions where id = $1", id)

	s := &SessionRecord{}
	if err := row.Scan(
		&s.ID,
		&s.SourcePath,
		&s.PageCount,
		&s.StartPage,
		&s.EndPage,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return s, nil
}

func (p *PostgresStore) SavePageTrim(ctx context.Context, sessionID uuid.UUID, t PageTrim) error {
	query := `INSERT INTO page_trims (session_id, page_index, top_pct, bottom_pct)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_id, page_index) DO UPDATE SET
			top_pct = EXCLUDED.top_pct,
			bottom_pct = EXCLUDED.bottom_pct
			`
	_, err := p.pool.Exec(ctx, query, sessionID, t.Page, t.Top, t.Bottom)
	return err
}

func (p *PostgresStore) GetPageTrims(ctx context.Context, sessionID uuid.UUID) ([]PageTrim, error) {
	rows, err := p.pool.Query(ctx, "select page_index, top_pct, bottom_pct from page_trims where session_id = $1 order by page_index", sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trims []PageTrim
	for rows.Next() {
		var t PageTrim
		if err := rows.Scan(&t.Page, &t.Top, &t.Bottom); err != nil {
			return nil, err
		}
		trims = append(trims, t)
	}
	return trims, rows.Err()
}

// ResetPageTrims replaces all trim rows of a session with zero entries for
// the new range, matching the in-memory discard on range reselection.
func (p *PostgresStore) ResetPageTrims(ctx context.Context, sessionID uuid.UUID, start, end int) error {
	if _, err := p.pool.Exec(ctx, "delete from page_trims where session_id = $1", sessionID); err != nil {
		return err
	}
	for page := start; page <= end; page++ {
		if err := p.SavePageTrim(ctx, sessionID, PageTrim{Page: page}); err != nil {
			return err
		}
	}
	return nil
}

func (p *PostgresStore) SaveExport(ctx context.Context, e ExportRecord) error {
	query := `INSERT INTO exports (id, session_id, output_path, page_count, created_at)
		VALUES ($1, $2, $3, $4, $5)
		`
	_, err := p.pool.Exec(ctx, query, e.ID, e.SessionID, e.OutputPath, e.PageCount, e.CreatedAt)
	return err
}

func (p *PostgresStore) createSessionTables(ctx context.Context) error {

	query := `
	CREATE TABLE IF NOT EXISTS sessions (
		id UUID PRIMARY KEY,
		source_path TEXT NOT NULL,
		page_count INTEGER NOT NULL,
		start_page INTEGER NOT NULL,
		end_page INTEGER NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE,
		updated_at TIMESTAMP WITH TIME ZONE
	);

	CREATE TABLE IF NOT EXISTS page_trims (
		session_id UUID NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		page_index INTEGER NOT NULL,
		top_pct DOUBLE PRECISION NOT NULL DEFAULT 0,
		bottom_pct DOUBLE PRECISION NOT NULL DEFAULT 0,
		PRIMARY KEY (session_id, page_index)
	);

	CREATE TABLE IF NOT EXISTS exports (
		id UUID PRIMARY KEY,
		session_id UUID NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		output_path TEXT NOT NULL,
		page_count INTEGER NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE
	);

	CREATE INDEX IF NOT EXISTS idx_exports_session_id ON exports(session_id);
    `
	_, err := p.pool.Exec(ctx, query)
	return err
}

func (p *PostgresStore) Init(ctx context.Context) error {
	return p.createSessionTables(ctx)
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
		log.Println("Postgres connection pool is closed")
	}
	return nil
}
