// Package roster supplies roster snapshots from PostgreSQL or a YAML file.
package roster

import (
	"context"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"fmt"
	"hash"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kailas-cloud/talentdex/internal/domain/professional"
)

//go:embed schema.sql
var schemaSQL string

const countQuery = `SELECT COUNT(*) FROM professionals`

const recordsQuery = `SELECT id, full_name, work_history, education, skills, languages, technologies,
        city, available, available_from
 FROM professionals ORDER BY id`

// Postgres reads the roster from a PostgreSQL table.
type Postgres struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// Close closes the connection pool.
func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// Ping checks database connectivity.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// EnsureSchema creates the professionals table if it does not exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Snapshot reads every record inside one repeatable-read transaction. The
// version hashes the row contents, so any write changes it whether or not
// the writer maintains updated_at.
func (p *Postgres) Snapshot(ctx context.Context) (professional.Snapshot, error) {
	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return professional.Snapshot{}, fmt.Errorf("failed to begin snapshot: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var count int64
	if err := tx.QueryRow(ctx, countQuery).Scan(&count); err != nil {
		return professional.Snapshot{}, fmt.Errorf("failed to count professionals: %w", err)
	}

	rows, err := tx.Query(ctx, recordsQuery)
	if err != nil {
		return professional.Snapshot{}, fmt.Errorf("failed to list professionals: %w", err)
	}
	defer rows.Close()

	records := make([]professional.Record, 0, count)
	h := sha256.New()
	for rows.Next() {
		var row recordRow
		if err := rows.Scan(&row.ID, &row.FullName, &row.WorkHistory, &row.Education,
			&row.Skills, &row.Languages, &row.Technologies,
			&row.City, &row.Available, &row.AvailableFrom); err != nil {
			return professional.Snapshot{}, fmt.Errorf("failed to scan professional: %w", err)
		}
		row.hash(h)
		records = append(records, row.record())
	}
	if err := rows.Err(); err != nil {
		return professional.Snapshot{}, fmt.Errorf("failed to list professionals: %w", err)
	}

	return professional.Snapshot{Version: version(h), Records: records}, nil
}

// Upsert inserts or replaces records. Used by seeding and tests.
func (p *Postgres) Upsert(ctx context.Context, records []professional.Record) error {
	batch := &pgx.Batch{}
	for i := range records {
		r := &records[i]
		batch.Queue(
			`INSERT INTO professionals (id, full_name, work_history, education, skills, languages,
			        technologies, city, available, available_from, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
			 ON CONFLICT (id) DO UPDATE SET full_name = $2, work_history = $3, education = $4,
			        skills = $5, languages = $6, technologies = $7, city = $8, available = $9,
			        available_from = $10, updated_at = NOW()`,
			r.ID, r.FullName, r.WorkHistory, r.Education,
			professional.FormatFacets(r.Skills), professional.FormatFacets(r.Languages),
			professional.FormatFacets(r.Technologies), r.City, r.Available, r.AvailableFrom,
		)
	}
	if err := p.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to upsert professionals: %w", err)
	}
	return nil
}

// recordRow mirrors one professionals row.
type recordRow struct {
	ID            string
	FullName      string
	WorkHistory   string
	Education     string
	Skills        []string
	Languages     []string
	Technologies  []string
	City          string
	Available     bool
	AvailableFrom *time.Time
}

func (r *recordRow) record() professional.Record {
	rec := professional.Record{
		ID:           r.ID,
		FullName:     r.FullName,
		WorkHistory:  r.WorkHistory,
		Education:    r.Education,
		Skills:       professional.ParseFacets(r.Skills),
		Languages:    professional.ParseFacets(r.Languages),
		Technologies: professional.ParseFacets(r.Technologies),
		City:         r.City,
		Available:    r.Available,
	}
	if !r.Available {
		rec.AvailableFrom = r.AvailableFrom
	}
	return rec
}

// hash feeds every column into h with unambiguous framing.
func (r *recordRow) hash(h hash.Hash) {
	from := ""
	if r.AvailableFrom != nil {
		from = r.AvailableFrom.UTC().Format(time.RFC3339)
	}
	fmt.Fprintf(h, "%q %q %q %q %q %q %q %q %t %q\n",
		r.ID, r.FullName, r.WorkHistory, r.Education,
		r.Skills, r.Languages, r.Technologies,
		r.City, r.Available, from)
}

func version(h hash.Hash) string {
	return "pg:" + hex.EncodeToString(h.Sum(nil))
}
