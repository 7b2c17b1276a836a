package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rc397/FlavorMap/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, and unit
// tests to pass a pgxmock pool.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgSpotRepo is the Postgres implementation of SpotRepo.
// Insertion order is kept by the seq BIGSERIAL column; each Append is a single
// INSERT, so concurrent writers cannot overwrite each other.
type pgSpotRepo struct {
	db db
}

// NewPostgresSpotRepo constructs a SpotRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewPostgresSpotRepo(db db) SpotRepo {
	return &pgSpotRepo{db: db}
}

// LoadAll returns all spots ordered by insertion.
func (r *pgSpotRepo) LoadAll(ctx context.Context) ([]domain.Spot, error) {
	const q = `
		SELECT id, name, lat, lng, cuisine, emoji, note, created_at
		FROM spots
		ORDER BY seq ASC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.SpotRepo.LoadAll: %w", err)
	}
	defer rows.Close()

	spots := []domain.Spot{}
	for rows.Next() {
		s, err := scanSpot(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.SpotRepo.LoadAll: scan: %w", err)
		}
		spots = append(spots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.SpotRepo.LoadAll: rows: %w", err)
	}
	return spots, nil
}

// Append inserts one spot row.
func (r *pgSpotRepo) Append(ctx context.Context, spot domain.Spot) error {
	const q = `
		INSERT INTO spots (id, name, lat, lng, cuisine, emoji, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(ctx, q,
		spot.ID, spot.Name, spot.Lat, spot.Lng,
		spot.Cuisine, spot.Emoji, spot.Note, spot.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("repo.SpotRepo.Append: %w", err)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanSpot maps a single database row into a domain.Spot.
func scanSpot(s scanner) (domain.Spot, error) {
	var sp domain.Spot
	err := s.Scan(&sp.ID, &sp.Name, &sp.Lat, &sp.Lng, &sp.Cuisine, &sp.Emoji, &sp.Note, &sp.CreatedAt)
	if err != nil {
		return domain.Spot{}, err
	}
	sp.CreatedAt = sp.CreatedAt.UTC()
	return sp, nil
}
