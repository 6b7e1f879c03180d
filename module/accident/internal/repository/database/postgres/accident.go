package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bhavisha4779/accident-relay/module/accident/domain"
	"github.com/bhavisha4779/accident-relay/module/accident/internal/repository/database"
)

var _ database.AccidentRepository = (*AccidentRepo)(nil)

const schema = `CREATE TABLE IF NOT EXISTS accidents (
	id          UUID PRIMARY KEY,
	device_id   TEXT NOT NULL,
	latitude    DOUBLE PRECISION NOT NULL,
	longitude   DOUBLE PRECISION NOT NULL,
	hospital    TEXT NOT NULL,
	distance_km DOUBLE PRECISION NOT NULL,
	occurred_at TIMESTAMPTZ NOT NULL
)`

type AccidentRepo struct {
	db *sql.DB
}

func NewAccidentRepo(db *sql.DB) *AccidentRepo {
	return &AccidentRepo{db: db}
}

func (r *AccidentRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create accidents table: %w", err)
	}
	return nil
}

func (r *AccidentRepo) Insert(ctx context.Context, a *domain.Accident) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accidents (id, device_id, latitude, longitude, hospital, distance_km, occurred_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.DeviceID, a.Lat, a.Lon, a.Hospital, a.DistanceKm, a.OccurredAt,
	)
	return err
}

func (r *AccidentRepo) ListRecent(ctx context.Context, limit int) ([]domain.Accident, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, device_id, latitude, longitude, hospital, distance_km, occurred_at FROM accidents ORDER BY occurred_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.Accident
	for rows.Next() {
		var a domain.Accident
		if err := rows.Scan(&a.ID, &a.DeviceID, &a.Lat, &a.Lon, &a.Hospital, &a.DistanceKm, &a.OccurredAt); err != nil {
			return nil, err
		}
		results = append(results, a)
	}
	return results, rows.Err()
}
