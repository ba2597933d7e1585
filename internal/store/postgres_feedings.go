package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/babytracker/babytracker/internal/models"
)

type pgFeedingStore struct {
	pool *pgxpool.Pool
}

func (s *pgFeedingStore) Create(ctx context.Context, f *models.Feeding) error {
	if err := checkFeeding(f); err != nil {
		return err
	}

	err := s.pool.QueryRow(ctx, `
		INSERT INTO feedings(start_time, end_time)
		VALUES ($1, $2)
		RETURNING id
	`, f.StartTime.UTC(), f.EndTime.UTC()).Scan(&f.ID)
	if err != nil {
		return errors.Wrap(err, "failed to create feeding")
	}
	f.StartTime = f.StartTime.UTC()
	f.EndTime = f.EndTime.UTC()
	return nil
}

func (s *pgFeedingStore) Get(ctx context.Context, id int64) (*models.Feeding, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, start_time, end_time FROM feedings WHERE id = $1
	`, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find feeding")
	}
	return collectOneFeeding(rows)
}

// List filters and orders on start_time.
func (s *pgFeedingStore) List(ctx context.Context, f models.ListFilter) ([]models.Feeding, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, start_time, end_time
		FROM feedings
		WHERE ($1::timestamptz IS NULL OR start_time >= $1)
		  AND ($2::timestamptz IS NULL OR start_time <= $2)
		ORDER BY start_time DESC, id DESC
		LIMIT $3
	`, f.Start, f.End, limitArg(f.Limit))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list feedings")
	}

	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Feeding])
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan feedings")
	}
	for i := range out {
		out[i].StartTime = out[i].StartTime.UTC()
		out[i].EndTime = out[i].EndTime.UTC()
	}
	return out, nil
}

func (s *pgFeedingStore) Update(ctx context.Context, id int64, p models.FeedingPatch) (*models.Feeding, error) {
	if err := checkFeedingPatch(p); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		UPDATE feedings
		SET start_time = COALESCE($2, start_time),
		    end_time   = COALESCE($3, end_time)
		WHERE id = $1
		RETURNING id, start_time, end_time
	`, id, p.StartTime, p.EndTime)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update feeding")
	}
	return collectOneFeeding(rows)
}

func (s *pgFeedingStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM feedings WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "failed to delete feeding")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func collectOneFeeding(rows pgx.Rows) (*models.Feeding, error) {
	f, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Feeding])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan feeding")
	}
	f.StartTime = f.StartTime.UTC()
	f.EndTime = f.EndTime.UTC()
	return &f, nil
}
