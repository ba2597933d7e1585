package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/babytracker/babytracker/internal/models"
)

type pgDiaperStore struct {
	pool *pgxpool.Pool
}

// Create inserts d with its explicit timestamp and assigns d.ID.
func (s *pgDiaperStore) Create(ctx context.Context, d *models.Diaper) error {
	if err := checkDiaper(d); err != nil {
		return err
	}

	err := s.pool.QueryRow(ctx, `
		INSERT INTO diapers(type, "timestamp")
		VALUES ($1, $2)
		RETURNING id
	`, string(d.Type), d.Timestamp.UTC()).Scan(&d.ID)
	if err != nil {
		return errors.Wrap(err, "failed to create diaper")
	}
	d.Timestamp = d.Timestamp.UTC()
	return nil
}

func (s *pgDiaperStore) Get(ctx context.Context, id int64) (*models.Diaper, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, type, "timestamp" FROM diapers WHERE id = $1
	`, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find diaper")
	}
	return collectOneDiaper(rows)
}

// List returns rows with timestamp in [f.Start, f.End], newest first.
// Absent bounds are passed as NULL so the statement text never changes.
func (s *pgDiaperStore) List(ctx context.Context, f models.ListFilter) ([]models.Diaper, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, type, "timestamp"
		FROM diapers
		WHERE ($1::timestamptz IS NULL OR "timestamp" >= $1)
		  AND ($2::timestamptz IS NULL OR "timestamp" <= $2)
		ORDER BY "timestamp" DESC, id DESC
		LIMIT $3
	`, f.Start, f.End, limitArg(f.Limit))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list diapers")
	}

	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Diaper])
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan diapers")
	}
	for i := range out {
		out[i].Timestamp = out[i].Timestamp.UTC()
	}
	return out, nil
}

// Update applies the non-nil fields of p with one fixed statement.
func (s *pgDiaperStore) Update(ctx context.Context, id int64, p models.DiaperPatch) (*models.Diaper, error) {
	if err := checkDiaperPatch(p); err != nil {
		return nil, err
	}

	var typ *string
	if p.Type != nil {
		v := string(*p.Type)
		typ = &v
	}

	rows, err := s.pool.Query(ctx, `
		UPDATE diapers
		SET type        = COALESCE($2, type),
		    "timestamp" = COALESCE($3, "timestamp")
		WHERE id = $1
		RETURNING id, type, "timestamp"
	`, id, typ, p.Timestamp)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update diaper")
	}
	return collectOneDiaper(rows)
}

func (s *pgDiaperStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM diapers WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "failed to delete diaper")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func collectOneDiaper(rows pgx.Rows) (*models.Diaper, error) {
	d, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Diaper])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan diaper")
	}
	d.Timestamp = d.Timestamp.UTC()
	return &d, nil
}
