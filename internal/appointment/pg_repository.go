package appointment

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgRepository stores rows in a Postgres table. A bigserial pos column
// preserves the positional addressing the engine relies on: position p
// is the p-th row in pos order.
//
// Expected schema:
//
//	CREATE TABLE turnos (
//	    pos          BIGSERIAL PRIMARY KEY,
//	    id           TEXT NOT NULL UNIQUE,
//	    patient      TEXT NOT NULL,
//	    date         TEXT NOT NULL,
//	    time         TEXT NOT NULL,
//	    type         TEXT NOT NULL,
//	    payment      TEXT NOT NULL,
//	    status       TEXT NOT NULL,
//	    calendar_ref TEXT NOT NULL DEFAULT '',
//	    note         TEXT NOT NULL DEFAULT '',
//	    created_at   TEXT NOT NULL
//	);
type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanAppointment(row pgx.Row) (Appointment, error) {
	var a Appointment
	err := row.Scan(
		&a.ID,
		&a.Patient,
		&a.Date,
		&a.Time,
		&a.Type,
		&a.Payment,
		&a.Status,
		&a.CalendarRef,
		&a.Note,
		&a.CreatedAt,
	)
	return a, err
}

func (r *PgRepository) ReadAll(ctx context.Context) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, patient, date, time, type, payment, status, calendar_ref, note, created_at
		FROM turnos
		ORDER BY pos
	`)
	if err != nil {
		return nil, fmt.Errorf("read turnos: %w", err)
	}
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan turno: %w", err)
		}
		result = append(result, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read turnos: %w", err)
	}

	return result, nil
}

func (r *PgRepository) Append(ctx context.Context, a Appointment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO turnos (id, patient, date, time, type, payment, status, calendar_ref, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, a.ID, a.Patient, a.Date, a.Time, a.Type, a.Payment, a.Status, a.CalendarRef, a.Note, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("append turno: %w", err)
	}
	return nil
}

func (r *PgRepository) UpdateAt(ctx context.Context, pos int, a Appointment) error {
	if pos < 0 {
		return ErrNotFound
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE turnos
		SET patient = $2,
		    date = $3,
		    time = $4,
		    type = $5,
		    payment = $6,
		    status = $7,
		    calendar_ref = $8,
		    note = $9
		WHERE pos = (SELECT pos FROM turnos ORDER BY pos OFFSET $1 LIMIT 1)
	`, pos, a.Patient, a.Date, a.Time, a.Type, a.Payment, a.Status, a.CalendarRef, a.Note)
	if err != nil {
		return fmt.Errorf("update turno: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
