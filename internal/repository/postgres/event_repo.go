package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"rsvphub/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

const eventColumns = `id, hash, name, description, location, organizer_id, event_time, message_template, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	var hashNull, orgNull sql.NullString
	err := row.Scan(
		&e.ID, &hashNull, &e.Name, &e.Description, &e.Location,
		&orgNull, &e.Time, &e.MessageTemplate, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if hashNull.Valid {
		e.Token = hashNull.String
	}
	if orgNull.Valid {
		e.OrganizerID = orgNull.String
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (name, description, location, event_time, message_template, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.Name, e.Description, e.Location, e.Time, e.MessageTemplate, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) SetToken(ctx context.Context, id, token string) error {
	query := `UPDATE events SET hash = $2, updated_at = NOW() WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id, token)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) SetOrganizer(ctx context.Context, id, guestID string) error {
	query := `UPDATE events SET organizer_id = $2, updated_at = NOW() WHERE id = $1 AND organizer_id IS NULL`
	result, err := r.DB.ExecContext(ctx, query, id, guestID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		// Either the event is gone or the organizer was already set; the
		// organizer reference is set once and never reassigned.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrInvalidOperation
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	return scanEvent(r.DB.QueryRowContext(ctx, query, id))
}

func (r *eventRepository) GetByToken(ctx context.Context, token string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE hash = $1`
	return scanEvent(r.DB.QueryRowContext(ctx, query, token))
}

func (r *eventRepository) Update(ctx context.Context, id string, upd domain.EventUpdate) (*domain.Event, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	if upd.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", n))
		args = append(args, *upd.Name)
		n++
	}
	if upd.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", n))
		args = append(args, *upd.Description)
		n++
	}
	if upd.Location != nil {
		setClauses = append(setClauses, fmt.Sprintf("location = $%d", n))
		args = append(args, *upd.Location)
		n++
	}
	if upd.Time != nil {
		setClauses = append(setClauses, fmt.Sprintf("event_time = $%d", n))
		args = append(args, *upd.Time)
		n++
	}
	if n == 1 {
		// No fields to update; just fetch the current row.
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE events SET %s
		WHERE id = $%d
		RETURNING `+eventColumns,
		strings.Join(setClauses, ", "), n)
	return scanEvent(r.DB.QueryRowContext(ctx, query, args...))
}

func (r *eventRepository) SetMessageTemplate(ctx context.Context, id, text string) error {
	query := `UPDATE events SET message_template = $2, updated_at = NOW() WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id, text)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
