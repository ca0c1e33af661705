package postgres

import (
	"context"
	"database/sql"
	"errors"

	"rsvphub/internal/domain"
)

type guestRepository struct {
	DB *sql.DB
}

func NewGuestRepository(db *sql.DB) domain.GuestRepository {
	return &guestRepository{
		DB: db,
	}
}

const guestColumns = `id, hash, event_id, name, email, reply, heads, comments, emails_sent, created_at, updated_at`

func scanGuest(row interface{ Scan(...any) error }) (*domain.Guest, error) {
	g := &domain.Guest{}
	var hashNull, replyNull sql.NullString
	err := row.Scan(
		&g.ID, &hashNull, &g.EventID, &g.Name, &g.Email,
		&replyNull, &g.Heads, &g.Comments, &g.EmailsSent, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if hashNull.Valid {
		g.Token = hashNull.String
	}
	if replyNull.Valid {
		g.Reply = domain.Reply(replyNull.String)
	}
	return g, nil
}

func (r *guestRepository) Create(ctx context.Context, g *domain.Guest) error {
	query := `
		INSERT INTO guests (event_id, name, email, heads, comments, emails_sent, created_at, updated_at)
		VALUES ($1, $2, $3, 0, '', 0, $4, $5)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		g.EventID, g.Name, g.Email, g.CreatedAt, g.UpdatedAt,
	).Scan(&g.ID)
}

func (r *guestRepository) SetToken(ctx context.Context, id, token string) error {
	query := `UPDATE guests SET hash = $2, updated_at = NOW() WHERE id = $1`
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

func (r *guestRepository) GetByID(ctx context.Context, id string) (*domain.Guest, error) {
	query := `SELECT ` + guestColumns + ` FROM guests WHERE id = $1`
	return scanGuest(r.DB.QueryRowContext(ctx, query, id))
}

func (r *guestRepository) GetByToken(ctx context.Context, token string) (*domain.Guest, error) {
	query := `SELECT ` + guestColumns + ` FROM guests WHERE hash = $1`
	return scanGuest(r.DB.QueryRowContext(ctx, query, token))
}

// ListByEventID returns the event's guests in insertion order. Reply
// ordering and grouping are the summary's job, not the repository's.
func (r *guestRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Guest, error) {
	query := `
		SELECT ` + guestColumns + `
		FROM guests
		WHERE event_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	guests := make([]*domain.Guest, 0)
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, err
		}
		guests = append(guests, g)
	}
	return guests, rows.Err()
}

// SetReply writes the (reply, heads, comments) triple in one statement so
// a concurrent unreply or edit can never leave a torn combination behind.
func (r *guestRepository) SetReply(ctx context.Context, id string, reply domain.Reply, heads int, comments string) error {
	query := `UPDATE guests SET reply = $2, heads = $3, comments = $4, updated_at = NOW() WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id, string(reply), heads, comments)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ClearReply resets the triple to its unset sentinel in one statement.
// An unreplied guest lands in the "no reply" tally, not the "No" one.
func (r *guestRepository) ClearReply(ctx context.Context, id string) error {
	query := `UPDATE guests SET reply = NULL, heads = 0, comments = '', updated_at = NOW() WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *guestRepository) UpdateName(ctx context.Context, id, name string) error {
	query := `UPDATE guests SET name = $2, updated_at = NOW() WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id, name)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateEmail changes the guest's address and zeroes emails_sent in the
// same statement: a changed address has, as far as we know, never been
// notified.
func (r *guestRepository) UpdateEmail(ctx context.Context, id, email string) error {
	query := `UPDATE guests SET email = $2, emails_sent = 0, updated_at = NOW() WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id, email)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *guestRepository) IncrementEmailsSent(ctx context.Context, id string) error {
	query := `UPDATE guests SET emails_sent = emails_sent + 1, updated_at = NOW() WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *guestRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM guests WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
