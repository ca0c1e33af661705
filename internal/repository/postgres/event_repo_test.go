package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"rsvphub/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func eventRows(e *domain.Event) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "hash", "name", "description", "location", "organizer_id",
		"event_time", "message_template", "created_at", "updated_at",
	}).AddRow(
		e.ID, e.Token, e.Name, e.Description, e.Location, e.OrganizerID,
		e.Time, e.MessageTemplate, e.CreatedAt, e.UpdatedAt,
	)
}

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		event   *domain.Event
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr bool
	}{
		{
			name: "success",
			event: &domain.Event{
				Name:        "Picnic",
				Description: "In the park",
				Location:    "Riverside",
				Time:        at,
				CreatedAt:   at,
				UpdatedAt:   at,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events \(name, description, location, event_time, message_template, created_at, updated_at\)`).
					WithArgs("Picnic", "In the park", "Riverside", at, "", at, at).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ev-uuid-1"))
			},
			wantID:  "ev-uuid-1",
			wantErr: false,
		},
		{
			name:  "db error",
			event: &domain.Event{Name: "Picnic", Time: at, CreatedAt: at, UpdatedAt: at},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Create(ctx, tt.event)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.event.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_SetToken(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE events SET hash = \$2, updated_at = NOW\(\) WHERE id = \$1`).
					WithArgs("ev-1", "tok").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE events SET hash`).
					WithArgs("ev-1", "tok").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.SetToken(ctx, "ev-1", "tok")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_SetOrganizer(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE events SET organizer_id = \$2, updated_at = NOW\(\) WHERE id = \$1 AND organizer_id IS NULL`).
			WithArgs("ev-1", "g-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewEventRepository(db)
		require.NoError(t, repo.SetOrganizer(ctx, "ev-1", "g-1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already set", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE events SET organizer_id`).
			WithArgs("ev-1", "g-2").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT id, hash, name, description, location, organizer_id, event_time, message_template, created_at, updated_at FROM events WHERE id = \$1`).
			WithArgs("ev-1").
			WillReturnRows(eventRows(&domain.Event{
				ID: "ev-1", Token: "tok", Name: "Picnic", OrganizerID: "g-1",
				Time: at, CreatedAt: at, UpdatedAt: at,
			}))

		repo := NewEventRepository(db)
		require.ErrorIs(t, repo.SetOrganizer(ctx, "ev-1", "g-2"), domain.ErrInvalidOperation)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("event missing", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE events SET organizer_id`).
			WithArgs("ev-x", "g-1").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT .* FROM events WHERE id = \$1`).
			WithArgs("ev-x").
			WillReturnError(sql.ErrNoRows)

		repo := NewEventRepository(db)
		require.ErrorIs(t, repo.SetOrganizer(ctx, "ev-x", "g-1"), domain.ErrNotFound)
	})
}

func TestEventRepository_GetByToken(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		token   string
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr error
	}{
		{
			name:  "success",
			token: "tok-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, hash, name, description, location, organizer_id, event_time, message_template, created_at, updated_at FROM events WHERE hash = \$1`).
					WithArgs("tok-1").
					WillReturnRows(eventRows(&domain.Event{
						ID: "ev-1", Token: "tok-1", Name: "Picnic", OrganizerID: "g-1",
						Time: at, CreatedAt: at, UpdatedAt: at,
					}))
			},
			wantID: "ev-1",
		},
		{
			name:  "not found",
			token: "tok-x",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .* FROM events WHERE hash = \$1`).
					WithArgs("tok-x").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			event, err := repo.GetByToken(ctx, tt.token)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, event.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_Update(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	name := "Summer Picnic"
	location := "Lakeside"

	t.Run("partial update", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE events SET updated_at = NOW\(\), name = \$1, location = \$2\s+WHERE id = \$3\s+RETURNING`).
			WithArgs(name, location, "ev-1").
			WillReturnRows(eventRows(&domain.Event{
				ID: "ev-1", Token: "tok", Name: name, Location: location,
				OrganizerID: "g-1", Time: at, CreatedAt: at, UpdatedAt: at,
			}))

		repo := NewEventRepository(db)
		updated, err := repo.Update(ctx, "ev-1", domain.EventUpdate{Name: &name, Location: &location})
		require.NoError(t, err)
		require.Equal(t, name, updated.Name)
		require.Equal(t, location, updated.Location)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no fields falls back to fetch", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT .* FROM events WHERE id = \$1`).
			WithArgs("ev-1").
			WillReturnRows(eventRows(&domain.Event{
				ID: "ev-1", Token: "tok", Name: "Picnic", OrganizerID: "g-1",
				Time: at, CreatedAt: at, UpdatedAt: at,
			}))

		repo := NewEventRepository(db)
		updated, err := repo.Update(ctx, "ev-1", domain.EventUpdate{})
		require.NoError(t, err)
		require.Equal(t, "Picnic", updated.Name)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEventRepository_SetMessageTemplate(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE events SET message_template = \$2, updated_at = NOW\(\) WHERE id = \$1`).
		WithArgs("ev-1", "Bring snacks!").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewEventRepository(db)
	require.NoError(t, repo.SetMessageTemplate(ctx, "ev-1", "Bring snacks!"))
	require.NoError(t, mock.ExpectationsWereMet())
}
