// AngelaMos | 2026
// repository_test.go

package event

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/instaiq-backend/internal/core"
)

var eventRowColumns = []string{
	"id", "image_url", "type", "date", "month", "title", "time",
	"location", "description", "created_at", "updated_at",
}

func newRepoWithMock(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(sqlx.NewDb(db, "pgx")), mock
}

func TestRepositoryList_TypeFilter(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`FROM events WHERE type = \$1 ORDER BY created_at DESC`).
		WithArgs(TypeUpcoming).
		WillReturnRows(sqlmock.NewRows(eventRowColumns).AddRow(
			workshopID, "https://img/ws.png", TypeUpcoming, "3", "Nov",
			"K8s Workshop", "10 AM", "Remote", "Hands-on", now, now,
		))

	events, err := repo.List(context.Background(), TypeUpcoming)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "K8s Workshop", events[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryList_NoFilter(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM events ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows(eventRowColumns))

	events, err := repo.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.NotNil(t, events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetByID_NoRows(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM events WHERE id = \$1`).
		WithArgs(meetupID).
		WillReturnRows(sqlmock.NewRows(eventRowColumns))

	_, err := repo.GetByID(context.Background(), meetupID)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryDelete_Malformed(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	err := repo.Delete(context.Background(), "nope")
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryUpdate_Missing(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`UPDATE events`).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}))

	err := repo.Update(context.Background(), &Event{ID: meetupID})
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
