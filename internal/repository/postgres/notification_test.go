package postgres_test

import (
	"context"
	"testing"
	"time"

	"hazel-marketplace/internal/domain"
	"hazel-marketplace/internal/repository"
	"hazel-marketplace/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepository(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewNotificationRepository(db)
	ctx := context.Background()

	t.Run("Create stores attributes as json", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO notifications").
			WithArgs(int32(4), "New rental", "Tent was rented", false, []byte(`{"order_ref":"HZL-TRX-1"}`), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

		n := &domain.Notification{UserID: 4, Title: "New rental", Message: "Tent was rented",
			Attributes: map[string]string{"order_ref": "HZL-TRX-1"}}
		require.NoError(t, repo.Create(ctx, n))
		assert.Equal(t, int32(11), n.ID)
		assert.False(t, n.CreatedOn.IsZero())
	})

	t.Run("List", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery("SELECT count\\(\\*\\) FROM notifications WHERE user_id = \\$1").
			WithArgs(int32(4)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
		mock.ExpectQuery("SELECT id, user_id, title, message, is_read, attributes, created_on FROM notifications").
			WithArgs(int32(4), int32(2), int32(0)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "message", "is_read", "attributes", "created_on"}).
				AddRow(11, 4, "New rental", "Tent was rented", false, []byte(`{"order_ref":"HZL-TRX-1"}`), now).
				AddRow(10, 4, "Rental completed", "Thanks", true, []byte(`{}`), now))

		notes, total, err := repo.List(ctx, 4, 2, 0)
		require.NoError(t, err)
		assert.Equal(t, int32(3), total)
		require.Len(t, notes, 2)
		assert.Equal(t, "HZL-TRX-1", notes[0].Attributes["order_ref"])
		assert.True(t, notes[1].IsRead)
	})

	t.Run("MarkAsRead of someone else's notification", func(t *testing.T) {
		mock.ExpectExec("UPDATE notifications SET is_read = TRUE").
			WithArgs(int32(11), int32(5)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		assert.ErrorIs(t, repo.MarkAsRead(ctx, 11, 5), repository.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
