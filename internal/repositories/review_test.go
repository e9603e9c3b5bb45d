package repositories

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sbilibin2017/gw-book-catalog/internal/models"
)

func TestReviewRepositories(t *testing.T) {
	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	log := zap.NewNop().Sugar()
	users := NewUserWriteRepository(db, nil, log)
	books := NewBookWriteRepository(db, nil, log)
	reader := NewReviewReadRepository(db, log)
	writer := NewReviewWriteRepository(db, nil, log)

	ctx := context.Background()

	alice, err := users.Save(ctx, "alice", "alice@example.com", "hashed", models.GenreHistory, models.RoleUser)
	require.NoError(t, err)
	bob, err := users.Save(ctx, "bob", "bob@example.com", "hashed", models.GenreSciFi, models.RoleUser)
	require.NoError(t, err)
	book, err := books.Save(ctx, "SPQR", "Mary Beard", models.GenreHistory, 2015)
	require.NoError(t, err)

	t.Run("average is nil without reviews", func(t *testing.T) {
		avg, err := reader.GetAverageRating(ctx, book.BookID)
		require.NoError(t, err)
		assert.Nil(t, avg)
	})

	t.Run("save and list", func(t *testing.T) {
		review, err := writer.Save(ctx, book.BookID, alice.UserID, 4, "solid")
		require.NoError(t, err)
		require.NotNil(t, review)
		assert.NotZero(t, review.ReviewID)

		_, err = writer.Save(ctx, book.BookID, bob.UserID, 5, "loved it")
		require.NoError(t, err)

		reviews, err := reader.ListByBookID(ctx, book.BookID)
		require.NoError(t, err)
		assert.Len(t, reviews, 2)
	})

	t.Run("average rating", func(t *testing.T) {
		avg, err := reader.GetAverageRating(ctx, book.BookID)
		require.NoError(t, err)
		require.NotNil(t, avg)
		assert.InDelta(t, 4.5, *avg, 0.0001)
	})

	t.Run("get by book and user", func(t *testing.T) {
		review, err := reader.GetByBookAndUser(ctx, book.BookID, alice.UserID)
		require.NoError(t, err)
		require.NotNil(t, review)
		assert.Equal(t, 4, review.Rating)

		none, err := reader.GetByBookAndUser(ctx, book.BookID, 999999)
		require.NoError(t, err)
		assert.Nil(t, none)
	})

	t.Run("second review by same user is rejected", func(t *testing.T) {
		_, err := writer.Save(ctx, book.BookID, alice.UserID, 2, "changed my mind")
		assert.ErrorIs(t, err, ErrAlreadyExists)
	})

	t.Run("rating outside range is rejected by the table", func(t *testing.T) {
		_, err := writer.Save(ctx, book.BookID, 999999, 6, "")
		assert.Error(t, err)
	})

	// Concurrent duplicate submissions race past any check-then-insert
	// logic; the unique constraint must let exactly one row through.
	t.Run("concurrent duplicates collapse to one row", func(t *testing.T) {
		racer, err := users.Save(ctx, "racer", "racer@example.com", "hashed", models.GenreMystery, models.RoleUser)
		require.NoError(t, err)
		target, err := books.Save(ctx, "Dune", "Frank Herbert", models.GenreSciFi, 1965)
		require.NoError(t, err)

		const attempts = 8
		errs := make([]error, attempts)

		var wg sync.WaitGroup
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = writer.Save(ctx, target.BookID, racer.UserID, 5, fmt.Sprintf("attempt %d", i))
			}(i)
		}
		wg.Wait()

		var ok, dup int
		for _, err := range errs {
			switch {
			case err == nil:
				ok++
			case assert.ErrorIs(t, err, ErrAlreadyExists):
				dup++
			}
		}
		assert.Equal(t, 1, ok)
		assert.Equal(t, attempts-1, dup)

		reviews, err := reader.ListByBookID(ctx, target.BookID)
		require.NoError(t, err)
		assert.Len(t, reviews, 1)
	})
}
