//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"

	"github.com/blokmap/blokmap-api/internal/domain"
	"github.com/blokmap/blokmap-api/internal/platform/postgres"
	"github.com/blokmap/blokmap-api/internal/store"
	"github.com/blokmap/blokmap-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	os.Exit(testdb.SetupTestMain(context.Background(), m))
}

func TestIntegration_UserStore(t *testing.T) {
	testdb.WithTx(t, testdb.DB(t), func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		userStore := postgres.NewPostgresUserStore(tx, nil)

		user := newTestUser()
		require.NoError(t, userStore.Create(ctx, user))
		assert.NotZero(t, user.ID)
		assert.False(t, user.CreatedAt.IsZero())

		byName, err := userStore.GetByUsername(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byName.ID)
		assert.Equal(t, user.HashedPassword, byName.HashedPassword)

		byID, err := userStore.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "bob@example.com", byID.Email)

		_, err = userStore.GetByID(ctx, user.ID+1000)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestIntegration_UserStoreDuplicateEmail(t *testing.T) {
	testdb.WithTx(t, testdb.DB(t), func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		userStore := postgres.NewPostgresUserStore(tx, nil)

		require.NoError(t, userStore.Create(ctx, newTestUser()))

		other := newTestUser()
		other.Username = "alice"
		err := userStore.Create(ctx, other)
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})
}

func TestIntegration_TranslationStore(t *testing.T) {
	testdb.WithTx(t, testdb.DB(t), func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		ts := postgres.NewPostgresTranslationStore(tx, nil)

		require.NoError(t, ts.CreateMultiple(ctx, []*domain.Translation{
			{Key: "k", Language: domain.LanguageDE, Text: "Hallo"},
			{Key: "k", Language: domain.LanguageEN, Text: "Hello"},
			{Key: "k", Language: domain.LanguageNL, Text: "Hoi"},
		}))

		listed, err := ts.GetByKey(ctx, "k")
		require.NoError(t, err)
		require.Len(t, listed, 3)
		assert.Equal(t, []domain.Language{domain.LanguageNL, domain.LanguageEN, domain.LanguageDE},
			[]domain.Language{listed[0].Language, listed[1].Language, listed[2].Language})

		existing, err := ts.ExistingLanguages(ctx, "k", []domain.Language{domain.LanguageFR, domain.LanguageEN})
		require.NoError(t, err)
		assert.Equal(t, []domain.Language{domain.LanguageEN}, existing)

		n, err := ts.Delete(ctx, "k", domain.LanguageEN)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		_, err = ts.Get(ctx, "k", domain.LanguageEN)
		assert.ErrorIs(t, err, store.ErrTranslationNotFound)

		n, err = ts.DeleteByKey(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})
}

func TestIntegration_TranslationUniqueConstraint(t *testing.T) {
	testdb.WithTx(t, testdb.DB(t), func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		ts := postgres.NewPostgresTranslationStore(tx, nil)

		require.NoError(t, ts.Create(ctx, &domain.Translation{Key: "k", Language: domain.LanguageEN, Text: "Hello"}))
		err := ts.Create(ctx, &domain.Translation{Key: "k", Language: domain.LanguageEN, Text: "Hi"})
		assert.ErrorIs(t, err, store.ErrTranslationExists)
	})
}

// Concurrent writers for one key are serialized by LockKey, so exactly one
// of them sees the language as free.
func TestIntegration_LockKeySerializesWriters(t *testing.T) {
	db := testdb.DB(t)
	testdb.Truncate(t, db, "translation")
	t.Cleanup(func() { testdb.Truncate(t, db, "translation") })

	ts := postgres.NewPostgresTranslationStore(db, nil)
	transactor := postgres.NewTransactor(db)

	const writers = 4
	var wg sync.WaitGroup
	results := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- transactor.RunInTransaction(context.Background(), func(ctx context.Context, tx *sql.Tx) error {
				txStore := ts.WithTx(tx)
				if err := txStore.LockKey(ctx, "race"); err != nil {
					return err
				}
				existing, err := txStore.ExistingLanguages(ctx, "race", []domain.Language{domain.LanguageEN})
				if err != nil {
					return err
				}
				if len(existing) > 0 {
					return store.ErrTranslationExists
				}
				return txStore.Create(ctx, &domain.Translation{Key: "race", Language: domain.LanguageEN, Text: "Hello"})
			})
		}()
	}
	wg.Wait()
	close(results)

	var created, conflicts int
	for err := range results {
		switch {
		case err == nil:
			created++
		case store.IsDuplicateError(err):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, writers-1, conflicts)
}
