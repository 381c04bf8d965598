package credstore

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/mkorolev/whoopsync/internal/common"
	"github.com/mkorolev/whoopsync/internal/cryptox"
	"github.com/mkorolev/whoopsync/internal/models"
	"github.com/mkorolev/whoopsync/internal/repositories/migrations"
	"github.com/mkorolev/whoopsync/internal/repositories/tokens"
)

func setupStore(t *testing.T, secret string) (*Store, tokens.Repository) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.Up(db, "sqlite"))

	cipher, err := cryptox.New(secret)
	require.NoError(t, err)

	repo := tokens.NewSQLiteRepository(db)
	return New(repo, cipher), repo
}

func TestSaveLoad_Roundtrip(t *testing.T) {
	s, repo := setupStore(t, "hunter2")
	ctx := context.Background()

	expires := time.Date(2026, 8, 26, 18, 0, 0, 0, time.UTC)
	require.NoError(t, s.Save(ctx, &models.Token{
		AccessToken:  "access-plain",
		RefreshToken: "refresh-plain",
		ExpiresAt:    expires,
	}))

	// what hits the database is ciphertext, never the raw strings
	raw, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.True(t, cryptox.IsEncrypted(raw.AccessToken))
	assert.True(t, cryptox.IsEncrypted(raw.RefreshToken))
	assert.NotEqual(t, "access-plain", raw.AccessToken)

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-plain", got.AccessToken)
	assert.Equal(t, "refresh-plain", got.RefreshToken)
	assert.True(t, got.ExpiresAt.Equal(expires))
}

func TestLoad_Empty(t *testing.T) {
	s, _ := setupStore(t, "hunter2")
	_, err := s.Load(context.Background())
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSave_MissingSecret(t *testing.T) {
	s, _ := setupStore(t, "")
	err := s.Save(context.Background(), &models.Token{
		AccessToken:  "a",
		RefreshToken: "r",
		ExpiresAt:    time.Now(),
	})
	assert.ErrorIs(t, err, common.ErrEncryptionConfig)
}

func TestLoad_LegacyPlaintext(t *testing.T) {
	s, repo := setupStore(t, "hunter2")
	ctx := context.Background()

	// a row written before encryption was introduced
	require.NoError(t, repo.Save(ctx, &models.Token{
		AccessToken:  "legacy-access",
		RefreshToken: "legacy-refresh",
		ExpiresAt:    time.Now().Add(time.Hour),
	}))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "legacy-access", got.AccessToken)
	assert.Equal(t, "legacy-refresh", got.RefreshToken)

	// the next save seals it
	require.NoError(t, s.Save(ctx, got))
	raw, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.True(t, cryptox.IsEncrypted(raw.AccessToken))
}

func TestLoad_TamperedCiphertext(t *testing.T) {
	s, repo := setupStore(t, "hunter2")
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &models.Token{
		AccessToken:  "enc:v1:not-base64!!!",
		RefreshToken: "whatever",
		ExpiresAt:    time.Now(),
	}))

	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, common.ErrInvalidEncryptedPayload)
}
