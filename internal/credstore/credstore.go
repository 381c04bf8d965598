// Package credstore persists the OAuth token pair with both token strings
// encrypted at rest. It sits between the WHOOP gateway and the tokens
// repository and satisfies whoop.CredentialStore.
package credstore

import (
	"context"

	"github.com/mkorolev/whoopsync/internal/cryptox"
	"github.com/mkorolev/whoopsync/internal/models"
	"github.com/mkorolev/whoopsync/internal/repositories/tokens"
)

type Store struct {
	repo   tokens.Repository
	cipher *cryptox.Cipher
}

func New(repo tokens.Repository, cipher *cryptox.Cipher) *Store {
	return &Store{repo: repo, cipher: cipher}
}

// Save seals both token strings and writes the pair to the singleton row.
// Without an operator secret it fails with common.ErrEncryptionConfig
// rather than writing plaintext.
func (s *Store) Save(ctx context.Context, token *models.Token) error {
	access, err := s.cipher.Seal(token.AccessToken)
	if err != nil {
		return err
	}
	refresh, err := s.cipher.Seal(token.RefreshToken)
	if err != nil {
		return err
	}
	return s.repo.Save(ctx, &models.Token{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    token.ExpiresAt,
	})
}

// Load reads the stored pair and decrypts it. Legacy plaintext values pass
// through unchanged; they get sealed on the next Save.
func (s *Store) Load(ctx context.Context) (*models.Token, error) {
	stored, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	access, err := s.cipher.Open(stored.AccessToken)
	if err != nil {
		return nil, err
	}
	refresh, err := s.cipher.Open(stored.RefreshToken)
	if err != nil {
		return nil, err
	}
	return &models.Token{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    stored.ExpiresAt,
	}, nil
}
