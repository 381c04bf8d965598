package tokens

import (
	"context"

	"github.com/mkorolev/whoopsync/internal/models"
)

// Repository persists the single active OAuth credential pair. Values are
// stored exactly as given; encryption happens a layer above, in credstore.
type Repository interface {
	// Save replaces the singleton credential row.
	Save(ctx context.Context, token *models.Token) error

	// Get returns the stored credential pair, or common.ErrNotFound when
	// nothing has been saved yet.
	Get(ctx context.Context) (*models.Token, error)
}
