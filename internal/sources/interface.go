package sources

import (
	"context"

	"github.com/azure/reddit-analyzer/internal/models"
)

// Source interface defines the contract for listing providers
type Source interface {
	GetName() string
	Fetch(ctx context.Context, spec *models.FetchSpec) (*models.Listing, error)
}
