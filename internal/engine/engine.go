package engine

import (
	"context"

	"github.com/law-makers/top100/pkg/models"
)

// Loader is the interface every page loader implements
type Loader interface {
	// Load obtains the page described by opts. Implementations must honour
	// ctx cancellation and opts.Timeout.
	Load(ctx context.Context, opts models.RequestOptions) (*models.Page, error)

	// Name returns the name of the loader implementation
	Name() string
}
