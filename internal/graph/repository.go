package graph

import (
	"context"

	"github.com/osland/kerneldeps/internal/kernel"
)

// Repository provides graph storage for kernel structures.
type Repository interface {
	// StoreStructure persists the components and dependency edges of a
	// kernel structure.
	StoreStructure(ctx context.Context, st *kernel.Structure) error
	// LoadStructure retrieves the stored structure by name.
	LoadStructure(ctx context.Context, name string) (*kernel.Structure, error)
	// QueryDependents returns the components that depend on the given
	// component.
	QueryDependents(ctx context.Context, component string) ([]string, error)
	// Close releases resources.
	Close(ctx context.Context) error
}
