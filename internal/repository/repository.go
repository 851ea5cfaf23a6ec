package repository

import (
	"context"

	"github.com/techbuilddotgg/mycandys-carts-service/internal/domain"
)

// CartRepository defines the interface for cart storage operations
// Consumers depend on this interface, not the MongoDB implementation
type CartRepository interface {
	Find(ctx context.Context, cartID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, cartID string) error
}
