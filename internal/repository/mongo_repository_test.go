package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techbuilddotgg/mycandys-carts-service/internal/domain"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

func setupTestDB(t *testing.T) (CartRepository, func()) {
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := ConnectMongoDB(ctx, uri, "testdb")
	require.NoError(t, err)

	cleanup := func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return NewMongoRepository(db), cleanup
}

func TestFind_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	cart, err := repo.Find(context.Background(), "nonexistent")

	assert.ErrorIs(t, err, ErrCartNotFound)
	assert.Nil(t, cart)
}

func TestSave_CreatesCart(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	cart := domain.NewCart("cart123")
	cart.Items = append(cart.Items, domain.CartItem{
		ProductID: "P1",
		Name:      "Gummy Bears",
		Price:     10.00,
		ImgURL:    "http://img/p1.png",
		Quantity:  1,
	})
	cart.FullPrice = 10.00

	require.NoError(t, repo.Save(ctx, cart))
	assert.False(t, cart.CreatedAt.IsZero())

	found, err := repo.Find(ctx, "cart123")
	require.NoError(t, err)
	assert.Equal(t, "cart123", found.ID)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "P1", found.Items[0].ProductID)
	assert.Equal(t, 10.00, found.FullPrice)
}

func TestSave_ReplacesWholeAggregate(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	cart := domain.NewCart("cart123")
	cart.Items = append(cart.Items, domain.CartItem{ProductID: "P1", Price: 10.00, Quantity: 2})
	cart.FullPrice = 20.00
	require.NoError(t, repo.Save(ctx, cart))

	// Last writer wins: the second save fully replaces the first document
	replacement := domain.NewCart("cart123")
	replacement.Items = append(replacement.Items, domain.CartItem{ProductID: "P2", Price: 3.33, Quantity: 1})
	replacement.FullPrice = 3.33
	require.NoError(t, repo.Save(ctx, replacement))

	found, err := repo.Find(ctx, "cart123")
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "P2", found.Items[0].ProductID)
	assert.Equal(t, 3.33, found.FullPrice)
}

func TestDelete(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, domain.NewCart("cart123")))

	require.NoError(t, repo.Delete(ctx, "cart123"))

	_, err := repo.Find(ctx, "cart123")
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestDelete_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.Delete(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrCartNotFound)
}
