package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/techbuilddotgg/mycandys-carts-service/internal/cache"
	"github.com/techbuilddotgg/mycandys-carts-service/internal/catalog"
	"github.com/techbuilddotgg/mycandys-carts-service/internal/domain"
	"github.com/techbuilddotgg/mycandys-carts-service/internal/repository"
	"golang.org/x/sync/singleflight"
)

// CartService owns the price invariant: after every successful mutation the
// cart's full price equals the rounded sum of price*quantity over its items.
// Product existence is re-checked against the catalog on every item mutation,
// but the unit price captured when the item was first added is never replaced.
type CartService struct {
	repo    repository.CartRepository
	cache   cache.CartCache
	catalog catalog.ProductClient
	sfg     singleflight.Group // Prevents cache stampede on the read path
}

func NewCartService(repo repository.CartRepository, cache cache.CartCache, products catalog.ProductClient) *CartService {
	return &CartService{
		repo:    repo,
		cache:   cache,
		catalog: products,
	}
}

func (s *CartService) GetCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	// Use singleflight so concurrent cache misses for one cart hit the store once
	v, err, _ := s.sfg.Do(cartID, func() (interface{}, error) {

		cart, err := s.cache.Get(ctx, cartID)
		if err == nil {
			return cart, nil // cart is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		cart, errFind := s.repo.Find(ctx, cartID)
		if errFind != nil {
			return nil, errFind
		}

		go func() {
			if errSet := s.cache.Set(context.Background(), cartID, cart); errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return cart, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// AddProduct adds one unit of the product to the cart, creating the cart
// under the caller-supplied id when it does not exist yet. A repeated add
// merges into the existing item: the quantity grows and the unit price
// captured on first add is reused, never a fresh catalog price.
func (s *CartService) AddProduct(ctx context.Context, cartID, productID string) (*domain.Cart, error) {
	cart, err := s.repo.Find(ctx, cartID)
	if errors.Is(err, repository.ErrCartNotFound) {
		cart = domain.NewCart(cartID)
	} else if err != nil {
		return nil, err
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if item := cart.Item(productID); item != nil {
		item.Quantity++
		cart.AddPrice(item.Price)
	} else {
		unit := product.UnitPrice()
		cart.Items = append(cart.Items, domain.CartItem{
			ProductID: productID,
			Name:      product.Name,
			Price:     unit,
			ImgURL:    product.ImgURL,
			Quantity:  1,
		})
		cart.AddPrice(unit)
	}

	if err := s.repo.Save(ctx, cart); err != nil {
		log.Printf("repo save cart error: %v", err)
		return nil, err
	}

	s.invalidateCache(cartID)
	return cart, nil
}

// SetQuantity replaces the item's quantity. The cart, the catalog product and
// the cart item must all exist.
func (s *CartService) SetQuantity(ctx context.Context, cartID, productID string, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.repo.Find(ctx, cartID)
	if err != nil {
		return nil, err
	}

	if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	item := cart.Item(productID)
	if item == nil {
		return nil, ErrItemNotFound
	}

	cart.AddPrice(float64(quantity-item.Quantity) * item.Price)
	item.Quantity = quantity

	if err := s.repo.Save(ctx, cart); err != nil {
		log.Printf("repo save cart error: %v", err)
		return nil, err
	}

	s.invalidateCache(cartID)
	return cart, nil
}

// RemoveProduct drops the item entirely, whatever its quantity. Removing a
// product that is not in the cart is a no-op success as long as the cart and
// the catalog product exist.
func (s *CartService) RemoveProduct(ctx context.Context, cartID, productID string) (*domain.Cart, error) {
	cart, err := s.repo.Find(ctx, cartID)
	if err != nil {
		return nil, err
	}

	if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	item := cart.Item(productID)
	if item == nil {
		return cart, nil
	}

	cart.AddPrice(-item.Price * float64(item.Quantity))
	cart.RemoveItem(productID)

	if err := s.repo.Save(ctx, cart); err != nil {
		log.Printf("repo save cart error: %v", err)
		return nil, err
	}

	s.invalidateCache(cartID)
	return cart, nil
}

// DecrementProduct takes one unit off the item, removing it entirely when the
// quantity reaches zero.
func (s *CartService) DecrementProduct(ctx context.Context, cartID, productID string) (*domain.Cart, error) {
	cart, err := s.repo.Find(ctx, cartID)
	if err != nil {
		return nil, err
	}

	if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	item := cart.Item(productID)
	if item == nil {
		return nil, ErrItemNotFound
	}

	cart.AddPrice(-item.Price)
	if item.Quantity > 1 {
		item.Quantity--
	} else {
		cart.RemoveItem(productID)
	}

	if err := s.repo.Save(ctx, cart); err != nil {
		log.Printf("repo save cart error: %v", err)
		return nil, err
	}

	s.invalidateCache(cartID)
	return cart, nil
}

func (s *CartService) ClearCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	cart, err := s.repo.Find(ctx, cartID)
	if err != nil {
		return nil, err
	}

	cart.Clear()

	if err := s.repo.Save(ctx, cart); err != nil {
		log.Printf("repo save cart error: %v", err)
		return nil, err
	}

	s.invalidateCache(cartID)
	return cart, nil
}

// DeleteCart destroys the aggregate. Identity verification happens at the
// transport layer before this is called.
func (s *CartService) DeleteCart(ctx context.Context, cartID string) error {
	if err := s.repo.Delete(ctx, cartID); err != nil {
		return err
	}

	s.invalidateCache(cartID)
	return nil
}

func (s *CartService) invalidateCache(cartID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, cartID); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}
