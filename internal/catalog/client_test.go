package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techbuilddotgg/mycandys-carts-service/internal/correlation"
)

func TestGetProduct_Success(t *testing.T) {
	var gotPath, gotCorrelation string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotCorrelation = r.Header.Get(correlation.Header)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"P1","name":"Gummy Bears","price":10.00,"temporaryPrice":-1,"imgUrl":"http://img/p1.png"}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL)
	ctx := correlation.WithID(context.Background(), "corr-123")

	product, err := client.GetProduct(ctx, "P1")
	require.NoError(t, err)

	assert.Equal(t, "/products/P1", gotPath)
	assert.Equal(t, "corr-123", gotCorrelation)
	assert.Equal(t, "Gummy Bears", product.Name)
	assert.Equal(t, 10.0, product.Price)
	assert.Equal(t, float64(NoDiscount), product.TemporaryPrice)
}

func TestGetProduct_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL)
	product, err := client.GetProduct(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Nil(t, product)
}

func TestGetProduct_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL)
	_, err := client.GetProduct(context.Background(), "P1")

	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGetProduct_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // closed before use

	client := NewHTTPClient(srv.URL)
	_, err := client.GetProduct(context.Background(), "P1")

	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestUnitPrice(t *testing.T) {
	noDiscount := Product{Price: 10.00, TemporaryPrice: NoDiscount}
	assert.Equal(t, 10.00, noDiscount.UnitPrice())

	discounted := Product{Price: 10.00, TemporaryPrice: 7.50}
	assert.Equal(t, 7.50, discounted.UnitPrice())

	// A zero temporary price is a full discount, not the sentinel
	free := Product{Price: 10.00, TemporaryPrice: 0}
	assert.Equal(t, 0.0, free.UnitPrice())
}
