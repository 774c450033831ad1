package product

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) GetProductByID(ctx context.Context, id string) (*Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func TestService_GetProductByID(t *testing.T) {
	ctx := context.Background()

	t.Run("CachesWithinTTL", func(t *testing.T) {
		src := new(MockCatalog)
		src.On("GetProductByID", ctx, "roti").Return(&Product{ID: "roti", Price: 1000}, nil).Once()

		svc := NewService(src, time.Minute)

		p1, err := svc.GetProductByID(ctx, "roti")
		require.NoError(t, err)
		p2, err := svc.GetProductByID(ctx, "roti")
		require.NoError(t, err)

		assert.Equal(t, int64(1000), p1.Price)
		assert.Same(t, p1, p2)
		src.AssertExpectations(t)
	})

	t.Run("RefetchesAfterTTL", func(t *testing.T) {
		src := new(MockCatalog)
		src.On("GetProductByID", ctx, "roti").Return(&Product{ID: "roti", Price: 1000}, nil).Twice()

		now := time.Now()
		svc := NewService(src, time.Minute).(*service)
		svc.now = func() time.Time { return now }

		_, err := svc.GetProductByID(ctx, "roti")
		require.NoError(t, err)

		now = now.Add(2 * time.Minute)
		_, err = svc.GetProductByID(ctx, "roti")
		require.NoError(t, err)

		src.AssertExpectations(t)
	})

	t.Run("Invalidate", func(t *testing.T) {
		src := new(MockCatalog)
		src.On("GetProductByID", ctx, "roti").Return(&Product{ID: "roti"}, nil).Twice()

		svc := NewService(src, time.Hour)
		_, _ = svc.GetProductByID(ctx, "roti")
		svc.Invalidate("roti")
		_, _ = svc.GetProductByID(ctx, "roti")

		src.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		src := new(MockCatalog)
		src.On("GetProductByID", ctx, "ghost").Return(nil, ErrProductNotFound)

		svc := NewService(src, time.Hour)
		p, err := svc.GetProductByID(ctx, "ghost")

		assert.Nil(t, p)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("SourceError", func(t *testing.T) {
		src := new(MockCatalog)
		src.On("GetProductByID", ctx, "roti").Return(nil, errors.New("db down"))

		svc := NewService(src, time.Hour)
		_, err := svc.GetProductByID(ctx, "roti")
		assert.EqualError(t, err, "db down")
	})

	t.Run("ConcurrentMisses", func(t *testing.T) {
		svc := NewService(DefaultCatalog(), time.Hour)

		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				p, err := svc.GetProductByID(ctx, "croissant-butter")
				assert.NoError(t, err)
				assert.Equal(t, "Butter Croissant", p.Name)
			}()
		}
		wg.Wait()
	})
}

func TestService_List(t *testing.T) {
	svc := NewService(DefaultCatalog(), time.Hour)
	products, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, products)

	noList := NewService(new(MockCatalog), time.Hour)
	products, err = noList.List(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, products)
}

func TestStaticCatalog(t *testing.T) {
	ctx := context.Background()
	c := NewStaticCatalog(&Product{ID: "a", Name: "A", Price: 10, Status: StatusActive})

	p, err := c.GetProductByID(ctx, "a")
	require.NoError(t, err)
	p.Price = 99

	again, _ := c.GetProductByID(ctx, "a")
	assert.Equal(t, int64(10), again.Price, "callers get a copy")

	c.Put(&Product{ID: "b", Name: "B", Status: StatusDisable})
	active, _ := c.List(ctx, true)
	assert.Len(t, active, 1)
	all, _ := c.List(ctx, false)
	assert.Len(t, all, 2)

	_, err = c.GetProductByID(ctx, "zzz")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestSellingConfig_Has(t *testing.T) {
	var nilCfg *SellingConfig
	assert.False(t, nilCfg.Has(ModePiece))

	cfg := &SellingConfig{Modes: []Mode{ModeWhole}}
	assert.True(t, cfg.Has(ModeWhole))
	assert.False(t, cfg.Has(ModeBundle))
}

func TestProduct_UnitLabel(t *testing.T) {
	var nilProduct *Product
	assert.Equal(t, "pcs", nilProduct.UnitLabel())
	assert.Equal(t, "pcs", (&Product{}).UnitLabel())
	assert.Equal(t, "loyang", (&Product{Unit: "loyang"}).UnitLabel())
}
