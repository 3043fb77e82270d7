package assistant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cogitex/rfbooking/models"
)

func TestCacheLoadsOnce(t *testing.T) {
	loads := 0
	c := NewCatalogCache(time.Hour, func(ctx context.Context) ([]models.Equipment, error) {
		loads++
		return []models.Equipment{eq("1", "A", "")}, nil
	})
	for i := 0; i < 3; i++ {
		items, err := c.Get(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if len(items) != 1 {
			t.Fatalf("items = %+v", items)
		}
	}
	if loads != 1 {
		t.Fatalf("loads = %d", loads)
	}
}

func TestCacheReloadsAfterTTL(t *testing.T) {
	loads := 0
	c := NewCatalogCache(10*time.Millisecond, func(ctx context.Context) ([]models.Equipment, error) {
		loads++
		return []models.Equipment{eq("1", "A", "")}, nil
	})
	c.Get(context.Background())
	time.Sleep(20 * time.Millisecond)
	c.Get(context.Background())
	if loads != 2 {
		t.Fatalf("loads = %d", loads)
	}
}

func TestCacheInvalidateForcesReload(t *testing.T) {
	loads := 0
	c := NewCatalogCache(time.Hour, func(ctx context.Context) ([]models.Equipment, error) {
		loads++
		return []models.Equipment{eq("1", "A", "")}, nil
	})
	c.Get(context.Background())
	c.Invalidate()
	c.Get(context.Background())
	if loads != 2 {
		t.Fatalf("loads = %d", loads)
	}
}

func TestCacheLoaderErrorPropagates(t *testing.T) {
	boom := errors.New("db down")
	c := NewCatalogCache(time.Hour, func(ctx context.Context) ([]models.Equipment, error) {
		return nil, boom
	})
	if _, err := c.Get(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}
