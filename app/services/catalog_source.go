package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/devrodri-com/mutter-games-dev/app/models"
	"github.com/devrodri-com/mutter-games-dev/app/repositories"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	catalogCacheKey = "catalog:products:active"
	catalogCacheTTL = 5 * time.Minute
)

// CachedProductSource fronts the product repository for the catalog views.
// Page fetches pass straight through; the search-mode full-collection fetch
// is cached in Redis and deduped with singleflight, since every visitor
// entering search mode would otherwise pull the whole collection at once.
// Redis failures degrade silently to the repository.
type CachedProductSource struct {
	repo  repositories.ProductRepositoryImpl
	rdb   *redis.Client
	group singleflight.Group
}

func NewCachedProductSource(repo repositories.ProductRepositoryImpl, rdb *redis.Client) *CachedProductSource {
	return &CachedProductSource{repo: repo, rdb: rdb}
}

func (s *CachedProductSource) FetchPage(ctx context.Context, filters repositories.CatalogFilters, cursor string, limit int) (*repositories.ProductPage, error) {
	return s.repo.FetchPage(ctx, filters, cursor, limit)
}

func (s *CachedProductSource) FetchAllActive(ctx context.Context) ([]models.Product, error) {
	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, catalogCacheKey).Bytes()
		if err == nil {
			var products []models.Product
			if jerr := json.Unmarshal(raw, &products); jerr == nil {
				return products, nil
			}
		} else if err != redis.Nil {
			log.Printf("CachedProductSource: cache read failed: %v", err)
		}
	}

	res, err, _ := s.group.Do(catalogCacheKey, func() (interface{}, error) {
		products, err := s.repo.FetchAllActive(ctx)
		if err != nil {
			return nil, err
		}
		if s.rdb != nil {
			if raw, jerr := json.Marshal(products); jerr == nil {
				if cerr := s.rdb.Set(ctx, catalogCacheKey, raw, catalogCacheTTL).Err(); cerr != nil {
					log.Printf("CachedProductSource: cache write failed: %v", cerr)
				}
			}
		}
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return res.([]models.Product), nil
}

// Invalidate drops the cached collection; admin product mutations call it.
func (s *CachedProductSource) Invalidate(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, catalogCacheKey).Err(); err != nil {
		log.Printf("CachedProductSource: cache invalidation failed: %v", err)
	}
}
