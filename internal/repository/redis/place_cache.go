package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"travelDiscovery/business/place"
	"travelDiscovery/domain"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/pobyzaarif/goshortcute"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultDetailTTL = 5 * time.Minute
	DefaultSearchTTL = time.Minute
)

type PlaceCache struct {
	client    *redis.Client
	detailTTL time.Duration
	searchTTL time.Duration
}

var _ place.PlaceCache = (*PlaceCache)(nil)

func NewPlaceCache(client *redis.Client, detailTTL, searchTTL time.Duration) *PlaceCache {
	if detailTTL <= 0 {
		detailTTL = DefaultDetailTTL
	}
	if searchTTL <= 0 {
		searchTTL = DefaultSearchTTL
	}
	return &PlaceCache{
		client:    client,
		detailTTL: detailTTL,
		searchTTL: searchTTL,
	}
}

// key format: "place:detail:{place_id}"
func detailKey(id uuid.UUID) string {
	return fmt.Sprintf("place:detail:%s", id)
}

// key format: "place:search:{base64(filter json)}"
func searchKey(filter domain.PlaceSearchFilter) (string, error) {
	raw, err := json.Marshal(filter)
	if err != nil {
		return "", fmt.Errorf("failed to marshal search filter: %w", err)
	}
	return "place:search:" + goshortcute.StringtoBase64Encode(string(raw)), nil
}

func (c *PlaceCache) GetPlace(ctx context.Context, id uuid.UUID) (*domain.Place, error) {
	var p domain.Place
	found, err := c.get(ctx, detailKey(id), &p)
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}

func (c *PlaceCache) SetPlace(ctx context.Context, p domain.Place) error {
	return c.set(ctx, detailKey(p.ID), p, c.detailTTL)
}

func (c *PlaceCache) GetSearch(ctx context.Context, filter domain.PlaceSearchFilter) (*domain.PlaceSearchResult, error) {
	key, err := searchKey(filter)
	if err != nil {
		return nil, err
	}

	var result domain.PlaceSearchResult
	found, err := c.get(ctx, key, &result)
	if err != nil || !found {
		return nil, err
	}
	return &result, nil
}

func (c *PlaceCache) SetSearch(ctx context.Context, filter domain.PlaceSearchFilter, result domain.PlaceSearchResult) error {
	key, err := searchKey(filter)
	if err != nil {
		return err
	}
	return c.set(ctx, key, result, c.searchTTL)
}

func (c *PlaceCache) get(ctx context.Context, key string, dst any) (bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get %s from Redis: %w", key, err)
	}

	if err := json.Unmarshal(val, dst); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached value: %w", err)
	}
	return true, nil
}

func (c *PlaceCache) set(ctx context.Context, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store %s in Redis: %w", key, err)
	}
	return nil
}
