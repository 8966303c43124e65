package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const locationKey = "driver:locations"

// LocationStore keeps live driver positions in a Redis GEO index.
// Postgres keeps the last known position for history; this store serves
// the frequently-updated live value.
type LocationStore struct {
	client *redis.Client
}

// NewLocationStore creates a new LocationStore.
func NewLocationStore(client *redis.Client) *LocationStore {
	return &LocationStore{client: client}
}

// UpdateLocation stores the driver's current position.
func (s *LocationStore) UpdateLocation(ctx context.Context, driverID string, lat, lng float64) error {
	return s.client.GeoAdd(ctx, locationKey, &redis.GeoLocation{
		Name:      driverID,
		Latitude:  lat,
		Longitude: lng,
	}).Err()
}

// GetLocation returns the driver's current position. ok is false when the
// driver has never reported a position.
func (s *LocationStore) GetLocation(ctx context.Context, driverID string) (float64, float64, bool, error) {
	positions, err := s.client.GeoPos(ctx, locationKey, driverID).Result()
	if err != nil {
		return 0, 0, false, fmt.Errorf("geopos %s: %w", driverID, err)
	}
	if len(positions) == 0 || positions[0] == nil {
		return 0, 0, false, nil
	}
	return positions[0].Latitude, positions[0].Longitude, true, nil
}

// RemoveLocation drops the driver from the index.
func (s *LocationStore) RemoveLocation(ctx context.Context, driverID string) error {
	return s.client.ZRem(ctx, locationKey, driverID).Err()
}
