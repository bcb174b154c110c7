package geocache

import (
	"context"
	"errors"
	"strings"

	"go.openly.dev/pointy"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"starburger.dev/FoodCart/pkg/geocoder"
	"starburger.dev/FoodCart/pkg/model"
	"starburger.dev/FoodCart/pkg/repository"
)

var ErrEmptyAddress = errors.New("empty address")

type placeRepository interface {
	FindPlaceByAddress(ctx context.Context, address string) (*model.Place, error)
	UpsertPlace(ctx context.Context, place model.Place) (*model.Place, error)
}

// Cache is the durable geocode cache: one Place row per normalized
// address, with the provider consulted only on miss. It is not
// memory-resident; every lookup is a store read.
type Cache struct {
	places   placeRepository
	geocoder geocoder.Geocoder
	logger   *zap.Logger
}

func New(places placeRepository, coder geocoder.Geocoder, logger *zap.Logger) *Cache {
	return &Cache{places: places, geocoder: coder, logger: logger}
}

// NormalizeAddress maps an address to its cache key: surrounding
// whitespace trimmed, internal runs collapsed to single spaces. The same
// form is used on every read and write path.
func NormalizeAddress(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// Resolve returns the Place for the address, calling the provider at most
// once on a cache miss. A provider failure is logged and absorbed: the
// Place is still upserted, just without coordinates, so the owning record
// can save and the next save retries the geocode. The returned error is
// only ever a storage error.
func (c *Cache) Resolve(ctx context.Context, rawAddress string) (*model.Place, error) {
	address := NormalizeAddress(rawAddress)
	if address == "" {
		return nil, ErrEmptyAddress
	}

	place, err := c.places.FindPlaceByAddress(ctx, address)
	if err == nil && place.HasCoordinates() {
		return place, nil
	}

	if err != nil && !errors.Is(err, repository.ErrPlaceNotFound) {
		return nil, err
	}

	return c.fetchAndStore(ctx, address)
}

// Refresh always consults the provider, bypassing the cache-hit path. It
// backs explicit re-geocoding of an edited Place row. Unlike Resolve, a
// provider failure here does not overwrite stored coordinates: the
// existing row is returned untouched.
func (c *Cache) Refresh(ctx context.Context, rawAddress string) (*model.Place, error) {
	address := NormalizeAddress(rawAddress)
	if address == "" {
		return nil, ErrEmptyAddress
	}

	lon, lat, geoErr := c.geocoder.Geocode(ctx, address)
	if geoErr != nil {
		c.logger.Warn("could not re-geocode address, keeping stored coordinates",
			zap.String("address", address), zap.Error(geoErr))

		place, err := c.places.FindPlaceByAddress(ctx, address)
		if err != nil {
			return nil, multierr.Append(err, geoErr)
		}

		return place, nil
	}

	fresh := model.Place{Address: address, Lon: pointy.Float64(lon), Lat: pointy.Float64(lat)}

	return c.places.UpsertPlace(ctx, fresh)
}

func (c *Cache) fetchAndStore(ctx context.Context, address string) (*model.Place, error) {
	fresh := model.Place{Address: address}

	lon, lat, geoErr := c.geocoder.Geocode(ctx, address)
	if geoErr != nil {
		c.logger.Warn("could not geocode address, storing place without coordinates",
			zap.String("address", address), zap.Error(geoErr))
	} else {
		fresh.Lon = pointy.Float64(lon)
		fresh.Lat = pointy.Float64(lat)
	}

	stored, err := c.places.UpsertPlace(ctx, fresh)
	if err != nil {
		return nil, multierr.Append(err, geoErr)
	}

	return stored, nil
}
