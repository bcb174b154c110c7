package lifecycle

import (
	"context"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"starburger.dev/FoodCart/pkg/geocache"
	"starburger.dev/FoodCart/pkg/model"
)

type placeResolver interface {
	Resolve(ctx context.Context, rawAddress string) (*model.Place, error)
	Refresh(ctx context.Context, rawAddress string) (*model.Place, error)
}

type entityRepository interface {
	GetRestaurantByID(ctx context.Context, restaurantID uint) (*model.Restaurant, error)
	SaveRestaurant(ctx context.Context, restaurant *model.Restaurant) error
	DeleteRestaurant(ctx context.Context, restaurantID uint) error
	GetOrderByID(ctx context.Context, orderID uint) (*model.Order, error)
	SaveOrder(ctx context.Context, order *model.Order) error
	DeleteOrder(ctx context.Context, orderID uint) error
	DeletePlaceByAddress(ctx context.Context, address string) error
}

// Manager wires the admin save/delete hooks to the geocode cache: saving a
// Restaurant or Order resolves its address into a Place, deleting one
// vacates the Place for its address.
type Manager struct {
	repo     entityRepository
	resolver placeResolver
	logger   *zap.Logger
}

func NewManager(repo entityRepository, resolver placeResolver, logger *zap.Logger) *Manager {
	return &Manager{repo: repo, resolver: resolver, logger: logger}
}

// SaveRestaurant resolves the restaurant's address through the geocode
// cache and attaches the Place before persisting. A failed geocode does
// not block the save; the restaurant just carries a Place without
// coordinates.
func (m *Manager) SaveRestaurant(ctx context.Context, restaurant *model.Restaurant) error {
	place, err := m.resolver.Resolve(ctx, restaurant.Address)
	if err != nil {
		return err
	}

	restaurant.PlaceID = &place.ID

	return m.repo.SaveRestaurant(ctx, restaurant)
}

func (m *Manager) SaveOrder(ctx context.Context, order *model.Order) error {
	place, err := m.resolver.Resolve(ctx, order.Address)
	if err != nil {
		return err
	}

	order.PlaceID = &place.ID

	return m.repo.SaveOrder(ctx, order)
}

// RefreshPlace re-geocodes an explicitly edited Place row, bypassing the
// cache-hit path.
func (m *Manager) RefreshPlace(ctx context.Context, address string) (*model.Place, error) {
	return m.resolver.Refresh(ctx, address)
}

// DeleteRestaurant removes the restaurant and vacates the Place matching
// its stored address. The cleanup is unconditional: a Place shared with
// another live entity at the same address is removed as well. Address
// cleanup is keyed on the normalized form so it matches what the cache
// wrote.
func (m *Manager) DeleteRestaurant(ctx context.Context, restaurantID uint) error {
	restaurant, err := m.repo.GetRestaurantByID(ctx, restaurantID)
	if err != nil {
		return err
	}

	err = m.repo.DeletePlaceByAddress(ctx, geocache.NormalizeAddress(restaurant.Address))
	err = multierr.Append(err, m.repo.DeleteRestaurant(ctx, restaurantID))

	if err == nil {
		m.logger.Info("restaurant deleted", zap.Uint("restaurant_id", restaurantID), zap.String("address", restaurant.Address))
	}

	return err
}

func (m *Manager) DeleteOrder(ctx context.Context, orderID uint) error {
	order, err := m.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return err
	}

	err = m.repo.DeletePlaceByAddress(ctx, geocache.NormalizeAddress(order.Address))
	err = multierr.Append(err, m.repo.DeleteOrder(ctx, orderID))

	if err == nil {
		m.logger.Info("order deleted", zap.Uint("order_id", orderID), zap.String("order_uuid", order.UUID.String()))
	}

	return err
}
