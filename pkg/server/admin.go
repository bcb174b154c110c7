package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"starburger.dev/FoodCart/pkg/geo"
	"starburger.dev/FoodCart/pkg/model"
	"starburger.dev/FoodCart/pkg/repository"
)

type lifecycleManager interface {
	SaveRestaurant(ctx context.Context, restaurant *model.Restaurant) error
	SaveOrder(ctx context.Context, order *model.Order) error
	DeleteRestaurant(ctx context.Context, restaurantID uint) error
	DeleteOrder(ctx context.Context, orderID uint) error
}

type adminRepository interface {
	GetRestaurants(ctx context.Context) ([]*model.Restaurant, error)
	GetRestaurantByID(ctx context.Context, restaurantID uint) (*model.Restaurant, error)
	GetOrderByID(ctx context.Context, orderID uint) (*model.Order, error)
	GetOrderCost(ctx context.Context, orderID uint) (float64, error)
}

// AdminServer exposes the save/delete hooks the administrative console
// calls, plus the per-order restaurant ranking.
type AdminServer struct {
	lifecycle lifecycleManager
	repo      adminRepository
	logger    *zap.Logger
}

func NewAdminServer(lifecycle lifecycleManager, repo adminRepository, logger *zap.Logger) *AdminServer {
	return &AdminServer{lifecycle: lifecycle, repo: repo, logger: logger}
}

type restaurantPayload struct {
	Name         string `json:"name"`
	Address      string `json:"address"`
	ContactPhone string `json:"contact_phone"`
}

func (s *AdminServer) SaveRestaurant(w http.ResponseWriter, r *http.Request) {
	var payload restaurantPayload

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondFieldErrors(w, map[string]string{"body": "request body must be a valid JSON restaurant"})

		return
	}

	restaurant := &model.Restaurant{Name: payload.Name, Address: payload.Address, ContactPhone: payload.ContactPhone}

	if id, ok := pathID(r); ok {
		existing, err := s.repo.GetRestaurantByID(r.Context(), id)
		if err != nil {
			s.respondLookupError(w, err, repository.ErrRestaurantNotFound)

			return
		}

		existing.Name = payload.Name
		existing.Address = payload.Address
		existing.ContactPhone = payload.ContactPhone
		restaurant = existing
	}

	if err := s.lifecycle.SaveRestaurant(r.Context(), restaurant); err != nil {
		s.logger.Error("error saving restaurant", zap.Error(err))
		respondInternalError(w)

		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"id": restaurant.ID})
}

func (s *AdminServer) DeleteRestaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondFieldErrors(w, map[string]string{"id": "must be a numeric identifier"})

		return
	}

	if err := s.lifecycle.DeleteRestaurant(r.Context(), id); err != nil {
		s.respondLookupError(w, err, repository.ErrRestaurantNotFound)

		return
	}

	respondJSON(w, http.StatusOK, map[string]any{})
}

type orderPayload struct {
	Status        string `json:"status"`
	PaymentMethod string `json:"payment_method"`
	Comment       string `json:"comment"`
	Address       string `json:"address"`
	RestaurantID  *uint  `json:"restaurant_id"`
}

// SaveOrder is the admin-side order edit hook: it re-resolves the
// delivery address through the geocode cache as a side effect.
func (s *AdminServer) SaveOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondFieldErrors(w, map[string]string{"id": "must be a numeric identifier"})

		return
	}

	var payload orderPayload

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondFieldErrors(w, map[string]string{"body": "request body must be a valid JSON order"})

		return
	}

	order, err := s.repo.GetOrderByID(r.Context(), id)
	if err != nil {
		s.respondLookupError(w, err, repository.ErrOrderNotFound)

		return
	}

	if payload.Status != "" {
		order.Status = payload.Status
	}

	if payload.PaymentMethod != "" {
		order.PaymentMethod = payload.PaymentMethod
	}

	if payload.Address != "" {
		order.Address = payload.Address
	}

	order.Comment = payload.Comment
	order.RestaurantID = payload.RestaurantID

	if err = s.lifecycle.SaveOrder(r.Context(), order); err != nil {
		s.logger.Error("error saving order", zap.Uint("order_id", id), zap.Error(err))
		respondInternalError(w)

		return
	}

	respondJSON(w, http.StatusOK, map[string]any{})
}

func (s *AdminServer) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondFieldErrors(w, map[string]string{"id": "must be a numeric identifier"})

		return
	}

	if err := s.lifecycle.DeleteOrder(r.Context(), id); err != nil {
		s.respondLookupError(w, err, repository.ErrOrderNotFound)

		return
	}

	respondJSON(w, http.StatusOK, map[string]any{})
}

type orderLineJSON struct {
	ProductID uint    `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Cost      float64 `json:"cost"`
}

type orderJSON struct {
	ID            uint            `json:"id"`
	UUID          string          `json:"uuid"`
	FullName      string          `json:"full_name"`
	Phonenumber   string          `json:"phonenumber"`
	Address       string          `json:"address"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"payment_method"`
	Comment       string          `json:"comment"`
	RestaurantID  *uint           `json:"restaurant_id"`
	Cost          float64         `json:"cost"`
	Lines         []orderLineJSON `json:"lines"`
}

// GetOrder is the admin order view: the order with its line items and the
// total cost summed over them.
func (s *AdminServer) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondFieldErrors(w, map[string]string{"id": "must be a numeric identifier"})

		return
	}

	order, err := s.repo.GetOrderByID(r.Context(), id)
	if err != nil {
		s.respondLookupError(w, err, repository.ErrOrderNotFound)

		return
	}

	cost, err := s.repo.GetOrderCost(r.Context(), id)
	if err != nil {
		s.logger.Error("error computing order cost", zap.Uint("order_id", id), zap.Error(err))
		respondInternalError(w)

		return
	}

	payload := orderJSON{
		ID:            order.ID,
		UUID:          order.UUID.String(),
		FullName:      order.FullName(),
		Phonenumber:   order.Phonenumber,
		Address:       order.Address,
		Status:        order.Status,
		PaymentMethod: order.PaymentMethod,
		Comment:       order.Comment,
		RestaurantID:  order.RestaurantID,
		Cost:          cost,
		Lines:         make([]orderLineJSON, 0, len(order.Details)),
	}

	for _, line := range order.Details {
		payload.Lines = append(payload.Lines, orderLineJSON{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Cost:      line.ProductPrice,
		})
	}

	respondJSON(w, http.StatusOK, payload)
}

// RankRestaurants returns the restaurants ranked by distance from the
// order's geocoded delivery address.
func (s *AdminServer) RankRestaurants(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondFieldErrors(w, map[string]string{"id": "must be a numeric identifier"})

		return
	}

	order, err := s.repo.GetOrderByID(r.Context(), id)
	if err != nil {
		s.respondLookupError(w, err, repository.ErrOrderNotFound)

		return
	}

	restaurants, err := s.repo.GetRestaurants(r.Context())
	if err != nil {
		s.logger.Error("error listing restaurants", zap.Error(err))
		respondInternalError(w)

		return
	}

	var origin *geo.Coordinate
	if order.Place != nil && order.Place.HasCoordinates() {
		origin = &geo.Coordinate{Lon: *order.Place.Lon, Lat: *order.Place.Lat}
	}

	candidates := make([]geo.Candidate, 0, len(restaurants))

	for _, restaurant := range restaurants {
		candidate := geo.Candidate{Name: restaurant.Name}
		if restaurant.Place != nil && restaurant.Place.HasCoordinates() {
			candidate.Coordinate = &geo.Coordinate{Lon: *restaurant.Place.Lon, Lat: *restaurant.Place.Lat}
		}

		candidates = append(candidates, candidate)
	}

	ranking := make([]string, 0, len(candidates))
	for line := range geo.RankRestaurants(origin, candidates) {
		ranking = append(ranking, line)
	}

	respondJSON(w, http.StatusOK, ranking)
}

func (s *AdminServer) respondLookupError(w http.ResponseWriter, err error, notFound error) {
	if errors.Is(err, notFound) {
		respondJSON(w, http.StatusNotFound, map[string]any{"error": map[string]string{"id": notFound.Error()}})

		return
	}

	s.logger.Error("admin lookup failed", zap.Error(err))
	respondInternalError(w)
}

func pathID(r *http.Request) (uint, bool) {
	raw, ok := mux.Vars(r)["id"]
	if !ok {
		return 0, false
	}

	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}

	return uint(id), true
}
