package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter assembles the public API and the admin hooks.
func NewRouter(orders *OrderServer, catalog *CatalogServer, admin *AdminServer) *mux.Router {
	router := mux.NewRouter()

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/order/", orders.RegisterOrder).Methods(http.MethodPost)
	api.HandleFunc("/products/", catalog.ListProducts).Methods(http.MethodGet)
	api.HandleFunc("/banners/", catalog.ListBanners).Methods(http.MethodGet)

	adminAPI := api.PathPrefix("/admin").Subrouter()
	adminAPI.HandleFunc("/restaurants/", admin.SaveRestaurant).Methods(http.MethodPost)
	adminAPI.HandleFunc("/restaurants/{id}", admin.SaveRestaurant).Methods(http.MethodPut)
	adminAPI.HandleFunc("/restaurants/{id}", admin.DeleteRestaurant).Methods(http.MethodDelete)
	adminAPI.HandleFunc("/orders/{id}", admin.GetOrder).Methods(http.MethodGet)
	adminAPI.HandleFunc("/orders/{id}", admin.SaveOrder).Methods(http.MethodPut)
	adminAPI.HandleFunc("/orders/{id}", admin.DeleteOrder).Methods(http.MethodDelete)
	adminAPI.HandleFunc("/orders/{id}/restaurants/", admin.RankRestaurants).Methods(http.MethodGet)

	return router
}
