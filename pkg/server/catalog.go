package server

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"starburger.dev/FoodCart/pkg/model"
)

type catalogRepository interface {
	GetAvailableProducts(ctx context.Context) ([]*model.Product, error)
}

type CatalogServer struct {
	catalog catalogRepository
	logger  *zap.Logger
}

func NewCatalogServer(catalog catalogRepository, logger *zap.Logger) *CatalogServer {
	return &CatalogServer{catalog: catalog, logger: logger}
}

type productCategoryJSON struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type productJSON struct {
	ID            uint                 `json:"id"`
	Name          string               `json:"name"`
	Price         float64              `json:"price"`
	SpecialStatus bool                 `json:"special_status"`
	Description   string               `json:"description"`
	Category      *productCategoryJSON `json:"category"`
	Image         string               `json:"image"`
}

// ListProducts returns every product carried by at least one available
// restaurant menu entry.
func (s *CatalogServer) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.catalog.GetAvailableProducts(r.Context())
	if err != nil {
		s.logger.Error("error listing products", zap.Error(err))
		respondInternalError(w)

		return
	}

	payload := make([]productJSON, 0, len(products))

	for _, product := range products {
		dumped := productJSON{
			ID:            product.ID,
			Name:          product.Name,
			Price:         product.Price,
			SpecialStatus: product.SpecialStatus,
			Description:   product.Description,
			Image:         product.ImageURL,
		}

		if product.Category != nil {
			dumped.Category = &productCategoryJSON{ID: product.Category.ID, Name: product.Category.Name}
		}

		payload = append(payload, dumped)
	}

	respondJSON(w, http.StatusOK, payload)
}

type bannerJSON struct {
	Title string `json:"title"`
	Src   string `json:"src"`
	Text  string `json:"text"`
}

// ListBanners serves the landing-page banners. Still hardcoded, as in the
// admin-facing prototype this grew out of.
func (s *CatalogServer) ListBanners(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, []bannerJSON{
		{Title: "Burger", Src: "/static/burger.jpg", Text: "Tasty Burger at your door step"},
		{Title: "Spices", Src: "/static/food.jpg", Text: "All Cuisines"},
		{Title: "New York", Src: "/static/tasty.jpg", Text: "Food is incomplete without a tasty dessert"},
	})
}
