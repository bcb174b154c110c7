package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"starburger.dev/FoodCart/pkg/ingest"
	"starburger.dev/FoodCart/pkg/model"
)

type ingester interface {
	Ingest(ctx context.Context, submission ingest.Submission) (*model.Order, error)
}

type OrderServer struct {
	engine ingester
	logger *zap.Logger
}

func NewOrderServer(engine ingester, logger *zap.Logger) *OrderServer {
	return &OrderServer{engine: engine, logger: logger}
}

// RegisterOrder is the order intake endpoint. Success returns an empty
// JSON object; validation failures return field-level detail with a 400.
func (s *OrderServer) RegisterOrder(w http.ResponseWriter, r *http.Request) {
	var submission ingest.Submission

	if err := json.NewDecoder(r.Body).Decode(&submission); err != nil {
		respondFieldErrors(w, map[string]string{"body": "request body must be a valid JSON order"})

		return
	}

	order, err := s.engine.Ingest(r.Context(), submission)
	if err != nil {
		var validationError *ingest.ValidationError
		if errors.As(err, &validationError) {
			respondFieldErrors(w, validationError.Fields)

			return
		}

		s.logger.Error("order registration failed", zap.Error(err))
		respondInternalError(w)

		return
	}

	s.logger.Info("order registered", zap.String("order_uuid", order.UUID.String()))
	respondJSON(w, http.StatusOK, map[string]any{})
}
