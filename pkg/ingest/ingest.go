package ingest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"starburger.dev/FoodCart/pkg/model"
	"starburger.dev/FoodCart/pkg/repository"
)

// Submission is the logical order as received by the intake API.
type Submission struct {
	Firstname   string           `json:"firstname"   validate:"required"`
	Lastname    string           `json:"lastname"    validate:"required"`
	Phonenumber string           `json:"phonenumber" validate:"required,e164"`
	Address     string           `json:"address"     validate:"required"`
	Products    []SubmissionLine `json:"products"    validate:"required,min=1,dive"`
}

type SubmissionLine struct {
	Product  uint `json:"product"  validate:"required"`
	Quantity int  `json:"quantity" validate:"required"`
}

// ValidationError carries field-level detail for the 4xx response. Any
// violation aborts the whole submission; no line items commit.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	messages := make([]string, 0, len(e.Fields))
	for field, message := range e.Fields {
		messages = append(messages, field+": "+message)
	}

	sort.Strings(messages)

	return "invalid submission: " + strings.Join(messages, ", ")
}

type productRepository interface {
	GetProductByID(ctx context.Context, productID uint) (*model.Product, error)
}

type orderRegistry interface {
	RegisterOrder(ctx context.Context, order model.Order, lines []model.OrderDetails) (*model.Order, error)
}

// Engine ingests submitted orders with merge semantics: a submission
// matching an existing order's natural key continues that order, and a
// line item for a product already on the order accumulates quantity and
// cost instead of overwriting them.
type Engine struct {
	products    productRepository
	orders      orderRegistry
	validate    *validator.Validate
	maxQuantity int
	logger      *zap.Logger
}

func NewEngine(products productRepository, orders orderRegistry, maxQuantity int, logger *zap.Logger) *Engine {
	return &Engine{
		products:    products,
		orders:      orders,
		validate:    validator.New(),
		maxQuantity: maxQuantity,
		logger:      logger,
	}
}

func (e *Engine) Ingest(ctx context.Context, submission Submission) (*model.Order, error) {
	fields := map[string]string{}

	if err := e.validate.Struct(submission); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return nil, err
		}

		for _, fieldError := range validationErrors {
			fields[fieldKey(fieldError)] = fieldMessage(fieldError)
		}
	}

	lines := make([]model.OrderDetails, 0, len(submission.Products))

	for index, line := range submission.Products {
		if line.Quantity < 1 || line.Quantity > e.maxQuantity {
			fields[fmt.Sprintf("products[%d].quantity", index)] = fmt.Sprintf("quantity must be between 1 and %d", e.maxQuantity)

			continue
		}

		if line.Product == 0 {
			continue // already reported by the struct validation
		}

		product, err := e.products.GetProductByID(ctx, line.Product)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				fields[fmt.Sprintf("products[%d].product", index)] = fmt.Sprintf("product %d does not exist", line.Product)

				continue
			}

			return nil, err
		}

		if product.Price < 0 {
			fields[fmt.Sprintf("products[%d].product", index)] = fmt.Sprintf("product %d has a negative price", line.Product)

			continue
		}

		lines = append(lines, model.OrderDetails{
			ProductID:    product.ID,
			Quantity:     line.Quantity,
			ProductPrice: roundCents(product.Price * float64(line.Quantity)),
		})
	}

	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	order := model.Order{
		UUID:         uuid.New(),
		Firstname:    submission.Firstname,
		Lastname:     submission.Lastname,
		Phonenumber:  submission.Phonenumber,
		Address:      submission.Address,
		Status:       model.OrderStatusUnprocessed,
		RegisteredAt: time.Now().UTC(),
	}

	registered, err := e.orders.RegisterOrder(ctx, order, lines)
	if err != nil {
		return nil, err
	}

	e.logger.Info("order ingested",
		zap.String("order_uuid", registered.UUID.String()),
		zap.Uint("order_id", registered.ID),
		zap.Int("lines", len(lines)))

	return registered, nil
}

func fieldKey(fieldError validator.FieldError) string {
	// "Submission.Products[0].Quantity" -> "products[0].quantity"
	namespace := fieldError.Namespace()
	if dot := strings.Index(namespace, "."); dot >= 0 {
		namespace = namespace[dot+1:]
	}

	return strings.ToLower(namespace)
}

func fieldMessage(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return "field is required"
	case "e164":
		return "must be a phone number in E.164 format"
	case "min":
		return "must not be empty"
	default:
		return "invalid value"
	}
}

func roundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
