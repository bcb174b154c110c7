package repository_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"starburger.dev/FoodCart/pkg/model"
	"starburger.dev/FoodCart/pkg/repository"
)

type OrderTestSuite struct {
	RepositorySuite
}

func TestOrderTestSuite(t *testing.T) {
	suite.Run(t, new(OrderTestSuite))
}

func (suite *OrderTestSuite) TearDownTest() {
	suite.NoError(suite.mock.ExpectationsWereMet())
}

const orderInsert = `^INSERT INTO "orders" (.+) ON CONFLICT DO NOTHING RETURNING "id"`

// The accumulating upsert: quantity and product_price add the excluded
// values onto the stored row inside a single statement.
const detailsUpsert = `^INSERT INTO "order_details" \("created_at","updated_at","deleted_at","order_id","product_id","quantity","product_price"\) VALUES \(\$1,\$2,\$3,\$4,\$5,\$6,\$7\) ON CONFLICT \("order_id","product_id"\) DO UPDATE SET "product_price"="order_details"\."product_price" \+ "excluded"\."product_price","quantity"="order_details"\."quantity" \+ "excluded"\."quantity" RETURNING "id"`

func (suite *OrderTestSuite) TestFindOrderByNaturalKey_FindsOrder() {
	suite.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders" WHERE (firstname = $1 AND lastname = $2 AND phonenumber = $3 AND address = $4) AND "orders"."deleted_at" IS NULL ORDER BY "orders"."id" LIMIT $5`)).
		WithArgs("Alice", "Smith", "+15551234567", "1 Main St", 1).
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "firstname", "lastname", "phonenumber", "address", "status"}).
				AddRow(3, "Alice", "Smith", "+15551234567", "1 Main St", model.OrderStatusUnprocessed))

	order, err := suite.repository.FindOrderByNaturalKey(context.Background(), "Alice", "Smith", "+15551234567", "1 Main St")

	suite.Require().NoError(err)
	suite.Equal(uint(3), order.ID)
	suite.Equal("Alice Smith", order.FullName())
}

func (suite *OrderTestSuite) TestFindOrderByNaturalKey_NotFound() {
	suite.mock.ExpectQuery(`^SELECT (.+) FROM "orders" (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	order, err := suite.repository.FindOrderByNaturalKey(context.Background(), "Bob", "Jones", "+15550000000", "2 Side St")

	suite.Nil(order)
	suite.ErrorIs(err, repository.ErrOrderNotFound)
}

func (suite *OrderTestSuite) TestRegisterOrder_CreatesOrderAndLines() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(orderInsert).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("20"))
	suite.mock.ExpectQuery(detailsUpsert).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), nil, 20, 7, 2, 19.98).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("1"))
	suite.mock.ExpectCommit()

	order := model.Order{
		UUID:        uuid.New(),
		Firstname:   "Alice",
		Lastname:    "Smith",
		Phonenumber: "+15551234567",
		Address:     "1 Main St",
		Status:      model.OrderStatusUnprocessed,
	}
	lines := []model.OrderDetails{{ProductID: 7, Quantity: 2, ProductPrice: 19.98}}

	registered, err := suite.repository.RegisterOrder(context.Background(), order, lines)

	suite.Require().NoError(err)
	suite.Equal(uint(20), registered.ID)
}

func (suite *OrderTestSuite) TestRegisterOrder_ContinuesExistingOrderOnNaturalKeyConflict() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(orderInsert).
		WillReturnRows(sqlmock.NewRows([]string{"id"})) // conflict, nothing inserted
	suite.mock.ExpectQuery(`^SELECT (.+) FROM "orders" WHERE \(firstname \= \$1 AND lastname \= \$2 AND phonenumber \= \$3 AND address \= \$4\) (.+)`).
		WithArgs("Alice", "Smith", "+15551234567", "1 Main St", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "firstname"}).AddRow(20, "Alice"))
	suite.mock.ExpectQuery(detailsUpsert).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), nil, 20, 7, 1, 9.99).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("1"))
	suite.mock.ExpectCommit()

	order := model.Order{
		UUID:        uuid.New(),
		Firstname:   "Alice",
		Lastname:    "Smith",
		Phonenumber: "+15551234567",
		Address:     "1 Main St",
		Status:      model.OrderStatusUnprocessed,
	}
	lines := []model.OrderDetails{{ProductID: 7, Quantity: 1, ProductPrice: 9.99}}

	registered, err := suite.repository.RegisterOrder(context.Background(), order, lines)

	suite.Require().NoError(err)
	suite.Equal(uint(20), registered.ID)
}

func (suite *OrderTestSuite) TestRegisterOrder_LineFailureRollsBackEverything() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(orderInsert).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("20"))
	suite.mock.ExpectQuery(detailsUpsert).
		WillReturnError(gorm.ErrInvalidData)
	suite.mock.ExpectRollback()

	order := model.Order{UUID: uuid.New(), Firstname: "Alice", Lastname: "Smith", Phonenumber: "+15551234567", Address: "1 Main St"}
	lines := []model.OrderDetails{{ProductID: 7, Quantity: 2, ProductPrice: 19.98}}

	registered, err := suite.repository.RegisterOrder(context.Background(), order, lines)

	suite.Nil(registered)
	suite.ErrorIs(err, gorm.ErrInvalidData)
}

func (suite *OrderTestSuite) TestGetOrderCost_SumsLineCosts() {
	suite.mock.ExpectQuery(regexp.QuoteMeta(`SELECT coalesce(sum(product_price), 0) FROM "order_details" WHERE order_id = $1 AND "order_details"."deleted_at" IS NULL`)).
		WithArgs(20).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(29.97))

	cost, err := suite.repository.GetOrderCost(context.Background(), 20)

	suite.Require().NoError(err)
	suite.InDelta(29.97, cost, 1e-9)
}

// Orders are removed for real, not soft-deleted: a tombstone would keep
// holding the natural-key unique index and block that customer's next
// submission forever.
func (suite *OrderTestSuite) TestDeleteOrder_RemovesRow() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "orders" WHERE "orders"."id" = $1`)).
		WithArgs(20).
		WillReturnResult(sqlmock.NewResult(0, 1))
	suite.mock.ExpectCommit()

	err := suite.repository.DeleteOrder(context.Background(), 20)

	suite.NoError(err)
}

// Register, delete, register again with the same natural key: the second
// registration inserts a fresh order instead of tripping over a leftover
// unique-index entry.
func (suite *OrderTestSuite) TestRegisterOrder_SucceedsAfterDelete() {
	order := model.Order{
		UUID:        uuid.New(),
		Firstname:   "Alice",
		Lastname:    "Smith",
		Phonenumber: "+15551234567",
		Address:     "1 Main St",
		Status:      model.OrderStatusUnprocessed,
	}
	lines := []model.OrderDetails{{ProductID: 7, Quantity: 2, ProductPrice: 19.98}}

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(orderInsert).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("20"))
	suite.mock.ExpectQuery(detailsUpsert).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), nil, 20, 7, 2, 19.98).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("1"))
	suite.mock.ExpectCommit()

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "orders" WHERE "orders"."id" = $1`)).
		WithArgs(20).
		WillReturnResult(sqlmock.NewResult(0, 1))
	suite.mock.ExpectCommit()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(orderInsert).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("21"))
	suite.mock.ExpectQuery(detailsUpsert).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), nil, 21, 7, 2, 19.98).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("2"))
	suite.mock.ExpectCommit()

	first, err := suite.repository.RegisterOrder(context.Background(), order, lines)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.DeleteOrder(context.Background(), first.ID))

	resubmitted := order
	resubmitted.UUID = uuid.New()
	relines := []model.OrderDetails{{ProductID: 7, Quantity: 2, ProductPrice: 19.98}}

	second, err := suite.repository.RegisterOrder(context.Background(), resubmitted, relines)

	suite.Require().NoError(err)
	suite.Equal(uint(21), second.ID)
}
