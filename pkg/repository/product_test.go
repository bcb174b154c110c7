package repository_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/suite"

	"starburger.dev/FoodCart/pkg/repository"
)

type ProductTestSuite struct {
	RepositorySuite
}

func TestProductTestSuite(t *testing.T) {
	suite.Run(t, new(ProductTestSuite))
}

func (suite *ProductTestSuite) TearDownTest() {
	suite.NoError(suite.mock.ExpectationsWereMet())
}

func (suite *ProductTestSuite) TestGetProductByID_FindsProduct() {
	suite.mock.ExpectQuery(`^SELECT (.+) FROM "products" WHERE "products"\."id" \= \$1 (.+)`).
		WithArgs(7, 1).
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "name", "price"}).
				AddRow(7, "Double Smash Burger", 9.99))

	product, err := suite.repository.GetProductByID(context.Background(), 7)

	suite.Require().NoError(err)
	suite.Equal("Double Smash Burger", product.Name)
	suite.InDelta(9.99, product.Price, 1e-9)
}

func (suite *ProductTestSuite) TestGetProductByID_NotFound() {
	suite.mock.ExpectQuery(`^SELECT (.+) FROM "products" (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	product, err := suite.repository.GetProductByID(context.Background(), 99)

	suite.Nil(product)
	suite.ErrorIs(err, repository.ErrProductNotFound)
}

func (suite *ProductTestSuite) TestGetAvailableProducts_FiltersByMenuAvailability() {
	suite.mock.ExpectQuery(`^SELECT DISTINCT products\.\* FROM "products" INNER JOIN restaurant_menu_items rmi ON rmi\.product_id \= products\.id WHERE rmi\.availability \= \$1 AND rmi\.deleted_at is null AND "products"\."deleted_at" IS NULL`).
		WithArgs(true).
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "name", "category_id"}).
				AddRow(7, "Double Smash Burger", 2).
				AddRow(8, "Fries", 3))
	suite.mock.ExpectQuery(`^SELECT (.+) FROM "product_categories" (.+)`).
		WithArgs(2, 3).
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "name"}).
				AddRow(2, "Burgers").
				AddRow(3, "Sides"))

	products, err := suite.repository.GetAvailableProducts(context.Background())

	suite.Require().NoError(err)
	suite.Require().Len(products, 2)
	suite.Equal("Burgers", products[0].Category.Name)
	suite.Equal("Sides", products[1].Category.Name)
}
