package sale

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"bizledger-backend/internal/auth"
	"bizledger-backend/internal/database"
	"bizledger-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newSaleApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })

	app := fiber.New()
	// Stand-in for the JWT middleware.
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxUserIDKey, uint(1))
		return c.Next()
	})
	app.Post("/sales", CreateSaleHandler())
	app.Get("/sales", ListSalesHandler())
	app.Get("/sales/:id", GetSaleHandler())
	app.Delete("/sales/:id", DeleteSaleHandler())
	return app
}

func seedProduct(t *testing.T, stock, lowAt float64) models.Product {
	t.Helper()
	product := models.Product{
		Name:         "Basmati Rice 5kg",
		SKU:          "RICE-" + uuid.NewString()[:8],
		Unit:         "bag",
		SellingPrice: 450,
		Stock:        stock,
		LowStockAt:   lowAt,
		Status:       models.ProductStatusActive,
	}
	require.NoError(t, database.DB.Create(&product).Error)
	return product
}

func doJSON(t *testing.T, app *fiber.App, method, path string, payload interface{}) *http.Response {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestCreateSaleDecrementsStock(t *testing.T) {
	app := newSaleApp(t)
	product := seedProduct(t, 10, 2)

	resp := doJSON(t, app, http.MethodPost, "/sales", CreateSaleRequest{
		Items:      []SaleItemRequest{{ProductID: product.ID, Quantity: 3}},
		AmountPaid: 1350,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var sale models.Sale
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sale))
	assert.Regexp(t, `^INV-\d{4}-\d{5}$`, sale.InvoiceNo)
	assert.Equal(t, 1350.0, sale.Total)
	assert.Equal(t, models.SaleStatusPaid, sale.Status)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, "Basmati Rice 5kg", sale.Items[0].ProductName)

	var after models.Product
	require.NoError(t, database.DB.First(&after, "id = ?", product.ID).Error)
	assert.Equal(t, 7.0, after.Stock)
}

func TestCreateSaleRejectsOverselling(t *testing.T) {
	app := newSaleApp(t)
	product := seedProduct(t, 2, 0)

	resp := doJSON(t, app, http.MethodPost, "/sales", CreateSaleRequest{
		Items: []SaleItemRequest{{ProductID: product.ID, Quantity: 5}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Stock must be untouched after the failed sale.
	var after models.Product
	require.NoError(t, database.DB.First(&after, "id = ?", product.ID).Error)
	assert.Equal(t, 2.0, after.Stock)
}

func TestCreateSaleRaisesLowStockNotification(t *testing.T) {
	app := newSaleApp(t)
	product := seedProduct(t, 5, 3)

	resp := doJSON(t, app, http.MethodPost, "/sales", CreateSaleRequest{
		Items:      []SaleItemRequest{{ProductID: product.ID, Quantity: 3}},
		AmountPaid: 1350,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var notifs []models.Notification
	require.NoError(t, database.DB.Where("type = ?", models.NotificationStock).Find(&notifs).Error)
	require.Len(t, notifs, 1)
	assert.Equal(t, uint(1), notifs[0].UserID)
}

func TestCreateSalePartialPayment(t *testing.T) {
	app := newSaleApp(t)
	product := seedProduct(t, 10, 0)

	resp := doJSON(t, app, http.MethodPost, "/sales", CreateSaleRequest{
		Items:      []SaleItemRequest{{ProductID: product.ID, Quantity: 2}},
		AmountPaid: 400,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var sale models.Sale
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sale))
	assert.Equal(t, models.SaleStatusPartial, sale.Status)
}

func TestDeleteSaleRestoresStock(t *testing.T) {
	app := newSaleApp(t)
	product := seedProduct(t, 10, 0)

	resp := doJSON(t, app, http.MethodPost, "/sales", CreateSaleRequest{
		Items:      []SaleItemRequest{{ProductID: product.ID, Quantity: 4}},
		AmountPaid: 1800,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var sale models.Sale
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sale))

	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/sales/%d", sale.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var after models.Product
	require.NoError(t, database.DB.First(&after, "id = ?", product.ID).Error)
	assert.Equal(t, 10.0, after.Stock)

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/sales/%d", sale.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
