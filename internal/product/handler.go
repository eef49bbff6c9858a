package product

import (
	"errors"
	"strconv"

	"bizledger-backend/internal/database"
	"bizledger-backend/internal/models"
	"bizledger-backend/internal/web"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateProductRequest struct {
	Name          string  `json:"name" validate:"required,max=100"`
	SKU           string  `json:"sku" validate:"required,max=50"`
	Category      string  `json:"category" validate:"max=50"`
	Unit          string  `json:"unit" validate:"required,max=20"`
	PurchasePrice float64 `json:"purchase_price" validate:"gte=0"`
	SellingPrice  float64 `json:"selling_price" validate:"gte=0"`
	Stock         float64 `json:"stock" validate:"gte=0"`
	LowStockAt    float64 `json:"low_stock_at" validate:"gte=0"`
}

type UpdateProductRequest struct {
	Name          *string  `json:"name"`
	Category      *string  `json:"category"`
	Unit          *string  `json:"unit"`
	PurchasePrice *float64 `json:"purchase_price" validate:"omitempty,gte=0"`
	SellingPrice  *float64 `json:"selling_price" validate:"omitempty,gte=0"`
	Stock         *float64 `json:"stock" validate:"omitempty,gte=0"`
	LowStockAt    *float64 `json:"low_stock_at" validate:"omitempty,gte=0"`
	Status        *string  `json:"status" validate:"omitempty,oneof=active inactive"`
}

// POST /api/products
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := web.BindAndValidate[CreateProductRequest](c)
		if err != nil {
			return err
		}

		product := models.Product{
			Name:          body.Name,
			SKU:           body.SKU,
			Category:      body.Category,
			Unit:          body.Unit,
			PurchasePrice: body.PurchasePrice,
			SellingPrice:  body.SellingPrice,
			Stock:         body.Stock,
			LowStockAt:    body.LowStockAt,
			Status:        models.ProductStatusActive,
		}

		if err := database.DB.Create(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusBadRequest, "SKU already in use")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "could not create product")
		}

		return c.Status(fiber.StatusCreated).JSON(product)
	}
}

// GET /api/products?category=...&status=...
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Order("name asc")
		if cat := c.Query("category"); cat != "" {
			q = q.Where("category = ?", cat)
		}
		if st := c.Query("status"); st != "" {
			q = q.Where("status = ?", st)
		}

		var products []models.Product
		if err := q.Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list products")
		}
		return c.JSON(products)
	}
}

// GET /api/products/low-stock
func LowStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var products []models.Product
		err := database.DB.
			Where("status = ? AND stock <= low_stock_at", models.ProductStatusActive).
			Order("stock asc").
			Find(&products).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list low stock products")
		}
		return c.JSON(products)
	}
}

// GET /api/products/:id
func GetProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var product models.Product
		if err := database.DB.First(&product, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return c.JSON(product)
	}
}

// PUT /api/products/:id
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var product models.Product
		if err := database.DB.First(&product, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}

		body, err := web.BindAndValidate[UpdateProductRequest](c)
		if err != nil {
			return err
		}

		if body.Name != nil {
			product.Name = *body.Name
		}
		if body.Category != nil {
			product.Category = *body.Category
		}
		if body.Unit != nil {
			product.Unit = *body.Unit
		}
		if body.PurchasePrice != nil {
			product.PurchasePrice = *body.PurchasePrice
		}
		if body.SellingPrice != nil {
			product.SellingPrice = *body.SellingPrice
		}
		if body.Stock != nil {
			product.Stock = *body.Stock
		}
		if body.LowStockAt != nil {
			product.LowStockAt = *body.LowStockAt
		}
		if body.Status != nil {
			product.Status = models.ProductStatus(*body.Status)
		}

		if err := database.DB.Save(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not update product")
		}
		return c.JSON(product)
	}
}

// DELETE /api/admin/products/:id
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 64)
		if err != nil || id == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid id")
		}

		// Products referenced by sale items stay deletable; sold line items
		// carry denormalized name/price and survive on their own.
		res := database.DB.Delete(&models.Product{}, "id = ?", id)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not delete product")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return c.JSON(fiber.Map{"deleted": true})
	}
}
