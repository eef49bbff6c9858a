package sale

import (
	"fmt"
	"time"

	"bizledger-backend/internal/auth"
	"bizledger-backend/internal/database"
	"bizledger-backend/internal/ledger"
	"bizledger-backend/internal/models"
	"bizledger-backend/internal/web"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SaleItemRequest struct {
	ProductID uint    `json:"product_id" validate:"required,gt=0"`
	Quantity  float64 `json:"quantity" validate:"required,gt=0"`
}

type CreateSaleRequest struct {
	AccountID     *uint             `json:"account_id"`
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	Discount      float64           `json:"discount" validate:"gte=0"`
	AmountPaid    float64           `json:"amount_paid" validate:"gte=0"`
	PaymentMethod string            `json:"payment_method" validate:"omitempty,oneof=cash upi online"`
	Date          string            `json:"date"`
}

func saleStatus(total, paid float64) models.SaleStatus {
	switch {
	case paid >= total:
		return models.SaleStatusPaid
	case paid > 0:
		return models.SaleStatusPartial
	default:
		return models.SaleStatusUnpaid
	}
}

// POST /api/sales
//
// Creates an invoice, decrements stock for every line item and raises a
// low-stock notification for the seller when a product crosses its threshold.
// Everything runs in one database transaction.
func CreateSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := web.BindAndValidate[CreateSaleRequest](c)
		if err != nil {
			return err
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		date := time.Now()
		if body.Date != "" {
			parsed, err := time.Parse("2006-01-02", body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
			}
			date = parsed
		}

		var sale models.Sale
		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			if body.AccountID != nil {
				var count int64
				if err := tx.Model(&models.Account{}).Where("id = ?", *body.AccountID).Count(&count).Error; err != nil {
					return err
				}
				if count == 0 {
					return fiber.NewError(fiber.StatusBadRequest, "account not found")
				}
			}

			var subtotal float64
			items := make([]models.SaleItem, 0, len(body.Items))
			for _, it := range body.Items {
				var product models.Product
				if err := tx.First(&product, "id = ?", it.ProductID).Error; err != nil {
					return fiber.NewError(fiber.StatusBadRequest,
						fmt.Sprintf("product %d not found", it.ProductID))
				}
				if product.Status != models.ProductStatusActive {
					return fiber.NewError(fiber.StatusBadRequest,
						fmt.Sprintf("product %q is inactive", product.Name))
				}
				if product.Stock < it.Quantity {
					return fiber.NewError(fiber.StatusBadRequest,
						fmt.Sprintf("not enough stock for %q: have %.2f, need %.2f",
							product.Name, product.Stock, it.Quantity))
				}

				res := tx.Model(&models.Product{}).
					Where("id = ? AND stock >= ?", product.ID, it.Quantity).
					UpdateColumn("stock", gorm.Expr("stock - ?", it.Quantity))
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					return fiber.NewError(fiber.StatusBadRequest,
						fmt.Sprintf("not enough stock for %q", product.Name))
				}

				remaining := product.Stock - it.Quantity
				if remaining <= product.LowStockAt {
					notif := models.Notification{
						UserID: userID,
						Title:  "Low stock",
						Message: fmt.Sprintf("%s is down to %.2f %s",
							product.Name, remaining, product.Unit),
						Type: models.NotificationStock,
					}
					if err := tx.Create(&notif).Error; err != nil {
						return err
					}
				}

				lineTotal := it.Quantity * product.SellingPrice
				subtotal += lineTotal
				items = append(items, models.SaleItem{
					ProductID:   product.ID,
					ProductName: product.Name,
					Quantity:    it.Quantity,
					UnitPrice:   product.SellingPrice,
					LineTotal:   lineTotal,
				})
			}

			total := subtotal - body.Discount
			if total < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "discount exceeds subtotal")
			}

			n, err := ledger.NextNumber(tx, ledger.SeqSale, date.Year())
			if err != nil {
				return err
			}

			sale = models.Sale{
				InvoiceNo:     fmt.Sprintf("INV-%d-%05d", date.Year(), n),
				AccountID:     body.AccountID,
				Items:         items,
				Subtotal:      subtotal,
				Discount:      body.Discount,
				Total:         total,
				AmountPaid:    body.AmountPaid,
				PaymentMethod: body.PaymentMethod,
				Status:        saleStatus(total, body.AmountPaid),
				Date:          date,
				CreatedByID:   userID,
			}
			return tx.Create(&sale).Error
		})
		if txErr != nil {
			if fe, ok := txErr.(*fiber.Error); ok {
				return fe
			}
			return fiber.NewError(fiber.StatusInternalServerError, "could not create sale")
		}

		return c.Status(fiber.StatusCreated).JSON(sale)
	}
}

// GET /api/sales?status=...&account_id=...
func ListSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Preload("Items").Order("date desc, id desc")
		if st := c.Query("status"); st != "" {
			q = q.Where("status = ?", st)
		}
		if acc := c.Query("account_id"); acc != "" {
			q = q.Where("account_id = ?", acc)
		}

		var sales []models.Sale
		if err := q.Find(&sales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list sales")
		}
		return c.JSON(sales)
	}
}

// GET /api/sales/:id
func GetSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var sale models.Sale
		err := database.DB.Preload("Items").First(&sale, "id = ?", c.Params("id")).Error
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "sale not found")
		}
		return c.JSON(sale)
	}
}

// DELETE /api/admin/sales/:id
//
// Voids the invoice and puts the sold quantities back in stock.
func DeleteSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var sale models.Sale
		err := database.DB.Preload("Items").First(&sale, "id = ?", c.Params("id")).Error
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "sale not found")
		}

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			for _, item := range sale.Items {
				// The product may be gone; restoring stock is best effort then.
				tx.Model(&models.Product{}).
					Where("id = ?", item.ProductID).
					UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity))
			}
			if err := tx.Where("sale_id = ?", sale.ID).Delete(&models.SaleItem{}).Error; err != nil {
				return err
			}
			return tx.Delete(&models.Sale{}, "id = ?", sale.ID).Error
		})
		if txErr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not delete sale")
		}

		return c.JSON(fiber.Map{"deleted": true})
	}
}
