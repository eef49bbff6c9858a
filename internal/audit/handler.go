package audit

import (
	"strconv"

	"bizledger-backend/internal/database"
	"bizledger-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/audit-logs?entity_type=...&entity_id=...&limit=...
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Order("created_at desc")

		if et := c.Query("entity_type"); et != "" {
			q = q.Where("entity_type = ?", et)
		}
		if eid := c.Query("entity_id"); eid != "" {
			id, err := strconv.ParseUint(eid, 10, 64)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid entity_id")
			}
			q = q.Where("entity_id = ?", id)
		}

		limit := 100
		if l := c.QueryInt("limit"); l > 0 && l <= 500 {
			limit = l
		}

		var logs []models.AuditLog
		if err := q.Limit(limit).Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list audit logs")
		}
		return c.JSON(logs)
	}
}
