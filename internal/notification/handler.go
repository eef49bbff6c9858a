package notification

import (
	"bizledger-backend/internal/auth"
	"bizledger-backend/internal/database"
	"bizledger-backend/internal/models"
	"bizledger-backend/internal/web"

	"github.com/gofiber/fiber/v2"
)

type CreateNotificationRequest struct {
	UserID  uint   `json:"user_id" validate:"required,gt=0"`
	Title   string `json:"title" validate:"required,max=100"`
	Message string `json:"message" validate:"required,max=500"`
	Type    string `json:"type" validate:"omitempty,oneof=info warning payment stock"`
}

// POST /api/admin/notifications
func CreateNotificationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := web.BindAndValidate[CreateNotificationRequest](c)
		if err != nil {
			return err
		}

		typ := models.NotificationType(body.Type)
		if typ == "" {
			typ = models.NotificationInfo
		}

		notif := models.Notification{
			UserID:  body.UserID,
			Title:   body.Title,
			Message: body.Message,
			Type:    typ,
		}
		if err := database.DB.Create(&notif).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create notification")
		}
		return c.Status(fiber.StatusCreated).JSON(notif)
	}
}

// GET /api/notifications?unread=true
// Lists the calling user's notifications, newest first.
func ListNotificationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		q := database.DB.Where("user_id = ?", userID).Order("created_at desc")
		if c.Query("unread") == "true" {
			q = q.Where("read = ?", false)
		}

		var notifs []models.Notification
		if err := q.Find(&notifs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list notifications")
		}
		return c.JSON(notifs)
	}
}

// GET /api/notifications/stats
func NotificationStatsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var total, unread int64
		err = database.DB.Model(&models.Notification{}).
			Where("user_id = ?", userID).
			Count(&total).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not count notifications")
		}
		err = database.DB.Model(&models.Notification{}).
			Where("user_id = ? AND read = ?", userID, false).
			Count(&unread).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not count notifications")
		}

		var rows []struct {
			Type  models.NotificationType
			Count int64
		}
		err = database.DB.Model(&models.Notification{}).
			Select("type, count(*) as count").
			Where("user_id = ?", userID).
			Group("type").
			Scan(&rows).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not count notifications")
		}
		byType := make(map[models.NotificationType]int64, len(rows))
		for _, r := range rows {
			byType[r.Type] = r.Count
		}

		return c.JSON(fiber.Map{"total": total, "unread": unread, "by_type": byType})
	}
}

// PUT /api/notifications/:id/read
func MarkReadHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		res := database.DB.Model(&models.Notification{}).
			Where("id = ? AND user_id = ?", c.Params("id"), userID).
			UpdateColumn("read", true)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not update notification")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "notification not found")
		}
		return c.JSON(fiber.Map{"updated": true})
	}
}

// PUT /api/notifications/read-all
func MarkAllReadHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		err = database.DB.Model(&models.Notification{}).
			Where("user_id = ? AND read = ?", userID, false).
			UpdateColumn("read", true).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not update notifications")
		}
		return c.JSON(fiber.Map{"updated": true})
	}
}

// DELETE /api/notifications/:id
func DeleteNotificationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		res := database.DB.
			Where("id = ? AND user_id = ?", c.Params("id"), userID).
			Delete(&models.Notification{})
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not delete notification")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "notification not found")
		}
		return c.JSON(fiber.Map{"deleted": true})
	}
}
