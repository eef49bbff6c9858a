package user

import (
	"errors"

	"bizledger-backend/internal/database"
	"bizledger-backend/internal/models"
	"bizledger-backend/internal/web"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Phone    string `json:"phone" validate:"max=20"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=admin staff"`
}

type UpdateUserRequest struct {
	Name   *string `json:"name"`
	Phone  *string `json:"phone"`
	Role   *string `json:"role" validate:"omitempty,oneof=admin staff"`
	Status *string `json:"status" validate:"omitempty,oneof=active disabled"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

// POST /api/admin/users
func CreateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := web.BindAndValidate[CreateUserRequest](c)
		if err != nil {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not hash password")
		}

		user := models.User{
			Name:         body.Name,
			Email:        body.Email,
			Phone:        body.Phone,
			PasswordHash: string(hash),
			Role:         models.UserRole(body.Role),
			Status:       models.UserStatusActive,
		}
		if err := database.DB.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusBadRequest, "email already registered")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "could not create user")
		}

		return c.Status(fiber.StatusCreated).JSON(user)
	}
}

// GET /api/admin/users
func ListUsersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var users []models.User
		if err := database.DB.Order("name asc").Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list users")
		}
		return c.JSON(users)
	}
}

// GET /api/admin/users/:id
func GetUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var user models.User
		if err := database.DB.First(&user, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return c.JSON(user)
	}
}

// PUT /api/admin/users/:id
func UpdateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var user models.User
		if err := database.DB.First(&user, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}

		body, err := web.BindAndValidate[UpdateUserRequest](c)
		if err != nil {
			return err
		}

		if body.Name != nil {
			user.Name = *body.Name
		}
		if body.Phone != nil {
			user.Phone = *body.Phone
		}
		if body.Role != nil {
			user.Role = models.UserRole(*body.Role)
		}
		if body.Status != nil {
			user.Status = models.UserStatus(*body.Status)
		}

		if err := database.DB.Save(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not update user")
		}
		return c.JSON(user)
	}
}

// PUT /api/admin/users/:id/password
func ResetPasswordHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var user models.User
		if err := database.DB.First(&user, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}

		body, err := web.BindAndValidate[ResetPasswordRequest](c)
		if err != nil {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not hash password")
		}

		err = database.DB.Model(&user).UpdateColumn("password_hash", string(hash)).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not update password")
		}
		return c.JSON(fiber.Map{"updated": true})
	}
}
