package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/okeetropics/internal/middleware"
	"github.com/example/okeetropics/internal/models"
	"github.com/example/okeetropics/internal/utils"
)

// UserHandler manages the user administration console endpoints. All of
// them sit behind the super-admin role check.
type UserHandler struct {
	db *gorm.DB
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// ListUsers returns all accounts.
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.User{})

	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var users []models.User
	if err := query.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&users).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    users,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetUser returns a single account.
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": user})
}

type updateUserRequest struct {
	Name    string          `json:"name"`
	Phone   string          `json:"phone"`
	Role    models.Role     `json:"role"`
	Address *models.Address `json:"address"`
}

// UpdateUser applies a partial update to an account, including role changes.
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	var req updateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Role != "" {
		if !req.Role.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "invalid role")
		}
		user.Role = req.Role
	}
	if req.Address != nil {
		user.Address = *req.Address
	}

	if err := h.db.Save(&user).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": user})
}

// DeleteUser removes an account. Deleting your own account is rejected so a
// super admin cannot lock everyone out by accident.
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	}

	if id == identity.UserID {
		return fiber.NewError(fiber.StatusBadRequest, "cannot delete your own account")
	}

	result := h.db.Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	}

	return c.JSON(fiber.Map{"success": true, "message": "user deleted"})
}
