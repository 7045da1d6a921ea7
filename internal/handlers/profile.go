package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/okeetropics/internal/middleware"
	"github.com/example/okeetropics/internal/models"
	"github.com/example/okeetropics/internal/validate"
)

// ProfileHandler manages the authenticated user's own profile.
type ProfileHandler struct {
	db *gorm.DB
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{db: db}
}

// GetProfile returns the caller's profile.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", identity.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": user})
}

type updateProfileRequest struct {
	Name    string          `json:"name"`
	Phone   string          `json:"phone"`
	Address *models.Address `json:"address"`
}

// UpdateProfile applies a partial update to the caller's profile. Role and
// email are not editable here.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", identity.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Phone != "" {
		if err := validate.Phone(req.Phone); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		user.Phone = req.Phone
	}
	if req.Address != nil {
		user.Address = *req.Address
	}

	if err := h.db.Save(&user).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": user})
}
