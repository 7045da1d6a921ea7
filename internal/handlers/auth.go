package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/okeetropics/internal/config"
	"github.com/example/okeetropics/internal/metrics"
	"github.com/example/okeetropics/internal/models"
	"github.com/example/okeetropics/internal/utils"
	"github.com/example/okeetropics/internal/validate"
)

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	db      *gorm.DB
	cfg     *config.Config
	metrics *metrics.Collector
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config, collector *metrics.Collector) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, metrics: collector}
}

type registerRequest struct {
	Name     string         `json:"name"`
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Phone    string         `json:"phone"`
	Address  models.Address `json:"address"`
	Payment  struct {
		CardNumber string `json:"card_number"`
		CardHolder string `json:"card_holder"`
		ExpiryDate string `json:"expiry_date"`
		CVV        string `json:"cvv"`
	} `json:"payment"`
}

// Register creates a new customer account. Accounts always start with the
// customer role; there is no self-service path to an admin role.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing required fields")
	}

	form := validate.RegistrationForm{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Phone:      req.Phone,
		CardNumber: req.Payment.CardNumber,
		ExpiryDate: req.Payment.ExpiryDate,
		CVV:        req.Payment.CVV,
	}
	if err := validate.Registration(form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var existing models.User
	if err := h.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return fiber.NewError(fiber.StatusConflict, "user already exists")
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         models.RoleCustomer,
		Phone:        req.Phone,
		Address:      req.Address,
		Payment: models.PaymentCard{
			CardNumber: maskCardNumber(req.Payment.CardNumber),
			CardHolder: req.Payment.CardHolder,
			ExpiryDate: req.Payment.ExpiryDate,
		},
	}

	if err := h.db.Create(&user).Error; err != nil {
		return err
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, utils.TokenIdentity{
		UserID: user.ID,
		Name:   user.Name,
		Role:   user.Role,
	}, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"user":    user,
		"token":   token,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates an existing user.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			h.metrics.RecordLoginFailure()
			return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
		}
		return err
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		h.metrics.RecordLoginFailure()
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, utils.TokenIdentity{
		UserID: user.ID,
		Name:   user.Name,
		Role:   user.Role,
	}, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	h.metrics.RecordLogin()

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
		"token":   token,
	})
}

// maskCardNumber keeps only the last four digits of a stored card number.
func maskCardNumber(card string) string {
	digits := make([]rune, 0, len(card))
	for _, r := range card {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) < 4 {
		return ""
	}
	return "**** **** **** " + string(digits[len(digits)-4:])
}
