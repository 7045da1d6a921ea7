package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/okeetropics/internal/models"
	"github.com/example/okeetropics/internal/utils"
)

// ProductHandler manages the produce catalog.
type ProductHandler struct {
	db *gorm.DB
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(db *gorm.DB) *ProductHandler {
	return &ProductHandler{db: db}
}

// ListProducts returns paginated products with optional filters.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Product{})

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		q := "%" + search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", q, q)
	}

	if minPrice := c.Query("min_price"); minPrice != "" {
		if val, err := strconv.ParseFloat(minPrice, 64); err == nil {
			query = query.Where("price >= ?", val)
		}
	}

	if maxPrice := c.Query("max_price"); maxPrice != "" {
		if val, err := strconv.ParseFloat(maxPrice, 64); err == nil {
			query = query.Where("price <= ?", val)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var products []models.Product
	if err := query.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&products).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    products,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetProduct returns a single product.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "product not found")
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": product})
}

type productRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Price       *float64 `json:"price"`
	Unit        string   `json:"unit"`
	ImageURL    string   `json:"image_url"`
	Stock       *int     `json:"stock"`
	IsActive    *bool    `json:"is_active"`
}

// CreateProduct adds a catalog entry.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" || req.Price == nil {
		return fiber.NewError(fiber.StatusBadRequest, "name and price are required")
	}
	if *req.Price < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "price must not be negative")
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       *req.Price,
		Unit:        req.Unit,
		ImageURL:    req.ImageURL,
		IsActive:    true,
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := h.db.Create(&product).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": product})
}

// UpdateProduct applies a partial update to a catalog entry.
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "product not found")
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Description != "" {
		product.Description = req.Description
	}
	if req.Category != "" {
		product.Category = req.Category
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "price must not be negative")
		}
		product.Price = *req.Price
	}
	if req.Unit != "" {
		product.Unit = req.Unit
	}
	if req.ImageURL != "" {
		product.ImageURL = req.ImageURL
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := h.db.Save(&product).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": product})
}

// DeleteProduct removes a catalog entry.
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "product not found")
	}

	result := h.db.Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "product not found")
	}

	return c.JSON(fiber.Map{"success": true, "message": "product deleted"})
}
