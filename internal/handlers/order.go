package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/example/okeetropics/internal/metrics"
	"github.com/example/okeetropics/internal/middleware"
	"github.com/example/okeetropics/internal/models"
	"github.com/example/okeetropics/internal/services"
	"github.com/example/okeetropics/internal/utils"
)

// OrderHandler manages order endpoints.
type OrderHandler struct {
	db       *gorm.DB
	telegram *services.TelegramService
	metrics  *metrics.Collector
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB, telegram *services.TelegramService, collector *metrics.Collector) *OrderHandler {
	return &OrderHandler{db: db, telegram: telegram, metrics: collector}
}

type orderItemRequest struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	ImageURL  string  `json:"image_url"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type createOrderRequest struct {
	Items    []orderItemRequest `json:"items"`
	Shipping models.Address     `json:"shipping"`
	Currency string             `json:"currency"`
	Notes    string             `json:"notes"`
}

// CreateOrder places an order for the authenticated user. Line totals and
// the order total are computed server-side from unit price and quantity.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if len(req.Items) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "order must contain at least one item")
	}

	order := models.Order{
		UserID:      identity.UserID,
		OrderNumber: generateOrderNumber(),
		Status:      models.OrderStatusPending,
		PlacedAt:    time.Now(),
		Currency:    req.Currency,
		Shipping:    req.Shipping,
		Notes:       req.Notes,
	}
	if order.Currency == "" {
		order.Currency = "USD"
	}

	var subtotal float64
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "item quantity must be positive")
		}
		if item.UnitPrice < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "item unit price must not be negative")
		}

		line := models.OrderItem{
			ProductName: item.Name,
			ImageURL:    item.ImageURL,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.UnitPrice * float64(item.Quantity),
		}

		if item.ProductID != "" {
			if id, err := uuid.Parse(item.ProductID); err == nil {
				line.ProductID = &id
			}
		}

		subtotal += line.LineTotal
		order.Items = append(order.Items, line)
	}

	order.Subtotal = subtotal
	order.TotalAmount = subtotal + order.ShippingFee

	if err := h.db.Create(&order).Error; err != nil {
		return err
	}

	h.metrics.RecordOrderCreated()

	if h.telegram != nil {
		go h.notifyNewOrder(order, identity.Name)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": order})
}

func (h *OrderHandler) notifyNewOrder(order models.Order, userName string) {
	items := make([]services.OrderItemNotification, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, services.OrderItemNotification{
			Name:     item.ProductName,
			Quantity: item.Quantity,
			Price:    item.UnitPrice,
		})
	}

	err := h.telegram.NotifyNewOrder(services.OrderNotification{
		OrderNumber: order.OrderNumber,
		UserName:    userName,
		Items:       items,
		TotalAmount: order.TotalAmount,
		Currency:    order.Currency,
		Status:      order.Status,
	})
	if err != nil {
		log.Warn().Err(err).Str("order", order.OrderNumber).Msg("order notification failed")
	}
}

// ListAdminOrders returns every order with the owning user joined.
func (h *OrderHandler) ListAdminOrders(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Order{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").Preload("User").
		Order("placed_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// ListMyOrders returns orders scoped to the authenticated user.
func (h *OrderHandler) ListMyOrders(c *fiber.Ctx) error {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	query := h.db.Where("user_id = ?", identity.UserID).Model(&models.Order{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Order("placed_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetOrder returns a single order to its owner or to an admin.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "order not found")
	}

	var order models.Order
	if err := h.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	if order.UserID != identity.UserID && !identity.Role.IsAdmin() {
		return fiber.NewError(fiber.StatusForbidden, "not authorized")
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

type updateOrderRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus sets the order status. Only the status field can be
// changed after placement.
func (h *OrderHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if !models.ValidOrderStatus(req.Status) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid status")
	}

	var order models.Order
	if err := h.db.First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	order.Status = req.Status
	if err := h.db.Save(&order).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

// DeleteOrder removes an order and its items.
func (h *OrderHandler) DeleteOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.db.First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	if err := h.db.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	if err := h.db.Delete(&order).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "order deleted"})
}

func generateOrderNumber() string {
	return fmt.Sprintf("#%d", time.Now().UnixNano()%1000000000)
}
