package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/okeetropics/internal/middleware"
	"github.com/example/okeetropics/internal/models"
	"github.com/example/okeetropics/internal/utils"
)

// ArticleHandler manages farm article endpoints.
type ArticleHandler struct {
	db *gorm.DB
}

// NewArticleHandler constructs ArticleHandler.
func NewArticleHandler(db *gorm.DB) *ArticleHandler {
	return &ArticleHandler{db: db}
}

// articleSummaryFields omits the full content from list responses.
const articleSummaryFields = "id, created_at, updated_at, title, author, image_url, status"

// ListArticles returns articles newest first, without full content.
func (h *ArticleHandler) ListArticles(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Article{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var articles []models.Article
	if err := query.Select(articleSummaryFields).
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&articles).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    articles,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetArticle returns a single article with full content.
func (h *ArticleHandler) GetArticle(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "article not found")
	}

	var article models.Article
	if err := h.db.First(&article, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "article not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": article})
}

type articleRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
	Status   string `json:"status"`
}

// CreateArticle stores a new article. The author is always the
// authenticated identity's name; any client-supplied author is ignored.
func (h *ArticleHandler) CreateArticle(c *fiber.Ctx) error {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req articleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Title == "" || req.Content == "" {
		return fiber.NewError(fiber.StatusBadRequest, "title and content are required")
	}

	status := req.Status
	if status == "" {
		status = models.ArticleStatusDraft
	}
	if status != models.ArticleStatusDraft && status != models.ArticleStatusPublished {
		return fiber.NewError(fiber.StatusBadRequest, "invalid status")
	}

	article := models.Article{
		Title:    req.Title,
		Content:  req.Content,
		Author:   identity.Name,
		ImageURL: req.ImageURL,
		Status:   status,
	}

	if err := h.db.Create(&article).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": article})
}

// UpdateArticle applies a partial update to an existing article.
func (h *ArticleHandler) UpdateArticle(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "article not found")
	}

	var article models.Article
	if err := h.db.First(&article, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "article not found")
		}
		return err
	}

	var req articleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Title != "" {
		article.Title = req.Title
	}
	if req.Content != "" {
		article.Content = req.Content
	}
	if req.ImageURL != "" {
		article.ImageURL = req.ImageURL
	}
	if req.Status != "" {
		if req.Status != models.ArticleStatusDraft && req.Status != models.ArticleStatusPublished {
			return fiber.NewError(fiber.StatusBadRequest, "invalid status")
		}
		article.Status = req.Status
	}

	if err := h.db.Save(&article).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": article})
}

// DeleteArticle removes an article.
func (h *ArticleHandler) DeleteArticle(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "article not found")
	}

	result := h.db.Delete(&models.Article{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "article not found")
	}

	return c.JSON(fiber.Map{"success": true, "message": "article deleted"})
}
