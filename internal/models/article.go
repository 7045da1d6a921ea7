package models

// Article statuses. There is no enforced transition order between them; any
// authorized writer may flip a published article back to draft.
const (
	ArticleStatusDraft     = "draft"
	ArticleStatusPublished = "published"
)

// Article is a farm news / blog post shown on the storefront.
type Article struct {
	BaseModel
	Title    string `json:"title"`
	Content  string `json:"content"`
	Author   string `json:"author"`
	ImageURL string `json:"image_url"`
	Status   string `gorm:"default:draft" json:"status"`
}
