package routes

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/okeetropics/internal/models"
)

func TestArticleReadsArePublic(t *testing.T) {
	app, db, _ := newTestApp(t)

	article := models.Article{
		Title:   "Mango season opens",
		Content: "The first crates come off the trees this week.",
		Author:  "Farm Admin",
		Status:  models.ArticleStatusPublished,
	}
	require.NoError(t, db.Create(&article).Error)

	resp := doJSON(t, app, http.MethodGet, "/api/articles", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var listed []models.Article
	decodeData(t, resp, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, "Mango season opens", listed[0].Title)
	assert.Empty(t, listed[0].Content, "list view must omit full content")

	resp = doJSON(t, app, http.MethodGet, "/api/articles/"+article.ID.String(), "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var fetched models.Article
	decodeData(t, resp, &fetched)
	assert.Equal(t, article.Content, fetched.Content)
}

func TestCreateArticleAuthorizationMatrix(t *testing.T) {
	app, db, cfg := newTestApp(t)

	admin := seedUser(t, db, "Farm Admin", "admin@farm.test", models.RoleAdmin)
	customer := seedUser(t, db, "Shopper", "user@farm.test", models.RoleCustomer)

	body := map[string]interface{}{
		"title":   "Harvest notes",
		"content": "Rain pushed the pick back two days.",
	}

	// no credential
	resp := doJSON(t, app, http.MethodPost, "/api/articles", "", body)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// valid credential, insufficient role
	resp = doJSON(t, app, http.MethodPost, "/api/articles", tokenFor(t, cfg, customer), body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// admin, but missing title
	resp = doJSON(t, app, http.MethodPost, "/api/articles", tokenFor(t, cfg, admin), map[string]interface{}{
		"content": "No title on this one.",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// admin with a complete body; client-supplied author must be ignored
	resp = doJSON(t, app, http.MethodPost, "/api/articles", tokenFor(t, cfg, admin), map[string]interface{}{
		"title":   "Harvest notes",
		"content": "Rain pushed the pick back two days.",
		"author":  "Mallory",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Article
	decodeData(t, resp, &created)
	assert.Equal(t, "Farm Admin", created.Author, "author comes from the token identity")
	assert.Equal(t, models.ArticleStatusDraft, created.Status, "status defaults to draft")
}

func TestUpdateAndDeleteArticle(t *testing.T) {
	app, db, cfg := newTestApp(t)
	admin := seedUser(t, db, "Farm Admin", "admin@farm.test", models.RoleAdmin)
	token := tokenFor(t, cfg, admin)

	article := models.Article{Title: "Draft", Content: "Body text here.", Author: "Farm Admin"}
	require.NoError(t, db.Create(&article).Error)

	resp := doJSON(t, app, http.MethodPut, "/api/articles/"+article.ID.String(), token, map[string]interface{}{
		"status": models.ArticleStatusPublished,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.Article
	decodeData(t, resp, &updated)
	assert.Equal(t, models.ArticleStatusPublished, updated.Status)
	assert.Equal(t, "Draft", updated.Title, "partial update keeps the other fields")

	resp = doJSON(t, app, http.MethodPut, "/api/articles/"+article.ID.String(), token, map[string]interface{}{
		"status": "archived",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "status outside the closed set")

	resp = doJSON(t, app, http.MethodDelete, "/api/articles/"+article.ID.String(), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodDelete, "/api/articles/"+article.ID.String(), token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
