package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/okeetropics/internal/models"
)

// TokenSource supplies the bearer credential for outgoing requests.
// SessionStore satisfies it.
type TokenSource interface {
	Token() string
}

// Client talks to the backend API. Every request to a non-public resource
// carries the session's bearer credential in the Authorization header.
type Client struct {
	baseURL string
	httpc   *http.Client
	tokens  TokenSource

	orderMu      sync.Mutex
	orderPending bool
}

// NewClient constructs a Client against baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}
}

// SetTokenSource wires the session store in after construction; the session
// store itself depends on the client as its credential verifier.
func (c *Client) SetTokenSource(tokens TokenSource) {
	c.tokens = tokens
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	User    json.RawMessage `json:"user"`
	Token   string          `json:"token"`
}

// VerifyLogin implements Verifier against POST /api/auth/login.
func (c *Client) VerifyLogin(ctx context.Context, email, password string) (Identity, string, error) {
	body := map[string]string{"email": email, "password": password}

	var env envelope
	err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &env)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return Identity{}, "", ErrInvalidCredentials
		}
		return Identity{}, "", err
	}

	identity, err := decodeIdentity(env.User)
	if err != nil {
		return Identity{}, "", fmt.Errorf("%w: malformed login response", ErrServer)
	}
	return identity, env.Token, nil
}

// CreateAccount implements Verifier against POST /api/auth/register.
func (c *Client) CreateAccount(ctx context.Context, reg Registration) (Identity, string, error) {
	body := map[string]interface{}{
		"name":     reg.Name,
		"email":    reg.Email,
		"password": reg.Password,
		"phone":    reg.Phone,
		"address":  reg.Address,
		"payment": map[string]string{
			"card_number": reg.CardNumber,
			"card_holder": reg.CardHolder,
			"expiry_date": reg.ExpiryDate,
			"cvv":         reg.CVV,
		},
	}

	var env envelope
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &env); err != nil {
		return Identity{}, "", err
	}

	identity, err := decodeIdentity(env.User)
	if err != nil {
		return Identity{}, "", fmt.Errorf("%w: malformed register response", ErrServer)
	}
	return identity, env.Token, nil
}

// ListArticles fetches the public article list (summary fields only).
func (c *Client) ListArticles(ctx context.Context) ([]models.Article, error) {
	var env envelope
	if err := c.do(ctx, http.MethodGet, "/api/articles", nil, &env); err != nil {
		return nil, err
	}

	var articles []models.Article
	if err := json.Unmarshal(env.Data, &articles); err != nil {
		return nil, fmt.Errorf("%w: malformed article list", ErrServer)
	}
	return articles, nil
}

// GetArticle fetches one article with full content.
func (c *Client) GetArticle(ctx context.Context, id uuid.UUID) (models.Article, error) {
	var env envelope
	if err := c.do(ctx, http.MethodGet, "/api/articles/"+id.String(), nil, &env); err != nil {
		return models.Article{}, err
	}

	var article models.Article
	if err := json.Unmarshal(env.Data, &article); err != nil {
		return models.Article{}, fmt.Errorf("%w: malformed article", ErrServer)
	}
	return article, nil
}

// ListProducts fetches the public produce catalog.
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var env envelope
	if err := c.do(ctx, http.MethodGet, "/api/products", nil, &env); err != nil {
		return nil, err
	}

	var products []models.Product
	if err := json.Unmarshal(env.Data, &products); err != nil {
		return nil, fmt.Errorf("%w: malformed product list", ErrServer)
	}
	return products, nil
}

// GetProduct fetches one catalog entry.
func (c *Client) GetProduct(ctx context.Context, id uuid.UUID) (models.Product, error) {
	var env envelope
	if err := c.do(ctx, http.MethodGet, "/api/products/"+id.String(), nil, &env); err != nil {
		return models.Product{}, err
	}

	var product models.Product
	if err := json.Unmarshal(env.Data, &product); err != nil {
		return models.Product{}, fmt.Errorf("%w: malformed product", ErrServer)
	}
	return product, nil
}

// CreateOrder submits the cart lines as a new order. Only one submission
// may be in flight at a time; a second call while one is pending fails with
// ErrRequestInFlight instead of creating a duplicate order.
func (c *Client) CreateOrder(ctx context.Context, items []LineItem, shipping models.Address, notes string) (models.Order, error) {
	c.orderMu.Lock()
	if c.orderPending {
		c.orderMu.Unlock()
		return models.Order{}, ErrRequestInFlight
	}
	c.orderPending = true
	c.orderMu.Unlock()

	defer func() {
		c.orderMu.Lock()
		c.orderPending = false
		c.orderMu.Unlock()
	}()

	type orderItem struct {
		ProductID string  `json:"product_id"`
		Name      string  `json:"name"`
		ImageURL  string  `json:"image_url"`
		Quantity  int     `json:"quantity"`
		UnitPrice float64 `json:"unit_price"`
	}

	payload := struct {
		Items    []orderItem    `json:"items"`
		Shipping models.Address `json:"shipping"`
		Notes    string         `json:"notes"`
	}{Shipping: shipping, Notes: notes}

	for _, item := range items {
		payload.Items = append(payload.Items, orderItem{
			ProductID: item.ProductID.String(),
			Name:      item.Name,
			ImageURL:  item.ImageURL,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	var env envelope
	if err := c.do(ctx, http.MethodPost, "/api/orders", payload, &env); err != nil {
		return models.Order{}, err
	}

	var order models.Order
	if err := json.Unmarshal(env.Data, &order); err != nil {
		return models.Order{}, fmt.Errorf("%w: malformed order", ErrServer)
	}
	return order, nil
}

// MyOrders fetches the caller's order history.
func (c *Client) MyOrders(ctx context.Context) ([]models.Order, error) {
	var env envelope
	if err := c.do(ctx, http.MethodGet, "/api/orders/my-orders", nil, &env); err != nil {
		return nil, err
	}

	var orders []models.Order
	if err := json.Unmarshal(env.Data, &orders); err != nil {
		return nil, fmt.Errorf("%w: malformed order list", ErrServer)
	}
	return orders, nil
}

// GetOrder fetches one order.
func (c *Client) GetOrder(ctx context.Context, id uuid.UUID) (models.Order, error) {
	var env envelope
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+id.String(), nil, &env); err != nil {
		return models.Order{}, err
	}

	var order models.Order
	if err := json.Unmarshal(env.Data, &order); err != nil {
		return models.Order{}, fmt.Errorf("%w: malformed order", ErrServer)
	}
	return order, nil
}

// do issues one request and decodes the response envelope. HTTP failure
// statuses are mapped onto the package error taxonomy; transport failures
// where no response arrived at all count as ErrServer.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServer, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServer, err)
	}

	if resp.StatusCode >= 400 {
		return statusError(resp.StatusCode, data)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%w: undecodable response body", ErrServer)
		}
	}
	return nil
}

// statusError maps a failure status to the error taxonomy, keeping the
// server's message text for display.
func statusError(status int, body []byte) error {
	msg := strings.TrimSpace(string(body))

	var base error
	switch status {
	case http.StatusUnauthorized:
		base = ErrUnauthorized
	case http.StatusForbidden:
		base = ErrForbidden
	case http.StatusNotFound:
		base = ErrNotFound
	case http.StatusBadRequest, http.StatusConflict, http.StatusTooManyRequests:
		base = ErrRejected
	default:
		base = ErrServer
	}

	if msg == "" {
		return base
	}
	return fmt.Errorf("%w: %s", base, msg)
}

// decodeIdentity maps the API's user representation onto Identity.
func decodeIdentity(raw json.RawMessage) (Identity, error) {
	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return Identity{}, err
	}
	if user.ID == uuid.Nil || !user.Role.Valid() {
		return Identity{}, fmt.Errorf("incomplete user record")
	}

	return Identity{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		Role:    user.Role,
		Phone:   user.Phone,
		Address: user.Address,
		Payment: user.Payment,
	}, nil
}
