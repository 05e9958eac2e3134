// Package api implements the HTTP client for the food platform's admin API.
// Every endpoint wraps its payload in a {success, data, message} envelope and
// expects bearer-token authorization.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TokenProvider supplies the bearer token attached to every request. The
// session object implements it; tests inject fixed strings.
type TokenProvider interface {
	Token() string
}

// StaticToken is a TokenProvider for a fixed token value.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// Client talks to the platform HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	tokens    TokenProvider
}

const (
	defaultBaseURL   = "http://127.0.0.1:4000"
	defaultUserAgent = "maitre/0.1"
	requestTimeout   = 10 * time.Second
)

// NewClient builds a Client for the given base URL. An empty baseURL falls
// back to the local development default.
func NewClient(baseURL string, tokens TokenProvider) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		tokens:    tokens,
	}, nil
}

// Upload is an image payload attached to a multipart request. Callers build
// it from a processed media asset, or from the original file bytes when the
// pipeline's fallback policy applies.
type Upload struct {
	Filename string
	MIMEType string
	Bytes    []byte
}

// FetchCategories retrieves all menu categories.
func (c *Client) FetchCategories(ctx context.Context) ([]Category, error) {
	return fetchList[Category](ctx, c, "/api/categories")
}

// CreateCategory creates a category, attaching image as a multipart part
// when present.
func (c *Client) CreateCategory(ctx context.Context, payload CategoryPayload, image *Upload) (Category, error) {
	return sendMultipart[Category](ctx, c, http.MethodPost, "/api/categories", categoryFields(payload), image)
}

// UpdateCategory replaces the category's mutable fields.
func (c *Client) UpdateCategory(ctx context.Context, id int64, payload CategoryPayload, image *Upload) (Category, error) {
	return sendMultipart[Category](ctx, c, http.MethodPut, fmt.Sprintf("/api/categories/%d", id), categoryFields(payload), image)
}

// DeleteCategory removes a category.
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/categories/%d", id))
}

// FetchMenuItems retrieves all menu items.
func (c *Client) FetchMenuItems(ctx context.Context) ([]MenuItem, error) {
	return fetchList[MenuItem](ctx, c, "/api/menu-items")
}

// CreateMenuItem creates a menu item, attaching image as a multipart part
// when present.
func (c *Client) CreateMenuItem(ctx context.Context, payload MenuItemPayload, image *Upload) (MenuItem, error) {
	return sendMultipart[MenuItem](ctx, c, http.MethodPost, "/api/menu-items", menuItemFields(payload), image)
}

// UpdateMenuItem replaces the menu item's mutable fields.
func (c *Client) UpdateMenuItem(ctx context.Context, id int64, payload MenuItemPayload, image *Upload) (MenuItem, error) {
	return sendMultipart[MenuItem](ctx, c, http.MethodPut, fmt.Sprintf("/api/menu-items/%d", id), menuItemFields(payload), image)
}

// DeleteMenuItem removes a menu item.
func (c *Client) DeleteMenuItem(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/menu-items/%d", id))
}

// FetchUsers retrieves all user accounts.
func (c *Client) FetchUsers(ctx context.Context) ([]User, error) {
	return fetchList[User](ctx, c, "/api/users")
}

// CreateUser creates a user account.
func (c *Client) CreateUser(ctx context.Context, payload UserPayload) (User, error) {
	return sendJSON[User](ctx, c, http.MethodPost, "/api/users", userBody(payload))
}

// UpdateUser replaces the user's mutable fields.
func (c *Client) UpdateUser(ctx context.Context, id int64, payload UserPayload) (User, error) {
	return sendJSON[User](ctx, c, http.MethodPut, fmt.Sprintf("/api/users/%d", id), userBody(payload))
}

// DeleteUser removes a user account.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/users/%d", id))
}

// FetchOffers retrieves all offers.
func (c *Client) FetchOffers(ctx context.Context) ([]Offer, error) {
	return fetchList[Offer](ctx, c, "/api/offers")
}

// CreateOffer creates an offer. The image, when present, travels inside the
// JSON body as a base64 data URI.
func (c *Client) CreateOffer(ctx context.Context, payload OfferPayload) (Offer, error) {
	return sendJSON[Offer](ctx, c, http.MethodPost, "/api/offers", offerBody(payload))
}

// UpdateOffer replaces the offer's mutable fields.
func (c *Client) UpdateOffer(ctx context.Context, id int64, payload OfferPayload) (Offer, error) {
	return sendJSON[Offer](ctx, c, http.MethodPut, fmt.Sprintf("/api/offers/%d", id), offerBody(payload))
}

// DeleteOffer removes an offer.
func (c *Client) DeleteOffer(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/offers/%d", id))
}

// FetchMessages retrieves all contact messages.
func (c *Client) FetchMessages(ctx context.Context) ([]ContactMessage, error) {
	return fetchList[ContactMessage](ctx, c, "/api/messages")
}

// DeleteMessage removes a contact message.
func (c *Client) DeleteMessage(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/messages/%d", id))
}

// FetchOrders retrieves all orders.
func (c *Client) FetchOrders(ctx context.Context) ([]Order, error) {
	return fetchList[Order](ctx, c, "/api/orders")
}

// UpdateOrderStatus sets an order's status. The caller validates the
// transition before calling; the server remains the authority.
func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status string) error {
	body := map[string]string{"status": status}
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode body: %w", err)
	}
	path := fmt.Sprintf("/api/orders/%d/status", id)
	return c.do(ctx, http.MethodPut, path, "application/json", bytes.NewReader(data), nil)
}

func categoryFields(p CategoryPayload) url.Values {
	values := url.Values{}
	values.Set("name", p.Name)
	values.Set("display_order", fmt.Sprintf("%d", p.DisplayOrder))
	return values
}

func menuItemFields(p MenuItemPayload) url.Values {
	values := url.Values{}
	values.Set("name", p.Name)
	values.Set("description", p.Description)
	values.Set("price", fmt.Sprintf("%.2f", p.Price))
	values.Set("category_id", fmt.Sprintf("%d", p.CategoryID))
	values.Set("available", fmt.Sprintf("%t", p.Available))
	return values
}

func userBody(p UserPayload) any {
	return map[string]any{
		"name":  p.Name,
		"email": p.Email,
		"role":  p.Role,
	}
}

func offerBody(p OfferPayload) any {
	body := map[string]any{
		"title":        p.Title,
		"description":  p.Description,
		"discount_pct": p.DiscountPct,
		"active":       p.Active,
	}
	if p.ImageDataURI != "" {
		body["image"] = p.ImageDataURI
	}
	return body
}

func fetchList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []T
	if err := c.do(ctx, http.MethodGet, path, "", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func sendJSON[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var payload T
	if c == nil {
		return payload, fmt.Errorf("client is nil")
	}
	data, err := json.Marshal(body)
	if err != nil {
		return payload, fmt.Errorf("encode body: %w", err)
	}
	if err := c.do(ctx, method, path, "application/json", bytes.NewReader(data), &payload); err != nil {
		return payload, err
	}
	return payload, nil
}

func sendMultipart[T any](ctx context.Context, c *Client, method, path string, fields url.Values, image *Upload) (T, error) {
	var payload T
	if c == nil {
		return payload, fmt.Errorf("client is nil")
	}
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, values := range fields {
		for _, value := range values {
			if err := writer.WriteField(name, value); err != nil {
				return payload, fmt.Errorf("write field %s: %w", name, err)
			}
		}
	}
	if image != nil {
		filename := image.Filename
		if filename == "" {
			filename = "image"
		}
		part, err := writer.CreateFormFile("image", filename)
		if err != nil {
			return payload, fmt.Errorf("create image part: %w", err)
		}
		if _, err := part.Write(image.Bytes); err != nil {
			return payload, fmt.Errorf("write image part: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return payload, fmt.Errorf("close multipart body: %w", err)
	}
	if err := c.do(ctx, method, path, writer.FormDataContentType(), &buf, &payload); err != nil {
		return payload, err
	}
	return payload, nil
}

func (c *Client) delete(ctx context.Context, path string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodDelete, path, "", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, dest any) error {
	rel := &url.URL{Path: path}
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if token := strings.TrimSpace(c.tokens.Token()); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: fmt.Sprintf("%s %s", method, path), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrAuthRequired
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: fmt.Sprintf("read %s %s", method, path), Err: err}
	}

	var env envelope
	decodable := json.Unmarshal(raw, &env) == nil

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := &ServerError{Status: resp.StatusCode}
		if decodable {
			serr.Message = env.Message
		}
		return serr
	}
	if !decodable {
		return &ServerError{Status: resp.StatusCode, Message: "unreadable response body"}
	}
	if !env.Success {
		return &ServerError{Status: resp.StatusCode, Message: env.Message}
	}
	if dest == nil {
		return nil
	}
	if len(env.Data) == 0 {
		return &ServerError{Status: resp.StatusCode, Message: "response carried no data"}
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

func parseBaseURL(baseURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api base url %q: %w", baseURL, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
