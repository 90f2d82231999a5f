package backend

import (
	"context"
	"net/url"

	"marketspace/internal/models"
)

// SessionResult is the backend's answer to a successful sign-in.
type SessionResult struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// ProductInput is the product payload sent on create and update. IsActive is
// only set on create; updates leave the activation flag alone (that is what
// the dedicated PATCH is for).
type ProductInput struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	IsNew          bool     `json:"is_new"`
	Price          float64  `json:"price"`
	AcceptTrade    bool     `json:"accept_trade"`
	PaymentMethods []string `json:"payment_methods"`
	IsActive       *bool    `json:"is_active,omitempty"`
}

// CreateUserInput carries a sign-up form. When Avatar is present the request
// goes out as multipart, otherwise as plain JSON.
type CreateUserInput struct {
	Name     string
	Email    string
	Tel      string
	Password string
	Avatar   *models.ImageAttachment
}

// API is the surface of the remote marketplace backend the gateway consumes.
// The backend owns all authority over the data; this interface is purely a
// typed transport boundary.
type API interface {
	SignIn(ctx context.Context, email, password string) (*SessionResult, error)
	CreateUser(ctx context.Context, input CreateUserInput) error

	FetchProducts(ctx context.Context, token string, params url.Values) ([]models.Product, error)
	FetchOwnProducts(ctx context.Context, token string) ([]models.Product, error)
	FetchProduct(ctx context.Context, token, productID string) (*models.Product, error)
	CreateProduct(ctx context.Context, token string, input ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, token, productID string, input ProductInput) error
	SetProductActive(ctx context.Context, token, productID string, active bool) error
	DeleteProduct(ctx context.Context, token, productID string) error

	UploadProductImages(ctx context.Context, token, productID string, images []models.ImageAttachment) ([]models.ProductImage, error)
	DeleteProductImages(ctx context.Context, token string, imageIDs []string) error

	ImageURL(path string) string
}
