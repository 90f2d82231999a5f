package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"marketspace/internal/backend"
	"marketspace/internal/models"
	"marketspace/pkg/rabbitmq"

	"github.com/google/uuid"
)

// Attachment policy carried over from the mobile client. These are UI rules,
// not backend invariants, so the gateway enforces them for every caller.
const (
	// MaxAdImages is the most attachments an ad may carry.
	MaxAdImages = 3
	// MaxImageBytes is the size cap for a single image (5 MiB).
	MaxImageBytes = 5 * 1024 * 1024
)

var (
	// ErrNoImages rejects a submission with an empty attachment set before
	// any network request is made.
	ErrNoImages = errors.New("select at least one image for your ad")
	// ErrImageTooLarge rejects a single image above the size cap.
	ErrImageTooLarge = errors.New("image is larger than 5 MB")
)

// AdForm carries the user-entered fields of the ad composition form.
// Everything except trade acceptance is required; the condition pointer
// distinguishes "unset" from "used".
type AdForm struct {
	Name           string   `json:"name" validate:"required"`
	Description    string   `json:"description" validate:"required"`
	IsNew          *bool    `json:"is_new" validate:"required"`
	Price          float64  `json:"price" validate:"required,gt=0"`
	AcceptTrade    bool     `json:"accept_trade"`
	PaymentMethods []string `json:"payment_methods" validate:"required,min=1,dive,oneof=boleto pix cash card deposit"`
}

// AdService handles the ad composition and lifecycle flows: creating an ad
// with its images, editing it with the update/upload/delete sequence, and
// toggling or deleting it.
type AdService struct {
	api      backend.API
	sessions *SessionService
	mqClient *rabbitmq.Client // optional; nil disables ad events
}

// NewAdService creates a new AdService. mqClient may be nil.
func NewAdService(api backend.API, sessions *SessionService, mqClient *rabbitmq.Client) *AdService {
	return &AdService{
		api:      api,
		sessions: sessions,
		mqClient: mqClient,
	}
}

// AttachImages merges freshly picked images into the working attachment set
// under the attachment policy: any single image above the size cap is skipped
// with a warning, and anything beyond the third attachment is skipped with a
// warning. The rest of the selection always survives; the returned set never
// exceeds MaxAdImages.
func (s *AdService) AttachImages(current, picked []models.ImageAttachment) ([]models.ImageAttachment, []string) {
	merged := make([]models.ImageAttachment, len(current))
	copy(merged, current)

	var warnings []string
	for _, img := range picked {
		if img.Size > MaxImageBytes {
			warnings = append(warnings, fmt.Sprintf("%s is larger than 5 MB and was skipped", img.FileName))
			continue
		}
		if len(merged) >= MaxAdImages {
			warnings = append(warnings, fmt.Sprintf("only up to %d photos can be attached; %s was skipped", MaxAdImages, img.FileName))
			continue
		}
		if img.ID == "" {
			img.ID = uuid.New().String()
		}
		img.New = true
		merged = append(merged, img)
	}
	return merged, warnings
}

// Get fetches a single ad.
func (s *AdService) Get(ctx context.Context, productID string) (*models.Product, error) {
	token, err := s.sessions.Token()
	if err != nil {
		return nil, err
	}
	return s.api.FetchProduct(ctx, token, productID)
}

// Create submits a new ad: one request for the base record, then one
// multipart request uploading every attachment under the new ad's ID.
// A submission without images never reaches the network.
func (s *AdService) Create(ctx context.Context, form AdForm, images []models.ImageAttachment) (*models.Product, error) {
	token, err := s.sessions.Token()
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, ErrNoImages
	}

	active := true
	product, err := s.api.CreateProduct(ctx, token, backend.ProductInput{
		Name:           form.Name,
		Description:    form.Description,
		IsNew:          form.IsNew != nil && *form.IsNew,
		Price:          form.Price,
		AcceptTrade:    form.AcceptTrade,
		PaymentMethods: form.PaymentMethods,
		IsActive:       &active,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.api.UploadProductImages(ctx, token, product.ID, images); err != nil {
		// The base record exists at this point; there is no compensation.
		return nil, fmt.Errorf("ad %s created but image upload failed: %w", product.ID, err)
	}

	s.publish(rabbitmq.EventAdCreated, map[string]interface{}{
		"productID": product.ID,
		"userID":    product.UserID,
		"name":      product.Name,
	})

	return product, nil
}

// Edit applies an ad edit as three requests in a fixed order: base-field
// update, upload of pending images (only if any), deletion of removed
// persisted images (only if any). There is no rollback on partial failure;
// the returned error names the step that failed.
func (s *AdService) Edit(ctx context.Context, productID string, form AdForm, images []models.ImageAttachment, removedImageIDs []string) error {
	token, err := s.sessions.Token()
	if err != nil {
		return err
	}
	if len(images) == 0 {
		return ErrNoImages
	}

	err = s.api.UpdateProduct(ctx, token, productID, backend.ProductInput{
		Name:           form.Name,
		Description:    form.Description,
		IsNew:          form.IsNew != nil && *form.IsNew,
		Price:          form.Price,
		AcceptTrade:    form.AcceptTrade,
		PaymentMethods: form.PaymentMethods,
	})
	if err != nil {
		return fmt.Errorf("updating ad fields: %w", err)
	}

	if hasPendingImages(images) {
		if _, err := s.api.UploadProductImages(ctx, token, productID, images); err != nil {
			return fmt.Errorf("uploading new images: %w", err)
		}
	}

	if len(removedImageIDs) > 0 {
		if err := s.api.DeleteProductImages(ctx, token, removedImageIDs); err != nil {
			return fmt.Errorf("removing images: %w", err)
		}
	}

	return nil
}

// SetActive flips only the ad's is_active flag. Activation and deactivation
// report failures the same way.
func (s *AdService) SetActive(ctx context.Context, productID string, active bool) error {
	token, err := s.sessions.Token()
	if err != nil {
		return err
	}

	if err := s.api.SetProductActive(ctx, token, productID, active); err != nil {
		return err
	}

	s.publish(rabbitmq.EventAdStatusChanged, map[string]interface{}{
		"productID": productID,
		"isActive":  active,
	})
	return nil
}

// Delete removes the ad.
func (s *AdService) Delete(ctx context.Context, productID string) error {
	token, err := s.sessions.Token()
	if err != nil {
		return err
	}

	if err := s.api.DeleteProduct(ctx, token, productID); err != nil {
		return err
	}

	s.publish(rabbitmq.EventAdDeleted, map[string]interface{}{
		"productID": productID,
	})
	return nil
}

// publish emits an ad event when a broker is configured. Event delivery is
// best effort and never fails the user's action.
func (s *AdService) publish(event string, payload map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	if err := s.mqClient.PublishAdEvent(event, payload); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", event, err)
	}
}

func hasPendingImages(images []models.ImageAttachment) bool {
	for _, img := range images {
		if img.New {
			return true
		}
	}
	return false
}
