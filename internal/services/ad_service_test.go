package services_test

import (
	"context"
	"fmt"
	"testing"

	"marketspace/internal/backend"
	"marketspace/internal/models"
	"marketspace/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func boolPtr(b bool) *bool { return &b }

func validAdForm() services.AdForm {
	return services.AdForm{
		Name:           "Blue bicycle",
		Description:    "Barely used city bike",
		IsNew:          boolPtr(false),
		Price:          450.00,
		AcceptTrade:    true,
		PaymentMethods: []string{"pix", "cash"},
	}
}

func pendingImage(name string, size int64) models.ImageAttachment {
	return models.ImageAttachment{
		New:         true,
		FileName:    name,
		ContentType: "image/jpeg",
		Size:        size,
		Data:        []byte("fake-image-bytes"),
	}
}

func TestAdService_AttachImages_CapsAtThree(t *testing.T) {
	mockAPI := new(MockBackendAPI)
	service := services.NewAdService(mockAPI, signedInSessions(mockAPI), nil)

	picked := []models.ImageAttachment{
		pendingImage("a.jpg", 1024),
		pendingImage("b.jpg", 1024),
		pendingImage("c.jpg", 1024),
		pendingImage("d.jpg", 1024),
		pendingImage("e.jpg", 1024),
	}

	merged, warnings := service.AttachImages(nil, picked)

	assert.Len(t, merged, services.MaxAdImages)
	assert.Len(t, warnings, 2)
	for _, img := range merged {
		assert.NotEmpty(t, img.ID)
		assert.True(t, img.New)
	}
}

func TestAdService_AttachImages_CountsExistingTowardCap(t *testing.T) {
	mockAPI := new(MockBackendAPI)
	service := services.NewAdService(mockAPI, signedInSessions(mockAPI), nil)

	existing := []models.ImageAttachment{
		{ID: "img-1", Path: "stored-1.jpg"},
		{ID: "img-2", Path: "stored-2.jpg"},
	}
	picked := []models.ImageAttachment{
		pendingImage("new-1.jpg", 1024),
		pendingImage("new-2.jpg", 1024),
	}

	merged, warnings := service.AttachImages(existing, picked)

	assert.Len(t, merged, 3)
	assert.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "new-2.jpg")
}

func TestAdService_AttachImages_SkipsOversizeWithoutAborting(t *testing.T) {
	mockAPI := new(MockBackendAPI)
	service := services.NewAdService(mockAPI, signedInSessions(mockAPI), nil)

	picked := []models.ImageAttachment{
		pendingImage("ok.jpg", 1024),
		pendingImage("huge.jpg", services.MaxImageBytes+1),
		pendingImage("also-ok.jpg", services.MaxImageBytes), // exactly at the cap is accepted
	}

	merged, warnings := service.AttachImages(nil, picked)

	assert.Len(t, merged, 2)
	assert.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "huge.jpg")
	for _, img := range merged {
		assert.NotEqual(t, "huge.jpg", img.FileName)
	}
}

func TestAdService_Create_RejectsZeroImagesWithoutNetwork(t *testing.T) {
	mockAPI := new(MockBackendAPI)
	service := services.NewAdService(mockAPI, signedInSessions(mockAPI), nil)

	product, err := service.Create(context.Background(), validAdForm(), nil)

	assert.Nil(t, product)
	assert.ErrorIs(t, err, services.ErrNoImages)
	mockAPI.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything, mock.Anything)
	mockAPI.AssertNotCalled(t, "UploadProductImages", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAdService_Create_CreatesRecordThenUploadsImages(t *testing.T) {
	mockAPI := new(MockBackendAPI)
	service := services.NewAdService(mockAPI, signedInSessions(mockAPI), nil)

	images := []models.ImageAttachment{pendingImage("a.jpg", 1024), pendingImage("b.jpg", 2048)}
	created := &models.Product{ID: "prod-1", Name: "Blue bicycle", UserID: "user-1", IsActive: true}

	var calls []string
	mockAPI.On("CreateProduct", mock.Anything, "token-123", mock.MatchedBy(func(input backend.ProductInput) bool {
		return input.Name == "Blue bicycle" && input.IsActive != nil && *input.IsActive
	})).Run(func(mock.Arguments) {
		calls = append(calls, "create")
	}).Return(created, nil).Once()
	mockAPI.On("UploadProductImages", mock.Anything, "token-123", "prod-1", images).Run(func(mock.Arguments) {
		calls = append(calls, "upload")
	}).Return([]models.ProductImage{}, nil).Once()

	product, err := service.Create(context.Background(), validAdForm(), images)

	assert.NoError(t, err)
	assert.Equal(t, "prod-1", product.ID)
	assert.Equal(t, []string{"create", "upload"}, calls)
	mockAPI.AssertExpectations(t)
}

func TestAdService_Create_ImageUploadFailureIsNotRolledBack(t *testing.T) {
	mockAPI := new(MockBackendAPI)
	service := services.NewAdService(mockAPI, signedInSessions(mockAPI), nil)

	images := []models.ImageAttachment{pendingImage("a.jpg", 1024)}
	created := &models.Product{ID: "prod-1"}

	mockAPI.On("CreateProduct", mock.Anything, "token-123", mock.Anything).Return(created, nil).Once()
	mockAPI.On("UploadProductImages", mock.Anything, "token-123", "prod-1", images).
		Return(nil, fmt.Errorf("upload product images: connection reset")).Once()

	product, err := service.Create(context.Background(), validAdForm(), images)

	assert.Nil(t, product)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "prod-1")
	// No compensating delete of the created record
	mockAPI.AssertNotCalled(t, "DeleteProduct", mock.Anything, mock.Anything, mock.Anything)
	mockAPI.AssertExpectations(t)
}

func TestAdService_Edit_IssuesUpdateUploadDeleteInOrder(t *testing.T) {
	mockAPI := new(MockBackendAPI)
	service := services.NewAdService(mockAPI, signedInSessions(mockAPI), nil)

	working := []models.ImageAttachment{
		{ID: "img-1", Path: "stored-1.jpg"}, // persisted, kept
		pendingImage("new.jpg", 1024),
	}
	removed := []string{"img-2", "img-3"}

	var calls []string
	mockAPI.On("UpdateProduct", mock.Anything, "token-123", "prod-1", mock.MatchedBy(func(input backend.ProductInput) bool {
		// Updates never touch the activation flag
		return input.IsActive == nil
	})).Run(func(mock.Arguments) {
		calls = append(calls, "update")
	}).Return(nil).Once()
	mockAPI.On("UploadProductImages", mock.Anything, "token-123", "prod-1", working).Run(func(mock.Arguments) {
		calls = append(calls, "upload")
	}).Return([]models.ProductImage{}, nil).Once()
	mockAPI.On("DeleteProductImages", mock.Anything, "token-123", removed).Run(func(mock.Arguments) {
		calls = append(calls, "delete")
	}).Return(nil).Once()

	err := service.Edit(context.Background(), "prod-1", validAdForm(), working, removed)

	assert.NoError(t, err)
	assert.Equal(t, []string{"update", "upload", "delete"}, calls)
	mockAPI.AssertExpectations(t)
}

func TestAdService_Edit_SkipsUploadAndDeleteWhenNothingChanged(t *testing.T) {
	mockAPI := new(MockBackendAPI)
	service := services.NewAdService(mockAPI, signedInSessions(mockAPI), nil)

	// Only persisted images kept, nothing removed: exactly one request
	working := []models.ImageAttachment{{ID: "img-1", Path: "stored-1.jpg"}}

	mockAPI.On("UpdateProduct", mock.Anything, "token-123", "prod-1", mock.Anything).Return(nil).Once()

	err := service.Edit(context.Background(), "prod-1", validAdForm(), working, nil)

	assert.NoError(t, err)
	mockAPI.AssertNotCalled(t, "UploadProductImages", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockAPI.AssertNotCalled(t, "DeleteProductImages", mock.Anything, mock.Anything, mock.Anything)
	mockAPI.AssertExpectations(t)
}

func TestAdService_Edit_StopsAtFailedStepWithoutCompensation(t *testing.T) {
	mockAPI := new(MockBackendAPI)
	service := services.NewAdService(mockAPI, signedInSessions(mockAPI), nil)

	working := []models.ImageAttachment{pendingImage("new.jpg", 1024)}
	removed := []string{"img-9"}

	mockAPI.On("UpdateProduct", mock.Anything, "token-123", "prod-1", mock.Anything).Return(nil).Once()
	mockAPI.On("UploadProductImages", mock.Anything, "token-123", "prod-1", working).
		Return(nil, fmt.Errorf("upload product images: broken pipe")).Once()

	err := service.Edit(context.Background(), "prod-1", validAdForm(), working, removed)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "uploading new images")
	// The removal step is never reached and the update stands
	mockAPI.AssertNotCalled(t, "DeleteProductImages", mock.Anything, mock.Anything, mock.Anything)
	mockAPI.AssertExpectations(t)
}

func TestAdService_Edit_RejectsEmptyWorkingSet(t *testing.T) {
	mockAPI := new(MockBackendAPI)
	service := services.NewAdService(mockAPI, signedInSessions(mockAPI), nil)

	err := service.Edit(context.Background(), "prod-1", validAdForm(), nil, []string{"img-1"})

	assert.ErrorIs(t, err, services.ErrNoImages)
	mockAPI.AssertNotCalled(t, "UpdateProduct", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAdService_SetActive_SurfacesErrorsSymmetrically(t *testing.T) {
	mockAPI := new(MockBackendAPI)
	service := services.NewAdService(mockAPI, signedInSessions(mockAPI), nil)

	rejection := &backend.APIError{Status: 403, Message: "You do not own this ad."}

	mockAPI.On("SetProductActive", mock.Anything, "token-123", "prod-1", true).
		Return(fmt.Errorf("set product prod-1 active=true: %w", rejection)).Once()
	mockAPI.On("SetProductActive", mock.Anything, "token-123", "prod-1", false).
		Return(fmt.Errorf("set product prod-1 active=false: %w", rejection)).Once()

	errActivate := service.SetActive(context.Background(), "prod-1", true)
	errDeactivate := service.SetActive(context.Background(), "prod-1", false)

	// Activation failures are reported just like deactivation failures
	assert.Error(t, errActivate)
	assert.Error(t, errDeactivate)
	mockAPI.AssertExpectations(t)
}

func TestAdService_RequiresSignedInSession(t *testing.T) {
	mockAPI := new(MockBackendAPI)
	sessions := services.NewSessionService(mockAPI, newEmptySessionStore())
	service := services.NewAdService(mockAPI, sessions, nil)

	_, err := service.Create(context.Background(), validAdForm(), []models.ImageAttachment{pendingImage("a.jpg", 1)})
	assert.ErrorIs(t, err, services.ErrNotSignedIn)

	err = service.Delete(context.Background(), "prod-1")
	assert.ErrorIs(t, err, services.ErrNotSignedIn)
}
