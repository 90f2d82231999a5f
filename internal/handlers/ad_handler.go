package handlers

import (
	"errors"
	"log"
	"strconv"

	"marketspace/internal/backend"
	"marketspace/internal/models"
	"marketspace/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AdHandler handles HTTP requests for composing and managing own ads.
type AdHandler struct {
	ads      *services.AdService
	listings *services.ListingService
	api      backend.API
	validate *validator.Validate
}

// NewAdHandler creates a new AdHandler.
func NewAdHandler(ads *services.AdService, listings *services.ListingService, api backend.API) *AdHandler {
	return &AdHandler{
		ads:      ads,
		listings: listings,
		api:      api,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the ad routes with the Fiber app.
func (h *AdHandler) RegisterRoutes(router fiber.Router) {
	adRoutes := router.Group("/ads")
	adRoutes.Get("/", h.HandleOwnAds)
	adRoutes.Post("/", h.HandleCreateAd)
	adRoutes.Get("/:id", h.HandleGetAd)
	adRoutes.Put("/:id", h.HandleEditAd)
	adRoutes.Patch("/:id/active", h.HandleSetActive)
	adRoutes.Delete("/:id", h.HandleDeleteAd)
}

// parseAdForm reads the ad composition fields from a multipart form and
// validates them. Price must parse as a number and the condition flag must
// be present; both produce field-level messages rather than a generic 400.
func (h *AdHandler) parseAdForm(c *fiber.Ctx) (services.AdForm, map[string]string) {
	fieldErrors := make(map[string]string)

	form := services.AdForm{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		AcceptTrade: c.FormValue("accept_trade") == "true",
	}

	if v := c.FormValue("is_new"); v != "" {
		isNew, err := strconv.ParseBool(v)
		if err != nil {
			fieldErrors["is_new"] = "Condition must be true (new) or false (used)"
		} else {
			form.IsNew = &isNew
		}
	}

	if v := c.FormValue("price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			fieldErrors["price"] = "Price must be numeric"
		} else {
			form.Price = price
		}
	}

	if mf, err := c.MultipartForm(); err == nil {
		form.PaymentMethods = mf.Value["payment_methods"]
	}

	if err := h.validate.Struct(form); err != nil {
		for field, message := range validationFieldErrors(err) {
			if _, taken := fieldErrors[field]; !taken {
				fieldErrors[field] = message
			}
		}
	}

	return form, fieldErrors
}

// pickedImages reads the uploaded `images` files into pending attachments.
func pickedImages(c *fiber.Ctx) ([]models.ImageAttachment, error) {
	mf, err := c.MultipartForm()
	if err != nil {
		return nil, nil
	}

	var picked []models.ImageAttachment
	for _, fh := range mf.File["images"] {
		attachment, err := attachmentFromFileHeader(fh)
		if err != nil {
			return nil, err
		}
		picked = append(picked, *attachment)
	}
	return picked, nil
}

// HandleOwnAds lists the caller's own ads, optionally narrowed with
// ?status=active|inactive|all.
func (h *AdHandler) HandleOwnAds(c *fiber.Ctx) error {
	products, err := h.listings.OwnAds(c.Context(), c.Query("status"))
	if err != nil {
		return respondError(c, err, "Could not load your ads. Try again later.")
	}
	return c.JSON(products)
}

// HandleGetAd returns a single ad with its image URLs resolved, the shape the
// detail and preview screens render.
func (h *AdHandler) HandleGetAd(c *fiber.Ctx) error {
	product, err := h.ads.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Could not load the ad. Try again later.")
	}

	imageURLs := make([]string, 0, len(product.ProductImages))
	for _, img := range product.ProductImages {
		imageURLs = append(imageURLs, h.api.ImageURL(img.Path))
	}

	return c.JSON(fiber.Map{
		"product":    product,
		"image_urls": imageURLs,
		"avatar_url": h.api.ImageURL(product.User.Avatar),
	})
}

// HandleCreateAd submits a new ad from a multipart form: the base fields plus
// up to three `images` files. Validation failures and an empty image set are
// rejected before any backend request.
func (h *AdHandler) HandleCreateAd(c *fiber.Ctx) error {
	form, fieldErrors := h.parseAdForm(c)
	if len(fieldErrors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  fieldErrors,
		})
	}

	picked, err := pickedImages(c)
	if err != nil {
		log.Printf("Error reading ad images: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not read the uploaded images",
		})
	}

	images, warnings := h.ads.AttachImages(nil, picked)

	product, err := h.ads.Create(c.Context(), form, images)
	if err != nil {
		if errors.Is(err, services.ErrNoImages) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Select at least one image for your ad.",
			})
		}
		return respondError(c, err, "Could not create the ad. Try again later.")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Ad created successfully",
		"product":  product,
		"warnings": warnings,
	})
}

// HandleEditAd applies an edit from a multipart form. The working image set
// is the kept persisted images (`kept_image_ids`) plus the new `images`
// files; `removed_image_ids` lists persisted images to delete. The backend
// sees update, then upload, then delete, in that order.
func (h *AdHandler) HandleEditAd(c *fiber.Ctx) error {
	productID := c.Params("id")

	form, fieldErrors := h.parseAdForm(c)
	if len(fieldErrors) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  fieldErrors,
		})
	}

	picked, err := pickedImages(c)
	if err != nil {
		log.Printf("Error reading ad images: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not read the uploaded images",
		})
	}

	var kept []models.ImageAttachment
	var removed []string
	if mf, err := c.MultipartForm(); err == nil {
		for _, id := range mf.Value["kept_image_ids"] {
			kept = append(kept, models.ImageAttachment{ID: id})
		}
		removed = mf.Value["removed_image_ids"]
	}

	images, warnings := h.ads.AttachImages(kept, picked)

	if err := h.ads.Edit(c.Context(), productID, form, images, removed); err != nil {
		if errors.Is(err, services.ErrNoImages) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Select at least one image for your ad.",
			})
		}
		return respondError(c, err, "Could not edit the ad. Try again later.")
	}

	return c.JSON(fiber.Map{
		"message":  "Ad updated successfully",
		"warnings": warnings,
	})
}

// SetActiveRequest represents the activation toggle body.
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// HandleSetActive flips the ad's is_active flag, the only field the partial
// update touches.
func (h *AdHandler) HandleSetActive(c *fiber.Ctx) error {
	var req SetActiveRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing activation request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationFieldErrors(err),
		})
	}

	if err := h.ads.SetActive(c.Context(), c.Params("id"), *req.IsActive); err != nil {
		return respondError(c, err, "Could not update the ad. Try again later.")
	}

	return c.JSON(fiber.Map{
		"message":   "Ad updated successfully",
		"is_active": *req.IsActive,
	})
}

// HandleDeleteAd removes an ad.
func (h *AdHandler) HandleDeleteAd(c *fiber.Ctx) error {
	if err := h.ads.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err, "Could not delete the ad. Try again later.")
	}
	return c.JSON(fiber.Map{
		"message": "Ad deleted",
	})
}
