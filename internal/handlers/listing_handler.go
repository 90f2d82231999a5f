package handlers

import (
	"log"

	"marketspace/internal/models"
	"marketspace/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ListingHandler handles HTTP requests for browsing and filtering listings.
type ListingHandler struct {
	listings *services.ListingService
	validate *validator.Validate
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(listings *services.ListingService) *ListingHandler {
	return &ListingHandler{
		listings: listings,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the listing routes with the Fiber app.
func (h *ListingHandler) RegisterRoutes(router fiber.Router) {
	listingRoutes := router.Group("/listings")
	listingRoutes.Get("/", h.HandleBrowse)
	listingRoutes.Get("/search", h.HandleSearch)
	listingRoutes.Put("/filter", h.HandleApplyFilter)
	listingRoutes.Delete("/filter", h.HandleResetFilter)
}

// HandleBrowse fetches listings with the committed structured filter, or
// unfiltered when none has been applied.
func (h *ListingHandler) HandleBrowse(c *fiber.Ctx) error {
	products, err := h.listings.Browse(c.Context())
	if err != nil {
		return respondError(c, err, "Could not load the ads. Try again later.")
	}
	return c.JSON(products)
}

// HandleSearch fetches listings by free-text query alone (?q=), independent
// of the structured filter.
func (h *ListingHandler) HandleSearch(c *fiber.Ctx) error {
	products, err := h.listings.Search(c.Context(), c.Query("q"))
	if err != nil {
		return respondError(c, err, "Could not load the ads. Try again later.")
	}
	return c.JSON(products)
}

// HandleApplyFilter commits a structured filter, replacing the previous one.
func (h *ListingHandler) HandleApplyFilter(c *fiber.Ctx) error {
	var filter models.ListingFilter
	if err := c.BodyParser(&filter); err != nil {
		log.Printf("Error parsing filter request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(filter); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationFieldErrors(err),
		})
	}

	h.listings.ApplyFilter(filter)

	return c.JSON(fiber.Map{
		"message": "Filter applied",
		"filter":  filter,
	})
}

// HandleResetFilter restores the structured filter to its default without
// touching the free-text query.
func (h *ListingHandler) HandleResetFilter(c *fiber.Ctx) error {
	h.listings.ResetFilter()

	filter, _ := h.listings.CurrentFilter()
	return c.JSON(fiber.Map{
		"message": "Filter reset",
		"filter":  filter,
	})
}
