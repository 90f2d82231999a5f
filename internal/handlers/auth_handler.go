package handlers

import (
	"errors"
	"log"

	"marketspace/internal/backend"
	"marketspace/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for the session lifecycle and sign-up.
type AuthHandler struct {
	sessions *services.SessionService
	api      backend.API
	validate *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(sessions *services.SessionService, api backend.API) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		api:      api,
		validate: validator.New(),
	}
}

// RegisterPublicRoutes registers the routes reachable while signed out.
func (h *AuthHandler) RegisterPublicRoutes(router fiber.Router) {
	router.Post("/sessions", h.HandleSignIn)
	router.Post("/users", h.HandleSignUp)
}

// RegisterRoutes registers the routes that need a signed-in session.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Delete("/sessions", h.HandleSignOut)
	router.Get("/me", h.HandleMe)
}

// SignInRequest represents the request body for sign-in.
type SignInRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// HandleSignIn exchanges credentials for a session with the marketplace
// backend and persists it locally.
func (h *AuthHandler) HandleSignIn(c *fiber.Ctx) error {
	var req SignInRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing sign-in request body: %v", err)
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

	session, err := h.sessions.SignIn(c.Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err, "Could not sign in. Try again later.")
	}

	return c.JSON(fiber.Map{
		"message": "Signed in successfully",
		"user":    session.User(),
	})
}

// SignUpRequest represents the sign-up form fields. The avatar file rides
// along as the multipart `avatar` field when present.
type SignUpRequest struct {
	Name            string `json:"name" form:"name" validate:"required"`
	Email           string `json:"email" form:"email" validate:"required,email"`
	Tel             string `json:"tel" form:"tel" validate:"required,max=11"`
	Password        string `json:"password" form:"password" validate:"required,min=6"`
	PasswordConfirm string `json:"password_confirm" form:"password_confirm" validate:"required,eqfield=Password"`
}

// HandleSignUp creates a new account on the marketplace backend.
func (h *AuthHandler) HandleSignUp(c *fiber.Ctx) error {
	var req SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing sign-up request body: %v", err)
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

	input := services.SignUpInput{
		Name:     req.Name,
		Email:    req.Email,
		Tel:      req.Tel,
		Password: req.Password,
	}

	if fh, err := c.FormFile("avatar"); err == nil {
		avatar, err := attachmentFromFileHeader(fh)
		if err != nil {
			log.Printf("Error reading avatar upload: %v", err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Could not read the avatar image",
			})
		}
		input.Avatar = avatar
	}

	if err := h.sessions.SignUp(c.Context(), input); err != nil {
		if errors.Is(err, services.ErrImageTooLarge) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "That image is too big. Choose one up to 5 MB.",
			})
		}
		return respondError(c, err, "Could not create your account. Try again later.")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Account created successfully",
	})
}

// HandleSignOut tears down the session: the persisted token is cleared along
// with the in-memory user.
func (h *AuthHandler) HandleSignOut(c *fiber.Ctx) error {
	if err := h.sessions.SignOut(); err != nil {
		return respondError(c, err, "Could not sign out. Try again later.")
	}
	return c.JSON(fiber.Map{
		"message": "Signed out",
	})
}

// HandleMe returns the signed-in user with a resolved avatar URL.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	session, err := h.sessions.Current()
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Sign in to continue",
		})
	}

	user := session.User()
	return c.JSON(fiber.Map{
		"user":       user,
		"avatar_url": h.api.ImageURL(user.Avatar),
	})
}
