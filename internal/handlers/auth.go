package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/example/storefront/internal/apperr"
	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/services"
)

// RefreshCookieName is the cookie carrying the refresh token.
const RefreshCookieName = "refresh_token"

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	auth *services.AuthService
	cfg  *config.Config
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(auth *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{auth: auth, cfg: cfg}
}

type registerRequest struct {
	Username  string `json:"username" validate:"required,max=150"`
	Phone     string `json:"phone" validate:"max=150"`
	Email     string `json:"email" validate:"omitempty,email,max=254"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
}

// Register creates a new user account and signs it in.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	session, err := h.auth.Register(c.UserContext(), services.RegisterInput{
		Username:  req.Username,
		Phone:     req.Phone,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return err
	}

	h.setRefreshCookie(c, session.Refresh)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":      true,
		"username":     session.User.Username,
		"phone":        session.User.Phone,
		"access_token": session.AccessToken,
	})
}

// loginRequest takes the identifier as username_or_phone; the older
// username key is still read when the former is absent.
type loginRequest struct {
	UsernameOrPhone string `json:"username_or_phone" validate:"max=150"`
	Username        string `json:"username" validate:"max=150"`
	Password        string `json:"password" validate:"required"`
}

func (r loginRequest) identifier() string {
	if id := strings.TrimSpace(r.UsernameOrPhone); id != "" {
		return id
	}
	return strings.TrimSpace(r.Username)
}

// Login authenticates by username or phone number.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	identifier := req.identifier()
	if identifier == "" {
		return apperr.FieldValidation("username_or_phone", "this field is required")
	}

	session, err := h.auth.Login(c.UserContext(), identifier, req.Password)
	if err != nil {
		return err
	}

	h.setRefreshCookie(c, session.Refresh)
	return c.JSON(fiber.Map{
		"success":      true,
		"access_token": session.AccessToken,
		"user":         sessionUserView(session.User),
	})
}

// Refresh issues a new access token from the refresh cookie. The request
// body is ignored.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	access, err := h.auth.Refresh(c.UserContext(), c.Cookies(RefreshCookieName))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":      true,
		"access_token": access,
	})
}

// Logout revokes the refresh cookie's token and clears the cookie.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.auth.Logout(c.UserContext(), c.Cookies(RefreshCookieName)); err != nil {
		return err
	}
	h.clearRefreshCookie(c)
	return c.JSON(fiber.Map{"success": true})
}

func (h *AuthHandler) setRefreshCookie(c *fiber.Ctx, refresh services.RefreshCredential) {
	c.Cookie(&fiber.Cookie{
		Name:     RefreshCookieName,
		Value:    refresh.Value(),
		Path:     "/",
		MaxAge:   int(h.auth.RefreshTTL().Seconds()),
		Expires:  refresh.ExpiresAt(),
		Secure:   h.cfg.CookieSecure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteNoneMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   h.cfg.CookieSecure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteNoneMode,
	})
}
