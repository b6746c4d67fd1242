package handlers

import (
	"log"
	"time"

	"plotpilot/internal/middleware"
	"plotpilot/internal/models"
	"plotpilot/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/signup", h.HandleSignup)
	router.Post("/login", h.HandleLogin)
	router.Post("/logout", h.HandleLogout)
	router.Get("/check-session", h.HandleCheckSession)
}

// SignupRequest represents the request body for signup.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleSignup handles new account registration. A successful signup
// immediately establishes the session.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing signup request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	user, err := h.authService.RegisterUser(req.Username, req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}

	if err := h.setSessionCookie(c, user); err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"message":  "Account created successfully!",
		"username": user.Username,
	})
}

// LoginRequest represents the request body for login. The username field
// accepts either the username or the email.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleLogin handles user login and establishes the session.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	if req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Please enter both username and password",
		})
	}

	user, err := h.authService.AuthenticateUser(req.Username, req.Password)
	if err != nil {
		log.Printf("Login failed for %s: %v", req.Username, err)
		return writeError(c, err)
	}

	if err := h.setSessionCookie(c, user); err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"message":  "Login successful!",
		"username": user.Username,
	})
}

// HandleLogout clears the session unconditionally.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged out successfully",
	})
}

// HandleCheckSession reports whether the request carries a valid session.
// It never rejects: an anonymous caller gets logged_in false at 200.
func (h *AuthHandler) HandleCheckSession(c *fiber.Ctx) error {
	tokenString := c.Cookies(middleware.SessionCookieName)
	if tokenString != "" {
		if _, username, err := h.authService.ValidateSessionToken(tokenString); err == nil {
			return c.JSON(fiber.Map{
				"success":   true,
				"logged_in": true,
				"username":  username,
			})
		}
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"logged_in": false,
	})
}

// setSessionCookie issues a session token for the user and attaches it as
// an HttpOnly cookie.
func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, user *models.User) error {
	token, err := h.authService.IssueSessionToken(user)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.authService.SessionMaxAge().Seconds()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}
