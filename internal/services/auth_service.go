package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"plotpilot/internal/models"
	"plotpilot/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// signupInput carries the validation rules for new accounts. The password
// cap matches bcrypt's 72-byte input limit, which newer x/crypto versions
// enforce with an error.
type signupInput struct {
	Username string `validate:"required,min=3,max=100"`
	Email    string `validate:"required,contains=@,max=255"`
	Password string `validate:"required,min=6,max=72"`
}

// AuthService handles business logic for registration, login and sessions.
type AuthService struct {
	userRepo      repositories.UserRepository
	sessionSecret []byte
	sessionMaxAge time.Duration
	validate      *validator.Validate
}

// NewAuthService creates a new AuthService. sessionMaxAge bounds both the
// session token lifetime and the cookie lifetime.
func NewAuthService(userRepo repositories.UserRepository, sessionSecret string, sessionMaxAge time.Duration) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		sessionSecret: []byte(sessionSecret),
		sessionMaxAge: sessionMaxAge,
		validate:      validator.New(),
	}
}

// SessionMaxAge returns the configured session lifetime.
func (s *AuthService) SessionMaxAge() time.Duration {
	return s.sessionMaxAge
}

// RegisterUser validates the signup input, checks for conflicts, hashes the
// password and stores the new user. The plaintext password is never stored.
func (s *AuthService) RegisterUser(username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	input := signupInput{Username: username, Email: email, Password: password}
	if err := s.validate.Struct(input); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok || len(validationErrors) == 0 {
			return nil, fmt.Errorf("signup validation failed: %w", err)
		}
		return nil, signupValidationError(validationErrors[0])
	}

	// Check if username or email already exists
	if existing, err := s.userRepo.GetByUsername(username); err == nil && existing != nil {
		return nil, &ConflictError{Message: "Username or email already exists"}
	}
	if existing, err := s.userRepo.GetByEmail(email); err == nil && existing != nil {
		return nil, &ConflictError{Message: "Username or email already exists"}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	return user, nil
}

// signupValidationError maps a failed field to its user-facing message.
func signupValidationError(fieldErr validator.FieldError) *ValidationError {
	switch fieldErr.Field() {
	case "Username":
		return &ValidationError{Field: "username", Message: "Username must be at least 3 characters"}
	case "Email":
		return &ValidationError{Field: "email", Message: "Please enter a valid email"}
	default:
		if fieldErr.Tag() == "max" {
			return &ValidationError{Field: "password", Message: "Password must be at most 72 characters"}
		}
		return &ValidationError{Field: "password", Message: "Password must be at least 6 characters"}
	}
}

// AuthenticateUser verifies the password for the user whose username or
// email equals identifier. Both unknown identifiers and wrong passwords
// yield ErrInvalidCredentials, so callers cannot tell them apart.
func (s *AuthService) AuthenticateUser(identifier, password string) (*models.User, error) {
	user, err := s.userRepo.GetByIdentifier(strings.TrimSpace(identifier))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// IssueSessionToken creates a signed session token for the user.
func (s *AuthService) IssueSessionToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(s.sessionMaxAge).Unix(), // Session expiration time
		"iat":      time.Now().Unix(),                      // Issued at time
	})

	tokenString, err := token.SignedString(s.sessionSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// ValidateSessionToken parses and validates a session token, returning the
// user id and username it was issued for.
func (s *AuthService) ValidateSessionToken(tokenString string) (userID, username string, err error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.sessionSecret, nil
	})
	if err != nil {
		log.Printf("Session token validation error: %v", err)
		return "", "", fmt.Errorf("invalid session token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", fmt.Errorf("invalid session token")
	}

	userID, _ = claims["user_id"].(string)
	username, _ = claims["username"].(string)
	if userID == "" {
		return "", "", fmt.Errorf("session token has no user id")
	}

	return userID, username, nil
}
