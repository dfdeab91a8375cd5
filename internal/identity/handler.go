package identity

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spendlog/spendlog/internal/auth"
	"github.com/spendlog/spendlog/internal/config"
)

// Handler exposes account endpoints for signup and login.
type Handler struct {
	cfg config.Config
	svc *Service
}

// NewHandler builds an account HTTP handler.
func NewHandler(cfg config.Config, svc *Service) *Handler {
	return &Handler{cfg: cfg, svc: svc}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userResponse exposes public user fields plus a fresh bearer token. The
// password hash never leaves the service.
type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

// Signup registers a new account and returns its public profile with a token.
func (h *Handler) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	user, err := h.svc.SignUp(c.UserContext(), Signup{Name: req.Name, Email: req.Email, Password: req.Password})
	if err != nil {
		if errors.Is(err, ErrValidation) {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		return err
	}

	return h.respond(c, http.StatusCreated, user)
}

// Login verifies credentials and returns the public profile with a token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	user, err := h.svc.LogIn(c.UserContext(), Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return fiber.NewError(http.StatusUnauthorized, err.Error())
		}
		return err
	}

	return h.respond(c, http.StatusOK, user)
}

func (h *Handler) respond(c *fiber.Ctx, status int, user User) error {
	token, err := auth.Issue(user.ID, []byte(h.cfg.JWTSecret), h.cfg.TokenTTL)
	if err != nil {
		return err
	}
	return c.Status(status).JSON(fiber.Map{"user": userResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Token: token,
	}})
}
