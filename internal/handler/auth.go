package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/moviehub/catalog/internal/config"
	"github.com/moviehub/catalog/internal/middleware"
	"github.com/moviehub/catalog/internal/repository"
	"github.com/moviehub/catalog/internal/utils"
)

// AuthHandler bundles dependencies for the register/login/me endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users UserStore
}

func NewAuthHandler(cfg config.Config, users UserStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// profilePart is the public profile: the subset of a user record safe to
// return to a client. The password hash never appears here.
type profilePart struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}
type loginResp struct {
	Token   string      `json:"token"`
	Expires time.Time   `json:"expires"`
	User    profilePart `json:"user"`
}

func publicProfile(u repository.User) profilePart {
	return profilePart{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// Register creates a user with the default role and returns its public
// profile. Registration never assigns the admin role; promoting a user is
// an admin operation.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/email/password required"})
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Name, req.Email, req.Password, repository.RoleUser, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
		}
		return internalError(c, "register: create user failed", err)
	}

	return c.JSON(http.StatusCreated, profilePart{ID: uid, Name: req.Name, Email: req.Email})
}

// Login verifies credentials and returns a signed token plus the public
// profile. An unknown email and a wrong password are reported differently,
// matching the behavior the frontend relies on.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return internalError(c, "login: query failed", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	tok, err := utils.NewAuthToken(h.Cfg.JWTSecret, u.ID, u.Email, u.Role, h.Cfg.TokenTTLDays)
	if err != nil {
		return internalError(c, "login: issue token failed", err)
	}

	return c.JSON(http.StatusOK, loginResp{
		Token:   tok.Token,
		Expires: tok.Exp,
		User:    publicProfile(u),
	})
}

// Me resolves the bearer token's subject to a live user record. A deleted
// account with a still-valid token yields 404, not an identity.
func (h *AuthHandler) Me(c echo.Context) error {
	ctx, cancel := storeCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, middleware.UserID(c))
	if err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return internalError(c, "me: load user failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": publicProfile(u)})
}
