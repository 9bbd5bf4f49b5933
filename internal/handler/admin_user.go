// Admin user management. These routes sit behind
// JWTAuth + RequireRole("admin") in the router and may assign roles.
package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/moviehub/catalog/internal/config"
	"github.com/moviehub/catalog/internal/repository"
)

// AdminUserHandler bundles dependencies for the /admin/users endpoints.
type AdminUserHandler struct {
	Cfg   config.Config
	Users UserStore
}

func NewAdminUserHandler(cfg config.Config, users UserStore) *AdminUserHandler {
	return &AdminUserHandler{Cfg: cfg, Users: users}
}

type adminUserReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func normalizeRole(role string) (string, bool) {
	switch role {
	case "":
		return repository.RoleUser, true
	case repository.RoleUser, repository.RoleAdmin:
		return role, true
	}
	return "", false
}

// List returns the public profiles of every user.
func (h *AdminUserHandler) List(c echo.Context) error {
	ctx, cancel := storeCtx(c)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return internalError(c, "admin: list users failed", err)
	}
	out := make([]profilePart, 0, len(users))
	for _, u := range users {
		out = append(out, publicProfile(u))
	}
	return c.JSON(http.StatusOK, out)
}

// Create adds a user with an explicit role.
func (h *AdminUserHandler) Create(c echo.Context) error {
	var req adminUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/email/password required"})
	}
	role, ok := normalizeRole(req.Role)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Name, req.Email, req.Password, role, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
		}
		return internalError(c, "admin: create user failed", err)
	}
	return c.JSON(http.StatusCreated, profilePart{ID: uid, Name: req.Name, Email: req.Email, Role: role})
}

// Update overwrites a user's fields, including the role.
func (h *AdminUserHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req adminUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == "" || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/email required"})
	}
	role, ok := normalizeRole(req.Role)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	u, err := h.Users.Update(ctx, id, req.Name, req.Email, req.Password, role, h.Cfg.BcryptCost)
	if err != nil {
		switch err {
		case repository.ErrUserNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		case repository.ErrEmailExists:
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
		}
		return internalError(c, "admin: update user failed", err)
	}
	return c.JSON(http.StatusOK, publicProfile(u))
}

// Delete removes a user together with its favorites and orders.
func (h *AdminUserHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return internalError(c, "admin: delete user failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted"})
}
