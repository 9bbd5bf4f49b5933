// This file holds the self-service account mutation endpoints. Both are
// guarded by JWTAuth and additionally require that the path id belongs to
// the caller, unless the caller is an admin. The old split between plain
// and admin user routes shared no guard; here they share this one.
package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/moviehub/catalog/internal/middleware"
	"github.com/moviehub/catalog/internal/repository"
)

type updateUserReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"` // optional; empty keeps the current hash
}

// canTouchUser reports whether the caller may mutate the user with the
// given id: identity match or admin role.
func canTouchUser(c echo.Context, id uint64) bool {
	return middleware.UserID(c) == id || middleware.Role(c) == repository.RoleAdmin
}

// UpdateUser overwrites name and email and optionally re-hashes the
// password. It never changes the role; role changes go through the admin
// endpoints.
func (h *AuthHandler) UpdateUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	if !canTouchUser(c, id) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == "" || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/email required"})
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	u, err := h.Users.Update(ctx, id, req.Name, req.Email, req.Password, "", h.Cfg.BcryptCost)
	if err != nil {
		switch err {
		case repository.ErrUserNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		case repository.ErrEmailExists:
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
		}
		return internalError(c, "update user failed", err)
	}
	return c.JSON(http.StatusOK, profilePart{ID: u.ID, Name: u.Name, Email: u.Email})
}

// DeleteUser removes the account and everything it owns (favorites,
// orders) in one transaction.
func (h *AuthHandler) DeleteUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	if !canTouchUser(c, id) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return internalError(c, "delete user failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "account deleted"})
}
