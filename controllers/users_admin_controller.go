package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cogitex/rfbooking/app"
	"github.com/cogitex/rfbooking/db"
	"github.com/cogitex/rfbooking/models"
)

type UserController struct{ *Srv }

func GetUserController(s *Srv) *UserController { return &UserController{Srv: s} }

func (uc *UserController) ListUsers(c *app.Ctx) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	res, err := uc.Repo.ListUsers(c.Request.Context(), c.Query("q"), page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (uc *UserController) CreateUser(c *app.Ctx) {
	var in struct {
		Email string `json:"email" binding:"required,email"`
		Name  string `json:"name"`
		Role  string `json:"role" binding:"omitempty,oneof=admin manager user"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" {
		in.Name = email
	}
	if in.Role == "" {
		in.Role = models.RoleUser
	}
	u := &models.User{
		ID: uuid.NewString(), Email: email, Name: in.Name, Role: in.Role,
		IsActive: true, EmailNotificationsEnabled: true,
	}
	if err := uc.Repo.CreateUser(c.Request.Context(), u); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (uc *UserController) GetUser(c *app.Ctx) {
	u, err := uc.Repo.FindUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, u)
}

func (uc *UserController) SetRole(c *app.Ctx) {
	var in struct {
		Role string `json:"role" binding:"required,oneof=admin manager user"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if err := uc.Repo.SetUserRole(c.Request.Context(), c.Param("id"), in.Role); err != nil {
		if errors.Is(err, db.ErrLastAdmin) {
			c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

func (uc *UserController) SetActive(c *app.Ctx) {
	var in struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	id := c.Param("id")
	if err := uc.Repo.SetUserActive(c.Request.Context(), id, *in.Active); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	if !*in.Active {
		// Deactivation kicks the user out everywhere immediately.
		_ = uc.AppSess.RevokeAllForUser(c.Request.Context(), id)
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

func (uc *UserController) DeleteUser(c *app.Ctx) {
	id := c.Param("id")
	u, err := uc.Repo.FindUserByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	if u.Role == models.RoleAdmin {
		if n, err := uc.Repo.CountAdmins(c.Request.Context()); err != nil || n <= 1 {
			c.JSON(http.StatusBadRequest, app.H{"error": "cannot delete the last admin"})
			return
		}
	}
	if err := uc.Repo.DeleteUserByID(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	_ = uc.AppSess.RevokeAllForUser(c.Request.Context(), id)
	c.JSON(http.StatusOK, app.H{"ok": true})
}
