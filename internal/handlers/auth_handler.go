package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-agenda/internal/audit"
	"github.com/BruksfildServices01/barber-agenda/internal/config"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/middleware"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
	audit  *audit.Dispatcher
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, a *audit.Dispatcher) *AuthHandler {
	return &AuthHandler{db: db, config: cfg, audit: a}
}

// --------- Requests ---------

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.ErrValidation("invalid_request"))
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var admin models.Admin
	if err := h.db.WithContext(c.Request.Context()).
		Where("email = ?", email).
		First(&admin).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "Credenciales inválidas.")
			return
		}
		httperr.Respond(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Credenciales inválidas.")
		return
	}

	token, err := middleware.GenerateToken(h.config.JWTSecret, admin.ID, h.config.JWTTTL)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "No se pudo iniciar sesión.")
		return
	}

	if h.audit != nil {
		id := admin.ID
		h.audit.Dispatch(audit.Event{
			AdminID:  &id,
			Action:   "admin_login",
			Entity:   "admin",
			EntityID: &id,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"admin": admin,
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	id := middleware.AdminID(c)
	if id == nil {
		httperr.Unauthorized(c, "admin_not_in_context", "Sesión inválida o expirada.")
		return
	}

	var admin models.Admin
	if err := h.db.WithContext(c.Request.Context()).First(&admin, *id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "admin_not_found", "Sesión inválida o expirada.")
			return
		}
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, admin)
}
