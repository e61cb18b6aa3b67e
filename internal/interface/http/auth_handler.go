package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/apexfit/booking-api/config"
	repo "github.com/apexfit/booking-api/internal/domain/repository"
	"github.com/apexfit/booking-api/pkg/helpers"
	"github.com/apexfit/booking-api/pkg/mailer"
	tpl "github.com/apexfit/booking-api/pkg/mailer/templates"
	"github.com/apexfit/booking-api/pkg/response"
	"github.com/apexfit/booking-api/pkg/validation"
)

// AuthHandler owns the email verification and password reset flows. Tokens
// live in Redis only; the links embed them for the front end to post back.
type AuthHandler struct {
	Repo   repo.UserRepository
	RDB    *redis.Client
	Logger *logrus.Logger
	Cfg    *config.Config
	Pub    *helpers.RabbitPublisher
}

func NewAuthHandler(userRepo repo.UserRepository, rdb *redis.Client, logger *logrus.Logger, cfg *config.Config, pub *helpers.RabbitPublisher) *AuthHandler {
	return &AuthHandler{Repo: userRepo, RDB: rdb, Logger: logger, Cfg: cfg, Pub: pub}
}

func keyVerifyToken(t string) string { return "email:verify:token:" + t }
func keyResetToken(t string) string  { return "pwd:reset:token:" + t }
func keyVerified(uid string) string  { return "user:verified:" + uid }

// VerifyInit POST /api/auth/verify/init (auth required)
func (h *AuthHandler) VerifyInit(c *gin.Context) {
	uid := c.GetString("userID")
	if uid == "" {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	ctx := c.Request.Context()

	if ok, err := h.Repo.IsVerified(ctx, uid); err == nil && ok {
		if h.RDB != nil {
			_ = h.RDB.Set(ctx, keyVerified(uid), "1", 0).Err()
		}
		response.Success(c, http.StatusOK, gin.H{"already_verified": true}, "already verified", nil)
		return
	}
	if h.RDB != nil {
		if v, _ := h.RDB.Get(ctx, keyVerified(uid)).Result(); v == "1" {
			response.Success(c, http.StatusOK, gin.H{"already_verified": true}, "already verified", nil)
			return
		}
	}

	tok, err := helpers.GenToken(32)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "token generation failed", nil)
		return
	}
	if h.RDB != nil {
		h.RDB.Set(ctx, keyVerifyToken(tok), uid, 24*time.Hour)
	}
	link := h.Cfg.VerifyEmailURL + "?token=" + tok

	if h.Pub != nil && h.Cfg.MailSendEnabled {
		if u, uErr := h.Repo.GetByID(ctx, uid); uErr == nil {
			job := mailer.EmailJob{To: u.Email, Template: tpl.VerifyEmail, Data: map[string]any{
				"Name":       u.DisplayName,
				"StudioName": h.Cfg.StudioName,
				"Link":       link,
			}}
			if pErr := h.Pub.PublishJSON(ctx, job); pErr != nil {
				h.Logger.WithError(pErr).WithField("user_id", uid).Warn("failed to enqueue verify email")
			}
		}
	}

	response.Success(c, http.StatusOK, gin.H{"verify_link": link}, "verification link", nil)
}

// VerifyConfirm POST /api/auth/verify/confirm {token}
func (h *AuthHandler) VerifyConfirm(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if h.RDB == nil {
		response.Error[any](c, http.StatusInternalServerError, "verification unavailable", nil)
		return
	}
	ctx := c.Request.Context()
	uid, err := h.RDB.Get(ctx, keyVerifyToken(req.Token)).Result()
	if err != nil || uid == "" {
		response.Error[any](c, http.StatusBadRequest, "invalid or expired token", nil)
		return
	}
	if err := h.Repo.SetVerified(ctx, uid); err != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Error("set verified failed")
		response.Error[any](c, http.StatusInternalServerError, "verification failed", nil)
		return
	}
	h.RDB.Set(ctx, keyVerified(uid), "1", 0)
	h.RDB.Del(ctx, keyVerifyToken(req.Token))
	response.Success[any](c, http.StatusOK, gin.H{"verified": true}, "email verified", nil)
}

// ResetInit POST /api/auth/reset/init {email}
// Always returns 200 so the endpoint cannot be used for email enumeration.
func (h *AuthHandler) ResetInit(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	ctx := c.Request.Context()

	link := ""
	if u, err := h.Repo.GetByEmail(ctx, req.Email); err == nil && h.RDB != nil {
		tok, tErr := helpers.GenToken(32)
		if tErr != nil {
			response.Error[any](c, http.StatusInternalServerError, "token generation failed", nil)
			return
		}
		h.RDB.Set(ctx, keyResetToken(tok), u.ID, 30*time.Minute)
		link = h.Cfg.ResetPasswordURL + "?token=" + tok

		if h.Pub != nil && h.Cfg.MailSendEnabled {
			job := mailer.EmailJob{To: u.Email, Template: tpl.ForgotPassword, Data: map[string]any{
				"Name":  u.DisplayName,
				"Email": u.Email,
				"Link":  link,
			}}
			if pErr := h.Pub.PublishJSON(ctx, job); pErr != nil {
				h.Logger.WithError(pErr).WithField("user_id", u.ID).Warn("failed to enqueue reset email")
			}
		}
	}
	response.Success(c, http.StatusOK, gin.H{"reset_link": link}, "reset link", nil)
}

// ResetConfirm POST /api/auth/reset/confirm {token, new_password}
func (h *AuthHandler) ResetConfirm(c *gin.Context) {
	var req struct {
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"new_password" binding:"required,pwd"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if h.RDB == nil {
		response.Error[any](c, http.StatusInternalServerError, "reset unavailable", nil)
		return
	}
	ctx := c.Request.Context()
	uid, err := h.RDB.Get(ctx, keyResetToken(req.Token)).Result()
	if err != nil || uid == "" {
		response.Error[any](c, http.StatusBadRequest, "invalid or expired token", nil)
		return
	}
	hash, err := helpers.HashPassword(req.NewPassword)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "hash fail", nil)
		return
	}
	if err := h.Repo.UpdatePassword(ctx, uid, hash); err != nil {
		response.Error[any](c, http.StatusInternalServerError, "update fail", nil)
		return
	}
	h.RDB.Del(ctx, keyResetToken(req.Token))
	response.Success[any](c, http.StatusOK, gin.H{"reset": true}, "password updated", nil)
}
