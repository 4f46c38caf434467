package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/surdiana/userhub/internal/dto"
	apperrors "github.com/surdiana/userhub/internal/errors"
	"github.com/surdiana/userhub/internal/response"
	"github.com/surdiana/userhub/internal/service"
	"github.com/surdiana/userhub/pkg/logger"
	"github.com/surdiana/userhub/pkg/validation"
	"go.uber.org/zap"
)

type AuthHandler struct {
	userService *service.UserService
}

func NewAuthHandler(userService *service.UserService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
	}
}

// Register handles POST /user. The rate limiter runs as route middleware
// before this handler. A successful registration returns an empty payload.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().Warn("Invalid register request",
			zap.Error(err),
		)
		response.FailWithDetails(c, apperrors.ErrInternal, validation.MessagesFromError(err))
		return
	}

	logger.GetLogger().Info("Registration attempt",
		zap.String("email", req.Email),
	)

	if err := h.userService.Register(c.Request.Context(), &req); err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, nil)
}

// Login handles POST /token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().Warn("Invalid login request",
			zap.Error(err),
		)
		response.FailWithDetails(c, apperrors.ErrInternal, validation.MessagesFromError(err))
		return
	}

	result, err := h.userService.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP())
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, result)
}
