package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/surdiana/userhub/internal/dto"
	apperrors "github.com/surdiana/userhub/internal/errors"
	"github.com/surdiana/userhub/internal/middleware"
	"github.com/surdiana/userhub/internal/response"
	"github.com/surdiana/userhub/internal/service"
	"github.com/surdiana/userhub/pkg/logger"
	"github.com/surdiana/userhub/pkg/validation"
	"go.uber.org/zap"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Profile handles GET /user.
func (h *UserHandler) Profile(c *gin.Context) {
	token := middleware.TokenFromContext(c)

	info, err := h.userService.GetProfile(c.Request.Context(), token)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, info)
}

// UpdateProfile handles PUT /user. Omitted fields stay unchanged.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().Warn("Invalid profile update request",
			zap.Error(err),
		)
		response.FailWithDetails(c, apperrors.ErrInternal, validation.MessagesFromError(err))
		return
	}

	token := middleware.TokenFromContext(c)
	if err := h.userService.UpdateProfile(c.Request.Context(), token, &req); err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, nil)
}

// SetUserType handles PUT /user/:id, an admin-gated role change.
func (h *UserHandler) SetUserType(c *gin.Context) {
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.FailWithDetails(c, apperrors.ErrInternal, []string{"id must be a number"})
		return
	}

	var req dto.SetUserTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().Warn("Invalid user type request",
			zap.Error(err),
		)
		response.FailWithDetails(c, apperrors.ErrInternal, validation.MessagesFromError(err))
		return
	}

	token := middleware.TokenFromContext(c)
	if err := h.userService.SetUserType(c.Request.Context(), token, uint(targetID), req.Type); err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, nil)
}
