package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"sermonforge_backend/internal/logger"
	"sermonforge_backend/internal/repositories"
	"sermonforge_backend/pkg/apperrors"
)

// BaseHandler carries the helpers every handler shares: request binding,
// auth extraction and error translation.
type BaseHandler struct{}

func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON binds and validates a JSON body. Custom validation tags are
// registered with gin's binding engine at startup.
func (h *BaseHandler) BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		logger.CtxWithError(c.Request.Context(), "Failed to bind JSON body", err,
			"path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return false
	}
	return true
}

// GetAndAuthorizeUserID pulls the authenticated user ID set by the auth
// middleware.
func (h *BaseHandler) GetAndAuthorizeUserID(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get("userID")
	if !exists {
		logger.CtxWarn(c.Request.Context(), "Unauthorized access: userID not found in context",
			"path", c.Request.URL.Path, "ip", c.ClientIP())
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
		return "", false
	}

	userID, ok := userIDVal.(string)
	if !ok || userID == "" {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("Invalid user ID in context"))
		return "", false
	}
	return userID, true
}

// HandleServiceError translates service errors into HTTP responses, logging
// unexpected ones.
func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	// Repository sentinels map onto stable HTTP errors here so services can
	// return them untranslated.
	switch {
	case errors.Is(err, repositories.ErrSermonNotFound):
		apperrors.HandleError(c, apperrors.NewNotFoundError("sermon", "Sermon not found"))
		return
	case errors.Is(err, repositories.ErrContentNotFound):
		apperrors.HandleError(c, apperrors.NewNotFoundError("content", "Generated content not found"))
		return
	case errors.Is(err, repositories.ErrUserNotFound):
		apperrors.HandleError(c, apperrors.NewNotFoundError("user", "User not found"))
		return
	case errors.Is(err, repositories.ErrSubscriptionNotFound):
		apperrors.HandleError(c, apperrors.NewNotFoundError("subscription", "No subscription found for this account"))
		return
	case errors.Is(err, repositories.ErrTokenNotFound):
		apperrors.HandleError(c, apperrors.ErrInvalidToken)
		return
	}

	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		logger.CtxWarn(ctx, "Service error",
			"error", appErr.Message,
			"path", c.Request.URL.Path,
		)
		apperrors.HandleError(c, appErr)
		return
	}

	logger.CtxWithError(ctx, "Internal server error", err, "path", c.Request.URL.Path)
	apperrors.HandleError(c, apperrors.InternalError(err))
}

func ParseQueryInt(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func ParsePagination(c *gin.Context) (page int, perPage int) {
	page = ParseQueryInt(c, "page", 1)
	if page <= 0 {
		page = 1
	}
	perPage = ParseQueryInt(c, "per_page", 20)
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	return page, perPage
}

// ParseQueryDateRange reads from/to query params (YYYY-MM-DD), defaulting to
// the last defaultDaysAgo days.
func ParseQueryDateRange(c *gin.Context, defaultDaysAgo int) (time.Time, time.Time, error) {
	now := time.Now()
	from := now.AddDate(0, 0, -defaultDaysAgo)
	to := now

	if s := c.Query("from"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			return time.Time{}, time.Time{}, apperrors.NewBadRequestError("Invalid 'from' date, expected YYYY-MM-DD")
		}
		from = parsed
	}
	if s := c.Query("to"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			return time.Time{}, time.Time{}, apperrors.NewBadRequestError("Invalid 'to' date, expected YYYY-MM-DD")
		}
		// Inclusive end date
		to = parsed.AddDate(0, 0, 1)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, apperrors.NewBadRequestError("'to' date is before 'from' date")
	}
	return from, to, nil
}
