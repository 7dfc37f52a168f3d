package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/meghashyamc/whichpackage/config"
	"github.com/meghashyamc/whichpackage/db/kvdb"
	"github.com/meghashyamc/whichpackage/db/searchdb"
	"github.com/meghashyamc/whichpackage/logger"
	"github.com/meghashyamc/whichpackage/services/refresh"
	"github.com/meghashyamc/whichpackage/validation"
)

type RefreshResponse struct {
	ID string `json:"id"`
}

type RefreshStatusRequest struct {
	ID string `form:"id" validate:"required,uuid"`
}

type RefreshStatusResponse struct {
	ID              string `json:"id"`
	Status          string `json:"status"`
	LastRefreshedAt string `json:"last_refreshed_at,omitempty"`
}

func SetupRefresh(ctx context.Context, router *gin.Engine, logger logger.Logger, cfg *config.Config, searchDB searchdb.DB, kvDB kvdb.DB, validator *validation.Validator) {
	service := refresh.New(ctx, logger, searchDB, kvDB, cfg.GetRefreshInterval())
	router.POST("/refresh", handleRefresh(service, logger))
	router.GET("/refresh/status", handleRefreshStatus(service, logger, validator))

}

func handleRefresh(service *refresh.Service, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()
		if err := service.Trigger(requestID); err != nil {
			if errors.Is(err, refresh.ErrAlreadyRunning) {
				c.Abort()
				writeResponse(c, nil, http.StatusConflict, []string{err.Error()})
				return
			}
			logger.Error("could not trigger refresh", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
			return
		}

		writeResponse(c, RefreshResponse{ID: requestID}, http.StatusAccepted, nil)
	}
}

func handleRefreshStatus(service *refresh.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := RefreshStatusRequest{}
		if err := c.ShouldBindQuery(&request); err != nil {
			logger.Warn("could not extract expected params from refresh status request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request parameters"})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate refresh status request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		status, err := service.GetStatus(request.ID)
		if err != nil {
			c.Abort()
			writeResponse(c, nil, http.StatusNotFound, []string{"refresh request not found"})
			return
		}

		statusResponse := RefreshStatusResponse{ID: request.ID, Status: status}
		if lastRefreshedAt, err := service.LastRefreshedAt(); err == nil {
			statusResponse.LastRefreshedAt = lastRefreshedAt.Format(time.RFC3339)
		}

		writeResponse(c, statusResponse, http.StatusOK, nil)
	}
}
