package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/whichpackage/api/handlers"
	"github.com/meghashyamc/whichpackage/config"
	"github.com/meghashyamc/whichpackage/db/kvdb"
	"github.com/meghashyamc/whichpackage/db/searchdb"
	"github.com/meghashyamc/whichpackage/logger"
	"github.com/meghashyamc/whichpackage/validation"
)

func setupRoutes(ctx context.Context, router *gin.Engine, logger logger.Logger, cfg *config.Config, searchDB searchdb.DB, kvDB kvdb.DB, validator *validation.Validator) {
	router.GET("/health", health())

	handlers.SetupSearch(router, logger, searchDB, validator)
	handlers.SetupRefresh(ctx, router, logger, cfg, searchDB, kvDB, validator)

}

func health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	}
}

func newRouter(logger logger.Logger) *gin.Engine {
	router := gin.New()
	router.UseRawPath = true
	router.Use(_CORSMiddleware())
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))

	return router
}
