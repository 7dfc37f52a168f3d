package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/whichpackage/db/searchdb"
	"github.com/meghashyamc/whichpackage/logger"
	"github.com/meghashyamc/whichpackage/services/search"
	"github.com/meghashyamc/whichpackage/validation"
)

const defaultResultsPerPage = 20

type SearchRequest struct {
	Query   string `form:"query" validate:"required,valid_query,min=1,max=1000"`
	PerPage int    `form:"per_page" validate:"min=0,max=100"`
	Page    int    `form:"page" validate:"min=0"`
}

func (r *SearchRequest) setDefaults() {
	if r.PerPage == 0 {
		r.PerPage = defaultResultsPerPage
	}

	if r.Page == 0 {
		r.Page = 1
	}
}

func SetupSearch(router *gin.Engine, logger logger.Logger, searchDB searchdb.DB, validator *validation.Validator) {
	service := search.New(logger, searchDB)
	router.GET("/search", handleSearch(service, logger, validator))

}

func handleSearch(service *search.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := SearchRequest{}
		if err := c.ShouldBindQuery(&request); err != nil {
			logger.Warn("could not extract expected params from search request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request parameters"})
			return
		}
		request.setDefaults()

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate search request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		terms := strings.Fields(request.Query)
		results, err := service.Fetch(c.Request.Context(), terms, request.Page, request.PerPage)
		if err != nil {
			logger.Error("search failed", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusInternalServerError, []string{"search is unavailable"})
			return
		}

		writeResponse(c, results, http.StatusOK, nil)
	}
}
