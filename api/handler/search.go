package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"medcompare/models"
	"medcompare/search"
)

// Search returns the handler for POST /api/v1/search.
//
// A request always yields a full results array sized to the registry, even
// when every pharmacy fails — per-row failure is visible as a null price,
// never as a request-level error. Only a blank medicine name or the fetch
// engine being unavailable fail the request itself.
func Search(s *search.Searcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var req models.SearchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.SearchResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidQuery,
					Message: "please enter a medicine name",
				},
				DurationMs: time.Since(start).Milliseconds(),
			})
			return
		}

		result, err := s.Search(c.Request.Context(), req.Medicine)
		if err != nil {
			respondError(c, err, start)
			return
		}

		c.JSON(http.StatusOK, models.SearchResponse{
			Success:       true,
			Medicine:      result.Medicine,
			Results:       result.Results,
			CheapestPrice: result.CheapestPrice,
			DurationMs:    time.Since(start).Milliseconds(),
		})
	}
}

// respondError maps a SearchError to the correct HTTP status code and
// writes a structured JSON error response.
func respondError(c *gin.Context, err error, start time.Time) {
	searchErr, ok := err.(*models.SearchError)
	if !ok {
		searchErr = models.NewSearchError(models.ErrCodeInternal, err.Error(), err)
	}

	c.JSON(mapErrorToStatus(searchErr), models.SearchResponse{
		Success:    false,
		Error:      searchErr.ToDetail(),
		DurationMs: time.Since(start).Milliseconds(),
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.SearchError) int {
	switch e.Code {
	case models.ErrCodeInvalidQuery:
		return http.StatusBadRequest // 400
	case models.ErrCodeBrowserUnavailable:
		return http.StatusServiceUnavailable // 503
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}
