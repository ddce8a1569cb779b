package delivery

import (
	"errors"
	"net/http"
	"strconv"

	"catalog_admin/internal/domain"

	"github.com/gin-gonic/gin"
)

const TotalCountHeader = "X-Total-Count"

type errorBody struct {
	Error string `json:"error"`
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, errorBody{Error: message})
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// parseID rejects anything that is not a positive integer.
func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
