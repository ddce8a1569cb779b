package delivery

import (
	"net/http"

	"catalog_admin/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func NewRouter(categoryHandler *CategoryHandler, productHandler *ProductHandler, logger *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.RedirectTrailingSlash = false
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID(), middleware.RequestLogger(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	categoryHandler.RegisterRoutes(router)
	productHandler.RegisterRoutes(router)
	return router
}
