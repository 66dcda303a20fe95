package delivery

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samueldmelo/logfoto/internal/usecase"
	"github.com/sirupsen/logrus"
)

// NewRouter wires the web pages, the JSON API and the health check.
func NewRouter(uc usecase.ProductUseCase, loc *time.Location, logger *logrus.Logger) (*gin.Engine, error) {
	web := NewWebHandler(uc, loc, logger)
	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(logger))
	router.SetHTMLTemplate(tmpl)

	router.GET("/health", func(c *gin.Context) {
		SuccessResponse(c, http.StatusOK, "ok", nil)
	})

	web.RegisterRoutes(router)
	NewProductHandler(uc, logger).RegisterRoutes(router)
	logger.Info("Routes registered.")

	return router, nil
}
