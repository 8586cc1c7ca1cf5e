package server

import (
	"net/http"

	"storefront/internal/config"
	"storefront/internal/handler"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(
	e *echo.Echo,
	cfg config.Config,
	cartH *handler.CartHandler,
	productH *handler.ProductHandler,
	sessionH *handler.SessionHandler,
	checkoutH *handler.CheckoutHandler,
) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	cartH.RegisterRoutes(e)
	productH.RegisterRoutes(e)
	sessionH.RegisterRoutes(e, cfg)
	checkoutH.RegisterRoutes(e)
}
