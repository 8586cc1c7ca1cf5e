package server

import (
	"storefront/internal/config"
	"storefront/internal/handler"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// New はルート登録済みのechoサーバーを組み立てる。起動と停止は呼び出し側。
func New(
	cfg config.Config,
	cartH *handler.CartHandler,
	productH *handler.ProductHandler,
	sessionH *handler.SessionHandler,
	checkoutH *handler.CheckoutHandler,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())

	RegisterRoutes(e, cfg, cartH, productH, sessionH, checkoutH)
	return e
}
