package handler

import (
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /checkoutのHTTP。決済完了の通知を受けてカートを消すだけ。
// 決済フローそのものはゲートウェイ側の責務。
type CheckoutHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCheckoutHandler(uc *usecase.CartUsecase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

type ConfirmPaymentRequest struct {
	OrderID string `json:"order_id"`
}

func (h *CheckoutHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/checkout/confirm", h.confirm)
}

func (h *CheckoutHandler) confirm(c echo.Context) error {
	var req ConfirmPaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.ConfirmPayment(c.Request().Context(), req.OrderID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
