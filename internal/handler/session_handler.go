package handler

import (
	"net/http"

	"storefront/internal/config"
	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /sessionのHTTP。ログイン/ログアウトをidentityイベントに変換する入口。
type SessionHandler struct {
	uc *usecase.SessionUsecase
}

// DI
func NewSessionHandler(uc *usecase.SessionUsecase) *SessionHandler {
	return &SessionHandler{uc: uc}
}

type LoginRequest struct {
	IDToken string `json:"id_token"`
}

type CurrentSessionResponse struct {
	UserID    string `json:"user_id"`
	Anonymous bool   `json:"anonymous"`
}

func (h *SessionHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	e.POST("/session", h.login)
	e.GET("/session", h.current)
	// サインアウトはセッショントークン必須
	e.DELETE("/session", h.logout, middleware.AuthJWT(cfg))
}

func (h *SessionHandler) login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Login(c.Request().Context(), req.IDToken)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *SessionHandler) current(c echo.Context) error {
	ident := h.uc.Current()
	return c.JSON(http.StatusOK, CurrentSessionResponse{
		UserID:    ident.UserID,
		Anonymous: ident.IsAnonymous(),
	})
}

func (h *SessionHandler) logout(c echo.Context) error {
	if err := h.uc.Logout(c.Request().Context()); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
