package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dimondice01/finalDist-sub000/internal/middleware"
	"github.com/dimondice01/finalDist-sub000/internal/service"
	"github.com/dimondice01/finalDist-sub000/pkg/response"
)

type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler sets up the routing dependencies for auth endpoints
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
	}
}

type loginResponse struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Rank  string `json:"rank"`
}

// Login handles vendor sign-in
// @Summary      Vendor login
// @Description  Authenticates a vendor by email/password and issues a JWT (also set as an HttpOnly cookie)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginRequest  true  "Login Payload"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	token, vendor, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, err.Error()))
		return
	}

	middleware.SetTokenCookie(c, token.Token)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, loginResponse{
		Token: token.Token,
		Name:  vendor.Name,
		Rank:  vendor.Rank,
	}))
}

// Logout clears the auth cookie
// @Summary      Vendor logout
// @Description  Clears the access token cookie
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.ClearTokenCookie(c)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "logged out"}))
}
