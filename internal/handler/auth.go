package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/berekarkirti/Fruit-Inventory/internal/apierror"
	"github.com/berekarkirti/Fruit-Inventory/internal/dto"
	"github.com/berekarkirti/Fruit-Inventory/internal/service"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login checks credentials and issues a bearer token. Unknown user and
// wrong password produce the same response.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Invalid username or password"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Setup(c *gin.Context) {
	resp, err := h.svc.Setup(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to set up default accounts"))
		return
	}
	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
	}
	c.JSON(status, resp)
}

func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list users"))
		return
	}
	c.JSON(http.StatusOK, users)
}
