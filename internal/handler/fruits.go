package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/berekarkirti/Fruit-Inventory/internal/apierror"
	"github.com/berekarkirti/Fruit-Inventory/internal/dto"
	"github.com/berekarkirti/Fruit-Inventory/internal/middleware"
	"github.com/berekarkirti/Fruit-Inventory/internal/service"
	"github.com/berekarkirti/Fruit-Inventory/internal/workflow"
)

type FruitsHandler struct{ svc service.FruitService }

func NewFruitsHandler(svc service.FruitService) *FruitsHandler {
	return &FruitsHandler{svc: svc}
}

func (h *FruitsHandler) List(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	fruits, err := h.svc.List(c.Request.Context(), identity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list fruits"))
		return
	}
	c.JSON(http.StatusOK, fruits)
}

func (h *FruitsHandler) Create(c *gin.Context) {
	var req dto.CreateFruitRequest
	if !bindAndValidate(c, &req) {
		return
	}

	identity := middleware.GetIdentity(c)
	fruit, err := h.svc.Create(c.Request.Context(), identity, req)
	if err != nil {
		h.writeMutationError(c, err, "add")
		return
	}
	c.JSON(http.StatusCreated, fruit)
}

func (h *FruitsHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateFruitRequest
	if !bindAndValidate(c, &req) {
		return
	}

	identity := middleware.GetIdentity(c)
	fruit, err := h.svc.Update(c.Request.Context(), identity, id, req)
	if err != nil {
		h.writeMutationError(c, err, "update")
		return
	}
	c.JSON(http.StatusOK, fruit)
}

func (h *FruitsHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	identity := middleware.GetIdentity(c)
	if err := h.svc.Delete(c.Request.Context(), identity, id); err != nil {
		h.writeMutationError(c, err, "delete")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Fruit deleted successfully"})
}

func (h *FruitsHandler) Approve(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	identity := middleware.GetIdentity(c)
	fruit, err := h.svc.Approve(c.Request.Context(), identity, id)
	if err != nil {
		h.writeMutationError(c, err, "approve")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Fruit approved successfully", "fruit": fruit})
}

func (h *FruitsHandler) Reject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	// body is optional; a missing reason falls back to the default
	var req dto.RejectFruitRequest
	_ = c.ShouldBindJSON(&req)

	identity := middleware.GetIdentity(c)
	fruit, err := h.svc.Reject(c.Request.Context(), identity, id, req.RejectionReason)
	if err != nil {
		h.writeMutationError(c, err, "reject")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Fruit rejected successfully", "fruit": fruit})
}

func (h *FruitsHandler) Stats(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	stats, err := h.svc.Stats(c.Request.Context(), identity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to compute stats"))
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *FruitsHandler) Pending(c *gin.Context) {
	fruits, err := h.svc.Pending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list pending fruits"))
		return
	}
	c.JSON(http.StatusOK, fruits)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid fruit id"))
		return uuid.Nil, false
	}
	return id, true
}

func (h *FruitsHandler) writeMutationError(c *gin.Context, err error, verb string) {
	switch {
	case errors.Is(err, service.ErrFruitNotFound):
		c.JSON(http.StatusNotFound, apierror.New("Fruit not found"))
	case errors.Is(err, workflow.ErrNotOwner):
		c.JSON(http.StatusForbidden, apierror.New("You can only "+verb+" your own items"))
	case errors.Is(err, workflow.ErrApprovedLocked):
		c.JSON(http.StatusForbidden, apierror.New("Cannot "+verb+" approved items"))
	case errors.Is(err, service.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, apierror.New("Price and quantity must be non-negative"))
	default:
		c.JSON(http.StatusInternalServerError, apierror.New("Internal server error"))
	}
}
