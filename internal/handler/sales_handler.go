package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dimondice01/finalDist-sub000/internal/middleware"
	"github.com/dimondice01/finalDist-sub000/internal/model"
	"github.com/dimondice01/finalDist-sub000/internal/pricing"
	"github.com/dimondice01/finalDist-sub000/internal/service"
	"github.com/dimondice01/finalDist-sub000/internal/state"
	"github.com/dimondice01/finalDist-sub000/pkg/response"
)

type SalesHandler struct {
	salesService *service.SalesService
	state        *state.Store
}

// NewSalesHandler sets up the routing dependencies for sales endpoints
func NewSalesHandler(salesService *service.SalesService, st *state.Store) *SalesHandler {
	return &SalesHandler{salesService: salesService, state: st}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *SalesHandler) RegisterRoutes(router *gin.RouterGroup) {
	sellerOrAdmin := middleware.RequireRank(model.RankSeller, model.RankAdmin)

	sales := router.Group("/sales")
	{
		sales.POST("", sellerOrAdmin, h.CreateSale)
		sales.POST("/quote", sellerOrAdmin, h.Quote)
		sales.POST("/:id/void", sellerOrAdmin, h.VoidSale)
		sales.POST("/:id/payments", sellerOrAdmin, h.RecordPayment)
		sales.DELETE("/:id", sellerOrAdmin, h.DeletePendingSale)
	}
}

// CreateSale creates a sale and decrements stock atomically
// @Summary      Create sale
// @Description  Validates the draft, decrements stock for every line and writes the sale in one transaction
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      model.SaleDraft  true  "Sale Draft"
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /sales [post]
func (h *SalesHandler) CreateSale(c *gin.Context) {
	var draft model.SaleDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	saleID, err := h.salesService.CreateSaleWithStock(c.Request.Context(), draft)
	if err != nil {
		// Stock conflicts and validation failures both surface here; the
		// message already says which product fell short.
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, gin.H{"saleId": saleID}))
}

type voidSaleRequest struct {
	Items []model.CartLine `json:"items" binding:"required"`
}

// VoidSale voids a sale and restores stock
// @Summary      Void sale
// @Description  Restores stock for the given items and marks the sale voided with a zero pending balance
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string           true  "Sale ID"
// @Param        payload  body      voidSaleRequest  true  "Items to restore"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /sales/{id}/void [post]
func (h *SalesHandler) VoidSale(c *gin.Context) {
	var req voidSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.salesService.VoidSaleWithStockRestore(c.Request.Context(), c.Param("id"), req.Items); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"voided": true}))
}

type recordPaymentRequest struct {
	Amount float64 `json:"amount" binding:"required"`
	Method string  `json:"method" binding:"required"`
}

// RecordPayment applies a payment against a sale's pending balance
// @Summary      Record payment
// @Description  Decrements the pending balance; clearing it flips the sale to paid
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                true  "Sale ID"
// @Param        payload  body      recordPaymentRequest  true  "Payment"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /sales/{id}/payments [post]
func (h *SalesHandler) RecordPayment(c *gin.Context) {
	var req recordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.salesService.RecordPayment(c.Request.Context(), c.Param("id"), req.Amount, req.Method); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"recorded": true}))
}

// DeletePendingSale removes a sale still awaiting delivery
// @Summary      Delete pending sale
// @Description  Deletes a pending-delivery sale. Stock is not restored.
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Sale ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /sales/{id} [delete]
func (h *SalesHandler) DeletePendingSale(c *gin.Context) {
	if err := h.salesService.DeletePendingSale(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}

type quoteRequest struct {
	Cart     []model.CartLine `json:"cart" binding:"required"`
	ClientID string           `json:"clientId"`
}

// Quote computes totals, discounts and commission for a cart without writing
// @Summary      Quote a cart
// @Description  Derives subtotal, first-match promotion discounts and commission from the current in-memory promotions. Pure read.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      quoteRequest  true  "Cart"
// @Success      200      {object}  response.Response{data=pricing.Totals}
// @Failure      400      {object}  response.Response
// @Router       /sales/quote [post]
func (h *SalesHandler) Quote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	snap := h.state.Snapshot()

	// Commission uses the calling vendor's general rate.
	rate := 0.0
	uid := identityUID(c)
	for _, v := range snap.Vendors {
		if v.AuthUID == uid || v.ID == uid {
			rate = v.GeneralCommissionRate
			break
		}
	}

	totals := pricing.ComputeTotals(req.Cart, snap.Promotions, req.ClientID, rate)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, totals))
}
