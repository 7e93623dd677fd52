package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dimondice01/finalDist-sub000/internal/middleware"
	"github.com/dimondice01/finalDist-sub000/internal/model"
	"github.com/dimondice01/finalDist-sub000/internal/service"
	"github.com/dimondice01/finalDist-sub000/pkg/pagination"
	"github.com/dimondice01/finalDist-sub000/pkg/response"
)

type AuditHandler struct {
	auditService service.AuditService
}

// NewAuditHandler sets up the routing dependencies for audit endpoints
func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/audit", middleware.RequireRank(model.RankAdmin), h.ListAuditLogs)
}

// ListAuditLogs returns the audit trail, newest first
// @Summary      List audit logs
// @Description  Returns mutation audit entries ordered by creation time descending
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        page   query  int  false  "Page number"
// @Param        limit  query  int  false  "Page size"
// @Success      200  {object}  response.Response{data=[]service.AuditLogResponse}
// @Failure      500  {object}  response.Response
// @Router       /audit [get]
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	p := pagination.Parse(c)

	logs, total, err := h.auditService.GetAuditLogs(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"items": logs, "total": total, "page": p.Page, "limit": p.Limit,
	}))
}
