package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dimondice01/finalDist-sub000/internal/middleware"
	"github.com/dimondice01/finalDist-sub000/internal/model"
	"github.com/dimondice01/finalDist-sub000/internal/service"
	"github.com/dimondice01/finalDist-sub000/internal/state"
	"github.com/dimondice01/finalDist-sub000/pkg/pagination"
	"github.com/dimondice01/finalDist-sub000/pkg/response"
)

type SyncHandler struct {
	syncService *service.SyncService
	state       *state.Store
}

// NewSyncHandler sets up the routing dependencies for sync/state endpoints
func NewSyncHandler(syncService *service.SyncService, st *state.Store) *SyncHandler {
	return &SyncHandler{syncService: syncService, state: st}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *SyncHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyRank := middleware.RequireRank(model.RankSeller, model.RankDelivery, model.RankAdmin)

	router.POST("/sync", anyRank, h.FullSync)
	router.POST("/refresh", anyRank, h.Refresh)
	router.GET("/state", anyRank, h.GetState)
	router.GET("/state/:collection", anyRank, h.GetCollection)
}

func identityUID(c *gin.Context) string {
	uid, _ := c.Get("identityUID")
	s, _ := uid.(string)
	return s
}

// FullSync runs a complete role-scoped refresh from the remote store
// @Summary      Full sync
// @Description  Fetches every collection the vendor is entitled to, persists the local snapshot and replaces in-memory state
// @Tags         sync
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /sync [post]
func (h *SyncHandler) FullSync(c *gin.Context) {
	h.runSync(c, true)
}

// Refresh runs a silent refresh (no completion notification)
// @Summary      Silent refresh
// @Description  Same as /sync but suppresses the completion event
// @Tags         sync
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /refresh [post]
func (h *SyncHandler) Refresh(c *gin.Context) {
	h.runSync(c, false)
}

func (h *SyncHandler) runSync(c *gin.Context, showNotification bool) {
	uid := identityUID(c)
	err := h.syncService.FetchAndPersist(c.Request.Context(), uid, showNotification)
	if errors.Is(err, service.ErrVendorNotFound) {
		// Fatal: the identity has no vendor record. Force a sign-out.
		middleware.ClearTokenCookie(c)
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, err.Error()))
		return
	}
	if errors.Is(err, service.ErrNotAuthenticated) {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, err.Error()))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"synced": true}))
}

// GetState returns the full in-memory snapshot
// @Summary      Get state
// @Description  Returns a copy of the entire in-memory state with its loading flags
// @Tags         sync
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=state.Snapshot}
// @Router       /state [get]
func (h *SyncHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.state.Snapshot()))
}

// GetCollection returns one collection from the snapshot, paginated for the
// large ones (sales, clients)
// @Summary      Get one collection
// @Description  Returns a single collection from the in-memory state. Sales and clients support page/limit query params.
// @Tags         sync
// @Produce      json
// @Security     BearerAuth
// @Param        collection  path   string  true   "Collection name"
// @Param        page        query  int     false  "Page number"
// @Param        limit       query  int     false  "Page size"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /state/{collection} [get]
func (h *SyncHandler) GetCollection(c *gin.Context) {
	snap := h.state.Snapshot()

	switch c.Param("collection") {
	case model.CollProducts:
		c.JSON(http.StatusOK, response.Success(http.StatusOK, snap.Products))
	case model.CollCategories:
		c.JSON(http.StatusOK, response.Success(http.StatusOK, snap.Categories))
	case model.CollPromotions:
		c.JSON(http.StatusOK, response.Success(http.StatusOK, snap.Promotions))
	case model.CollZones:
		c.JSON(http.StatusOK, response.Success(http.StatusOK, snap.Zones))
	case model.CollVendors:
		c.JSON(http.StatusOK, response.Success(http.StatusOK, snap.Vendors))
	case model.CollRoutes:
		c.JSON(http.StatusOK, response.Success(http.StatusOK, snap.Routes))
	case model.CollClients:
		p := pagination.Parse(c)
		page, total := pagination.Slice(snap.Clients, p)
		c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
			"items": page, "total": total, "page": p.Page, "limit": p.Limit,
		}))
	case model.CollSales:
		p := pagination.Parse(c)
		page, total := pagination.Slice(snap.Sales, p)
		c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
			"items": page, "total": total, "page": p.Page, "limit": p.Limit,
		}))
	default:
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "unknown collection"))
	}
}
