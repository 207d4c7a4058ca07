package workspaces

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"offer-ranker/internal/dimensions"
	"offer-ranker/internal/scoring"
	"offer-ranker/internal/shared/server/middleware"
	"offer-ranker/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the workspace service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the per-caller workspace routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	ws := rg.Group("/workspace")
	ws.GET("", h.getWorkspace)
	ws.DELETE("", h.resetWorkspace)
	ws.GET("/ranking", h.ranking)

	dims := ws.Group("/dimensions")
	dims.PUT("", h.replaceDimensions)
	dims.POST("", h.addDimension)
	dims.PUT("/order", h.reorderDimensions)
	dims.PATCH("/:id", h.updateDimension)
	dims.DELETE("/:id", h.removeDimension)
	dims.POST("/:id/toggle", h.toggleDimension)
	dims.POST("/:id/options", h.addOption)
	dims.PUT("/:id/options/order", h.moveOption)
	dims.PATCH("/:id/options/:value", h.renameOption)
	dims.DELETE("/:id/options/:value", h.removeOption)

	offers := ws.Group("/offers")
	offers.POST("", h.addOffer)
	offers.PUT("/:id", h.updateOffer)
	offers.DELETE("/:id", h.removeOffer)
	offers.PUT("/:id/bonuses/:dimensionId", h.setBonus)
	offers.DELETE("/:id/bonuses/:dimensionId", h.removeBonus)
}

// RegisterPublicRoutes attaches the stateless routes that need no identity.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/presets", h.presets)
	rg.POST("/rank", h.rank)
}

func (h *Handler) getWorkspace(c *gin.Context) {
	ws, err := h.Svc.Load(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toWorkspaceResponse(ws))
}

func (h *Handler) resetWorkspace(c *gin.Context) {
	if err := h.Svc.Reset(c.Request.Context(), middleware.UserIDFromContext(c)); err != nil {
		writeError(c, err)
		return
	}
	respond.NoContent(c)
}

func (h *Handler) ranking(c *gin.Context) {
	ranking, err := h.Svc.Rank(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set(middleware.OfferCountKey, len(ranking.Results))
	respond.OK(c, ranking)
}

func (h *Handler) replaceDimensions(c *gin.Context) {
	var req replaceDimensionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "dimensions are required", nil)
		return
	}
	ws, err := h.Svc.ReplaceDimensions(c.Request.Context(), middleware.UserIDFromContext(c), req.Dimensions)
	h.reply(c, ws, err)
}

func (h *Handler) addDimension(c *gin.Context) {
	var req addDimensionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid dimension payload", nil)
		return
	}
	dim := req.Dimension
	if req.AutoScore {
		dim.Options = dimensions.AutoScore(dim.Options, dim.IsPenalty)
	}
	_, added, err := h.Svc.AddDimension(c.Request.Context(), middleware.UserIDFromContext(c), dim)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set(middleware.DimensionIDKey, added.ID)
	respond.Created(c, added)
}

func (h *Handler) reorderDimensions(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "ids are required", nil)
		return
	}
	ws, err := h.Svc.ReorderDimensions(c.Request.Context(), middleware.UserIDFromContext(c), req.IDs)
	h.reply(c, ws, err)
}

func (h *Handler) updateDimension(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.DimensionIDKey, id)
	var patch dimensions.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respond.BadRequest(c, "invalid dimension patch", nil)
		return
	}
	ws, err := h.Svc.UpdateDimension(c.Request.Context(), middleware.UserIDFromContext(c), id, patch)
	h.reply(c, ws, err)
}

func (h *Handler) removeDimension(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.DimensionIDKey, id)
	ws, err := h.Svc.RemoveDimension(c.Request.Context(), middleware.UserIDFromContext(c), id)
	h.reply(c, ws, err)
}

func (h *Handler) toggleDimension(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.DimensionIDKey, id)
	ws, err := h.Svc.ToggleDimension(c.Request.Context(), middleware.UserIDFromContext(c), id)
	h.reply(c, ws, err)
}

func (h *Handler) addOption(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.DimensionIDKey, id)
	var req optionLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "label is required", nil)
		return
	}
	ws, err := h.Svc.AddOption(c.Request.Context(), middleware.UserIDFromContext(c), id, req.Label)
	h.reply(c, ws, err)
}

func (h *Handler) moveOption(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.DimensionIDKey, id)
	var req moveOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "from and to are required", nil)
		return
	}
	ws, err := h.Svc.MoveOption(c.Request.Context(), middleware.UserIDFromContext(c), id, *req.From, *req.To)
	h.reply(c, ws, err)
}

func (h *Handler) renameOption(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.DimensionIDKey, id)
	var req optionLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "label is required", nil)
		return
	}
	ws, err := h.Svc.RenameOption(c.Request.Context(), middleware.UserIDFromContext(c), id, c.Param("value"), req.Label)
	h.reply(c, ws, err)
}

func (h *Handler) removeOption(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.DimensionIDKey, id)
	ws, err := h.Svc.RemoveOption(c.Request.Context(), middleware.UserIDFromContext(c), id, c.Param("value"))
	h.reply(c, ws, err)
}

func (h *Handler) addOffer(c *gin.Context) {
	var req offerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "values are required", nil)
		return
	}
	_, offer, err := h.Svc.AddOffer(c.Request.Context(), middleware.UserIDFromContext(c), req.Values)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set(middleware.OfferIDKey, offer.ID)
	respond.Created(c, offer)
}

func (h *Handler) updateOffer(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.OfferIDKey, id)
	var req offerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "values are required", nil)
		return
	}
	ws, err := h.Svc.UpdateOffer(c.Request.Context(), middleware.UserIDFromContext(c), id, req.Values)
	h.reply(c, ws, err)
}

func (h *Handler) removeOffer(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.OfferIDKey, id)
	ws, err := h.Svc.RemoveOffer(c.Request.Context(), middleware.UserIDFromContext(c), id)
	h.reply(c, ws, err)
}

func (h *Handler) setBonus(c *gin.Context) {
	id, dimID := c.Param("id"), c.Param("dimensionId")
	c.Set(middleware.OfferIDKey, id)
	c.Set(middleware.DimensionIDKey, dimID)
	var req bonusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "points are required", nil)
		return
	}
	ws, err := h.Svc.SetBonus(c.Request.Context(), middleware.UserIDFromContext(c), id, dimID, *req.Points)
	h.reply(c, ws, err)
}

func (h *Handler) removeBonus(c *gin.Context) {
	id, dimID := c.Param("id"), c.Param("dimensionId")
	c.Set(middleware.OfferIDKey, id)
	c.Set(middleware.DimensionIDKey, dimID)
	ws, err := h.Svc.RemoveBonus(c.Request.Context(), middleware.UserIDFromContext(c), id, dimID)
	h.reply(c, ws, err)
}

func (h *Handler) presets(c *gin.Context) {
	dims, err := dimensions.Presets()
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"dimensions": dims})
}

// rank scores a posted snapshot. Omitted dimensions fall back to the presets.
func (h *Handler) rank(c *gin.Context) {
	var req rankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid ranking payload", nil)
		return
	}
	dims := req.Dimensions
	if len(dims) == 0 {
		presets, err := dimensions.Presets()
		if err != nil {
			writeError(c, err)
			return
		}
		dims = presets
	}
	if req.Offers == nil {
		req.Offers = []scoring.Offer{}
	}
	c.Set(middleware.OfferCountKey, len(req.Offers))
	respond.OK(c, RankSnapshot(dims, req.Offers))
}

func (h *Handler) reply(c *gin.Context, ws Workspace, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toWorkspaceResponse(ws))
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, dimensions.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "dimension not found", nil)
	case errors.Is(err, ErrOfferNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "offer not found", nil)
	case errors.Is(err, ErrBonusNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "bonus not found", nil)
	case errors.Is(err, dimensions.ErrInvalidInput), errors.Is(err, ErrInvalidOffer):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, dimensions.ErrDuplicate):
		respond.Error(c, http.StatusConflict, "duplicate", err.Error(), nil)
	case errors.Is(err, dimensions.ErrProtected):
		respond.Error(c, http.StatusConflict, "protected", "default dimensions can only be deactivated", nil)
	case errors.Is(err, ErrTooManyBonuses):
		respond.Error(c, http.StatusUnprocessableEntity, "bonus_limit", "an offer can carry bonuses for at most 3 dimensions", []map[string]any{
			{"field": "extraBonuses", "max": MaxBonusDimensions},
		})
	case errors.Is(err, ErrBonusNotAllowed):
		respond.Error(c, http.StatusUnprocessableEntity, "bonus_not_allowed", err.Error(), nil)
	case errors.Is(err, ErrUnsupportedState):
		respond.Error(c, http.StatusConflict, "unsupported_version", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "workspace operation failed", nil)
	}
}
