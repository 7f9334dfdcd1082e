package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/AnaEHC/app-semaforos/internal/drive"
	"github.com/AnaEHC/app-semaforos/internal/models"
	"github.com/AnaEHC/app-semaforos/internal/service"
	"github.com/AnaEHC/app-semaforos/internal/session"
	"github.com/AnaEHC/app-semaforos/internal/sheet"
)

const SessionIDHeader = "X-Session-Id"

type Handler struct {
	Service   *service.Service
	Sessions  session.Store
	Validator *validator.Validate
	Logger    zerolog.Logger
	AdminKey  string
}

func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.Service.Drive.Ping(ctx); err != nil {
		writeError(c, http.StatusServiceUnavailable, "DRIVE_UNAVAILABLE", "Drive unavailable", err.Error())
		return
	}
	if err := h.Sessions.Ping(ctx); err != nil {
		writeError(c, http.StatusServiceUnavailable, "SESSION_STORE_UNAVAILABLE", "Session store unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary List configured semáforo sources
// @Tags sources
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/sources [get]
func (h *Handler) SourcesList(c *gin.Context) {
	sources, err := h.Service.Cfg.Sources()
	if err != nil {
		writeError(c, http.StatusInternalServerError, "CONFIG_ERROR", "Invalid source configuration", err.Error())
		return
	}
	labels := make([]string, 0, len(sources))
	for _, s := range sources {
		labels = append(labels, s.Label)
	}
	c.JSON(http.StatusOK, gin.H{"items": labels})
}

// SourceView downloads one semáforo table for read-only display.
func (h *Handler) SourceView(c *gin.Context) {
	label := strings.TrimSpace(c.Param("label"))
	sources, err := h.Service.Cfg.Sources()
	if err != nil {
		writeError(c, http.StatusInternalServerError, "CONFIG_ERROR", "Invalid source configuration", err.Error())
		return
	}
	for _, src := range sources {
		if src.Label != label {
			continue
		}
		t, file, err := h.Service.LoadSource(c.Request.Context(), src)
		if err != nil {
			if errors.Is(err, drive.ErrNotFound) {
				writeError(c, http.StatusNotFound, "NOT_FOUND", "No semáforo spreadsheet for "+src.Folder, nil)
				return
			}
			writeError(c, http.StatusBadGateway, "DRIVE_ERROR", "Failed to load source", err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"source": src.Label, "file": file.Name, "table": t})
		return
	}
	writeError(c, http.StatusNotFound, "NOT_FOUND", "Unknown source "+label, nil)
}

// @Summary Pending red-list candidates
// @Description Aggregated ROJO clients across all sources, session-cached. refresh=1 re-fetches.
// @Tags redlist
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/redlist [get]
func (h *Handler) RedList(c *gin.Context) {
	ctx := c.Request.Context()
	sid := h.sessionID(c)
	refresh := c.Query("refresh") == "1" || strings.EqualFold(c.Query("refresh"), "true")

	snap, _, err := h.Sessions.Get(ctx, sid)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to read session", err.Error())
		return
	}
	if snap.Candidates == nil || refresh {
		candidates, err := h.Service.AggregateRedList(ctx)
		if err != nil {
			writeError(c, http.StatusInternalServerError, "CONFIG_ERROR", "Red list aggregation failed", err.Error())
			return
		}
		snap.Candidates = &candidates
		if err := h.Sessions.Put(ctx, sid, snap); err != nil {
			writeError(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to cache session", err.Error())
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"table": snap.Candidates, "count": len(snap.Candidates.Rows)})
}

type CommitRow struct {
	Row    int    `json:"row" validate:"gte=0"`
	Closer string `json:"closer"`
}

type CommitRequest struct {
	Rows []CommitRow `json:"rows" validate:"required,dive"`
}

// @Summary Commit closer assignments
// @Description Assigns the annotated candidate rows and rewrites store and closer bundles.
// @Tags assignments
// @Accept json
// @Produce json
// @Success 200 {object} service.CommitResult
// @Failure 400 {object} map[string]any
// @Router /api/assignments/commit [post]
func (h *Handler) CommitAssignments(c *gin.Context) {
	var req CommitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	ctx := c.Request.Context()
	sid := h.sessionID(c)
	snap, _, err := h.Sessions.Get(ctx, sid)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to read session", err.Error())
		return
	}
	if snap.Candidates == nil {
		candidates, err := h.Service.AggregateRedList(ctx)
		if err != nil {
			writeError(c, http.StatusInternalServerError, "CONFIG_ERROR", "Red list aggregation failed", err.Error())
			return
		}
		snap.Candidates = &candidates
	}

	candidates := snap.Candidates.Clone()
	for _, r := range req.Rows {
		if r.Row >= len(candidates.Rows) {
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Row outside the candidate set", r.Row)
			return
		}
		candidates.Set(r.Row, models.ColCloserAsignado, models.TextCell(r.Closer))
	}

	result, pending, err := h.Service.CommitAssignments(ctx, candidates)
	if err != nil {
		writeError(c, http.StatusBadGateway, "STORE_WRITE_ERROR", "Failed to persist assignments", err.Error())
		return
	}

	snap.Candidates = &pending
	// The cached store snapshot predates the commit.
	snap.Store = nil
	snap.StoreToken = ""
	if err := h.Sessions.Put(ctx, sid, snap); err != nil {
		writeError(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to cache session", err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Tracking view of the assignment store
// @Tags assignments
// @Produce json
// @Param active_only query bool false "exclude FINALIZADO records (default true)"
// @Success 200 {object} map[string]any
// @Router /api/assignments [get]
func (h *Handler) TrackingList(c *gin.Context) {
	ctx := c.Request.Context()
	sid := h.sessionID(c)
	activeOnly := !strings.EqualFold(c.DefaultQuery("active_only", "true"), "false")

	store := h.Service.LoadStore(ctx)
	token := session.NewToken()

	snap, _, err := h.Sessions.Get(ctx, sid)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to read session", err.Error())
		return
	}
	snap.Store = &store
	snap.StoreToken = token
	if err := h.Sessions.Put(ctx, sid, snap); err != nil {
		writeError(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to cache session", err.Error())
		return
	}

	view, ordinals := service.FilterActive(store, activeOnly)
	c.JSON(http.StatusOK, gin.H{
		"token":        token,
		"table":        view,
		"rows":         ordinals,
		"active_count": len(ordinals),
		"total":        len(store.Rows),
	})
}

type SaveRequest struct {
	Token string            `json:"token" validate:"required"`
	Edits []service.RowEdit `json:"edits" validate:"required"`
}

// TrackingSave merges status/closer edits into the cached full store
// snapshot and overwrites the store. The edits are applied to the whole
// snapshot, never to a filtered view, so hidden rows survive a save.
func (h *Handler) TrackingSave(c *gin.Context) {
	var req SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	ctx := c.Request.Context()
	sid := h.sessionID(c)
	snap, ok, err := h.Sessions.Get(ctx, sid)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to read session", err.Error())
		return
	}
	if !ok || snap.Store == nil || snap.StoreToken != req.Token {
		writeError(c, http.StatusConflict, "CONFLICT", "Tracking snapshot is stale, reload before saving", nil)
		return
	}

	edited, err := service.ApplyTrackingEdits(*snap.Store, req.Edits)
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid edits", err.Error())
		return
	}
	if err := h.Service.SaveStore(ctx, edited); err != nil {
		writeError(c, http.StatusBadGateway, "STORE_WRITE_ERROR", "Failed to persist assignments", err.Error())
		return
	}

	token := session.NewToken()
	snap.Store = &edited
	snap.StoreToken = token
	if err := h.Sessions.Put(ctx, sid, snap); err != nil {
		writeError(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to cache session", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "token": token, "rows": len(edited.Rows)})
}

type DeleteRequest struct {
	Token string `json:"token" validate:"required"`
	Rows  []int  `json:"rows" validate:"required,min=1"`
}

// TrackingDelete removes the selected rows from the cached full store
// snapshot and persists the remainder.
func (h *Handler) TrackingDelete(c *gin.Context) {
	var req DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	ctx := c.Request.Context()
	sid := h.sessionID(c)
	snap, ok, err := h.Sessions.Get(ctx, sid)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to read session", err.Error())
		return
	}
	if !ok || snap.Store == nil || snap.StoreToken != req.Token {
		writeError(c, http.StatusConflict, "CONFLICT", "Tracking snapshot is stale, reload before deleting", nil)
		return
	}

	remaining, err := service.DeleteRows(*snap.Store, req.Rows)
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid rows", err.Error())
		return
	}
	if err := h.Service.SaveStore(ctx, remaining); err != nil {
		writeError(c, http.StatusBadGateway, "STORE_WRITE_ERROR", "Failed to persist assignments", err.Error())
		return
	}

	token := session.NewToken()
	snap.Store = &remaining
	snap.StoreToken = token
	if err := h.Sessions.Put(ctx, sid, snap); err != nil {
		writeError(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to cache session", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "token": token, "rows": len(remaining.Rows)})
}

// Report renders the tracking view as a PDF download.
func (h *Handler) Report(c *gin.Context) {
	ctx := c.Request.Context()
	activeOnly := !strings.EqualFold(c.DefaultQuery("active_only", "true"), "false")

	store := h.Service.LoadStore(ctx)
	view, _ := service.FilterActive(store, activeOnly)
	pdf, err := sheet.RenderReport(view)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "REPORT_ERROR", "Failed to render report", err.Error())
		return
	}
	c.Header("Content-Disposition", `attachment; filename="seguimiento_asignaciones.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// sessionID reads the caller's session id, issuing one when absent. The id
// is always echoed back so clients can persist it.
func (h *Handler) sessionID(c *gin.Context) string {
	sid := strings.TrimSpace(c.GetHeader(SessionIDHeader))
	if sid == "" {
		sid = session.NewID()
	}
	c.Writer.Header().Set(SessionIDHeader, sid)
	return sid
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
