package analyses

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ats-backend/internal/contract"
	"ats-backend/internal/shared/server/middleware"
	"ats-backend/internal/shared/server/respond"
)

const (
	msgAnalyzeFailed = "Failed to analyze resume"
	msgHistoryFailed = "Failed to fetch history"
	msgNotFound      = "Analysis not found"
	msgInvalidBody   = "Invalid request body"
	msgInvalidID     = "Invalid analysis id"
)

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze", h.analyze)
	rg.GET("/history", h.listHistory)
	rg.GET("/history/:id", h.getAnalysis)
}

func (h *Handler) analyze(c *gin.Context) {
	var req contract.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_body", msgInvalidBody)
		return
	}

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	record, err := h.Svc.Submit(ctx, req)
	if err != nil {
		var perr *Error
		if errors.As(err, &perr) && perr.Kind == KindValidation {
			respond.Error(c, http.StatusBadRequest, "validation_error", perr.Message)
			return
		}
		respond.Error(c, http.StatusInternalServerError, string(KindOf(err)), msgAnalyzeFailed)
		return
	}

	c.Set("analysisId", record.ID)
	respond.OK(c, record)
}

func (h *Handler) listHistory(c *gin.Context) {
	records, err := h.Svc.History(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, string(KindOf(err)), msgHistoryFailed)
		return
	}
	respond.OK(c, records)
}

func (h *Handler) getAnalysis(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", msgInvalidID)
		return
	}

	record, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", msgNotFound)
		default:
			respond.Error(c, http.StatusInternalServerError, string(KindOf(err)), msgHistoryFailed)
		}
		return
	}

	c.Set("analysisId", record.ID)
	respond.OK(c, record)
}
