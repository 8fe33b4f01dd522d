package http

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vida-plena/internal/email"
	"vida-plena/internal/report"
	"vida-plena/internal/scoring"
	"vida-plena/internal/service"
)

// ReportHandler expone puntajes y reportes descargables por cliente.
type ReportHandler struct {
	logger  *zap.Logger
	reports *service.ReportService
	limiter service.RateLimiter
	mailer  *service.ReportMailer
}

// NewReportHandler crea un ReportHandler. limiter y mailer pueden ser nil.
func NewReportHandler(logger *zap.Logger, reports *service.ReportService, limiter service.RateLimiter, mailer *service.ReportMailer) *ReportHandler {
	return &ReportHandler{
		logger:  logger,
		reports: reports,
		limiter: limiter,
		mailer:  mailer,
	}
}

type emailReportRequest struct {
	To     string `json:"to" binding:"required"`
	Format string `json:"format"`
}

// ListInstruments maneja GET /clients/:id/instruments.
func (h *ReportHandler) ListInstruments(c *gin.Context) {
	clientID, ok := clientIDParam(c)
	if !ok {
		return
	}
	instruments, err := h.reports.ClientInstruments(c.Request.Context(), clientID)
	if err != nil {
		h.logger.Error("list client instruments failed", zap.Int64("client_id", clientID), zap.Error(err))
		c.JSON(reportErrorStatus(err), gin.H{"error": "could not list instruments: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"instruments": instruments})
}

// GetScores maneja GET /clients/:id/scores/:instrument.
func (h *ReportHandler) GetScores(c *gin.Context) {
	clientID, ok := clientIDParam(c)
	if !ok {
		return
	}
	kind, ok := instrumentParam(c)
	if !ok {
		return
	}
	scored, err := h.reports.Score(c.Request.Context(), clientID, kind)
	if err != nil {
		h.fail(c, clientID, kind, err)
		return
	}
	c.JSON(http.StatusOK, scored)
}

// DownloadReport maneja GET /clients/:id/reports/:instrument?format=pdf|csv|json.
func (h *ReportHandler) DownloadReport(c *gin.Context) {
	clientID, ok := clientIDParam(c)
	if !ok {
		return
	}
	kind, ok := instrumentParam(c)
	if !ok {
		return
	}
	if !h.allow(c) {
		h.fail(c, clientID, kind, service.ErrRateLimited)
		return
	}

	doc, err := h.reports.Document(c.Request.Context(), clientID, kind, c.DefaultQuery("format", report.FormatPDF))
	if err != nil {
		h.fail(c, clientID, kind, err)
		return
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.FileName}))
	c.Data(http.StatusOK, doc.ContentType, doc.Body)
}

// EmailReport maneja POST /clients/:id/reports/:instrument/email.
func (h *ReportHandler) EmailReport(c *gin.Context) {
	clientID, ok := clientIDParam(c)
	if !ok {
		return
	}
	kind, ok := instrumentParam(c)
	if !ok {
		return
	}
	var req emailReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if h.mailer == nil {
		h.fail(c, clientID, kind, email.ErrDisabled)
		return
	}
	if !h.allow(c) {
		h.fail(c, clientID, kind, service.ErrRateLimited)
		return
	}
	if req.Format == "" {
		req.Format = report.FormatPDF
	}

	doc, err := h.mailer.Send(c.Request.Context(), clientID, kind, req.Format, req.To)
	if err != nil {
		h.fail(c, clientID, kind, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "sent", "file_name": doc.FileName})
}

// allow aplica el limite por usuario del personal.
func (h *ReportHandler) allow(c *gin.Context) bool {
	if h.limiter == nil {
		return true
	}
	claims, found := GetAuthClaims(c)
	if !found {
		return true
	}
	return h.limiter.Allow(fmt.Sprintf("staff:%d", claims.UserID))
}

func (h *ReportHandler) fail(c *gin.Context, clientID int64, kind scoring.Kind, err error) {
	status := reportErrorStatus(err)
	fields := []zap.Field{
		zap.Int64("client_id", clientID),
		zap.String("instrument", string(kind)),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("report failed", fields...)
	} else {
		h.logger.Warn("report rejected", fields...)
	}
	c.JSON(status, gin.H{"error": "could not generate report: " + err.Error()})
}

func reportErrorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrUnknownInstrument), errors.Is(err, report.ErrUnsupportedFormat),
		errors.Is(err, service.ErrInvalidRecipient):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInstrumentNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, service.ErrDataFetch):
		return http.StatusBadGateway
	case errors.Is(err, email.ErrDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func clientIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client id"})
		return 0, false
	}
	return id, true
}

func instrumentParam(c *gin.Context) (scoring.Kind, bool) {
	kind, ok := scoring.ParseKind(c.Param("instrument"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not generate report: " + service.ErrUnknownInstrument.Error()})
		return "", false
	}
	return kind, true
}
