package handler

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"midad/internal/export"
	"midad/internal/service"
)

// HistoryHandler handles history browsing endpoints.
type HistoryHandler struct {
	historyService service.HistoryService
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(historyService service.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

// List handles GET /api/v1/history
// @Summary List history
// @Description Past analyses, most recent first
// @Tags history
// @Produce json
// @Success 200 {object} Response{data=[]domain.HistoryItem} "History items"
// @Router /history [get]
func (h *HistoryHandler) List(c *gin.Context) {
	RespondOK(c, h.historyService.List(c.Request.Context()))
}

// GetByID handles GET /api/v1/history/:id
// @Summary Get a history item
// @Tags history
// @Produce json
// @Param id path string true "History item ID"
// @Success 200 {object} Response{data=domain.HistoryItem} "History item"
// @Failure 404 {object} ErrorResponseBody "Not found"
// @Router /history/{id} [get]
func (h *HistoryHandler) GetByID(c *gin.Context) {
	item, err := h.historyService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, item)
}

// Delete handles DELETE /api/v1/history/:id
// @Summary Delete a history item
// @Description Idempotent: deleting an unknown id succeeds
// @Tags history
// @Produce json
// @Param id path string true "History item ID"
// @Success 200 {object} Response{data=[]domain.HistoryItem} "Remaining history"
// @Router /history/{id} [delete]
func (h *HistoryHandler) Delete(c *gin.Context) {
	items, err := h.historyService.Remove(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, items)
}

// CheckAnswer handles POST /api/v1/history/:id/questions/:question_id/check
// @Summary Check a quiz answer
// @Tags history
// @Accept json
// @Produce json
// @Param id path string true "History item ID"
// @Param question_id path int true "Question ID"
// @Param body body CheckAnswerRequest true "Chosen option"
// @Success 200 {object} Response{data=domain.AnswerFeedback} "Feedback"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 404 {object} ErrorResponseBody "Item or question not found"
// @Router /history/{id}/questions/{question_id}/check [post]
func (h *HistoryHandler) CheckAnswer(c *gin.Context) {
	questionID, err := strconv.Atoi(c.Param("question_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid question ID")
		return
	}

	var req CheckAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	fb, err := h.historyService.CheckAnswer(c.Request.Context(), &service.CheckAnswerInput{
		HistoryID:  c.Param("id"),
		QuestionID: questionID,
		Answer:     req.Answer,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, fb)
}

// Export handles GET /api/v1/history/export
// @Summary Export history
// @Description Download history as CSV (UTF-8 with BOM) or XLSX
// @Tags history
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "csv or xlsx" default(csv)
// @Success 200 {file} file "Export file"
// @Failure 400 {object} ErrorResponseBody "Unsupported format"
// @Router /history/export [get]
func (h *HistoryHandler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FORMAT", err.Error())
		return
	}

	// Buffer so a failure can still be reported as JSON.
	var buf bytes.Buffer
	if err := h.historyService.Export(c.Request.Context(), format, &buf); err != nil {
		HandleError(c, err)
		return
	}

	filename := export.BuildFilename("midad_history", format, time.Now())
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
