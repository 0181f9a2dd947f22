package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"midad/internal/domain"
	"midad/internal/export"
	"midad/internal/handler"
	"midad/internal/service"
	"midad/mocks"
)

func historyRequest(method, target string, body io.Reader, params gin.Params) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(method, target, body)
	if body != nil {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	c.Params = params
	return c, w
}

func TestHistoryHandler_List(t *testing.T) {
	svc := new(mocks.MockHistoryService)
	h := handler.NewHistoryHandler(svc)
	svc.On("List", mock.Anything).Return([]domain.HistoryItem{{ID: "b"}, {ID: "a"}})

	c, w := historyRequest(http.MethodGet, "/api/v1/history", nil, nil)
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []domain.HistoryItem `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "b", resp.Data[0].ID)
}

func TestHistoryHandler_GetByID_NotFound(t *testing.T) {
	svc := new(mocks.MockHistoryService)
	h := handler.NewHistoryHandler(svc)
	svc.On("Get", mock.Anything, "missing").Return(nil, domain.ErrNotFound)

	c, w := historyRequest(http.MethodGet, "/api/v1/history/missing", nil, gin.Params{{Key: "id", Value: "missing"}})
	h.GetByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHistoryHandler_Delete(t *testing.T) {
	svc := new(mocks.MockHistoryService)
	h := handler.NewHistoryHandler(svc)
	svc.On("Remove", mock.Anything, "x").Return([]domain.HistoryItem{}, nil)

	c, w := historyRequest(http.MethodDelete, "/api/v1/history/x", nil, gin.Params{{Key: "id", Value: "x"}})
	h.Delete(c)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestHistoryHandler_CheckAnswer(t *testing.T) {
	svc := new(mocks.MockHistoryService)
	h := handler.NewHistoryHandler(svc)
	fb := &domain.AnswerFeedback{QuestionID: 3, Chosen: "b", Correct: true, Status: domain.AnswerCorrect, CorrectAnswer: "b"}
	svc.On("CheckAnswer", mock.Anything, &service.CheckAnswerInput{HistoryID: "h1", QuestionID: 3, Answer: "b"}).Return(fb, nil)

	c, w := historyRequest(http.MethodPost, "/check", strings.NewReader(`{"answer":"b"}`),
		gin.Params{{Key: "id", Value: "h1"}, {Key: "question_id", Value: "3"}})
	h.CheckAnswer(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"correct"`)
}

func TestHistoryHandler_CheckAnswer_BadQuestionID(t *testing.T) {
	h := handler.NewHistoryHandler(new(mocks.MockHistoryService))

	c, w := historyRequest(http.MethodPost, "/check", strings.NewReader(`{"answer":"b"}`),
		gin.Params{{Key: "id", Value: "h1"}, {Key: "question_id", Value: "abc"}})
	h.CheckAnswer(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHistoryHandler_CheckAnswer_MissingAnswer(t *testing.T) {
	h := handler.NewHistoryHandler(new(mocks.MockHistoryService))

	c, w := historyRequest(http.MethodPost, "/check", strings.NewReader(`{}`),
		gin.Params{{Key: "id", Value: "h1"}, {Key: "question_id", Value: "1"}})
	h.CheckAnswer(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHistoryHandler_Export_CSV(t *testing.T) {
	svc := new(mocks.MockHistoryService)
	h := handler.NewHistoryHandler(svc)
	svc.On("Export", mock.Anything, export.FormatCSV, mock.Anything).
		Run(func(args mock.Arguments) {
			_, _ = args.Get(2).(io.Writer).Write([]byte("ID,Title\n"))
		}).Return(nil)

	c, w := historyRequest(http.MethodGet, "/api/v1/history/export", nil, nil)
	h.Export(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")
	assert.Equal(t, "ID,Title\n", w.Body.String())
}

func TestHistoryHandler_Export_BadFormat(t *testing.T) {
	h := handler.NewHistoryHandler(new(mocks.MockHistoryService))

	c, w := historyRequest(http.MethodGet, "/api/v1/history/export?format=pdf", nil, nil)
	h.Export(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_FORMAT")
}
