package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookheaven-backend/internal/config"
	"bookheaven-backend/internal/domains/book/model"
	"bookheaven-backend/internal/domains/book/repository"
	"bookheaven-backend/internal/domains/book/service"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := config.SearchConfig{DefaultLimit: 2, MaxLimit: 10, CacheTTL: time.Minute}

	var editions []model.Edition
	for _, title := range []string{"A", "B", "C"} {
		editions = append(editions, model.Edition{
			ID: "e-" + title, Title: title, Price: decimal.NewFromInt(5),
			Work: model.Work{ID: "w-" + title, Title: title},
		})
	}
	svc := service.NewBookService(repository.NewMemoryRepository(editions...), nil, cfg)

	r := gin.New()
	r.GET("/books", NewHandler(svc, cfg).SearchBooks)
	return r
}

type pageBody struct {
	Success    bool            `json:"success"`
	Data       []model.Edition `json:"data"`
	Pagination struct {
		Page      int `json:"page"`
		Limit     int `json:"limit"`
		Total     int `json:"total"`
		PageCount int `json:"page_count"`
	} `json:"pagination"`
}

func TestSearchBooks_SecondPage(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books?page=2", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body pageBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.True(t, body.Success)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "e-C", body.Data[0].ID)
	assert.Equal(t, 2, body.Pagination.Page)
	assert.Equal(t, 2, body.Pagination.Limit)
	assert.Equal(t, 3, body.Pagination.Total)
	assert.Equal(t, 2, body.Pagination.PageCount)
}

func TestSearchBooks_NoResults(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books?search=zzz", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body pageBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Empty(t, body.Data)
	assert.Zero(t, body.Pagination.Total)
}

func TestSearchBooks_BadQuery(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books?page=abc", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
