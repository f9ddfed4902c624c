package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ChemLens-Insight/internal/application/analysis"
	"github.com/turtacn/ChemLens-Insight/internal/config"
	"github.com/turtacn/ChemLens-Insight/internal/infrastructure/dataset"
	"github.com/turtacn/ChemLens-Insight/internal/infrastructure/monitoring/metrics"
)

const sampleCSV = `chembl_id,name,target,ic50,mw,logp,hbd,hba,psa
CHEMBL1,Aspirin,COX1,10.5,180.16,1.2,1,4,63.6
CHEMBL2,Ibuprofen,COX1,200,206.28,3.5,1,2,37.3
CHEMBL3,Gefitinib,EGFR,600,446.9,4.1,1,7,68.7
CHEMBL4,Erlotinib,EGFR,150,523.4,5.6,2,6,74.7
`

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	samplePath := filepath.Join(t.TempDir(), "sample.csv")
	require.NoError(t, os.WriteFile(samplePath, []byte(sampleCSV), 0o644))

	cfg := config.NewDefaultConfig()
	cfg.Server.Mode = gin.TestMode
	cfg.Data.SamplePath = samplePath

	svc := analysis.NewService(cfg, dataset.NewCache(nil), nil, nil, nil)
	return NewRouter(cfg, svc, metrics.New(), nil)
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func loadSampleSession(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/v1/datasets/sample", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var view analysis.DatasetView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.NotEmpty(t, view.ID)
	return view.ID
}

func TestLoadSample_ReturnsView(t *testing.T) {
	router := newTestRouter(t)
	w := doJSON(t, router, http.MethodPost, "/api/v1/datasets/sample", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var view analysis.DatasetView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "sample", view.Source)
	assert.Equal(t, 4, view.RowCount)
	assert.Equal(t, []string{"COX1", "EGFR"}, view.Targets)
	require.NotNil(t, view.Bounds.MW)
	assert.InDelta(t, 180.16, view.Bounds.MW.Low, 1e-9)
}

func TestUpload_Multipart(t *testing.T) {
	router := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "upload.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(sampleCSV))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/datasets", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var view analysis.DatasetView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "upload", view.Source)
}

func TestUpload_MissingFileField(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/datasets",
		strings.NewReader("not a form"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpload_MissingColumns(t *testing.T) {
	router := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "bad.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("chembl_id,name\nX,Y\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/datasets", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "DATA_001")
	assert.Contains(t, w.Body.String(), "logp")
}

func TestQuery_Filtered(t *testing.T) {
	router := newTestRouter(t)
	id := loadSampleSession(t, router)

	w := doJSON(t, router, http.MethodPost, "/api/v1/datasets/"+id+"/query",
		map[string]any{"targets": []string{"COX1"}, "drug_like_only": true})
	require.Equal(t, http.StatusOK, w.Code)

	var result analysis.QueryResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 2, result.Matched)
	for _, row := range result.Rows {
		assert.Equal(t, "COX1", row.Target)
	}
}

func TestQuery_InvalidBody(t *testing.T) {
	router := newTestRouter(t)
	id := loadSampleSession(t, router)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/datasets/"+id+"/query",
		strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCharts_Bundle(t *testing.T) {
	router := newTestRouter(t)
	id := loadSampleSession(t, router)

	w := doJSON(t, router, http.MethodPost, "/api/v1/datasets/"+id+"/charts",
		map[string]any{})
	require.Equal(t, http.StatusOK, w.Code)

	var bundle analysis.ChartBundle
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bundle))
	assert.Len(t, bundle.Scatter.Points, 4)
	assert.Len(t, bundle.Histograms, 6)
}

func TestDescribe_UnknownID(t *testing.T) {
	router := newTestRouter(t)
	w := doJSON(t, router, http.MethodGet, "/api/v1/datasets/nope", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "DATA_004")
}

func TestDelete_Lifecycle(t *testing.T) {
	router := newTestRouter(t)
	id := loadSampleSession(t, router)

	w := doJSON(t, router, http.MethodDelete, "/api/v1/datasets/"+id, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/datasets/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestList(t *testing.T) {
	router := newTestRouter(t)
	loadSampleSession(t, router)
	loadSampleSession(t, router)

	w := doJSON(t, router, http.MethodGet, "/api/v1/datasets", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Datasets []analysis.DatasetView `json:"datasets"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Datasets, 2)
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		w := doJSON(t, router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w := doJSON(t, router, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
