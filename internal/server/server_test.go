package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saleocr/internal/config"
	"saleocr/internal/ocr"
	"saleocr/internal/report"
	"saleocr/internal/server"
)

type fakeOCR struct {
	pages []string
	err   error
}

func (f *fakeOCR) Pages(ctx context.Context, path string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.pages, nil
}

func (f *fakeOCR) PagesWithMetadata(ctx context.Context, path string) (*ocr.Result, error) {
	pages, err := f.Pages(ctx, path)
	if err != nil {
		return nil, err
	}
	return &ocr.Result{Pages: pages, PageCount: len(pages)}, nil
}

func newTestServer(t *testing.T, svc ocr.Service) (*server.Server, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	outputDir := t.TempDir()
	cfg := &config.Config{
		OutputDir:       outputDir,
		TaxRate:         0.07,
		AmountTolerance: 1.0,
	}
	s, err := server.New(cfg, svc)
	require.NoError(t, err)
	return s, outputDir
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestParseSale(t *testing.T) {
	s, _ := newTestServer(t, &fakeOCR{})
	router := s.Router()

	t.Run("returns the extracted document", func(t *testing.T) {
		rec := postJSON(t, router, "/parse-sale", gin.H{
			"document_id": "SALE_2040334_202512H01.pdf",
			"pages": []string{
				"Vendor 2040334 / คิงคองคือป (2040334) รอบวันที่ 1 - 31 ธันวาคม 2567",
				"123456 8851234567890 2012345678 5101234567 10.50 3 31.50",
			},
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var doc report.Document
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
		assert.Equal(t, "2040334", doc.Header.VendorID)
		require.Len(t, doc.Items, 1)
		assert.Equal(t, "8851234567890", doc.Items[0].Barcode)
	})

	t.Run("missing pages is a bad request", func(t *testing.T) {
		rec := postJSON(t, router, "/parse-sale", gin.H{"document_id": "x.pdf"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("blank pages are unprocessable", func(t *testing.T) {
		rec := postJSON(t, router, "/parse-sale", gin.H{
			"document_id": "x.pdf",
			"pages":       []string{"   "},
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestProcessSale(t *testing.T) {
	t.Run("saves the document and reports the path", func(t *testing.T) {
		svc := &fakeOCR{pages: []string{
			"Vendor 2040334 / คิงคองคือป (2040334) รอบวันที่ 1 - 31 ธันวาคม 2567",
			"123456 8851234567890 2012345678 5101234567 10.50 3 31.50",
		}}
		s, outputDir := newTestServer(t, svc)

		rec := postJSON(t, s.Router(), "/process-sale", gin.H{"path": "/scans/SALE_2040334_202512H01.pdf"})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Items     int    `json:"items"`
			Saved     string `json:"saved"`
			Forwarded bool   `json:"forwarded"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Items)
		assert.False(t, resp.Forwarded)
		assert.Equal(t, filepath.Join(outputDir, "SALE_2040334_202512H01.json"), resp.Saved)
	})

	t.Run("OCR failure maps to bad gateway", func(t *testing.T) {
		s, _ := newTestServer(t, &fakeOCR{err: ocr.ErrOCRFailed})
		rec := postJSON(t, s.Router(), "/process-sale", gin.H{"path": "/scans/x.pdf"})
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("missing path is a bad request", func(t *testing.T) {
		s, _ := newTestServer(t, &fakeOCR{})
		rec := postJSON(t, s.Router(), "/process-sale", gin.H{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRoot(t *testing.T) {
	s, _ := newTestServer(t, &fakeOCR{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "extraction service")
}
