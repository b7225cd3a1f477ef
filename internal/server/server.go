// Package server exposes the processing pipeline over HTTP.
//
// The layer is deliberately thin: two POST operations mirroring the CLI, no
// state beyond the wired services. Document processing itself lives in
// internal/report.
package server

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"saleocr/internal/config"
	"saleocr/internal/forward"
	"saleocr/internal/logger"
	"saleocr/internal/ocr"
	"saleocr/internal/report"
	"saleocr/internal/store"
)

// Server wires the OCR engine, the extraction pipeline, persistence and the
// optional forwarder behind HTTP handlers.
type Server struct {
	ocr       ocr.Service
	processor *report.Processor
	store     *store.Writer
	forward   *forward.Client // nil when forwarding is not configured
	log       zerolog.Logger
}

// New builds a server from the loaded configuration and an OCR engine.
func New(cfg *config.Config, ocrService ocr.Service) (*Server, error) {
	processor, err := report.NewProcessor(cfg.ReportRules())
	if err != nil {
		return nil, err
	}

	s := &Server{
		ocr:       ocrService,
		processor: processor,
		store:     store.NewWriter(cfg.OutputDir),
		log:       logger.WithComponent("server"),
	}
	if cfg.ForwardAPIBase != "" {
		s.forward = forward.NewClient(cfg.ForwardAPIBase)
	}
	return s, nil
}

// Router returns the configured gin engine.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/", s.handleRoot)
	router.POST("/process-sale", s.handleProcessSale)
	router.POST("/parse-sale", s.handleParseSale)
	return router
}

// Run serves HTTP on addr until the listener fails.
func (s *Server) Run(addr string) error {
	s.log.Info().Str("addr", addr).Msg("HTTP server starting")
	return s.Router().Run(addr)
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "supplier sale report extraction service",
	})
}

type processSaleRequest struct {
	Path string `json:"path" binding:"required"`
}

// handleProcessSale runs the full pipeline for a PDF on local disk: OCR,
// extraction, persistence and, when configured, forwarding.
func (s *Server) handleProcessSale(c *gin.Context) {
	var req processSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	documentID := filepath.Base(req.Path)
	log := s.log.With().Str("document_id", documentID).Logger()

	pages, err := s.ocr.Pages(c.Request.Context(), req.Path)
	if err != nil {
		log.Error().Err(err).Msg("OCR failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	doc, err := s.processor.Process(pages, documentID)
	if err != nil {
		log.Error().Err(err).Msg("extraction failed")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	savedPath, err := s.store.Save(doc, documentID)
	if err != nil {
		log.Error().Err(err).Msg("persistence failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	forwarded := false
	if s.forward != nil {
		if err := s.forward.Send(c.Request.Context(), doc); err != nil {
			log.Error().Err(err).Msg("forwarding failed")
			c.JSON(http.StatusBadGateway, gin.H{
				"error": err.Error(),
				"saved": savedPath,
			})
			return
		}
		forwarded = true
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "sale report processed",
		"items":     len(doc.Items),
		"saved":     savedPath,
		"forwarded": forwarded,
	})
}

type parseSaleRequest struct {
	DocumentID string   `json:"document_id"`
	Pages      []string `json:"pages" binding:"required"`
}

// handleParseSale runs only the extraction core over already-OCR'd page
// text and returns the resulting document.
func (s *Server) handleParseSale(c *gin.Context) {
	var req parseSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := s.processor.Process(req.Pages, req.DocumentID)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, doc)
}
