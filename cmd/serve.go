package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"saleocr/internal/config"
	"saleocr/internal/logger"
	"saleocr/internal/ocr"
	"saleocr/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP processing service",
	Long: `Expose the pipeline over HTTP:

  POST /process-sale  {"path": "report.pdf"}          OCR + extract + save (+ forward)
  POST /parse-sale    {"document_id": "...", "pages": [...]}  extraction core only

Processing is synchronous; each request is handled start to finish before
the response is written.`,
	Example: `  # Serve on the configured address (LISTEN_ADDR, default :8080)
  saleocr serve

  # Serve on a specific port
  saleocr serve --addr :9090`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address (default: LISTEN_ADDR from env)")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("serve")

	addr, _ := cmd.Flags().GetString("addr")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.ListenAddr
	}

	ocrService, err := ocr.NewService(context.Background(), ocr.Config{
		Engine:       cfg.OCREngine,
		Languages:    cfg.OCRLanguages,
		DPI:          cfg.OCRDPI,
		PdftoppmPath: cfg.PdftoppmPath,
	})
	if err != nil {
		return fmt.Errorf("failed to create OCR service: %w", err)
	}
	if closer, ok := ocrService.(io.Closer); ok {
		defer func() {
			if closeErr := closer.Close(); closeErr != nil {
				log.Warn().Err(closeErr).Msg("Failed to close OCR service")
			}
		}()
	}

	gin.SetMode(gin.ReleaseMode)
	srv, err := server.New(cfg, ocrService)
	if err != nil {
		return err
	}

	log.Info().
		Str("addr", addr).
		Str("engine", cfg.OCREngine).
		Bool("forwarding", cfg.ForwardAPIBase != "").
		Msg("Starting HTTP service")
	return srv.Run(addr)
}
