package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"saleocr/internal/config"
	"saleocr/internal/forward"
	"saleocr/internal/logger"
	"saleocr/internal/ocr"
	"saleocr/internal/report"
	"saleocr/internal/store"
)

var processCmd = &cobra.Command{
	Use:   "process [pdf-file]",
	Short: "OCR a sale report PDF and extract its line items to JSON",
	Long: `Run the full pipeline over one scanned sale report: rasterize and OCR
every page, reconstruct the line items from the token stream, and write the
structured document as JSON into the output directory.

The local tesseract engine needs poppler-utils (pdftoppm) and libtesseract
with the tha and eng language data installed. The vision engine instead
needs Google Cloud credentials in the environment.`,
	Example: `  # Extract to processed_data/SALE_2040334_202501H02-2.json
  saleocr process SALE_2040334_202501H02-2.pdf

  # Use the Cloud Vision engine and forward the result downstream
  saleocr process report.pdf --engine vision --forward

  # Custom output directory and a longer OCR timeout
  saleocr process report.pdf -o /tmp/out --timeout 600`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringP("output", "o", "", "Output directory (default: OUTPUT_DIR from env)")
	processCmd.Flags().String("engine", "", "OCR engine: tesseract or vision (default: OCR_ENGINE from env)")
	processCmd.Flags().Bool("forward", false, "Forward the document to FORWARD_API_BASE after saving")
	processCmd.Flags().Int("timeout", 300, "Processing timeout in seconds")
}

func runProcess(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("process")

	outputDir, _ := cmd.Flags().GetString("output")
	engine, _ := cmd.Flags().GetString("engine")
	doForward, _ := cmd.Flags().GetBool("forward")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	pdfPath := args[0]

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if outputDir == "" {
		outputDir = cfg.OutputDir
	}
	if engine == "" {
		engine = cfg.OCREngine
	}

	log.Info().
		Str("file", pdfPath).
		Str("engine", engine).
		Str("output", outputDir).
		Bool("forward", doForward).
		Msg("Starting sale report processing")

	if err := validateReportFile(pdfPath, log); err != nil {
		return err
	}
	if doForward && cfg.ForwardAPIBase == "" {
		return fmt.Errorf("--forward requires FORWARD_API_BASE to be configured")
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	ocrService, err := ocr.NewService(ctx, ocr.Config{
		Engine:       engine,
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

	result, err := ocrService.PagesWithMetadata(ctx, pdfPath)
	if err != nil {
		return translateOCRError(err, log)
	}
	log.Info().
		Int("pages", result.PageCount).
		Dur("duration", result.ProcessingDuration).
		Msg("OCR completed")

	processor, err := report.NewProcessor(cfg.ReportRules())
	if err != nil {
		return err
	}

	documentID := filepath.Base(pdfPath)
	doc, err := processor.Process(result.Pages, documentID)
	if err != nil {
		if errors.Is(err, report.ErrNoText) {
			return fmt.Errorf("document %s is unprocessable: OCR produced no text", documentID)
		}
		return err
	}

	savedPath, err := store.NewWriter(outputDir).Save(doc, documentID)
	if err != nil {
		return err
	}
	fmt.Printf("Saved %s (items=%d)\n", savedPath, len(doc.Items))

	if doForward {
		if err := forward.NewClient(cfg.ForwardAPIBase).Send(ctx, doc); err != nil {
			return fmt.Errorf("document saved to %s but forwarding failed: %w", savedPath, err)
		}
		fmt.Println("Forwarded to downstream API")
	}
	return nil
}

// validateReportFile checks the input exists, is a regular non-empty file,
// and looks like a PDF.
func validateReportFile(pdfPath string, log zerolog.Logger) error {
	fileInfo, err := os.Stat(pdfPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("PDF file not found: %s", pdfPath)
		}
		if os.IsPermission(err) {
			return fmt.Errorf("permission denied accessing PDF file: %s", pdfPath)
		}
		return fmt.Errorf("error accessing PDF file: %w", err)
	}

	if !fileInfo.Mode().IsRegular() {
		return fmt.Errorf("path is not a regular file: %s", pdfPath)
	}
	if fileInfo.Size() == 0 {
		return fmt.Errorf("PDF file is empty: %s", pdfPath)
	}
	if !strings.HasSuffix(strings.ToLower(pdfPath), ".pdf") {
		log.Warn().
			Str("file", pdfPath).
			Msg("File does not have .pdf extension")
	}
	return nil
}

// createContextWithTimeout creates a context with timeout and signal handling
func createContextWithTimeout(timeoutSecs int, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling processing")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// translateOCRError maps engine failures to actionable messages.
func translateOCRError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("OCR processing failed")

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("OCR timed out. Try increasing --timeout or processing a smaller file")
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("OCR was canceled")
	case errors.Is(err, ocr.ErrRasterizerMissing):
		return fmt.Errorf("pdftoppm not found. Install poppler-utils or set PDFTOPPM_PATH")
	case errors.Is(err, ocr.ErrInvalidPDF):
		return fmt.Errorf("invalid or corrupted PDF file. Please check the file integrity")
	case errors.Is(err, ocr.ErrEmptyDocument):
		return fmt.Errorf("no readable text found in the document. The scan may be blank or too degraded")
	case errors.Is(err, ocr.ErrPDFTooLarge):
		return fmt.Errorf("PDF too large for the vision engine (20MB limit). Try the tesseract engine")
	case errors.Is(err, ocr.ErrTooManyPages):
		return fmt.Errorf("too many pages for the vision engine (5 page limit). Try the tesseract engine")
	case errors.Is(err, ocr.ErrMissingCredentials):
		return fmt.Errorf("Google Cloud credentials not configured. Set GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS, or use --engine tesseract")
	default:
		return fmt.Errorf("OCR processing failed: %w", err)
	}
}
