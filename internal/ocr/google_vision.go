package ocr

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"

	"saleocr/internal/logger"

	"github.com/rs/zerolog"
)

const (
	// MaxFileSizeBytes is the maximum file size for synchronous processing (20MB)
	MaxFileSizeBytes = 20 * 1024 * 1024

	// MaxPagesSync is the maximum number of pages for synchronous processing
	MaxPagesSync = 5
)

// GoogleVisionService implements Service using the Google Cloud Vision API.
type GoogleVisionService struct {
	client *vision.ImageAnnotatorClient
	log    zerolog.Logger
}

// NewGoogleVisionService creates the cloud OCR engine with credentials from
// the environment: inline GOOGLE_CREDENTIALS JSON first, then the
// GOOGLE_APPLICATION_CREDENTIALS file, then application default credentials.
func NewGoogleVisionService(ctx context.Context) (*GoogleVisionService, error) {
	const op = "NewGoogleVisionService"

	var client *vision.ImageAnnotatorClient
	var err error

	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
		if err != nil {
			return nil, wrapError(op, err, "failed to create client with GOOGLE_CREDENTIALS")
		}
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsFile(credFile))
		if err != nil {
			return nil, wrapError(op, err, "failed to create client with GOOGLE_APPLICATION_CREDENTIALS")
		}
	} else {
		client, err = vision.NewImageAnnotatorClient(ctx)
		if err != nil {
			return nil, wrapError(op, ErrMissingCredentials, "no credentials found in environment")
		}
	}

	return &GoogleVisionService{
		client: client,
		log:    logger.WithComponent("ocr-vision"),
	}, nil
}

// NewGoogleVisionServiceWithClient creates the engine with an explicit
// client (for testing).
func NewGoogleVisionServiceWithClient(client *vision.ImageAnnotatorClient) *GoogleVisionService {
	return &GoogleVisionService{
		client: client,
		log:    logger.WithComponent("ocr-vision"),
	}
}

// Pages extracts text from the PDF at path, one string per page.
func (g *GoogleVisionService) Pages(ctx context.Context, path string) ([]string, error) {
	result, err := g.PagesWithMetadata(ctx, path)
	if err != nil {
		return nil, err
	}
	return result.Pages, nil
}

// PagesWithMetadata extracts text from the PDF at path with processing metadata.
func (g *GoogleVisionService) PagesWithMetadata(ctx context.Context, path string) (*Result, error) {
	const op = "PagesWithMetadata"
	start := time.Now()

	pdfBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapError(op, err, "failed to read PDF file")
	}

	if len(pdfBytes) > MaxFileSizeBytes {
		return nil, wrapError(op, ErrPDFTooLarge, fmt.Sprintf("file size: %d bytes", len(pdfBytes)))
	}
	if len(pdfBytes) < 4 || string(pdfBytes[:4]) != "%PDF" {
		return nil, wrapError(op, ErrInvalidPDF, "missing PDF header")
	}

	req := &visionpb.BatchAnnotateFilesRequest{
		Requests: []*visionpb.AnnotateFileRequest{
			{
				InputConfig: &visionpb.InputConfig{
					Content:  pdfBytes,
					MimeType: "application/pdf",
				},
				Features: []*visionpb.Feature{
					{
						Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION,
					},
				},
				// Pages nil processes all pages.
			},
		},
	}

	resp, err := g.client.BatchAnnotateFiles(ctx, req)
	if err != nil {
		return nil, wrapError(op, ErrOCRFailed, fmt.Sprintf("Vision API call failed: %v", err))
	}

	if len(resp.Responses) == 0 {
		return nil, wrapError(op, ErrOCRFailed, "no response from Vision API")
	}
	fileResp := resp.Responses[0]
	if fileResp.Error != nil {
		return nil, wrapError(op, ErrOCRFailed, fmt.Sprintf("Vision API error: %s", fileResp.Error.Message))
	}

	pages, err := pageTexts(fileResp)
	if err != nil {
		return nil, wrapError(op, err, "failed to process Vision API response")
	}

	g.log.Info().
		Str("file", path).
		Int("pages", len(pages)).
		Dur("duration", time.Since(start)).
		Msg("cloud OCR completed")

	return &Result{
		Pages:              pages,
		PageCount:          len(pages),
		ProcessedAt:        time.Now(),
		ProcessingDuration: time.Since(start),
	}, nil
}

// pageTexts pulls the full text annotation of every page, preserving page
// order.
func pageTexts(fileResp *visionpb.AnnotateFileResponse) ([]string, error) {
	if len(fileResp.Responses) == 0 {
		return nil, ErrEmptyDocument
	}
	if len(fileResp.Responses) > MaxPagesSync {
		return nil, wrapError("pageTexts", ErrTooManyPages, fmt.Sprintf("document has %d pages", len(fileResp.Responses)))
	}

	pages := make([]string, 0, len(fileResp.Responses))
	blank := true
	for idx, page := range fileResp.Responses {
		if page.Error != nil {
			return nil, fmt.Errorf("error processing page %d: %s", idx+1, page.Error.Message)
		}
		text := ""
		if page.FullTextAnnotation != nil {
			text = page.FullTextAnnotation.Text
		}
		if strings.TrimSpace(text) != "" {
			blank = false
		}
		pages = append(pages, text)
	}

	if blank {
		return nil, ErrEmptyDocument
	}
	return pages, nil
}

// Close closes the underlying Vision client.
func (g *GoogleVisionService) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
