package ocr

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
	"github.com/rs/zerolog"

	"saleocr/internal/logger"
)

// TesseractService implements Service with a local toolchain: pdftoppm
// rasterizes each PDF page to PNG and gosseract reads the text.
type TesseractService struct {
	languages string
	dpi       int
	pdftoppm  string
	log       zerolog.Logger
}

// NewTesseractService creates the local OCR engine. Zero-value config fields
// fall back to the production defaults for the Thai sale reports.
func NewTesseractService(cfg Config) *TesseractService {
	s := &TesseractService{
		languages: cfg.Languages,
		dpi:       cfg.DPI,
		pdftoppm:  cfg.PdftoppmPath,
		log:       logger.WithComponent("ocr-tesseract"),
	}
	if s.languages == "" {
		s.languages = "tha+eng"
	}
	if s.dpi == 0 {
		s.dpi = 400
	}
	if s.pdftoppm == "" {
		s.pdftoppm = "pdftoppm"
	}
	return s
}

// Pages extracts text from the PDF at path, one string per page.
func (s *TesseractService) Pages(ctx context.Context, path string) ([]string, error) {
	result, err := s.PagesWithMetadata(ctx, path)
	if err != nil {
		return nil, err
	}
	return result.Pages, nil
}

// PagesWithMetadata extracts text from the PDF at path with processing metadata.
func (s *TesseractService) PagesWithMetadata(ctx context.Context, path string) (*Result, error) {
	const op = "PagesWithMetadata"
	start := time.Now()

	if _, err := exec.LookPath(s.pdftoppm); err != nil {
		return nil, wrapError(op, ErrRasterizerMissing, s.pdftoppm)
	}

	tmpDir, err := os.MkdirTemp("", "saleocr-pages-")
	if err != nil {
		return nil, wrapError(op, err, "failed to create scratch directory")
	}
	defer os.RemoveAll(tmpDir)

	images, err := s.rasterize(ctx, path, tmpDir)
	if err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()
	if err := client.SetLanguage(strings.Split(s.languages, "+")...); err != nil {
		return nil, wrapError(op, err, "unsupported language "+s.languages)
	}

	pages := make([]string, 0, len(images))
	blank := true
	for _, image := range images {
		if err := ctx.Err(); err != nil {
			return nil, wrapError(op, err, "canceled during OCR")
		}

		prepared, err := s.prepare(image)
		if err != nil {
			return nil, wrapError(op, err, "failed to preprocess "+filepath.Base(image))
		}
		if err := client.SetImage(prepared); err != nil {
			return nil, wrapError(op, ErrOCRFailed, "failed to load "+filepath.Base(image))
		}
		text, err := client.Text()
		if err != nil {
			return nil, wrapError(op, ErrOCRFailed, "failed to read "+filepath.Base(image))
		}
		if strings.TrimSpace(text) != "" {
			blank = false
		}
		pages = append(pages, text)
	}

	if blank {
		return nil, wrapError(op, ErrEmptyDocument, path)
	}

	s.log.Info().
		Str("file", path).
		Int("pages", len(pages)).
		Dur("duration", time.Since(start)).
		Msg("local OCR completed")

	return &Result{
		Pages:              pages,
		PageCount:          len(pages),
		ProcessedAt:        time.Now(),
		ProcessingDuration: time.Since(start),
	}, nil
}

// rasterize shells out to pdftoppm and returns the page images in page
// order. pdftoppm zero-pads the page index, so a lexicographic sort keeps
// the order correct past nine pages.
func (s *TesseractService) rasterize(ctx context.Context, path, tmpDir string) ([]string, error) {
	const op = "rasterize"

	prefix := filepath.Join(tmpDir, "page")
	cmd := exec.CommandContext(ctx, s.pdftoppm, "-r", strconv.Itoa(s.dpi), "-png", path, prefix)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, wrapError(op, ErrInvalidPDF, strings.TrimSpace(string(out)))
	}

	images, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return nil, wrapError(op, err, "failed to list page images")
	}
	if len(images) == 0 {
		return nil, wrapError(op, ErrEmptyDocument, "rasterizer produced no pages")
	}
	sort.Strings(images)
	return images, nil
}

// prepare grayscales and bumps the contrast of a page image. The reports are
// faint dot-matrix prints; this helps tesseract with the Thai glyphs.
func (s *TesseractService) prepare(path string) (string, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return "", err
	}
	img = imaging.AdjustContrast(imaging.Grayscale(img), 10)

	out := strings.TrimSuffix(path, ".png") + ".prep.png"
	if err := imaging.Save(img, out); err != nil {
		return "", err
	}
	return out, nil
}
