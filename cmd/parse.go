package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"saleocr/internal/config"
	"saleocr/internal/logger"
	"saleocr/internal/report"
)

var parseCmd = &cobra.Command{
	Use:   "parse [page-text-file]...",
	Short: "Extract line items from already-OCR'd page text",
	Long: `Run only the extraction core over plain text files, one file per page,
skipping OCR entirely. Useful for debugging a bad extraction against saved
page dumps, or for reprocessing after a rules change without re-scanning.`,
	Example: `  # Parse two saved page dumps, deriving the period from the id
  saleocr parse page_1.txt page_2.txt --id SALE_2040334_202501H02-2.pdf

  # Write the document to a file instead of stdout
  saleocr parse page_1.txt -o report.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().String("id", "", "Document identifier (default: name of the first input file)")
	parseCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
}

func runParse(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("parse")

	documentID, _ := cmd.Flags().GetString("id")
	outputPath, _ := cmd.Flags().GetString("output")
	if documentID == "" {
		documentID = filepath.Base(args[0])
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pages := make([]string, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read page file %s: %w", path, err)
		}
		pages = append(pages, string(data))
	}

	processor, err := report.NewProcessor(cfg.ReportRules())
	if err != nil {
		return err
	}

	doc, err := processor.Process(pages, documentID)
	if err != nil {
		return err
	}
	log.Info().
		Str("document_id", documentID).
		Int("pages", len(pages)).
		Int("items", len(doc.Items)).
		Msg("pages parsed")

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	data = append(data, '\n')

	if outputPath == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	fmt.Printf("Saved %s (items=%d)\n", outputPath, len(doc.Items))
	return nil
}
