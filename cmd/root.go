package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"saleocr/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "saleocr",
	Short: "Extract structured line items from scanned supplier sale reports",
	Long: `saleocr OCRs scanned Thai supplier sale report PDFs and reconstructs
the line items (product, invoice, quantities, amounts) as structured JSON.

The scanned tables carry no reliable column alignment, so extraction works
over a flat token stream: identifiers are recognized by digit shape, rows are
reassembled around barcode anchors, and amounts are cross-checked against
unit price and quantity before the document is written out or forwarded.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("saleocr - supplier sale report extraction")
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}
