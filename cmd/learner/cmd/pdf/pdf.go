package pdf

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"language-learner/cmd/learner/cmd/shared"
	"language-learner/internal/app/notes"
	"language-learner/internal/config"
)

var (
	outputPath string
	batch      bool
	mode       string
	lang       string
	browserBin string
)

func init() {
	Cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output PDF path (default: input with .pdf extension)")
	Cmd.Flags().BoolVar(&batch, "batch", false, "convert every .md file in the directory")
	Cmd.Flags().StringVar(&mode, "mode", config.DefaultPDFMode, "page layout: standard, tablet or ebook")
	Cmd.Flags().StringVar(&lang, "lang", "en", "document language code")
	Cmd.Flags().StringVar(&browserBin, "browser", "", "path to a Chromium binary")
}

// Cmd converts Markdown notes to PDF.
var Cmd = &cobra.Command{
	Use:   "pdf <file.md|dir>",
	Short: "Convert Markdown notes to PDF",
	Long: `Convert Markdown notes to PDF with a headless Chromium.

- A single file is written next to the input unless -o is given
- With --batch every .md file in the directory is converted`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := shared.Logger(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		switch mode {
		case notes.ModeStandard, notes.ModeTablet, notes.ModeEbook:
		default:
			return fmt.Errorf("unknown mode %q", mode)
		}

		conv := notes.NewPDFConverter(&notes.RodRenderer{BrowserBin: browserBin}, mode, lang, logger)
		input := args[0]

		info, err := os.Stat(input)
		if err != nil {
			return err
		}
		if info.IsDir() {
			if !batch {
				return fmt.Errorf("%s is a directory, use --batch", input)
			}
			written, err := conv.ConvertDir(cmd.Context(), input)
			for _, p := range written {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			if err != nil {
				logger.Error("batch conversion incomplete", zap.Int("converted", len(written)), zap.Error(err))
			}
			return err
		}

		written, err := conv.ConvertFile(cmd.Context(), input, outputPath)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), written)
		return nil
	},
}
