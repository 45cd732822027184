package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ihavespoons/smellbench/internal/excerpt"
	"github.com/ihavespoons/smellbench/internal/source"
)

var (
	extractFile     string
	extractLine     int
	extractType     string
	extractMaxLines int
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract the source region of one type",
	Long: `Extract the region of a Java file declaring a type, anchored at the line a
detector reported. Prints the excerpt and the strategy that produced it:

  exact_match            header found and braces balanced
  header_only_fallback   header found, closing brace not found
  window_fallback        header not found, window around the line
  out_of_range_fallback  line outside the file, start of file`,
	Run: func(cmd *cobra.Command, args []string) {
		if extractFile == "" || extractType == "" {
			exitError("--file and --type are required")
		}

		text, codec, err := source.ReadFile(extractFile)
		if err != nil {
			exitErrorJSON(err)
		}

		res := excerpt.Extract(excerpt.Hint{
			Text:         text,
			ReportedLine: extractLine,
			TypeName:     extractType,
			MaxLines:     extractMaxLines,
		})

		result := map[string]interface{}{
			"file":     extractFile,
			"codec":    codec,
			"strategy": res.Strategy,
			"start":    res.Start + 1,
			"end":      res.End + 1,
			"lines":    res.LineCount(),
			"excerpt":  res.Excerpt,
		}
		output(result, func(interface{}) string {
			return fmt.Sprintf("# %s lines %d-%d (%s, %s)\n%s\n", extractFile, res.Start+1, res.End+1, res.Strategy, codec, res.Excerpt)
		})
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(&extractFile, "file", "", "Java source file")
	extractCmd.Flags().IntVar(&extractLine, "line", 1, "Reported line (1-based)")
	extractCmd.Flags().StringVar(&extractType, "type", "", "Type name, possibly dotted for inner types")
	extractCmd.Flags().IntVar(&extractMaxLines, "max-lines", excerpt.DefaultMaxLines, "Maximum excerpt lines")
}
