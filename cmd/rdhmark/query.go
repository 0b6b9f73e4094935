package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/yyyoichi/watermark_rdh/internal/db"
)

var queryFlags struct {
	DB     string
	Failed bool
	Image  string
	JSON   bool
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Show round trips stored by quality",
	Long: `Prints a summary of the results stored by "rdhmark quality --db".
With --failed it lists the round trips that lost a pixel or a bit,
with --image the results of one cover.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.Open(queryFlags.DB)
		if err != nil {
			return err
		}
		defer database.Close()
		return runQuery(cmd.OutOrStdout(), database)
	},
}

func init() {
	queryCmd.Flags().StringVar(&queryFlags.DB, "db", "", "SQLite database written by quality")
	queryCmd.Flags().BoolVar(&queryFlags.Failed, "failed", false, "List round trips that were not lossless")
	queryCmd.Flags().StringVar(&queryFlags.Image, "image", "", "List the results of one cover path or URL")
	queryCmd.Flags().BoolVar(&queryFlags.JSON, "json", false, "Print JSON")
	_ = queryCmd.MarkFlagRequired("db")
	queryCmd.MarkFlagsMutuallyExclusive("failed", "image")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(w io.Writer, database *db.DB) error {
	var (
		results []*db.DetailedResult
		err     error
	)
	switch {
	case queryFlags.Failed:
		results, err = database.GetFailedResults()
	case queryFlags.Image != "":
		results, err = database.GetResultsByImage(queryFlags.Image)
	default:
		s, err := database.GetSummary()
		if err != nil {
			return err
		}
		if queryFlags.JSON {
			return printJSON(w, s)
		}
		fmt.Fprintf(w, "Total results: %d\n", s.Count)
		fmt.Fprintf(w, "Lossless: %d\n", s.Lossless)
		fmt.Fprintf(w, "Mark match: %d\n", s.MarkMatch)
		fmt.Fprintf(w, "PSNR shifted (avg): %.2f dB\n", s.AvgPSNRShifted)
		fmt.Fprintf(w, "PSNR embedded (avg/min): %.2f / %.2f dB\n", s.AvgPSNREmbedded, s.MinPSNREmbedded)
		return nil
	}
	if err != nil {
		return err
	}
	if queryFlags.JSON {
		return printJSON(w, results)
	}
	for _, r := range results {
		status := okColor("[OK]")
		if !r.Lossless || !r.MarkMatch {
			status = failColor("[FAIL]")
		}
		fmt.Fprintf(w, "%s %s %dx%d mark=%dx%d peak=%d secondary=%d PSNR embedded=%.2f restored=%.2f\n",
			status, r.ImageURI, r.Width, r.Height, r.MarkWidth, r.MarkHeight,
			r.Peak, r.Secondary, r.PSNREmbedded, r.PSNRRestored)
	}
	fmt.Fprintf(w, "%s %d results\n", infoColor("==>"), len(results))
	return nil
}

func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
