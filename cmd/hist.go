package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/drisen/mylib/internal/histo"
)

var histBreaks string

var histBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))

const histBarWidth = 40

// histCmd represents the hist command
var histCmd = &cobra.Command{
	Use:   "hist [file]",
	Short: "Summarize numbers into a breakpoint histogram",
	Long: `Read whitespace-separated numbers from a file or stdin and print a
histogram with the given bucket breakpoints.

Example:
  mylib hist --breakpoints 10,50,100 latencies.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lows, err := parseBreakpoints(histBreaks)
		if err != nil {
			return err
		}

		in := cmd.InOrStdin()
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()
			in = f
		}

		vals, err := readValues(in)
		if err != nil {
			return err
		}
		logger.PrintIf(verbose, "read", len(vals), "values")

		renderBuckets(cmd.OutOrStdout(), histo.Buckets(vals, lows))
		return nil
	},
}

func parseBreakpoints(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("--breakpoints is required")
	}

	parts := strings.Split(s, ",")
	lows := make([]float64, 0, len(parts))
	prev := 0.0
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid breakpoint %q: %w", part, err)
		}
		if i > 0 && v <= prev {
			return nil, fmt.Errorf("breakpoints must be ascending, got %g after %g", v, prev)
		}
		lows = append(lows, v)
		prev = v
	}
	return lows, nil
}

func readValues(r io.Reader) ([]float64, error) {
	var vals []float64
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		v, err := strconv.ParseFloat(scanner.Text(), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", scanner.Text(), err)
		}
		vals = append(vals, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read values: %w", err)
	}
	return vals, nil
}

func renderBuckets(w io.Writer, buckets []histo.Bucket) {
	maxCount := 0
	for _, b := range buckets {
		if b.Count > maxCount {
			maxCount = b.Count
		}
	}

	for _, b := range buckets {
		bar := ""
		if maxCount > 0 {
			bar = strings.Repeat("#", b.Count*histBarWidth/maxCount)
		}
		fmt.Fprintf(w, ">= %-12g %6d %s\n", b.Low, b.Count, histBarStyle.Render(bar))
	}
}

func init() {
	histCmd.Flags().StringVar(&histBreaks, "breakpoints", "", "Comma-separated ascending bucket breakpoints")

	rootCmd.AddCommand(histCmd)
}
