package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/drisen/mylib/internal/timeconv"
)

var (
	whenIn     string
	whenLayout string
	whenMillis bool
	whenEpoch  bool
)

// whenCmd represents the when command
var whenCmd = &cobra.Command{
	Use:   "when <value>",
	Short: "Convert a time value to home-zone text or epoch seconds",
	Long: `Convert between the three time formats the collector scripts deal with:
epoch milliseconds, epoch seconds, and ISO datetime text. Output is
formatted in the configured home timezone.

Examples:
  mylib when 1554121800000                   # epoch millis from the server
  mylib when 1554121800.25 --millis          # epoch seconds, show fraction
  mylib when 2019-04-01T12:30:00Z --epoch    # ISO text to epoch seconds`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := parseTimeValue(args[0], whenIn)
		if err != nil {
			return err
		}

		if whenEpoch {
			secs, err := v.Epoch()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.3f\n", secs)
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), homeZone.Format(v, whenLayout, whenMillis))
		return nil
	},
}

// parseTimeValue interprets raw per the --in flag. In auto mode an integer
// is epoch millis, a float is epoch seconds, and anything else is ISO text.
func parseTimeValue(raw, in string) (timeconv.Value, error) {
	switch in {
	case "millis":
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid epoch millis %q: %w", raw, err)
		}
		return timeconv.Millis(n), nil
	case "seconds":
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid epoch seconds %q: %w", raw, err)
		}
		return timeconv.Seconds(f), nil
	case "iso":
		return timeconv.IsoText(raw), nil
	case "auto":
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return timeconv.Millis(n), nil
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return timeconv.Seconds(f), nil
		}
		return timeconv.IsoText(raw), nil
	default:
		return nil, fmt.Errorf("invalid --in %q: must be 'auto', 'millis', 'seconds', or 'iso'", in)
	}
}

func init() {
	whenCmd.Flags().StringVar(&whenIn, "in", "auto", "Input format: auto, millis, seconds, iso")
	whenCmd.Flags().StringVar(&whenLayout, "layout", timeconv.DefaultLayout, "Output layout (Go reference time)")
	whenCmd.Flags().BoolVar(&whenMillis, "millis", false, "Append 3-digit fractional seconds")
	whenCmd.Flags().BoolVar(&whenEpoch, "epoch", false, "Print epoch seconds instead of formatted text")

	rootCmd.AddCommand(whenCmd)
}
