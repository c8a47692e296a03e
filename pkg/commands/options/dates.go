package options

import (
	"time"

	"github.com/spf13/cobra"
)

const (
	layoutISO = "2006-01-02"
)

// DateOptions carries schedule date flags shared by editing commands.
type DateOptions struct {
	Start string
	End   string
	AsOf  string
}

func AddRangeArgs(cmd *cobra.Command, o *DateOptions) {
	cmd.Flags().StringVar(&o.Start, "start", "",
		`Specify the start date, example: --start="2024-09-01".`)
	cmd.Flags().StringVar(&o.End, "end", "",
		`Specify the end date, example: --end="2024-09-28".`)
}

func AddAsOfArg(cmd *cobra.Command, o *DateOptions) {
	cmd.Flags().StringVar(&o.AsOf, "as-of", "",
		`Evaluate as of a date instead of today, example: --as-of="2024-09-15".`)
}

// GetAsOf parses the as-of flag, nil when unset.
func (o *DateOptions) GetAsOf() (*time.Time, error) {
	if o.AsOf == "" {
		return nil, nil
	}
	t, err := time.Parse(layoutISO, o.AsOf)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
