package cli

import (
	"fmt"
	"io"
	"math"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zkurtz/pandahandler/filtering"
	"github.com/zkurtz/pandahandler/frames"
	"github.com/zkurtz/pandahandler/indexes"
	"github.com/zkurtz/pandahandler/rowcount"
)

func newDemoCmd() *cobra.Command {
	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "run a demonstration of the library on toy data.",
	}
	demoCmd.AddCommand(
		&cobra.Command{
			Use:   "decorators",
			Short: "log the row count changes of two filters.",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runDecoratorsDemo(cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "filtering",
			Short: "apply the same mask as a precomputed mask, a mask function and a filter.",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runFilteringDemo(cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "index",
			Short: "set a strict index on data with a null key.",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runIndexDemo(cmd.OutOrStdout())
			},
		},
	)
	return demoCmd
}

func aLessThanTwo(df *frames.DataFrame) (*frames.Series, error) {
	mask := df.Col("a").Mask(frames.FilterFn{Float64: func(val float64) bool { return val < 2 }})
	if err := mask.Err(); err != nil {
		return nil, err
	}
	return mask, nil
}

// runDecoratorsDemo logs
//
//	drop_if_any_null returned 2 rows, down 1 rows (-33.3%).
//	local_filter returned 1 rows, down 1 rows (-50.0%).
//
// the second at warning level.
func runDecoratorsDemo(w io.Writer) error {
	df := frames.NewDataFrame([]interface{}{[]float64{1, 2, math.NaN()}, []int{1, 4, 5}}).
		SetColNames([]string{"a", "b"})
	localFilter := filtering.AsFilter(aLessThanTwo,
		rowcount.WithDescription("local_filter"),
		rowcount.WithLevel(log.WarnLevel),
	)
	df, err := filtering.DropIfAnyNull(df)
	if err != nil {
		return err
	}
	df, err = localFilter(df)
	if err != nil {
		return err
	}
	fmt.Fprint(w, df)
	return nil
}

func runFilteringDemo(w io.Writer) error {
	df := frames.NewDataFrame([]interface{}{[]int{1, 2, 3}, []int{4, 5, 6}}).SetColNames([]string{"a", "b"})
	mask, err := filtering.AGreaterThanOne(df)
	if err != nil {
		return err
	}
	result1, err := filtering.ApplyMask(df, mask, "precomputed_mask")
	if err != nil {
		return err
	}
	result2, err := filtering.ApplyMaskFunc(df, filtering.AGreaterThanOne, "mask_func")
	if err != nil {
		return err
	}
	result3, err := filtering.AsFilter(filtering.AGreaterThanOne)(df)
	if err != nil {
		return err
	}
	for _, other := range []*frames.DataFrame{result2, result3} {
		eq, diffs, err := other.EqualsCSV(result1.ToCSV(true), true)
		if err != nil {
			return err
		}
		if !eq {
			return fmt.Errorf("filters disagree: %v", diffs)
		}
	}
	fmt.Fprint(w, result1)
	return nil
}

func runIndexDemo(w io.Writer) error {
	df := frames.NewDataFrame(
		[]interface{}{
			[]string{"siamese", "little", "persian"},
			[]string{"2021-01-01", "", "2021-01-02"},
		},
		frames.NewSeries([]int{0, 1, 2}, "idcol"),
	).
		SetColNames([]string{"cats", "timestamp"}).
		Cast(map[string]frames.DType{"cats": frames.Categorical, "timestamp": frames.DateTime})
	catTime := indexes.MustNew([]string{"cats", "timestamp"}, indexes.Sort())
	log.WithField("index", catTime).Debug("applying index")
	df, err := catTime.Apply(df, indexes.WithFilterNulls())
	if err != nil {
		return err
	}
	fmt.Fprint(w, df)
	return nil
}
