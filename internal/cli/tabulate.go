package cli

import (
	"fmt"
	"os"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zkurtz/pandahandler/frames"
	"github.com/zkurtz/pandahandler/schema"
	"github.com/zkurtz/pandahandler/tabulation"
)

func newTabulateCmd() *cobra.Command {
	tabulateCmd := &cobra.Command{
		Use:   "tabulate [flags] csv_file",
		Short: "count the distinct values of a column.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			df, err := readCSVFile(cmd, args[0])
			if err != nil {
				return err
			}
			var options []tabulation.Option
			if getFlag(cmd, "drop-nulls") {
				options = append(options, tabulation.WithDropNulls())
			}
			tb, err := tabulation.Tabulate(df.Col(getString(cmd, "column")), options...)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), tb)
			return nil
		},
	}
	tabulateCmd.Flags().StringP("column", "c", "", "column to tabulate")
	tabulateCmd.Flags().Bool("drop-nulls", false, "exclude null values")
	addDelimiterFlag(tabulateCmd)
	//nolint:errcheck
	tabulateCmd.MarkFlagRequired("column")
	return tabulateCmd
}

func newSchemaCmd() *cobra.Command {
	schemaCmd := &cobra.Command{
		Use:   "schema [flags] csv_file",
		Short: "learn the schema of a csv file.",
		Long: `Learn the column types and categorical encodings of a csv file and print them.
	 With --output, the schema is also written to a file for use with the coerce command.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			df, err := readCSVFile(cmd, args[0])
			if err != nil {
				return err
			}
			if getFlag(cmd, "categorize") {
				if df, err = schema.CategorizeNonNumerics(df); err != nil {
					return err
				}
			}
			s, err := schema.FromDataFrame(df)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, col := range s.ColumnTypes() {
				fmt.Fprintf(w, "%s\t%v", col.Name, col.DType)
				if categories, ok := s.Encoding(col.Name); ok {
					fmt.Fprintf(w, "\t%v", categories)
				}
				fmt.Fprintln(w)
			}
			output := getString(cmd, "output")
			if output == "" {
				return nil
			}
			data, err := s.MarshalBinary()
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			log.WithField("bytes", len(data)).Infof("wrote schema to %s", output)
			return nil
		},
	}
	schemaCmd.Flags().Bool("categorize", false, "treat every non-numeric column as categorical")
	schemaCmd.Flags().StringP("output", "o", "", "write the schema to this file")
	addDelimiterFlag(schemaCmd)
	return schemaCmd
}

func newCoerceCmd() *cobra.Command {
	coerceCmd := &cobra.Command{
		Use:   "coerce [flags] csv_file",
		Short: "coerce a csv file to a schema written by the schema command.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(getString(cmd, "schema"))
			if err != nil {
				return err
			}
			var s schema.Schema
			if err := s.UnmarshalBinary(data); err != nil {
				return err
			}
			df, err := readCSVFile(cmd, args[0])
			if err != nil {
				return err
			}
			df, err = s.Apply(df)
			if err != nil {
				return err
			}
			return df.WriteCSV(cmd.OutOrStdout(), false)
		},
	}
	coerceCmd.Flags().StringP("schema", "s", "", "schema file")
	addDelimiterFlag(coerceCmd)
	//nolint:errcheck
	coerceCmd.MarkFlagRequired("schema")
	return coerceCmd
}

func addDelimiterFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("delimiter", "d", ",", "field delimiter of the csv file")
}

func readCSVFile(cmd *cobra.Command, filename string) (*frames.DataFrame, error) {
	delimiter := getString(cmd, "delimiter")
	sep, size := utf8.DecodeRuneInString(delimiter)
	if size == 0 || size != len(delimiter) {
		return nil, fmt.Errorf("delimiter must be a single character, got %q", delimiter)
	}
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	log.Debugf("reading %s", filename)
	return frames.ReadCSV(f, frames.ReadOptionDelimiter(sep))
}
