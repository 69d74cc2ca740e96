package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phil-mansfield/beamdpr/lib/egsphsp"
)

// printFields maps the field names accepted by print to the value printed
// for each record.
var printFields = map[string]func(r *egsphsp.Record) interface{}{
	"weight":      func(r *egsphsp.Record) interface{} { return r.Weight },
	"energy":      func(r *egsphsp.Record) interface{} { return r.Energy },
	"x":           func(r *egsphsp.Record) interface{} { return r.X },
	"y":           func(r *egsphsp.Record) interface{} { return r.Y },
	"x_cos":       func(r *egsphsp.Record) interface{} { return r.U },
	"y_cos":       func(r *egsphsp.Record) interface{} { return r.V },
	"z_cos":       func(r *egsphsp.Record) interface{} { return r.W() },
	"r":           func(r *egsphsp.Record) interface{} { return float32(r.R()) },
	"produced":    func(r *egsphsp.Record) interface{} { return r.Produced() },
	"charged":     func(r *egsphsp.Record) interface{} { return r.Charged },
	"new_history": func(r *egsphsp.Record) interface{} { return r.NewHistory },
	"latch":       func(r *egsphsp.Record) interface{} { return r.Latch },
	"zlast":       func(r *egsphsp.Record) interface{} { return r.ZLast },
}

// printWidth is the width of each printed column.
const printWidth = 16

// NewPrintCommand creates the print command.
func NewPrintCommand(rootOpts *RootOptions) *cobra.Command {
	var fields []string
	var number int

	cmd := &cobra.Command{
		Use:   "print -f FIELD[,FIELD...] [-n RECORDS] FILE",
		Short: "Print the given fields of the first n records",
		Long: fmt.Sprintf(`Print the specified fields in the specified order for n (or all)
records. Pass -n -1 to print every record.

Fields: %s`, strings.Join(printFieldNames(), ", ")),
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rootOpts.start(cmd, nil)
			if err != nil {
				return err
			}
			return runPrint(s, args[0], fields, number)
		},
	}

	cmd.Flags().StringSliceVarP(&fields, "field", "f", nil,
		"fields to print, in order")
	cmd.Flags().IntVarP(&number, "number", "n", 10,
		"number of records to print (-1 for all)")
	cmd.MarkFlagRequired("field")

	return cmd
}

func printFieldNames() []string {
	names := make([]string, 0, len(printFields))
	for name := range printFields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func runPrint(s *session, path string, fields []string, n int) error {
	for _, f := range fields {
		if _, ok := printFields[f]; !ok {
			return NewExitError(ExitUsage, fmt.Sprintf("unknown field %q. "+
				"The valid fields are %s", f,
				strings.Join(printFieldNames(), ", ")))
		}
	}

	records, err := s.engine.Records(path, n)
	if err != nil {
		return err
	}
	return outputError(writeRecords(s.out, fields, records))
}

// writeRecords prints a header row of field names followed by one row per
// record.
func writeRecords(w io.Writer, fields []string, records []egsphsp.Record) error {
	sb := &strings.Builder{}
	for _, f := range fields {
		fmt.Fprintf(sb, "%-*s", printWidth, f)
	}
	sb.WriteString("\n")

	for i := range records {
		for _, f := range fields {
			fmt.Fprintf(sb, "%-*v", printWidth, printFields[f](&records[i]))
		}
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
