package cmd

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pjakhullar/Joy/internal/compiler"
	"github.com/pjakhullar/Joy/internal/csvio"
	"github.com/pjakhullar/Joy/internal/joyerrors"
	"github.com/pjakhullar/Joy/internal/lexer"
	"github.com/pjakhullar/Joy/internal/parser"
	"github.com/pjakhullar/Joy/internal/table"
	"github.com/pjakhullar/Joy/internal/vm"
)

var rootCmd = &cobra.Command{
	Use:           "joy source-file.jy",
	Short:         "Run a Joy data pipeline program.",
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := os.ReadFile(args[0])
		if err != nil {
			return joyerrors.IO("couldn't read source file", err)
		}

		tokens := lexer.New(string(source)).Tokenize()
		program, err := parser.Parse(tokens)
		if err != nil {
			return dumpAndReturn(err)
		}

		plan, err := compiler.Compile(program)
		if err != nil {
			return dumpAndReturn(err)
		}

		if dumpPlan {
			out, err := yaml.Marshal(plan)
			if err != nil {
				return fmt.Errorf("couldn't marshal plan: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
		}

		collaborator := csvio.New()
		machine := vm.New(collaborator, collaborator)
		if err := machine.Execute(plan); err != nil {
			return dumpAndReturn(err)
		}

		if preview > 0 {
			printPreview(cmd, machine.Table(), preview)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "joy: wrote %d row(s) successfully\n", machine.Table().NumRows)
		return nil
	},
}

var (
	debugFlag bool
	preview   int
	dumpPlan  bool
)

func init() {
	rootCmd.Flags().BoolVar(&debugFlag, "debug", false, "Print the full error chain (stack trace) on failure.")
	rootCmd.Flags().IntVar(&preview, "preview", 0, "Print the first N rows of the final table to stdout.")
	rootCmd.Flags().BoolVar(&dumpPlan, "dump-plan", false, "Dump the compiled execution plan as YAML before running it.")
}

// Execute runs the root command. Cobra's own error printing is silenced,
// so the caller prints the returned error and exits non-zero.
func Execute() error {
	return rootCmd.Execute()
}

func dumpAndReturn(err error) error {
	if debugFlag {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		if je, ok := joyerrors.As(err); ok {
			fmt.Fprintln(os.Stderr, spew.Sdump(je))
		}
	}
	return err
}

func printPreview(cmd *cobra.Command, t *table.Table, n int) {
	if t == nil {
		return
	}
	w := tablewriter.NewWriter(cmd.OutOrStdout())

	header := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = col.Name
	}
	w.SetHeader(header)

	rows := n
	if rows > t.NumRows {
		rows = t.NumRows
	}
	for r := 0; r < rows; r++ {
		row := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			row[i] = previewCell(col, r)
		}
		w.Append(row)
	}
	w.Render()
}

func previewCell(col *table.Column, row int) string {
	if col.IsNull(row) {
		return "NULL"
	}
	switch col.Type {
	case table.Int64:
		return fmt.Sprintf("%d", col.Ints[row])
	case table.Double:
		return fmt.Sprintf("%g", col.Floats[row])
	case table.Bool:
		return fmt.Sprintf("%t", col.Bools[row])
	default:
		return col.Strs[row]
	}
}
