package cmd

import (
	"github.com/spf13/cobra"

	"github.com/crous-format/crous/crous"
)

var fmtIndent int

// fmtCmd represents the fmt command
var fmtCmd = &cobra.Command{
	Use:   "fmt [file]",
	Short: "Reformat CROUS text",
	Long: `Parse CROUS text and print it back in canonical form.

Comments are dropped and spacing normalizes. Dict entry order and
duplicate keys come through untouched.

Example:
  crous fmt config.crous
  crous fmt --indent 0 config.crous`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		v, err := crous.ParseBytes(data)
		if err != nil {
			return err
		}
		out, err := renderValue(v, "text", fmtIndent)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(fmtCmd)
	fmtCmd.Flags().IntVar(&fmtIndent, "indent", 2, "Spaces per indent level, 0 for compact output")
}
