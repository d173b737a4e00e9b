package cmd

import (
	"github.com/spf13/cobra"

	"github.com/crous-format/crous/crous"
)

var (
	decodeTo     string
	decodeIndent int
)

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:   "decode [file]",
	Short: "Decode FLUX binary to a readable format",
	Long: `Decode a FLUX binary document and print it as CROUS text.

--to selects another output format; --indent pretty-prints text and JSON.

Example:
  crous decode config.flux
  crous decode --to json --indent 2 config.flux`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		v, err := crous.Decode(data)
		if err != nil {
			return err
		}
		out, err := renderValue(v, decodeTo, decodeIndent)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().StringVarP(&decodeTo, "to", "t", "text", "Output format: text, json, yaml or cbor")
	decodeCmd.Flags().IntVar(&decodeIndent, "indent", 0, "Spaces per indent level, 0 for compact output")
}
