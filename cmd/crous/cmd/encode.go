package cmd

import (
	"github.com/spf13/cobra"

	"github.com/crous-format/crous/crous"
)

var encodeFrom string

// encodeCmd represents the encode command
var encodeCmd = &cobra.Command{
	Use:   "encode [file]",
	Short: "Encode a document to FLUX binary",
	Long: `Encode a document to the FLUX binary format on stdout.

The input is CROUS text unless --from selects another format.

Example:
  crous encode config.crous > config.flux
  crous encode --from json data.json > data.flux`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		v, err := parseInput(data, encodeFrom)
		if err != nil {
			return err
		}
		out, err := crous.Encode(v)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	encodeCmd.Flags().StringVarP(&encodeFrom, "from", "f", "text", "Input format: text, json, yaml or cbor")
}
