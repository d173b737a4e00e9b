package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crous-format/crous/crous"
)

const version = "0.1.0"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "crous",
	Short: "CROUS structured value tool",
	Long: `crous converts documents between the CROUS text syntax, the FLUX
binary format and foreign formats (JSON, YAML, CBOR).

Conversions keep as much value identity as the target format can carry:
dict entry order and duplicate keys, the tuple/list distinction, exact
integers and float bit patterns.`,
	Version:      version,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and runs it.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// readInput returns the contents of the file argument, or of stdin when no
// file (or "-") is given.
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 1 && args[0] != "-" {
		return os.ReadFile(args[0])
	}
	return io.ReadAll(cmd.InOrStdin())
}

// parseInput converts raw input in the named format into a value tree.
func parseInput(data []byte, format string) (*crous.Value, error) {
	switch format {
	case "text":
		return crous.ParseBytes(data)
	case "json":
		return crous.FromJSON(data)
	case "yaml":
		return crous.FromYAML(data)
	case "cbor":
		return crous.FromCBOR(data)
	default:
		return nil, fmt.Errorf("unknown input format %q (want text, json, yaml or cbor)", format)
	}
}

// renderValue serializes a value tree into the named output format. indent
// is the number of spaces per level for text and JSON; zero means compact.
func renderValue(v *crous.Value, format string, indent int) ([]byte, error) {
	switch format {
	case "text":
		var out string
		if indent > 0 {
			out = crous.EmitIndent(v, strings.Repeat(" ", indent))
		} else {
			out = crous.Emit(v)
		}
		return []byte(out + "\n"), nil
	case "json":
		data, err := crous.ToJSON(v)
		if err != nil {
			return nil, err
		}
		if indent > 0 {
			var buf bytes.Buffer
			if err := json.Indent(&buf, data, "", strings.Repeat(" ", indent)); err != nil {
				return nil, err
			}
			data = buf.Bytes()
		}
		return append(data, '\n'), nil
	case "yaml":
		return crous.ToYAML(v)
	case "cbor":
		return crous.ToCBOR(v)
	default:
		return nil, fmt.Errorf("unknown output format %q (want text, json, yaml or cbor)", format)
	}
}
