package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crous-format/crous/crous"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Print the type outline of a FLUX document",
	Long: `Decode a FLUX binary document and print one line per value with its
type, size and a short preview.

Example:
  crous inspect config.flux`,
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
		var sb strings.Builder
		outline(&sb, v, "", 0)
		_, err = fmt.Fprint(cmd.OutOrStdout(), sb.String())
		return err
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

const previewRunes = 40

// outline writes one line for v, then recurses into containers. Decoded
// trees are already depth-bounded, so recursion is safe here.
func outline(sb *strings.Builder, v *crous.Value, label string, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	if label != "" {
		sb.WriteString(label)
		sb.WriteString(": ")
	}

	switch v.Type() {
	case crous.TypeNull:
		sb.WriteString("null\n")
	case crous.TypeBool, crous.TypeInt, crous.TypeFloat:
		fmt.Fprintf(sb, "%s %s\n", v.Type(), crous.Emit(v))
	case crous.TypeString:
		s, _ := v.AsStr()
		fmt.Fprintf(sb, "string %s\n", crous.Emit(crous.Str(truncate(s))))
	case crous.TypeBytes:
		b, _ := v.AsBytes()
		fmt.Fprintf(sb, "bytes (%d bytes)\n", len(b))
	case crous.TypeList, crous.TypeTuple:
		fmt.Fprintf(sb, "%s (%d items)\n", v.Type(), v.Len())
		for i := 0; i < v.Len(); i++ {
			outline(sb, v.Index(i), fmt.Sprintf("[%d]", i), depth+1)
		}
	case crous.TypeDict:
		fmt.Fprintf(sb, "dict (%d entries)\n", v.Len())
		for _, ent := range v.Entries() {
			outline(sb, ent.Value, fmt.Sprintf("%q", truncate(ent.Key)), depth+1)
		}
	case crous.TypeTagged:
		tag, inner, _ := v.AsTagged()
		fmt.Fprintf(sb, "tagged @%d\n", tag)
		outline(sb, inner, "", depth+1)
	}
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= previewRunes {
		return s
	}
	return string(runes[:previewRunes]) + "..."
}
