package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bankqif/bankqif/internal/importer"
	"github.com/bankqif/bankqif/internal/textenc"
)

// fallbackEncoding is tried when a file is not valid UTF-8.
const fallbackEncoding = "iso-8859-15"

func newDetectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "detect <file>...",
		Short: "Print the statement format of each file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := importer.DefaultRegistry()
			for _, path := range args {
				format, err := detectFile(registry, path)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", path, format)
			}
			return nil
		},
	}
}

// detectFile returns the sniffed format of the file at path, or "unknown".
func detectFile(registry *importer.Registry, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	content, err := textenc.Decode(data, "utf-8")
	if err != nil {
		content, err = textenc.Decode(data, fallbackEncoding)
		if err != nil {
			return "", fmt.Errorf("decoding %s: %w", path, err)
		}
	}

	if p := registry.Detect(content); p != nil {
		return p.Format(), nil
	}
	return "unknown", nil
}
