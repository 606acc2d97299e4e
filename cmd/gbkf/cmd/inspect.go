/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gbkf/gbkf-go/pkg/gbkf"
	"github.com/gbkf/gbkf-go/pkg/jsondoc"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Decode a GBKF file and print its contents as JSON",
	Long: `Decode a GBKF file and print the header fields and all entries as
JSON on stdout. Float32 values are printed via their exact float64
widening, matching what a reader of the binary file observes.

Examples:
  gbkf inspect data.gbkf
  gbkf inspect data.gbkf --compact`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		compact, _ := cmd.Flags().GetBool("compact")

		out, err := inspectFile(args[0], compact)
		if err != nil {
			return err
		}
		cmd.Println(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Bool("compact", false, "Print JSON without indentation")
}

// inspectFile decodes the file at path and renders it as JSON text.
func inspectFile(path string, compact bool) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	doc, err := gbkf.Decode(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}

	rendered, err := jsondoc.FromDocument(doc)
	if err != nil {
		return "", err
	}

	var text []byte
	if compact {
		text, err = json.Marshal(rendered)
	} else {
		text, err = json.MarshalIndent(rendered, "", "  ")
	}
	if err != nil {
		return "", fmt.Errorf("failed to render JSON: %w", err)
	}
	return string(text), nil
}
