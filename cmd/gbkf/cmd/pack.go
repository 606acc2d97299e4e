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

// packCmd represents the pack command
var packCmd = &cobra.Command{
	Use:   "pack <input.json> <output.gbkf>",
	Short: "Build a GBKF file from a JSON description",
	Long: `Read a JSON document description and write the binary GBKF form.
The JSON layout matches what 'gbkf inspect' prints, so the two commands
round-trip.

Examples:
  gbkf pack doc.json doc.gbkf
  gbkf inspect doc.gbkf | gbkf pack /dev/stdin copy.gbkf`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := packFile(args[0], args[1])
		if err != nil {
			return err
		}
		cmd.Printf("Wrote %s (%d bytes)\n", args[1], n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(packCmd)
}

// packFile converts the JSON description at inPath into a binary GBKF
// file at outPath and returns the number of bytes written.
func packFile(inPath, outPath string) (int, error) {
	text, err := os.ReadFile(inPath)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", inPath, err)
	}

	var described jsondoc.Document
	if err := json.Unmarshal(text, &described); err != nil {
		return 0, fmt.Errorf("%s: invalid JSON: %w", inPath, err)
	}

	doc, err := described.ToDocument()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", inPath, err)
	}

	data, err := gbkf.Encode(doc)
	if err != nil {
		return 0, err
	}

	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	return len(data), nil
}
