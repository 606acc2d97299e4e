/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gbkf/gbkf-go/pkg/gbkf"
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <file>...",
	Short: "Check that GBKF files decode cleanly",
	Long: `Decode each file and report whether it is a well formed GBKF
document. The checksum, all entry payloads, and key uniqueness are
checked. Exits non-zero if any file fails.

Examples:
  gbkf verify data.gbkf
  gbkf verify *.gbkf`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := 0
		for _, path := range args {
			summary, err := verifyFile(path)
			if err != nil {
				cmd.Printf("%s: INVALID: %v\n", path, err)
				failed++
				continue
			}
			cmd.Printf("%s: OK (%s)\n", path, summary)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d file(s) failed verification", failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

// verifyFile decodes the file at path and returns a one-line summary.
func verifyFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	doc, err := gbkf.Decode(data)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("spec %d v%d, %d entries, %d bytes",
		doc.SpecID, doc.SpecVersion, doc.Len(), len(data)), nil
}
