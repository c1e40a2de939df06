package main

import (
	"fmt"

	"imgtriage/internal/organize"

	"github.com/spf13/cobra"
)

// NewDeleteCmd moves files to the trash
func NewDeleteCmd() *cobra.Command {
	var (
		dryRun bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "delete files...",
		Short: "Move files to the trash",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			saver := organize.NewSaver(cfg)
			if cmd.Flags().Changed("dry-run") {
				saver.SetDryRun(dryRun)
			}
			result := saver.DeleteFiles(cmd.Context(), args)

			out := cmd.OutOrStdout()
			if asJSON {
				if err := printJSON(out, result); err != nil {
					return err
				}
			} else {
				failed := make(map[string]bool, len(result.FailedFiles))
				for _, p := range result.FailedFiles {
					failed[p] = true
					printError(out, "could not trash "+p)
				}
				for _, p := range args {
					if !failed[p] {
						printSuccess(out, "trashed "+p)
					}
				}
			}

			if !result.Success {
				return fmt.Errorf("%d of %d file(s) could not be trashed", len(result.FailedFiles), len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Report what would be trashed without moving anything")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")

	return cmd
}
