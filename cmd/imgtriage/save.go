package main

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"imgtriage/internal/log"
	"imgtriage/internal/organize"
	"imgtriage/internal/triage"
	"imgtriage/pkg/types"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

// NewSaveCmd saves files without the UI: everything given is accepted,
// optionally narrowed by tag, and written to the target directory
func NewSaveCmd() *cobra.Command {
	var (
		target     string
		action     string
		sortFormat string
		from       string
		tags       []string
		dryRun     bool
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "save [files...]",
		Short: "Copy or move files into a target directory",
		Long: `Accept the given files and save them into the target directory.

Records read with --from may carry tags; --tag keeps only the records with
one of the given tags ("untagged" selects records without a tag).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if target == "" {
				target = cfg.Settings.TargetDirectory
			}
			if target == "" {
				return fmt.Errorf("no target directory: use --target or set settings.target_directory")
			}

			saveAction := cfg.Settings.SaveAction
			if action != "" {
				saveAction = types.SaveAction(action)
			}
			if !saveAction.Valid() {
				return fmt.Errorf("invalid action %q: must be copy or move", action)
			}

			sortSpec := cfg.Settings.SortVariant
			if sortFormat != "" {
				sortSpec = &types.SortSpec{CreationDate: &types.CreationDateParams{Format: sortFormat}}
			}

			records, err := loadRecords(from)
			if err != nil {
				return err
			}
			for _, arg := range args {
				records = append(records, types.FileRecord{Path: arg})
			}
			if len(records) == 0 {
				return fmt.Errorf("no files given")
			}

			session, err := newSession()
			if err != nil {
				return err
			}
			imported := acceptRecords(session, records)
			log.LogWithFields(log.F("given", len(records)), log.F("imported", imported)).Debug("files accepted")

			if selected := filterTags(tags); len(selected) > 0 && !untaggedOnly(session, selected) {
				session.SetSelectedTags(selected)
				if len(session.SelectedTags()) == 0 {
					return fmt.Errorf("no file has any of the tags %s", strings.Join(tags, ", "))
				}
			}

			files, err := session.BeginSave()
			if err != nil {
				return err
			}

			saver := organize.NewSaver(cfg)
			if cmd.Flags().Changed("dry-run") {
				saver.SetDryRun(dryRun)
			}
			result := saver.SaveFiles(cmd.Context(), files, target, saveAction, sortSpec)
			session.CompleteSave(result)

			if asJSON {
				if err := printJSON(cmd.OutOrStdout(), result); err != nil {
					return err
				}
			} else {
				printSaveResult(cmd.OutOrStdout(), target, result)
			}

			if result.HasErrors() {
				return fmt.Errorf("save finished with errors: %s", result.Summary())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", "", "Target directory (defaults to settings.target_directory)")
	cmd.Flags().StringVarP(&action, "action", "a", "", "copy or move (defaults to settings.save_action)")
	cmd.Flags().StringVar(&sortFormat, "sort-format", "", "Bucket files by creation date, e.g. %Y/%m")
	cmd.Flags().StringVar(&from, "from", "", "JSON file with an array of {\"path\",\"tag\"} records")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Only save records with these tags")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would be saved without touching any file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")

	return cmd
}

// loadRecords reads a JSON array of file records. An empty path reads nothing.
func loadRecords(path string) ([]types.FileRecord, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var records []types.FileRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return records, nil
}

// acceptRecords imports records with their tags and accepts all of them
func acceptRecords(session *triage.Session, records []types.FileRecord) int {
	paths := types.CleanPaths(types.Paths(records))
	for i := range records {
		records[i].Path = paths[i]
	}
	imported := session.Import(paths)

	tagged := make(map[string]string, len(records))
	for _, r := range records {
		if r.Tagged() {
			tagged[r.Path] = r.Tag
		}
	}
	store := session.Store()
	for i, r := range store.Unreviewed() {
		if tag, ok := tagged[r.Path]; ok {
			store.SetTag(types.Unreviewed, i, tag)
		}
	}

	session.AcceptAll()
	return imported
}

// untaggedOnly reports whether selected asks for untagged records of a
// session where no record is tagged, which needs no filter
func untaggedOnly(session *triage.Session, selected []string) bool {
	return len(session.TagUniverse()) == 0 && slices.Equal(selected, []string{triage.UntaggedFilter})
}

func filterTags(tags []string) []string {
	out := make([]string, len(tags))
	for i, tag := range tags {
		if strings.EqualFold(tag, "untagged") {
			tag = triage.UntaggedFilter
		}
		out[i] = tag
	}
	return out
}
