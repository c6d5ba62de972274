package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meur/wardrobe-fetcher/internal/fetch"
	"github.com/meur/wardrobe-fetcher/internal/logger"
	"github.com/meur/wardrobe-fetcher/internal/output"
	"github.com/meur/wardrobe-fetcher/internal/storage"
)

const usageMessage = `Improper usage. Expected: <asset_path> <output_file> [patch]
Asset path: Absolute path to unpacked assets.
Output file: Absolute path to file to write results to.
Patch: Optional. "true" writes JSON patch operations instead of a merged document.`

func (a *app) runFetch(cmd *cobra.Command, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return &UsageError{Message: usageMessage}
	}

	assetRoot, err := fetch.ResolveAssetRoot(args[0])
	switch {
	case errors.Is(err, fetch.ErrNoItemsDir):
		return &UsageError{Message: "Subdirectory 'items' not found. Invalid directory given."}
	case err != nil:
		return &UsageError{Message: usageMessage}
	}

	outputPath := args[1]
	patch := len(args) == 3 && args[2] == "true"

	mode, err := a.resolveMode(cmd, outputPath, patch)
	if err != nil {
		return err
	}

	a.log.Info("fetching items",
		logger.String("assets", assetRoot),
		logger.String("output", outputPath),
		logger.String("mode", mode.String()))

	result, stats, err := fetch.Fetch(fetch.Options{
		AssetRoot:   assetRoot,
		Exclude:     a.config.Exclude,
		SkipInvalid: a.config.SkipInvalid,
		Logger:      a.log,
	})
	if err != nil {
		return fmt.Errorf("failed to fetch items: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Results:")
	for _, c := range result.Counts() {
		fmt.Fprintf(out, "- %s: %d items.\n", titleCase(string(c.Category)), c.Count)
	}
	if stats.Skipped > 0 {
		fmt.Fprintln(out, a.colorize(colorYellow, fmt.Sprintf("⚠ Skipped %d of %d item files", stats.Skipped, stats.Files)))
	}

	var existing []byte
	if mode == output.Merge {
		existing, err = os.ReadFile(outputPath)
		if err != nil {
			return fmt.Errorf("failed to read existing output: %w", err)
		}
	}

	data, err := output.Render(result, existing, output.Options{Mode: mode, Compact: a.config.Compact})
	if err != nil {
		return fmt.Errorf("failed to render output: %w", err)
	}
	if err := output.WriteFile(outputPath, data); err != nil {
		return err
	}

	if a.config.Catalog != "" {
		if err := a.updateCatalog(cmd, result); err != nil {
			return err
		}
	}

	fmt.Fprintln(out, a.colorize(colorGreen, "Done fetching items!"))
	return nil
}

// resolveMode picks the write mode, asking the user when outputPath exists
func (a *app) resolveMode(cmd *cobra.Command, outputPath string, patch bool) (output.Mode, error) {
	mode := output.Overwrite
	prompt := PromptOutputExists
	if patch {
		mode = output.Patch
		prompt = PromptOutputExistsPatch
	}

	if _, err := os.Stat(outputPath); err != nil {
		return mode, nil
	}

	choice, err := a.prompter.Choose(prompt)
	if err != nil {
		return mode, err
	}

	out := cmd.OutOrStdout()
	switch {
	case choice == ChoiceOverwrite:
		fmt.Fprintln(out, "File will be overwritten.")
		return mode, nil
	case choice == ChoiceMerge && !patch:
		fmt.Fprintln(out, "Content will be merged.")
		return output.Merge, nil
	default:
		fmt.Fprintln(out, "Cancelling task.")
		return mode, ErrCancelled
	}
}

func (a *app) updateCatalog(cmd *cobra.Command, result *fetch.ResultSet) error {
	store, err := storage.New(a.config.Catalog)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer store.Close()

	if err := store.BulkUpsertItems(result.All()); err != nil {
		return fmt.Errorf("failed to update catalog: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), a.colorize(colorCyan, fmt.Sprintf("📦 Catalog %s updated with %d items", a.config.Catalog, result.Total())))
	return nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
