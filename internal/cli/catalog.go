package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meur/wardrobe-fetcher/internal/models"
	"github.com/meur/wardrobe-fetcher/internal/storage"
)

func newCatalogCommand(a *app) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and maintain the SQLite item catalog",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Show item counts per category",
		Args:  cobra.NoArgs,
		RunE:  a.runCatalogList,
	}

	pruneCmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove every catalog item of one category",
		Args:  cobra.NoArgs,
		RunE:  a.runCatalogPrune,
	}
	pruneCmd.Flags().String("category", "", "Category to remove (head|chest|legs|back)")
	_ = pruneCmd.MarkFlagRequired("category")

	catalogCmd.AddCommand(listCmd, pruneCmd)
	return catalogCmd
}

func (a *app) openCatalog() (*storage.Store, error) {
	if a.config.Catalog == "" {
		return nil, errors.New("no catalog configured, pass --catalog or set WARDROBE_CATALOG")
	}
	store, err := storage.New(a.config.Catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	return store, nil
}

func (a *app) runCatalogList(cmd *cobra.Command, _ []string) error {
	store, err := a.openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	counts, err := store.CountByCategory()
	if err != nil {
		return fmt.Errorf("failed to count items: %w", err)
	}

	out := cmd.OutOrStdout()
	total := 0
	fmt.Fprintf(out, "Catalog %s\n", a.config.Catalog)
	for _, c := range counts {
		fmt.Fprintf(out, "- %s: %d items.\n", titleCase(string(c.Category)), c.Count)
		total += c.Count
	}
	fmt.Fprintf(out, "Total: %d items.\n", total)
	return nil
}

func (a *app) runCatalogPrune(cmd *cobra.Command, _ []string) error {
	name, _ := cmd.Flags().GetString("category")
	category, ok := models.ParseCategory(name)
	if !ok {
		return &UsageError{Message: fmt.Sprintf("Unknown category '%s'. Expected one of: head, chest, legs, back.", name)}
	}

	store, err := a.openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.DeleteItemsByCategory(category)
	if err != nil {
		return fmt.Errorf("failed to prune %s items: %w", category, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d %s items from %s\n", n, category, a.config.Catalog)
	return nil
}
