package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vendee/vendee/internal/adapters/driven/catalog"
	"github.com/vendee/vendee/internal/core/domain"
)

var catalogWatch bool

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Bulk-load sellers and inventories",
}

var catalogImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import sellers and inventories from a TOML catalog",
	Long: `Imports every seller in a TOML catalog file together with its items.
Sellers already stored under the same ID are replaced.

With --watch the file is re-imported every time it changes, until
interrupted.

Example catalog:
  [[sellers]]
  id = "V001"
  name = "Ravi Cart"
  kind = "mobile"
  latitude = 12.9716
  longitude = 77.5946

  [[sellers.items]]
  name = "banana"
  quantity = "10 kg"
  price = "45"`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogImport,
}

func init() {
	catalogImportCmd.Flags().BoolVarP(&catalogWatch, "watch", "w", false, "re-import when the file changes")
	catalogCmd.AddCommand(catalogImportCmd)
	rootCmd.AddCommand(catalogCmd)
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	ctx := cmd.Context()
	file := catalog.NewFile(args[0])

	loaded, err := file.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	if err := importCatalog(ctx, cmd, loaded); err != nil {
		return err
	}

	if !catalogWatch {
		return nil
	}

	watcher := catalog.NewWatcher(file)
	defer watcher.Close()

	updates, err := watcher.Watch(ctx)
	if err != nil {
		return err
	}
	cmd.Printf("Watching %s for changes (Ctrl+C to stop)\n", file.Path())

	for update := range updates {
		if update.Err != nil {
			cmd.PrintErrf("Reload failed: %v\n", update.Err)
			continue
		}
		if err := importCatalog(ctx, cmd, update.Catalog); err != nil {
			cmd.PrintErrf("%v\n", err)
		}
	}
	return nil
}

func importCatalog(ctx context.Context, cmd *cobra.Command, c *domain.Catalog) error {
	summary, err := catalogService.Import(ctx, c)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	cmd.Printf("Imported %d sellers and %d inventories\n", summary.Sellers, summary.Inventories)
	return nil
}
