package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sheetshop/sheetshop/pkg/engine"
	"github.com/sheetshop/sheetshop/pkg/query"
)

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var pageCmd = &cobra.Command{
	Use:   "page",
	Short: "Print one unfiltered page in sheet order",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		page, _ := cmd.Flags().GetInt("page")
		size, _ := cmd.Flags().GetInt("size")
		res, err := e.ItemsPage(cmd.Context(), page, size)
		if err != nil {
			return err
		}
		return printJSON(res)
	},
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print one filtered, ordered page together with the facets",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		page, _ := cmd.Flags().GetInt("page")
		size, _ := cmd.Flags().GetInt("size")
		q, _ := cmd.Flags().GetString("q")
		brand, _ := cmd.Flags().GetString("brand")
		category, _ := cmd.Flags().GetString("category")
		seller, _ := cmd.Flags().GetString("seller")
		order, _ := cmd.Flags().GetString("order")
		seed, _ := cmd.Flags().GetString("seed")

		res, err := e.CatalogPage(cmd.Context(), page, size, engine.PageQuery{
			FilterSpec: query.FilterSpec{Query: q, Brand: brand, Category: category, Seller: seller},
			Order:      order,
			Seed:       seed,
		})
		if err != nil {
			return err
		}
		return printJSON(res)
	},
}

var itemCmd = &cobra.Command{
	Use:   "item <slug-or-id>",
	Short: "Print a single item looked up by slug, title or id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		it, err := e.ItemBySlugOrID(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if it == nil {
			return fmt.Errorf("no item matches %q", args[0])
		}
		return printJSON(it)
	},
}

var headCmd = &cobra.Command{
	Use:   "head",
	Short: "Print the first items of the sheet",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		items, err := e.ItemsHead(cmd.Context(), limit)
		if err != nil {
			return err
		}
		return printJSON(items)
	},
}

var facetsCmd = &cobra.Command{
	Use:   "facets",
	Short: "Print the brands, categories and sellers of the catalog",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		facets, err := e.Facets(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(facets)
	},
}

func init() {
	rootCmd.AddCommand(pageCmd, catalogCmd, itemCmd, headCmd, facetsCmd)

	for _, c := range []*cobra.Command{pageCmd, catalogCmd} {
		c.Flags().Int("page", 1, "Page number (clamped into range)")
		c.Flags().Int("size", 0, "Page size (default from catalog.page_size)")
	}
	catalogCmd.Flags().String("q", "", "Free-text search over title, brand, seller and category")
	catalogCmd.Flags().String("brand", query.All, "Exact brand")
	catalogCmd.Flags().String("category", query.All, "Exact category")
	catalogCmd.Flags().String("seller", query.All, "Exact seller")
	catalogCmd.Flags().String("order", engine.OrderNatural, "natural or shuffle")
	catalogCmd.Flags().String("seed", "", "Shuffle seed (default: current UTC day)")
	headCmd.Flags().Int("limit", 12, "Number of items")
}
