package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"CatalogExplorer/internal/catalog"
	"CatalogExplorer/pkg/kit"
)

var navigationsCmd = &cobra.Command{
	Use:   "navigations",
	Short: "List top-level navigations",
	Args:  cobra.NoArgs,
	RunE: withAPI(func(ctx context.Context, api catalog.API, _ *cobra.Command, _ []string) (any, error) {
		return api.GetNavigations(ctx)
	}),
}

var categoriesCmd = &cobra.Command{
	Use:   "categories <navigation-id>",
	Short: "List the categories of a navigation",
	Args:  cobra.ExactArgs(1),
	RunE: withAPI(func(ctx context.Context, api catalog.API, _ *cobra.Command, args []string) (any, error) {
		return api.GetCategories(ctx, args[0])
	}),
}

var productsCmd = &cobra.Command{
	Use:   "products <category-id>",
	Short: "List a page of products, optionally filtered",
	Args:  cobra.ExactArgs(1),
	RunE: withAPI(func(ctx context.Context, api catalog.API, cmd *cobra.Command, args []string) (any, error) {
		filters, page, err := productFlags(cmd)
		if err != nil {
			return nil, err
		}
		return api.GetProducts(ctx, args[0], filters, page)
	}),
}

var productCmd = &cobra.Command{
	Use:   "product <id>",
	Short: "Show a product with its detail and reviews, and record the view",
	Args:  cobra.ExactArgs(1),
	RunE: withAPI(func(ctx context.Context, api catalog.API, _ *cobra.Command, args []string) (any, error) {
		return loadProductPage(ctx, api, args[0])
	}),
}

var specsCmd = &cobra.Command{
	Use:   "specs <id>",
	Short: "Print a product's specifications as key: value lines",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := kit.NewLogger(serviceName+"-cli", cfg.Log.Level)
		defer func() { _ = log.Sync() }()

		api, closeAPI, err := openAPI(cmd.Context(), log)
		if err != nil {
			return err
		}
		defer closeAPI()

		detail, ok, err := api.GetProductDetail(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no details for product %q", args[0])
		}
		return printSpecs(cmd.OutOrStdout(), detail.Specs)
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh <id>",
	Short: "Ask the catalog to refresh a product",
	Args:  cobra.ExactArgs(1),
	RunE: withAPI(func(ctx context.Context, api catalog.API, _ *cobra.Command, args []string) (any, error) {
		return api.RefreshProduct(ctx, args[0])
	}),
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently viewed product ids, oldest first",
	Args:  cobra.NoArgs,
	RunE: withAPI(func(ctx context.Context, api catalog.API, _ *cobra.Command, _ []string) (any, error) {
		return api.GetViewHistory(ctx)
	}),
}

func init() {
	f := productsCmd.Flags()
	f.String("search", "", "case-insensitive substring of the title")
	f.Float64("min-price", 0, "lowest price, inclusive")
	f.Float64("max-price", 0, "highest price, inclusive")
	f.Float64("min-rating", 0, "minimum rating (accepted, not applied)")
	f.String("author", "", "exact author name")
	f.Int("page", catalog.DefaultPage, "1-indexed page")
	f.Int("limit", catalog.DefaultLimit, "page size")

	rootCmd.AddCommand(navigationsCmd, categoriesCmd, productsCmd, productCmd, specsCmd, refreshCmd, historyCmd)
}

type browseFunc func(ctx context.Context, api catalog.API, cmd *cobra.Command, args []string) (any, error)

// withAPI opens the catalog, runs fn and prints its result as indented JSON.
func withAPI(fn browseFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		log := kit.NewLogger(serviceName+"-cli", cfg.Log.Level)
		defer func() { _ = log.Sync() }()

		ctx := cmd.Context()
		api, closeAPI, err := openAPI(ctx, log)
		if err != nil {
			return err
		}
		defer closeAPI()

		out, err := fn(ctx, api, cmd, args)
		if err != nil {
			log.Debug("command failed", zap.String("cmd", cmd.Name()), zap.Error(err))
			return err
		}
		return printJSON(cmd.OutOrStdout(), out)
	}
}

func productFlags(cmd *cobra.Command) (catalog.ProductFilters, catalog.PaginationParams, error) {
	f := cmd.Flags()
	var filters catalog.ProductFilters

	filters.Search, _ = f.GetString("search")
	filters.Author, _ = f.GetString("author")

	for name, dst := range map[string]**float64{
		"min-price":  &filters.MinPrice,
		"max-price":  &filters.MaxPrice,
		"min-rating": &filters.MinRating,
	} {
		if !f.Changed(name) {
			continue
		}
		v, err := f.GetFloat64(name)
		if err != nil {
			return filters, catalog.PaginationParams{}, err
		}
		*dst = &v
	}

	page, _ := f.GetInt("page")
	limit, _ := f.GetInt("limit")
	return filters, catalog.PaginationParams{Page: page, Limit: limit}, nil
}

type productPage struct {
	Product catalog.Product        `json:"product"`
	Detail  *catalog.ProductDetail `json:"detail,omitempty"`
	Reviews []catalog.Review       `json:"reviews"`
}

// loadProductPage loads the product, its detail and reviews concurrently,
// then records the view whether or not the product exists.
func loadProductPage(ctx context.Context, api catalog.API, id string) (productPage, error) {
	var (
		page      productPage
		found     bool
		hasDetail bool
		detail    catalog.ProductDetail
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page.Product, found, err = api.GetProduct(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		detail, hasDetail, err = api.GetProductDetail(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		page.Reviews, err = api.GetReviews(gctx, id)
		return err
	})
	loadErr := g.Wait()

	if err := api.SaveViewHistory(ctx, id); err != nil {
		return productPage{}, fmt.Errorf("record view: %w", err)
	}
	if loadErr != nil {
		return productPage{}, loadErr
	}
	if !found {
		return productPage{}, fmt.Errorf("product %q not found", id)
	}
	if hasDetail {
		page.Detail = &detail
	}
	return page, nil
}

// printSpecs writes one "key: value" line per spec, sorted by key.
func printSpecs(w io.Writer, specs map[string]catalog.SpecValue) error {
	for _, k := range slices.Sorted(maps.Keys(specs)) {
		if _, err := fmt.Fprintf(w, "%s: %s\n", k, specs[k].String()); err != nil {
			return err
		}
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
