package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/2beens/fittrack/internal/nutrition"
	"github.com/2beens/fittrack/internal/openfoodfacts"

	"github.com/spf13/cobra"
)

func lookupCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Look foods up in OpenFoodFacts",
	}

	cmd.AddCommand(lookupBarcodeCmd(opts))
	cmd.AddCommand(lookupSearchCmd(opts))
	cmd.AddCommand(lookupImportCmd(opts))

	return cmd
}

func (o *globalOptions) foodDB() (*openfoodfacts.Client, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	return openfoodfacts.NewClient(cfg.OFFBaseURL, cfg.OFFTimeout, cfg.OFFCacheSizeMB), nil
}

func lookupBarcodeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "barcode <code>",
		Short: "Find a product by its barcode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.foodDB()
			if err != nil {
				return err
			}

			product, ok := client.LookupBarcode(cmd.Context(), args[0])
			if !ok {
				return fmt.Errorf("%w: %s", nutrition.ErrProductNotFound, args[0])
			}

			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), product)
			}
			return printProducts(cmd.OutOrStdout(), []openfoodfacts.Product{*product})
		},
	}
}

func lookupSearchCmd(opts *globalOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search products by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.foodDB()
			if err != nil {
				return err
			}

			products := client.Search(cmd.Context(), args[0], limit)
			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), products)
			}
			return printProducts(cmd.OutOrStdout(), products)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", openfoodfacts.DefaultSearchLimit, "maximum results")

	return cmd
}

func lookupImportCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <code>",
		Short: "Find a product by its barcode and save it in the food catalog",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			result, err := a.ledger.ImportProduct(cmd.Context(), args[0])
			if errors.Is(err, nutrition.ErrProductNotFound) {
				return fmt.Errorf("%w: %s", err, args[0])
			}
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), result)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %s (updated: %t)\n", result.Food.Name, result.Updated)
			return err
		}),
	}
}

func printProducts(out io.Writer, products []openfoodfacts.Product) error {
	if len(products) == 0 {
		_, err := fmt.Fprintln(out, "no products found")
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BARCODE\tNAME\tBRAND\tKCAL/100G\tPROTEIN\tCARB\tFAT")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%.2f\t%.2f\t%.2f\n",
			p.Barcode, p.Name, p.Brand, p.Kcal100, p.Protein100, p.Carb100, p.Fat100)
	}
	return tw.Flush()
}
