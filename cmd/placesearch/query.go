package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/placesearch/internal/domain/geo"
	searchuc "github.com/kailas-cloud/placesearch/internal/usecase/search"
)

type queryOptions struct {
	category string
	region   string
	location string
	lat      float64
	lon      float64
	json     bool
}

func newQueryCmd(root *rootOptions) *cobra.Command {
	opts := &queryOptions{}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Load the dataset once and print matching places",
		Example: `  placesearch query --category Coffee --region QLD
  placesearch query --location "Sydney, 2000"
  placesearch query --lat -33.87 --lon 151.21 --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q := searchuc.Query{Category: opts.category, Region: opts.region, Location: opts.location}
			if cmd.Flags().Changed("lat") {
				q.Origin = &geo.Point{Lat: opts.lat, Lon: opts.lon}
			}

			a, err := newApp(root.env)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.load(cmd.Context()); err != nil {
				return err
			}
			res, state, err := a.search.Search(cmd.Context(), q)
			if err != nil {
				return err
			}

			out := newPrinter(cmd.OutOrStdout(), opts.json)
			if out.json {
				return out.printJSON(placesToRows(res, a.cfg.Display.HideFields))
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d place(s)\n", state, res.Len())
			return out.printPlaces(res)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.category, "category", "", "category tag, case-insensitive (default All)")
	f.StringVar(&opts.region, "region", "", "exact region name (default All)")
	f.StringVar(&opts.location, "location", "", `"Suburb, Postcode" to rank nearest places`)
	f.Float64Var(&opts.lat, "lat", 0, "origin latitude for nearest places")
	f.Float64Var(&opts.lon, "lon", 0, "origin longitude for nearest places")
	f.BoolVar(&opts.json, "json", false, "print JSON even on a terminal")
	cmd.MarkFlagsRequiredTogether("lat", "lon")
	cmd.MarkFlagsMutuallyExclusive("location", "lat")
	return cmd
}

func newCategoriesCmd(root *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List the categories offered by the category filter",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listStrings(cmd, root, asJSON, func(a *app) ([]string, error) { return a.catalog.Categories() })
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON even on a terminal")
	return cmd
}

func newRegionsCmd(root *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "regions",
		Short: "List the regions offered by the region filter",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listStrings(cmd, root, asJSON, func(a *app) ([]string, error) { return a.catalog.Regions() })
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON even on a terminal")
	return cmd
}

func listStrings(cmd *cobra.Command, root *rootOptions, asJSON bool, list func(*app) ([]string, error)) error {
	a, err := newApp(root.env)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.load(cmd.Context()); err != nil {
		return err
	}
	items, err := list(a)
	if err != nil {
		return err
	}

	out := newPrinter(cmd.OutOrStdout(), asJSON)
	if out.json {
		return out.printJSON(items)
	}
	_, err = fmt.Fprintln(out.w, strings.Join(items, "\n"))
	return err
}
