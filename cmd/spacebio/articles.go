package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mohammad-safakhou/spacebio/internal/articles"
	"github.com/mohammad-safakhou/spacebio/models"
	"github.com/spf13/cobra"
)

func sampleCMD(opts *rootOptions) *cobra.Command {
	var n int
	sample := &cobra.Command{
		Use:   "sample",
		Short: "Print a random sample of indexed articles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if n <= 0 {
				return fmt.Errorf("-n must be positive")
			}
			index, _ := newCatalog(opts.cfg, opts.logger, nil)
			list, err := index.Load(cmd.Context())
			if err != nil {
				return err
			}
			printArticles(cmd.OutOrStdout(), articles.Sample(list, n, nil))
			return nil
		},
	}
	sample.Flags().IntVarP(&n, "count", "n", 6, "number of articles")
	return sample
}

func searchCMD(opts *rootOptions) *cobra.Command {
	var k int
	search := &cobra.Command{
		Use:   "search <query>",
		Short: "Rank indexed articles against a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if k <= 0 {
				k = opts.cfg.Index.TopK
			}
			index, ranker := newCatalog(opts.cfg, opts.logger, nil)
			list, err := index.Load(cmd.Context())
			if err != nil {
				return err
			}
			printArticles(cmd.OutOrStdout(), ranker.Rank(strings.Join(args, " "), list, k))
			return nil
		},
	}
	search.Flags().IntVarP(&k, "top", "k", 0, "number of results (default index.top_k)")
	return search
}

func printArticles(w io.Writer, list []models.ArticleRef) {
	for i, a := range list {
		fmt.Fprintf(w, "%d. %s\n   %s\n", i+1, a.Title, a.Link)
	}
}
