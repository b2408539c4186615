package cmd

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/hadithsearch/internal/domain/search/request"
	chiTransport "github.com/kailas-cloud/hadithsearch/internal/transport/chi"
)

func newQueryCmd(opts *globalOptions) *cobra.Command {
	var topK int

	cmd := &cobra.Command{
		Use:   "query <text>",
		Short: "Run one search and print the results as JSON",
		Example: `  hadithsearch query "rafa yadain"
  hadithsearch query --top-k 3 "fasting in ramadan"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			k := cfg.Search.FinalTopK
			if cmd.Flags().Changed("top-k") {
				k = topK
			}
			noCache := false
			req, err := request.New(strings.Join(args, " "), &k, &noCache)
			if err != nil {
				return err
			}

			a, err := buildApp(cmd.Context(), &cfg, logger)
			if err != nil {
				return err
			}
			defer closeApp(a, logger)

			out, err := a.Search.Search(cmd.Context(), &req)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(chiTransport.NewSearchResponse(req.Query(), &out))
		},
	}
	cmd.Flags().IntVarP(&topK, "top-k", "k", 0, "Number of results (defaults to search.final_top_k)")

	return cmd
}
