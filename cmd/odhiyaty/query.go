package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/odhiyaty/odhiyaty/internal/db/firestore"
)

var queryLimit int

var queryCmd = &cobra.Command{
	Use:   "query <collection> [field=value ...]",
	Short: "List documents of a collection matching equality filters",
	Example: `  odhiyaty query sheep status=approved
  odhiyaty query users email=a@b.dz --limit 1`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filters, err := parseFilters(args[1:])
		if err != nil {
			return err
		}
		client, closeFn, err := cliDocumentClient(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		docs := client.Query(cmd.Context(), firestore.Query{
			Collection: args[0],
			Filters:    filters,
			Limit:      queryLimit,
		})
		out := make([]map[string]any, 0, len(docs))
		for _, d := range docs {
			out = append(out, d.Flatten("id"))
		}
		return printJSON(cmd.OutOrStdout(), out)
	},
}

var getCmd = &cobra.Command{
	Use:   "get <collection> <id>",
	Short: "Print one document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, closeFn, err := cliDocumentClient(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		doc, err := client.Get(cmd.Context(), args[0], args[1])
		if err != nil {
			return fmt.Errorf("get %s/%s: %w", args[0], args[1], err)
		}
		return printJSON(cmd.OutOrStdout(), doc.Flatten("id"))
	},
}

func init() {
	queryCmd.Flags().IntVar(&queryLimit, "limit", 0, "maximum number of documents (0 = no limit)")
	rootCmd.AddCommand(queryCmd, getCmd)
}

func cliDocumentClient(ctx context.Context) (*firestore.Client, func(), error) {
	rt, err := loadRuntime()
	if err != nil {
		return nil, nil, err
	}
	creds, err := serviceAccount(rt.cfg)
	if err != nil {
		return nil, nil, err
	}
	client, err := newDocumentClient(ctx, rt.cfg, creds, rt.logger)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = rt.logger.Sync() }, nil
}

// parseFilters turns field=value arguments into equality filters.
func parseFilters(args []string) ([]firestore.Filter, error) {
	filters := make([]firestore.Filter, 0, len(args))
	for _, a := range args {
		field, value, ok := strings.Cut(a, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf("filter %q: expected field=value", a)
		}
		filters = append(filters, firestore.Eq(field, value))
	}
	return filters, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
