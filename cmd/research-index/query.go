// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-index/internal/api"
	"github.com/pdiddy/research-index/internal/export"
	"github.com/pdiddy/research-index/internal/repository"
	"github.com/pdiddy/research-index/pkg/types"
)

// errCSLOutputsOnly is returned when --format csl is used on a view that
// carries no outputs.
var errCSLOutputsOnly = errors.New("csl format is only available for views with outputs")

// queryFunc runs one operation and returns the view to print plus, for
// views that carry outputs, the outputs for CSL rendering.
type queryFunc func(ctx context.Context, q repository.Querier, cmd *cobra.Command, args []string) (any, []types.OutputView, error)

// queryCommand wraps fn with store setup and formatted output.
func queryCommand(use, short string, args cobra.PositionalArgs, fn queryFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, argv []string) error {
			format, err := export.ParseFormat(mustString(cmd, "format"))
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			logger, _, store, err := setup(ctx, cmd, os.Stderr)
			if err != nil {
				return err
			}
			defer store.Close(context.Background())

			view, outputs, err := fn(ctx, repository.New(store, logger), cmd, argv)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), format, view, outputs)
		},
	}
}

func render(w io.Writer, format export.Format, view any, outputs []types.OutputView) error {
	if format != export.FormatCSL {
		return export.Write(w, format, view)
	}
	if outputs == nil {
		return errCSLOutputsOnly
	}
	return export.WriteCSL(w, outputs)
}

// --- authors ---

var authorsCmd = &cobra.Command{
	Use:   "authors",
	Short: "List and inspect authors",
}

var authorsListCmd = queryCommand("list", "List authors ordered by last name", cobra.NoArgs,
	func(ctx context.Context, q repository.Querier, cmd *cobra.Command, _ []string) (any, []types.OutputView, error) {
		ws, _ := cmd.Flags().GetStringSlice("workstream")
		list, err := q.ListAuthors(ctx, mustInt(cmd, "skip"), mustInt(cmd, "limit"), ws)
		return list, nil, err
	})

var authorsGetCmd = queryCommand("get <uuid>", "Show an author with collaborators and outputs", cobra.ExactArgs(1),
	func(ctx context.Context, q repository.Querier, cmd *cobra.Command, args []string) (any, []types.OutputView, error) {
		view, err := q.GetAuthor(ctx, args[0], mustString(cmd, "result-type"), mustInt(cmd, "skip"), mustInt(cmd, "limit"))
		return view, view.Outputs.Results, err
	})

// --- outputs ---

var outputsCmd = &cobra.Command{
	Use:   "outputs",
	Short: "List and inspect research outputs",
}

var outputsListCmd = queryCommand("list", "List outputs of one result type, newest first", cobra.NoArgs,
	func(ctx context.Context, q repository.Querier, cmd *cobra.Command, _ []string) (any, []types.OutputView, error) {
		list, err := q.ListOutputs(ctx, mustInt(cmd, "skip"), mustInt(cmd, "limit"), mustString(cmd, "result-type"), mustString(cmd, "country"))
		return list, list.Results, err
	})

var outputsGetCmd = queryCommand("get <uuid>", "Show an output with its ranked authors", cobra.ExactArgs(1),
	func(ctx context.Context, q repository.Querier, _ *cobra.Command, args []string) (any, []types.OutputView, error) {
		out, err := q.GetOutput(ctx, args[0])
		return out, []types.OutputView{out}, err
	})

// --- countries ---

var countriesCmd = &cobra.Command{
	Use:   "countries",
	Short: "List and inspect countries",
}

var countriesListCmd = queryCommand("list", "List countries referred to by outputs", cobra.NoArgs,
	func(ctx context.Context, q repository.Querier, cmd *cobra.Command, _ []string) (any, []types.OutputView, error) {
		list, err := q.ListCountries(ctx, mustInt(cmd, "skip"), mustInt(cmd, "limit"))
		return list, nil, err
	})

var countriesGetCmd = queryCommand("get <code>", "Show a country with the outputs that refer to it", cobra.ExactArgs(1),
	func(ctx context.Context, q repository.Querier, cmd *cobra.Command, args []string) (any, []types.OutputView, error) {
		view, err := q.GetCountry(ctx, args[0], mustInt(cmd, "skip"), mustInt(cmd, "limit"), mustString(cmd, "result-type"))
		return view, view.Results, err
	})

// --- workstreams ---

var workstreamsCmd = &cobra.Command{
	Use:   "workstreams",
	Short: "List and inspect workstreams",
}

var workstreamsListCmd = queryCommand("list", "List workstreams that have members", cobra.NoArgs,
	func(ctx context.Context, q repository.Querier, cmd *cobra.Command, _ []string) (any, []types.OutputView, error) {
		list, err := q.ListWorkstreams(ctx, mustInt(cmd, "skip"), mustInt(cmd, "limit"))
		return list, nil, err
	})

var workstreamsGetCmd = queryCommand("get <id>", "Show a workstream with its members", cobra.ExactArgs(1),
	func(ctx context.Context, q repository.Querier, cmd *cobra.Command, args []string) (any, []types.OutputView, error) {
		view, err := q.GetWorkstream(ctx, args[0], mustInt(cmd, "skip"), mustInt(cmd, "limit"))
		return view, nil, err
	})

// --- shared helpers ---

func mustInt(cmd *cobra.Command, name string) int {
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		panic(fmt.Sprintf("flag %s: %v", name, err))
	}
	return v
}

func mustString(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(fmt.Sprintf("flag %s: %v", name, err))
	}
	return v
}

func addPageFlags(cmd *cobra.Command) {
	cmd.Flags().Int("skip", 0, "number of results to skip")
	cmd.Flags().Int("limit", 20, "maximum number of results (at most 1000)")
}

func addResultTypeFlag(cmd *cobra.Command) {
	cmd.Flags().String("result-type", string(api.DefaultResultType), "publication, dataset, software or other")
}

func init() {
	// Shared format flag on each parent, inherited by list and get.
	for _, parent := range []*cobra.Command{authorsCmd, outputsCmd, countriesCmd, workstreamsCmd} {
		parent.PersistentFlags().String("format", "json", "output format: json, yaml or csl (outputs only)")
	}

	for _, c := range []*cobra.Command{authorsListCmd, authorsGetCmd, outputsListCmd, countriesListCmd, countriesGetCmd, workstreamsListCmd, workstreamsGetCmd} {
		addPageFlags(c)
	}
	addResultTypeFlag(authorsGetCmd)
	addResultTypeFlag(outputsListCmd)
	addResultTypeFlag(countriesGetCmd)

	authorsListCmd.Flags().StringSlice("workstream", nil, "only members of these workstream ids (repeatable or comma separated)")
	outputsListCmd.Flags().String("country", "", "only outputs referring to this three-letter country code")

	authorsCmd.AddCommand(authorsListCmd, authorsGetCmd)
	outputsCmd.AddCommand(outputsListCmd, outputsGetCmd)
	countriesCmd.AddCommand(countriesListCmd, countriesGetCmd)
	workstreamsCmd.AddCommand(workstreamsListCmd, workstreamsGetCmd)

	rootCmd.AddCommand(authorsCmd, outputsCmd, countriesCmd, workstreamsCmd)
}
