package main

import (
	"fmt"
	"os"
	"path/filepath"

	gerrors "github.com/go-faster/errors"
	"github.com/spf13/cobra"
	"github.com/tgienger/firmdesk/internal/csvimport"
	"github.com/tgienger/firmdesk/internal/importer"
	"github.com/tgienger/firmdesk/internal/ui"
)

var (
	dryRun bool
	review bool

	importCmd = &cobra.Command{
		Use:   "import <entity> <file>",
		Short: "Validate a CSV file and create one record per row.",
		Long: `Reads a CSV upload for clients, tasks, assignees or todos. Every row is validated first;
if any row has an error nothing is written and the errors are listed by row and column.`,
		Args: cobra.ExactArgs(2),
		RunE: runImport,
	}

	reviewCmd = &cobra.Command{
		Use:   "review <entity> <file>",
		Short: "Open a CSV upload in the interactive review screen.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			review = true
			return runImport(cmd, args)
		},
	}
)

func init() {
	importCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate only; do not write anything.")
	importCmd.Flags().BoolVar(&review, "review", false, "Open the interactive review screen before submitting.")
}

func runImport(cmd *cobra.Command, args []string) error {
	entity, err := csvimport.ParseEntity(args[0])
	if err != nil {
		return err
	}
	data, err := os.ReadFile(args[1])
	if err != nil {
		return gerrors.Wrap(err, "read upload")
	}

	store, err := sess.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	im := importer.New(store, sess.log, sess.cfg.Import.Concurrency)
	plan, err := im.Plan(entity, filepath.Base(args[1]), string(data))
	if err != nil {
		return err
	}

	if review {
		return runReview(cmd, im, plan)
	}

	out := cmd.OutOrStdout()
	if !plan.Valid() {
		printPlanErrors(out, plan)
		return importer.ErrValidationFailed
	}
	if dryRun {
		fmt.Fprintf(out, "%s: %d row(s) valid, nothing written\n", plan.Source, len(plan.Rows))
		return nil
	}

	report, err := im.Execute(cmd.Context(), plan)
	if report != nil {
		printReport(out, report)
	}
	return err
}

func runReview(cmd *cobra.Command, im *importer.Importer, plan *importer.Plan) error {
	app, err := ui.Run(cmd.Context(), plan, im)
	if err != nil {
		return gerrors.Wrap(err, "review")
	}
	res, ok := app.Result()
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "review closed, nothing submitted")
		return nil
	}
	if res.Report != nil {
		printReport(cmd.OutOrStdout(), res.Report)
	}
	return res.Err
}
