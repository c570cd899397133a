package cmd

import (
	"context"
	"fmt"

	"github.com/askanna-io/askanna-cli/internal/output"
	"github.com/askanna-io/askanna-cli/internal/upload"
	"github.com/spf13/cobra"
)

func newResultCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "result",
		Short: "Upload or download run results",
	}
	cmd.AddCommand(newResultAddCmd())
	cmd.AddCommand(newResultGetCmd())
	return cmd
}

func newResultAddCmd() *cobra.Command {
	var run string

	cmd := &cobra.Command{
		Use:   "add [FILE] [--run SUUID]",
		Short: "Upload a file as the result of a run",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runID, err := runSUUID(run)
			if err != nil {
				fail(err)
			}
			client, routes, err := session()
			if err != nil {
				fail(err)
			}
			result, err := uploadFile(context.Background(), client, upload.ResultTarget{Routes: routes, RunSUUID: runID}, args[0])
			if err != nil {
				fail(err)
			}
			output.PrintSuccess(result.Message)
			output.PrintDetail(fmt.Sprintf("Result SUUID: %s", result.SUUID))
		},
	}

	cmd.Flags().StringVar(&run, "run", "", "Run SUUID (defaults to AA_RUN_SUUID)")
	return cmd
}

func newResultGetCmd() *cobra.Command {
	var run string
	var opts getOptions

	cmd := &cobra.Command{
		Use:   "get [--run SUUID] [--output PATH]",
		Short: "Download the result of a run",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			runID, err := runSUUID(run)
			if err != nil {
				fail(err)
			}
			client, routes, err := session()
			if err != nil {
				fail(err)
			}
			fallback := fmt.Sprintf("result_%s", runID)
			if _, err := downloadFile(context.Background(), client, routes.ResultDownload(runID), fallback, opts); err != nil {
				fail(err)
			}
		},
	}

	cmd.Flags().StringVar(&run, "run", "", "Run SUUID (defaults to AA_RUN_SUUID)")
	addGetFlags(cmd, &opts)
	return cmd
}
