package cmd

import (
	"context"
	"fmt"

	"github.com/askanna-io/askanna-cli/internal/output"
	"github.com/askanna-io/askanna-cli/internal/upload"
	"github.com/spf13/cobra"
)

func newArtifactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "artifact",
		Short: "Upload or download run artifacts",
	}
	cmd.AddCommand(newArtifactAddCmd())
	cmd.AddCommand(newArtifactGetCmd())
	return cmd
}

func newArtifactAddCmd() *cobra.Command {
	var run string

	cmd := &cobra.Command{
		Use:   "add [FILE] [--run SUUID]",
		Short: "Upload a file as the artifact of a run",
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
			result, err := uploadFile(context.Background(), client, upload.ArtifactTarget{Routes: routes, RunSUUID: runID}, args[0])
			if err != nil {
				fail(err)
			}
			output.PrintSuccess(result.Message)
			output.PrintDetail(fmt.Sprintf("Artifact SUUID: %s", result.SUUID))
		},
	}

	cmd.Flags().StringVar(&run, "run", "", "Run SUUID (defaults to AA_RUN_SUUID)")
	return cmd
}

func newArtifactGetCmd() *cobra.Command {
	var run string
	var opts getOptions

	cmd := &cobra.Command{
		Use:   "get [ARTIFACT_SUUID] [--run SUUID] [--output PATH]",
		Short: "Download the artifact of a run",
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
			fallback := fmt.Sprintf("artifact_%s.zip", args[0])
			if _, err := downloadFile(context.Background(), client, routes.ArtifactDownload(runID, args[0]), fallback, opts); err != nil {
				fail(err)
			}
		},
	}

	cmd.Flags().StringVar(&run, "run", "", "Run SUUID (defaults to AA_RUN_SUUID)")
	addGetFlags(cmd, &opts)
	return cmd
}
