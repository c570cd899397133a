package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newPackageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "package",
		Short: "Work with project packages",
	}
	cmd.AddCommand(newPackageGetCmd())
	return cmd
}

func newPackageGetCmd() *cobra.Command {
	var opts getOptions

	cmd := &cobra.Command{
		Use:   "get [PACKAGE_SUUID] [--output PATH] [--mirror s3://BUCKET/PREFIX]",
		Short: "Download a package",
		Long: `Download a package in ranged chunks.

Examples:
  askanna package get 1234-abcd-5678-efgh
  askanna package get 1234-abcd-5678-efgh -o code.zip --mirror s3://backups/packages`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			client, routes, err := session()
			if err != nil {
				fail(err)
			}
			fallback := fmt.Sprintf("package_%s.zip", args[0])
			if _, err := downloadFile(context.Background(), client, routes.PackageDownload(args[0]), fallback, opts); err != nil {
				fail(err)
			}
		},
	}

	addGetFlags(cmd, &opts)
	return cmd
}

func addGetFlags(cmd *cobra.Command, opts *getOptions) {
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file path (inferred from the download when empty)")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Overwrite an existing output file")
	cmd.Flags().StringVar(&opts.mirrorURL, "mirror", "", "Also copy the download to s3://BUCKET/PREFIX")
	cmd.Flags().StringVar(&opts.awsProfile, "aws-profile", "", "AWS profile used for --mirror")
}
