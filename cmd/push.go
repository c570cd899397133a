package cmd

import (
	"context"
	"fmt"

	"github.com/askanna-io/askanna-cli/internal/config"
	"github.com/askanna-io/askanna-cli/internal/output"
	"github.com/askanna-io/askanna-cli/internal/packager"
	"github.com/askanna-io/askanna-cli/internal/upload"
	"github.com/spf13/cobra"
)

func newPushCmd() *cobra.Command {
	var projectSUUID string
	var description string

	cmd := &cobra.Command{
		Use:   "push [DIR] [--project SUUID] [--description TEXT]",
		Short: "Package a project directory and upload it to AskAnna",
		Long: `Zip a project directory and upload it as a new package.

Files matched by .gitignore and .askannaignore are left out. The project comes
from --project, AA_PROJECT_SUUID or the push-target in askanna.yml.

Examples:
  askanna push
  askanna push ./my-project --description "new model"`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			client, routes, err := session()
			if err != nil {
				fail(err)
			}
			if projectSUUID == "" {
				project, err := config.LoadProject(dir)
				if err != nil {
					fail(err)
				}
				if project.ProjectSUUID == "" {
					fail(fmt.Errorf("%s has no push-target, use --project", config.ProjectFileName))
				}
				projectSUUID = project.ProjectSUUID
			}
			if description == "" {
				description = packager.DefaultDescription(dir)
			}

			output.PrintInfo(fmt.Sprintf("Pushing %s to project %s", dir, projectSUUID))
			summary, cleanup, err := packager.Build(dir)
			if err != nil {
				fail(err)
			}
			defer cleanup()
			output.PrintDetail(fmt.Sprintf("Packaged %d files (%d skipped)", summary.Files, summary.Skipped))

			target := upload.PackageTarget{Routes: routes, ProjectSUUID: projectSUUID, Description: description}
			result, err := uploadFile(context.Background(), client, target, summary.Path)
			if err != nil {
				cleanup()
				fail(err)
			}
			output.PrintSuccess(result.Message)
			output.PrintDetail(fmt.Sprintf("Package SUUID: %s", result.SUUID))
		},
	}

	cmd.Flags().StringVar(&projectSUUID, "project", "", "Project SUUID to push to")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Package description (defaults to the last commit message)")
	return cmd
}
