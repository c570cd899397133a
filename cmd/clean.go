package cmd

import (
	"fmt"

	"github.com/askanna-io/askanna-cli/internal/output"
	"github.com/askanna-io/askanna-cli/internal/utils"
	"github.com/spf13/cobra"
)

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [DIR]",
		Short: "Remove leftover " + utils.TempDirName + " directories",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			if err := utils.CleanTemp(dir); err != nil {
				fail(fmt.Errorf("error cleaning up temporary files: %v", err))
			}
			output.PrintSuccess("Temporary files cleaned up")
		},
	}
}
