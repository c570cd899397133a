package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/askanna-io/askanna-cli/internal/api"
	"github.com/askanna-io/askanna-cli/internal/download"
	"github.com/askanna-io/askanna-cli/internal/output"
	"github.com/askanna-io/askanna-cli/internal/scheduler"
	"github.com/askanna-io/askanna-cli/internal/utils"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newBatchCmd() *cobra.Command {
	var workers int
	var force bool

	cmd := &cobra.Command{
		Use:   "batch [YAML_FILE] [--workers N]",
		Short: "Download many packages, artifacts and results from a YAML file",
		Long: `Run several downloads in parallel. Each download is its own session.

The file is a list of entries:
  - type: package
    link: 1234-abcd-5678-efgh
    op: code.zip
  - type: artifact
    run: 9876-wxyz-5432-mnop
    link: 1111-2222-3333-4444
  - type: result
    run: 9876-wxyz-5432-mnop
  - link: https://example.com/data.csv`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			data, err := os.ReadFile(args[0])
			if err != nil {
				fail(fmt.Errorf("error reading batch file: %v", err))
			}
			var entries []utils.BatchEntry
			if err := yaml.Unmarshal(data, &entries); err != nil {
				fail(fmt.Errorf("error parsing batch file: %v", err))
			}
			client, routes, err := session()
			if err != nil {
				fail(err)
			}
			jobs, skipped := buildJobsFromBatch(entries, routes, force)
			for _, reason := range skipped {
				output.PrintWarning(reason)
			}
			if len(jobs) == 0 {
				fail(fmt.Errorf("no valid entries in %s", args[0]))
			}
			output.PrintHeader(fmt.Sprintf("Downloading %d files with %d workers", len(jobs), workers))
			failed := scheduler.Run(context.Background(), jobs, workers, scheduler.DownloadTransfer(client, download.DefaultOptions()))
			if failed > 0 {
				fail(fmt.Errorf("%d of %d downloads failed", failed, len(jobs)))
			}
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 4, "Number of downloads to run in parallel")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing output files")
	return cmd
}

// buildJobsFromBatch resolves entries into download jobs and returns a
// warning for each entry it had to skip.
func buildJobsFromBatch(entries []utils.BatchEntry, routes api.Routes, force bool) ([]utils.TransferJob, []string) {
	var jobs []utils.TransferJob
	var skipped []string
	used := make(map[string]bool)
	for i, entry := range entries {
		jobType := strings.ToLower(strings.TrimSpace(entry.Type))
		job := utils.TransferJob{
			ID:         fmt.Sprint(i + 1),
			JobType:    jobType,
			OutputPath: entry.OutputPath,
			Overwrite:  force,
		}
		var fallback, nameFrom string
		switch jobType {
		case "package":
			if entry.URL == "" {
				skipped = append(skipped, fmt.Sprintf("Entry %d: package needs a link, skipping", i+1))
				continue
			}
			job.URL = routes.PackageDownload(entry.URL)
			fallback = fmt.Sprintf("package_%s.zip", entry.URL)
		case "artifact":
			if entry.URL == "" || entry.Run == "" {
				skipped = append(skipped, fmt.Sprintf("Entry %d: artifact needs a run and a link, skipping", i+1))
				continue
			}
			job.URL = routes.ArtifactDownload(entry.Run, entry.URL)
			fallback = fmt.Sprintf("artifact_%s.zip", entry.URL)
		case "result":
			if entry.Run == "" {
				skipped = append(skipped, fmt.Sprintf("Entry %d: result needs a run, skipping", i+1))
				continue
			}
			job.URL = routes.ResultDownload(entry.Run)
			fallback = fmt.Sprintf("result_%s", entry.Run)
		case "", "url":
			if entry.URL == "" {
				skipped = append(skipped, fmt.Sprintf("Entry %d: empty link, skipping", i+1))
				continue
			}
			job.JobType = "url"
			job.URL = entry.URL
			nameFrom = entry.URL
			fallback = fmt.Sprintf("download_%d", i+1)
		default:
			skipped = append(skipped, fmt.Sprintf("Entry %d: unknown type %q, skipping", i+1, entry.Type))
			continue
		}
		if job.OutputPath == "" {
			job.OutputPath = outputPath("", nameFrom, fallback, force)
			for used[job.OutputPath] {
				job.OutputPath = nextName(job.OutputPath)
			}
		}
		used[job.OutputPath] = true
		jobs = append(jobs, job)
	}
	return jobs, skipped
}

// nextName turns name.ext into name-(1).ext and name-(1).ext into name-(2).ext,
// skipping names that already exist on disk.
func nextName(name string) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	index := 1
	if open := strings.LastIndex(base, "-("); open >= 0 && strings.HasSuffix(base, ")") {
		if n, err := strconv.Atoi(base[open+2 : len(base)-1]); err == nil {
			base, index = base[:open], n+1
		}
	}
	for {
		candidate := fmt.Sprintf("%s-(%d)%s", base, index, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
		index++
	}
}
