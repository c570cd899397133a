package cmd

import (
	"context"
	"errors"
	"fmt"
	u "net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/askanna-io/askanna-cli/internal/download"
	"github.com/askanna-io/askanna-cli/internal/mirror"
	"github.com/askanna-io/askanna-cli/internal/output"
	"github.com/askanna-io/askanna-cli/internal/upload"
	"github.com/askanna-io/askanna-cli/internal/utils"
	"github.com/rs/zerolog/log"
)

type getOptions struct {
	output     string
	force      bool
	mirrorURL  string
	awsProfile string
}

func uploadFile(ctx context.Context, client utils.HTTPDoer, target upload.Target, localPath string) (*upload.Result, error) {
	progress := output.NewProgressLine(fmt.Sprintf("Uploading %s", filepath.Base(localPath)))
	result, err := upload.New(client, target, upload.Options{Progress: progress.Update}).Upload(ctx, localPath)
	progress.Done()
	if err != nil {
		var stepErr *upload.StepError
		if errors.As(err, &stepErr) && stepErr.Step == upload.StepFinish && result != nil {
			return result, fmt.Errorf("%s: %w", result.Message, err)
		}
		return nil, err
	}
	return result, nil
}

// outputPath picks where a download lands. An explicit path is used as is;
// otherwise the name comes from the final URL, made unique unless forced.
func outputPath(explicit, finalURL, fallback string, force bool) string {
	if explicit != "" {
		return explicit
	}
	name := fallback
	if parsed, err := u.Parse(finalURL); err == nil {
		if base := path.Base(parsed.Path); base != "." && base != "/" && base != "download" {
			name = base
		}
	}
	if _, err := os.Stat(name); err == nil && !force {
		return utils.RenewOutputPath(name)
	}
	return name
}

func downloadFile(ctx context.Context, client utils.HTTPDoer, sourceURL, fallbackName string, opts getOptions) (string, error) {
	var location mirror.Location
	if opts.mirrorURL != "" {
		loc, err := mirror.ParseS3URL(opts.mirrorURL)
		if err != nil {
			return "", err
		}
		location = loc
	}

	dlOpts := download.DefaultOptions()
	dlOpts.Overwrite = opts.force
	dest := opts.output
	var preflight *download.PreflightResult
	if dest == "" {
		var err error
		preflight, err = download.New(client, dlOpts).Preflight(ctx, sourceURL)
		if err != nil {
			return "", err
		}
		dest = outputPath("", preflight.FinalURL, fallbackName, opts.force)
	}

	progress := output.NewProgressLine(fmt.Sprintf("Downloading %s", filepath.Base(dest)))
	dlOpts.Progress = progress.Update
	downloader := download.New(client, dlOpts)
	var result *download.Result
	var err error
	if preflight != nil {
		result, err = downloader.DownloadPreflighted(ctx, preflight, dest)
	} else {
		result, err = downloader.Download(ctx, sourceURL, dest)
	}
	progress.Done()
	if err != nil {
		return "", err
	}
	log.Debug().Str("op", "cmd/transfer").Int("chunks", result.Chunks).Int("failures", result.Failures).Msgf("Downloaded %s", dest)
	output.PrintSuccess(fmt.Sprintf("Downloaded %s (%s)", dest, output.FormatBytes(uint64(result.Bytes))))

	if opts.mirrorURL != "" {
		m, err := mirror.New(ctx, location, opts.awsProfile)
		if err != nil {
			return dest, err
		}
		object, err := m.Put(ctx, dest)
		if err != nil {
			return dest, err
		}
		output.PrintDetail(fmt.Sprintf("Mirrored to %s", object))
	}
	return dest, nil
}
