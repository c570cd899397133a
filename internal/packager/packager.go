// Package packager zips a project directory for `askanna push`, honouring
// .gitignore and .askannaignore files at any depth.
package packager

import (
	"archive/zip"
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/askanna-io/askanna-cli/internal/utils"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/rs/zerolog/log"
)

var IgnoreFiles = []string{".gitignore", ".askannaignore"}

// always left out, whatever the ignore files say
var skipNames = map[string]bool{
	".git":            true,
	utils.TempDirName: true,
	utils.LogFile:     true,
}

type Summary struct {
	Path    string
	Files   int
	Skipped int
}

// Build writes a zip of root to a new temporary directory. The caller removes
// the archive through the returned cleanup function.
func Build(root string) (*Summary, func(), error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, nil, err
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("%s is not a directory", root)
	}
	tmp, err := os.MkdirTemp("", "askanna-push-")
	if err != nil {
		return nil, nil, fmt.Errorf("error creating temp directory: %v", err)
	}
	cleanup := func() { os.RemoveAll(tmp) }

	abs, _ := filepath.Abs(root)
	name := fmt.Sprintf("%s_%s.zip", filepath.Base(abs), time.Now().Format("20060102-150405"))
	dest := filepath.Join(tmp, name)
	summary, err := Zip(root, dest)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return summary, cleanup, nil
}

// Zip archives root into dest.
func Zip(root, dest string) (*Summary, error) {
	out, err := os.Create(dest)
	if err != nil {
		return nil, fmt.Errorf("error creating archive: %v", err)
	}
	defer out.Close()
	destAbs, _ := filepath.Abs(dest)

	zw := zip.NewWriter(out)
	summary := &Summary{Path: dest}
	var patterns []gitignore.Pattern

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		var parts []string
		if rel != "." {
			parts = strings.Split(filepath.ToSlash(rel), "/")
		}

		if len(parts) > 0 {
			ignored := skipNames[d.Name()] || gitignore.NewMatcher(patterns).Match(parts, d.IsDir())
			if ignored {
				summary.Skipped++
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}
		if d.IsDir() {
			found, err := readPatterns(path, parts)
			if err != nil {
				return err
			}
			patterns = append(patterns, found...)
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if abs, _ := filepath.Abs(path); abs == destAbs {
			return nil
		}
		if err := addFile(zw, path, strings.Join(parts, "/"), d); err != nil {
			return err
		}
		summary.Files++
		return nil
	})
	if err != nil {
		zw.Close()
		return nil, fmt.Errorf("error packaging %s: %v", root, err)
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	log.Debug().Str("op", "packager/packager").Int("files", summary.Files).Int("skipped", summary.Skipped).Msgf("Packaged %s", root)
	return summary, nil
}

func addFile(zw *zip.Writer, path, name string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = name
	header.Method = zip.Deflate
	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}

// readPatterns parses the ignore files of one directory; domain is the
// directory's path relative to the project root.
func readPatterns(dir string, domain []string) ([]gitignore.Pattern, error) {
	var patterns []gitignore.Pattern
	for _, name := range IgnoreFiles {
		f, err := os.Open(filepath.Join(dir, name))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimRight(scanner.Text(), "\r")
			if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
				continue
			}
			patterns = append(patterns, gitignore.ParsePattern(line, domain))
		}
		f.Close()
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}
	return patterns, nil
}
