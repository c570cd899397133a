package packager

import (
	"strings"

	"github.com/go-git/go-git/v5"
)

// DefaultDescription is the subject line of the HEAD commit of the git
// repository containing dir, or "" outside a repository.
func DefaultDescription(dir string) string {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return ""
	}
	ref, err := repo.Head()
	if err != nil {
		return ""
	}
	commit, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return ""
	}
	subject, _, _ := strings.Cut(strings.TrimSpace(commit.Message), "\n")
	return subject
}
