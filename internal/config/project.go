package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrNoProject         = errors.New("no askanna.yml found in this directory or its parents")
	ErrInvalidPushTarget = errors.New("push-target is not a valid AskAnna project URL")
)

type Project struct {
	PushTarget string `yaml:"push-target"`

	Dir          string `yaml:"-"`
	Workspace    string `yaml:"-"`
	ProjectSUUID string `yaml:"-"`
}

// LoadProject looks for askanna.yml in startDir and then in each parent.
// AA_PROJECT_SUUID, when set, wins over the push target.
func LoadProject(startDir string) (*Project, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}
	for {
		path := filepath.Join(dir, ProjectFileName)
		data, err := os.ReadFile(path)
		if err == nil {
			return parseProject(dir, data)
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			if v := os.Getenv("AA_PROJECT_SUUID"); v != "" {
				return &Project{Dir: startDir, ProjectSUUID: v}, nil
			}
			return nil, ErrNoProject
		}
		dir = parent
	}
}

func parseProject(dir string, data []byte) (*Project, error) {
	p := &Project{Dir: dir}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ProjectFileName, err)
	}
	if p.PushTarget != "" {
		workspace, project, err := ParsePushTarget(p.PushTarget)
		if err != nil {
			return nil, err
		}
		p.Workspace = workspace
		p.ProjectSUUID = project
	}
	if v := os.Getenv("AA_PROJECT_SUUID"); v != "" {
		p.ProjectSUUID = v
	}
	return p, nil
}

// ParsePushTarget splits https://<ui>/<workspace>/project/<project> into its
// workspace and project identifiers.
func ParsePushTarget(target string) (workspace, project string, err error) {
	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidPushTarget, target)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+1 < len(parts); i++ {
		if parts[i] == "project" && parts[i+1] != "" {
			if i > 0 {
				workspace = parts[i-1]
			}
			return workspace, parts[i+1], nil
		}
	}
	return "", "", fmt.Errorf("%w: %s", ErrInvalidPushTarget, target)
}
