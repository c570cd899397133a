package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/askanna-io/askanna-cli/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.ErrorIs(t, cfg.Validate(), ErrNotLoggedIn)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	cfg := Default()
	cfg.Auth.Token = "abc123"
	cfg.AskAnna.Remote = "https://api.example.com/v1"
	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "abc123", loaded.Auth.Token)
	assert.Equal(t, "https://api.example.com/v1/", loaded.Remote())
	assert.Equal(t, utils.DefaultUIURL, loaded.AskAnna.UI)
	assert.NoError(t, loaded.Validate())

	loaded.Logout()
	assert.ErrorIs(t, loaded.Validate(), ErrNotLoggedIn)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("auth: [unclosed"), 0600))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("AA_TOKEN", "from-env")
	t.Setenv("AA_REMOTE", "https://env.example.com/v1/")
	cfg := Default()
	cfg.Auth.Token = "from-file"
	cfg.ApplyEnv()
	assert.Equal(t, "from-env", cfg.Auth.Token)
	assert.Equal(t, "https://env.example.com/v1/", cfg.AskAnna.Remote)
}

func TestParsePushTarget(t *testing.T) {
	tests := []struct {
		target    string
		workspace string
		project   string
		wantErr   bool
	}{
		{"https://beta.askanna.eu/1234-abcd/project/5678-efgh", "1234-abcd", "5678-efgh", false},
		{"https://beta.askanna.eu/1234-abcd/project/5678-efgh/", "1234-abcd", "5678-efgh", false},
		{"https://beta.askanna.eu/project/5678-efgh", "", "5678-efgh", false},
		{"https://beta.askanna.eu/1234-abcd/jobs", "", "", true},
		{"not a url", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			ws, proj, err := ParsePushTarget(tt.target)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPushTarget)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.workspace, ws)
			assert.Equal(t, tt.project, proj)
		})
	}
}

func TestLoadProjectWalksUp(t *testing.T) {
	root := t.TempDir()
	content := "push-target: https://beta.askanna.eu/ws-1/project/proj-1\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ProjectFileName), []byte(content), 0644))
	nested := filepath.Join(root, "src", "models")
	require.NoError(t, os.MkdirAll(nested, 0755))

	p, err := LoadProject(nested)
	require.NoError(t, err)
	assert.Equal(t, "proj-1", p.ProjectSUUID)
	assert.Equal(t, "ws-1", p.Workspace)
	assert.Equal(t, root, p.Dir)
}

func TestLoadProjectEnvOverride(t *testing.T) {
	root := t.TempDir()
	content := "push-target: https://beta.askanna.eu/ws-1/project/proj-1\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ProjectFileName), []byte(content), 0644))
	t.Setenv("AA_PROJECT_SUUID", "proj-env")

	p, err := LoadProject(root)
	require.NoError(t, err)
	assert.Equal(t, "proj-env", p.ProjectSUUID)
}
