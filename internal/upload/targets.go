package upload

import "github.com/askanna-io/askanna-cli/internal/api"

// Target supplies the URLs and registration fields that distinguish one kind
// of upload from another. The chunking protocol is the same for all of them.
type Target interface {
	Kind() string
	RegisterURL() string
	RegisterFields() map[string]any
	ChunkRegisterURL(suuid string) string
	ChunkUploadURL(suuid, chunkID string) string
	FinishURL(suuid string) string
}

type PackageTarget struct {
	Routes       api.Routes
	ProjectSUUID string
	Description  string
}

func (t PackageTarget) Kind() string        { return "package" }
func (t PackageTarget) RegisterURL() string { return t.Routes.PackageRegister() }
func (t PackageTarget) RegisterFields() map[string]any {
	return map[string]any{"project_suuid": t.ProjectSUUID, "description": t.Description}
}
func (t PackageTarget) ChunkRegisterURL(suuid string) string {
	return t.Routes.PackageChunkRegister(suuid)
}
func (t PackageTarget) ChunkUploadURL(suuid, chunkID string) string {
	return t.Routes.PackageChunkUpload(suuid, chunkID)
}
func (t PackageTarget) FinishURL(suuid string) string { return t.Routes.PackageFinish(suuid) }

type ArtifactTarget struct {
	Routes   api.Routes
	RunSUUID string
}

func (t ArtifactTarget) Kind() string        { return "artifact" }
func (t ArtifactTarget) RegisterURL() string { return t.Routes.ArtifactRegister(t.RunSUUID) }
func (t ArtifactTarget) RegisterFields() map[string]any {
	return map[string]any{"run_suuid": t.RunSUUID}
}
func (t ArtifactTarget) ChunkRegisterURL(suuid string) string {
	return t.Routes.ArtifactChunkRegister(t.RunSUUID, suuid)
}
func (t ArtifactTarget) ChunkUploadURL(suuid, chunkID string) string {
	return t.Routes.ArtifactChunkUpload(t.RunSUUID, suuid, chunkID)
}
func (t ArtifactTarget) FinishURL(suuid string) string {
	return t.Routes.ArtifactFinish(t.RunSUUID, suuid)
}

type ResultTarget struct {
	Routes   api.Routes
	RunSUUID string
}

func (t ResultTarget) Kind() string        { return "result" }
func (t ResultTarget) RegisterURL() string { return t.Routes.ResultRegister(t.RunSUUID) }
func (t ResultTarget) RegisterFields() map[string]any {
	return map[string]any{"run_suuid": t.RunSUUID}
}
func (t ResultTarget) ChunkRegisterURL(suuid string) string {
	return t.Routes.ResultChunkRegister(t.RunSUUID, suuid)
}
func (t ResultTarget) ChunkUploadURL(suuid, chunkID string) string {
	return t.Routes.ResultChunkUpload(t.RunSUUID, suuid, chunkID)
}
func (t ResultTarget) FinishURL(suuid string) string {
	return t.Routes.ResultFinish(t.RunSUUID, suuid)
}
