// Package api knows the AskAnna REST layout: where to register, chunk, finish
// and download each kind of file.
package api

import (
	"fmt"
	"strings"
)

type Routes struct {
	Base string
}

func (r Routes) url(format string, args ...any) string {
	return strings.TrimRight(r.Base, "/") + "/" + fmt.Sprintf(format, args...)
}

func (r Routes) Me() string {
	return r.url("auth/user/")
}

func (r Routes) PackageRegister() string {
	return r.url("package/")
}

func (r Routes) PackageChunkRegister(pkg string) string {
	return r.url("package/%s/packagechunk/", pkg)
}

func (r Routes) PackageChunkUpload(pkg, chunk string) string {
	return r.url("package/%s/packagechunk/%s/chunk/", pkg, chunk)
}

func (r Routes) PackageFinish(pkg string) string {
	return r.url("package/%s/finish_upload/", pkg)
}

func (r Routes) PackageDownload(pkg string) string {
	return r.url("package/%s/download/", pkg)
}

func (r Routes) ArtifactRegister(run string) string {
	return r.url("runinfo/%s/artifact/", run)
}

func (r Routes) ArtifactChunkRegister(run, artifact string) string {
	return r.url("runinfo/%s/artifact/%s/artifactchunk/", run, artifact)
}

func (r Routes) ArtifactChunkUpload(run, artifact, chunk string) string {
	return r.url("runinfo/%s/artifact/%s/artifactchunk/%s/chunk/", run, artifact, chunk)
}

func (r Routes) ArtifactFinish(run, artifact string) string {
	return r.url("runinfo/%s/artifact/%s/finish_upload/", run, artifact)
}

func (r Routes) ArtifactDownload(run, artifact string) string {
	return r.url("run/%s/artifact/%s/download/", run, artifact)
}

func (r Routes) ResultRegister(run string) string {
	return r.url("runinfo/%s/result/", run)
}

func (r Routes) ResultChunkRegister(run, result string) string {
	return r.url("runinfo/%s/result/%s/resultchunk/", run, result)
}

func (r Routes) ResultChunkUpload(run, result, chunk string) string {
	return r.url("runinfo/%s/result/%s/resultchunk/%s/chunk/", run, result, chunk)
}

func (r Routes) ResultFinish(run, result string) string {
	return r.url("runinfo/%s/result/%s/finish_upload/", run, result)
}

func (r Routes) ResultDownload(run string) string {
	return r.url("run/%s/result/download/", run)
}
