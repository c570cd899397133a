package upload

import (
	"mime"
	"path/filepath"
	"strconv"
)

// resumable carries the resumable.js form fields sent with every chunk and
// with the finish call.
type resumable struct {
	ChunkSize    int64
	TotalSize    int64
	Type         string
	Identifier   string
	Filename     string
	RelativePath string
	TotalChunks  int
}

func newResumable(filename string, totalSize, chunkSize int64, totalChunks int, identifier string) resumable {
	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return resumable{
		ChunkSize:    chunkSize,
		TotalSize:    totalSize,
		Type:         contentType,
		Identifier:   identifier,
		Filename:     filename,
		RelativePath: filename,
		TotalChunks:  totalChunks,
	}
}

func (r resumable) fields() map[string]string {
	return map[string]string{
		"resumableChunkSize":    strconv.FormatInt(r.ChunkSize, 10),
		"resumableTotalSize":    strconv.FormatInt(r.TotalSize, 10),
		"resumableType":         r.Type,
		"resumableIdentifier":   r.Identifier,
		"resumableFilename":     r.Filename,
		"resumableRelativePath": r.RelativePath,
		"resumableTotalChunks":  strconv.Itoa(r.TotalChunks),
	}
}

// chunkFields adds the per-chunk fields; number is one-based.
func (r resumable) chunkFields(number int, size int) map[string]string {
	f := r.fields()
	f["resumableChunkNumber"] = strconv.Itoa(number)
	f["resumableCurrentChunkSize"] = strconv.Itoa(size)
	return f
}
