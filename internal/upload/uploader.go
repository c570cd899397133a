// Package upload sends a local file to AskAnna in fixed-size chunks using the
// resumable protocol: register the file, register and send each chunk in
// order, then finish. Any failed step ends the upload; nothing is retried.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/askanna-io/askanna-cli/internal/chunks"
	"github.com/askanna-io/askanna-cli/internal/utils"
	"github.com/rs/zerolog/log"
)

const DefaultChunkSize int64 = 1024 * 1024

type Options struct {
	ChunkSize int64
	Progress  func(done, total int64)
}

type Uploader struct {
	client utils.HTTPDoer
	target Target
	opts   Options
}

type Result struct {
	SUUID   string
	Kind    string
	Message string
	Chunks  int
	Bytes   int64
}

func New(client utils.HTTPDoer, target Target, opts Options) *Uploader {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	return &Uploader{client: client, target: target, opts: opts}
}

// Upload sends localPath. On a finish failure the returned Result still
// carries the failure message next to the error.
func (u *Uploader) Upload(ctx context.Context, localPath string) (*Result, error) {
	kind := u.target.Kind()
	info, err := os.Stat(localPath)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotAFile, localPath)
	}
	file, err := os.Open(localPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	filename := filepath.Base(localPath)
	size := info.Size()
	suuid, err := u.register(ctx, filename, size)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("op", "upload/uploader").Str("suuid", suuid).Msgf("Registered %s %s (%d bytes)", kind, filename, size)

	total := chunks.Count(size, u.opts.ChunkSize)
	meta := newResumable(filename, size, u.opts.ChunkSize, total, suuid)
	buffer := make([]byte, u.opts.ChunkSize)
	var sent int64
	for i := range total {
		n, err := io.ReadFull(file, buffer)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			return nil, &StepError{Kind: kind, Step: StepChunk, Chunk: i, Err: err}
		}
		data := buffer[:n]
		chunkID, err := u.registerChunk(ctx, suuid, i, n, i == total-1)
		if err != nil {
			return nil, err
		}
		if err := u.sendChunk(ctx, suuid, chunkID, meta, i, data); err != nil {
			return nil, err
		}
		sent += int64(n)
		if u.opts.Progress != nil {
			u.opts.Progress(sent, size)
		}
	}

	result := &Result{SUUID: suuid, Kind: kind, Chunks: total, Bytes: sent}
	if err := u.finish(ctx, suuid, meta); err != nil {
		result.Message = fmt.Sprintf("Something went wrong while finishing the upload of %s %s", kind, filename)
		return result, err
	}
	result.Message = fmt.Sprintf("Upload of %s %s is complete", kind, filename)
	log.Info().Str("op", "upload/uploader").Str("suuid", suuid).Int("chunks", total).Msg(result.Message)
	return result, nil
}

func (u *Uploader) register(ctx context.Context, filename string, size int64) (string, error) {
	payload := map[string]any{"filename": filename, "size": size}
	for k, v := range u.target.RegisterFields() {
		payload[k] = v
	}
	status, body, err := u.postJSON(ctx, u.target.RegisterURL(), payload)
	if err != nil {
		return "", &StepError{Kind: u.target.Kind(), Step: StepRegister, Err: err}
	}
	if status != http.StatusCreated {
		return "", &StepError{Kind: u.target.Kind(), Step: StepRegister, StatusCode: status}
	}
	suuid := identifier(body, "suuid")
	if suuid == "" {
		return "", &StepError{Kind: u.target.Kind(), Step: StepRegister, StatusCode: status, Err: errors.New("response has no suuid")}
	}
	return suuid, nil
}

func (u *Uploader) registerChunk(ctx context.Context, suuid string, index, size int, isLast bool) (string, error) {
	payload := map[string]any{
		"filename": index + 1,
		"size":     size,
		"file_no":  index + 1,
		"is_last":  isLast,
	}
	status, body, err := u.postJSON(ctx, u.target.ChunkRegisterURL(suuid), payload)
	if err != nil {
		return "", &StepError{Kind: u.target.Kind(), Step: StepRegisterChunk, Chunk: index, Err: err}
	}
	if status != http.StatusCreated {
		return "", &StepError{Kind: u.target.Kind(), Step: StepRegisterChunk, Chunk: index, StatusCode: status}
	}
	chunkID := identifier(body, "uuid", "suuid")
	if chunkID == "" {
		return "", &StepError{Kind: u.target.Kind(), Step: StepRegisterChunk, Chunk: index, StatusCode: status, Err: errors.New("response has no chunk identifier")}
	}
	return chunkID, nil
}

func (u *Uploader) sendChunk(ctx context.Context, suuid, chunkID string, meta resumable, index int, data []byte) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for k, v := range meta.chunkFields(index+1, len(data)) {
		if err := writer.WriteField(k, v); err != nil {
			return &StepError{Kind: u.target.Kind(), Step: StepChunk, Chunk: index, Err: err}
		}
	}
	part, err := writer.CreateFormFile("file", meta.Filename)
	if err != nil {
		return &StepError{Kind: u.target.Kind(), Step: StepChunk, Chunk: index, Err: err}
	}
	if _, err := part.Write(data); err != nil {
		return &StepError{Kind: u.target.Kind(), Step: StepChunk, Chunk: index, Err: err}
	}
	if err := writer.Close(); err != nil {
		return &StepError{Kind: u.target.Kind(), Step: StepChunk, Chunk: index, Err: err}
	}

	status, _, err := u.post(ctx, u.target.ChunkUploadURL(suuid, chunkID), writer.FormDataContentType(), &body)
	if err != nil {
		return &StepError{Kind: u.target.Kind(), Step: StepChunk, Chunk: index, Err: err}
	}
	if status != http.StatusOK {
		return &StepError{Kind: u.target.Kind(), Step: StepChunk, Chunk: index, StatusCode: status}
	}
	return nil
}

func (u *Uploader) finish(ctx context.Context, suuid string, meta resumable) error {
	form := url.Values{}
	for k, v := range meta.fields() {
		form.Set(k, v)
	}
	status, _, err := u.post(ctx, u.target.FinishURL(suuid), "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return &StepError{Kind: u.target.Kind(), Step: StepFinish, Err: err}
	}
	if status != http.StatusOK {
		return &StepError{Kind: u.target.Kind(), Step: StepFinish, StatusCode: status}
	}
	return nil
}

func (u *Uploader) postJSON(ctx context.Context, target string, payload any) (int, []byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}
	return u.post(ctx, target, "application/json", bytes.NewReader(data))
}

func (u *Uploader) post(ctx context.Context, target, contentType string, body io.Reader) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, body)
	if err != nil {
		return 0, nil, fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	resp, err := u.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("error reading response body: %v", err)
	}
	return resp.StatusCode, respBody, nil
}

// identifier returns the first non-empty string among keys in a JSON object.
func identifier(body []byte, keys ...string) string {
	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err != nil {
		return ""
	}
	for _, k := range keys {
		if v, ok := obj[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
