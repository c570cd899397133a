package mirror

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	bucket, key string
	body        []byte
	err         error
}

func (f *fakePutter) Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.bucket = aws.ToString(input.Bucket)
	f.key = aws.ToString(input.Key)
	f.body, _ = io.ReadAll(input.Body)
	return &manager.UploadOutput{}, nil
}

func TestParseS3URL(t *testing.T) {
	loc, err := ParseS3URL("s3://my-bucket/runs/2024/")
	require.NoError(t, err)
	assert.Equal(t, Location{Bucket: "my-bucket", Prefix: "runs/2024"}, loc)
	assert.Equal(t, "runs/2024/model.pkl", loc.Key("model.pkl"))
	assert.Equal(t, "s3://my-bucket/runs/2024", loc.String())

	loc, err = ParseS3URL("s3://only-bucket")
	require.NoError(t, err)
	assert.Equal(t, "model.pkl", loc.Key("model.pkl"))

	for _, bad := range []string{"https://bucket/key", "s3://", "s3:///key"} {
		_, err := ParseS3URL(bad)
		assert.ErrorIs(t, err, ErrInvalidS3URL, bad)
	}
}

func TestPut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"ok":true}`), 0644))

	fake := &fakePutter{}
	m := &Mirror{location: Location{Bucket: "b", Prefix: "p"}, uploader: fake}
	url, err := m.Put(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "s3://b/p/result.json", url)
	assert.Equal(t, "b", fake.bucket)
	assert.Equal(t, "p/result.json", fake.key)
	assert.Equal(t, []byte(`{"ok":true}`), fake.body)

	fake.err = errors.New("denied")
	_, err = m.Put(context.Background(), path)
	assert.ErrorContains(t, err, "denied")
}
