package probe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/ragstack/pkg/config"
)

type fakeBucketLister struct {
	err   error
	calls int
}

func (f *fakeBucketLister) ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &s3.ListBucketsOutput{}, nil
}

func TestMinioProbe_Fake(t *testing.T) {
	fake := &fakeBucketLister{}
	p := &MinioProbe{client: fake, endpoint: "http://minio:9000"}

	assert.Equal(t, "minio", p.Name())
	assert.NoError(t, p.Check(context.Background()))
	assert.Equal(t, 1, fake.calls)

	fake.err = errors.New("AccessDenied")
	err := p.Check(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http://minio:9000")
	assert.Contains(t, err.Error(), "AccessDenied")
}

const listBucketsXML = `<?xml version="1.0" encoding="UTF-8"?>
<ListAllMyBucketsResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
  <Owner><ID>minio</ID><DisplayName>minio</DisplayName></Owner>
  <Buckets><Bucket><Name>documents</Name><CreationDate>2024-01-01T00:00:00.000Z</CreationDate></Bucket></Buckets>
</ListAllMyBucketsResult>`

func TestMinioProbe_S3Endpoint(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(listBucketsXML))
	}))
	defer srv.Close()

	cfg := config.MinioSettings{
		Host:     strings.TrimPrefix(srv.URL, "http://"),
		Username: "minioadmin",
		Password: "minioadmin",
	}

	p, err := NewMinioProbe(context.Background(), cfg, "us-east-1")
	require.NoError(t, err)
	defer p.Close()

	require.NoError(t, p.Check(context.Background()))
	assert.Contains(t, gotAuth, "Credential=minioadmin/")
}
