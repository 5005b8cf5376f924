package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAPIError struct {
	code    string
	message string
}

func (e *mockAPIError) Error() string { return fmt.Sprintf("%s: %s", e.code, e.message) }

func (e *mockAPIError) ErrorCode() string { return e.code }

func (e *mockAPIError) ErrorMessage() string { return e.message }

func (e *mockAPIError) ErrorFault() smithy.ErrorFault { return smithy.FaultUnknown }

type fakeObjects struct {
	objects   map[string][]byte
	getErr    error
	headErr   error
	lastInput *s3.GetObjectInput
}

func (f *fakeObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.lastInput = in
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeObjects) HeadBucket(context.Context, *s3.HeadBucketInput, ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	return &s3.HeadBucketOutput{}, nil
}

func TestS3_Get(t *testing.T) {
	t.Parallel()

	api := &fakeObjects{objects: map[string][]byte{"docs/a/b.pdf": []byte("%PDF")}}
	s := NewWithClient(api, "")

	body, err := s.Get(context.Background(), "docs", "a/b.pdf")
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), data)
	assert.Equal(t, "docs", aws.ToString(api.lastInput.Bucket))
	assert.Equal(t, "a/b.pdf", aws.ToString(api.lastInput.Key))

	_, err = s.Get(context.Background(), "docs", "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestS3_Get_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "no such bucket", err: &mockAPIError{code: "NoSuchBucket"}, want: ErrNotFound},
		{name: "access denied", err: &mockAPIError{code: "AccessDenied"}, want: ErrAccessDenied},
		{name: "forbidden", err: &mockAPIError{code: "Forbidden"}, want: ErrAccessDenied},
		{name: "unknown code", err: &mockAPIError{code: "SlowDown"}, want: ErrReadFailed},
		{name: "plain error", err: errors.New("connection reset"), want: ErrReadFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := NewWithClient(&fakeObjects{getErr: tt.err}, "")
			_, err := s.Get(context.Background(), "b", "k")
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestS3_Healthcheck(t *testing.T) {
	t.Parallel()

	require.NoError(t, NewWithClient(&fakeObjects{headErr: errors.New("down")}, "").Healthcheck(context.Background()))
	require.NoError(t, NewWithClient(&fakeObjects{}, "attachments").Healthcheck(context.Background()))

	err := NewWithClient(&fakeObjects{headErr: &mockAPIError{code: "NotFound"}}, "attachments").Healthcheck(context.Background())
	require.ErrorIs(t, err, ErrUnhealthy)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestParseURL(t *testing.T) {
	t.Parallel()

	bucket, key, err := ParseURL("s3://invoices/2026/04/inv-17.pdf")
	require.NoError(t, err)
	assert.Equal(t, "invoices", bucket)
	assert.Equal(t, "2026/04/inv-17.pdf", key)

	for _, raw := range []string{
		"https://invoices/inv.pdf",
		"s3://invoices",
		"s3://invoices/",
		"s3:///key",
		"s3://bad host/%zz",
	} {
		_, _, err := ParseURL(raw)
		assert.ErrorIs(t, err, ErrInvalidURL, raw)
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	s, err := New(context.Background(), Config{
		Region:    "eu-west-1",
		AccessKey: "AKIA",
		SecretKey: "secret",
		Endpoint:  "http://localhost:9000",
		PathStyle: true,
	})
	require.NoError(t, err)
	require.NotNil(t, s)

	_, err = New(context.Background(), Config{Region: "eu-west-1", AccessKey: "AKIA"})
	require.ErrorIs(t, err, ErrInvalidConfig)
}
