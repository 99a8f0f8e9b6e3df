package lib

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"sort"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type s3Stub struct {
	body string
	err  error
	key  string
}

func (s *s3Stub) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.key = aws.ToString(in.Key)
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(s.body))}, nil
}

func TestS3DownloadObject(t *testing.T) {
	stub := &s3Stub{body: `{"type":"service_account"}`}
	var buf bytes.Buffer
	require.NoError(t, S3DownloadObject(context.Background(), stub, "secrets", "admin-sdk-credentials.json", &buf))
	assert.Equal(t, "admin-sdk-credentials.json", stub.key)
	assert.Equal(t, `{"type":"service_account"}`, buf.String())

	stub.err = errors.New("access denied")
	assert.ErrorContains(t, S3DownloadObject(context.Background(), stub, "secrets", "x", &buf), "access denied")
}

type secretsStub struct {
	value string
}

func (s *secretsStub) GetSecretValue(_ context.Context, _ *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(s.value)}, nil
}

func TestLoadSecretsIntoEnv(t *testing.T) {
	t.Setenv("TW_TEST_PRESET", "keep")
	os.Unsetenv("TW_TEST_NEW")
	t.Cleanup(func() { os.Unsetenv("TW_TEST_NEW") })

	stub := &secretsStub{value: `{"TW_TEST_PRESET":"override","TW_TEST_NEW":"fresh"}`}
	exported, err := LoadSecretsIntoEnv(context.Background(), stub, "techwave/api")
	require.NoError(t, err)
	sort.Strings(exported)
	assert.Equal(t, []string{"TW_TEST_NEW"}, exported)
	assert.Equal(t, "keep", os.Getenv("TW_TEST_PRESET"))
	assert.Equal(t, "fresh", os.Getenv("TW_TEST_NEW"))

	stub.value = "not json"
	_, err = LoadSecretsIntoEnv(context.Background(), stub, "techwave/api")
	assert.Error(t, err)
}
