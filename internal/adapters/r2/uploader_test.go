package r2

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap/zaptest"

	"audioextractor/internal/config"
	"audioextractor/internal/core/domain"
)

type fakeS3 struct {
	lastInput *s3.PutObjectInput
	calls     int
	err       error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.calls++
	f.lastInput = in
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestUpload(t *testing.T) {
	fake := &fakeS3{}
	u := &Uploader{
		client:        fake,
		bucket:        "fretwise-audio",
		publicBaseURL: "https://pub-xxx.r2.dev",
		logger:        zaptest.NewLogger(t),
	}

	url, err := u.Upload(context.Background(), "downloads/abc.mp3", "audio/mpeg", []byte("data"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "https://pub-xxx.r2.dev/downloads/abc.mp3"; url != want {
		t.Errorf("url = %q, want %q", url, want)
	}
	if fake.calls != 1 {
		t.Errorf("expected 1 put, got %d", fake.calls)
	}
	if got := *fake.lastInput.Bucket; got != "fretwise-audio" {
		t.Errorf("bucket = %q", got)
	}
	if got := *fake.lastInput.Key; got != "downloads/abc.mp3" {
		t.Errorf("key = %q", got)
	}
	if got := *fake.lastInput.ContentType; got != "audio/mpeg" {
		t.Errorf("content type = %q", got)
	}
	body, _ := io.ReadAll(fake.lastInput.Body)
	if string(body) != "data" {
		t.Errorf("body = %q", body)
	}
}

func TestUploadBackendRejects(t *testing.T) {
	u := &Uploader{
		client:        &fakeS3{err: errors.New("AccessDenied")},
		bucket:        "b",
		publicBaseURL: "https://pub.r2.dev",
		logger:        zaptest.NewLogger(t),
	}

	_, err := u.Upload(context.Background(), "k", "audio/mpeg", []byte("x"))
	if err == nil {
		t.Fatal("expected error")
	}
	if domain.KindOf(err) != domain.KindUpload {
		t.Errorf("kind = %q, want upload", domain.KindOf(err))
	}
}

func TestNewIncompleteConfig(t *testing.T) {
	_, err := New(context.Background(), config.R2Config{Endpoint: "https://acc.r2.cloudflarestorage.com"}, zaptest.NewLogger(t))
	if err == nil {
		t.Fatal("expected error for incomplete config")
	}
	if domain.KindOf(err) != domain.KindConfig {
		t.Errorf("kind = %q, want config", domain.KindOf(err))
	}
}

func TestNewTrimsPublicBaseURL(t *testing.T) {
	u, err := New(context.Background(), config.R2Config{
		Endpoint:        "https://acc.r2.cloudflarestorage.com",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		Bucket:          "b",
		PublicBaseURL:   "https://pub.r2.dev/",
	}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.publicBaseURL != "https://pub.r2.dev" {
		t.Errorf("publicBaseURL = %q, want trailing slash trimmed", u.publicBaseURL)
	}
}
