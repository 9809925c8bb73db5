package ytdlp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"audioextractor/internal/core/domain"
)

// fakeRunner stands in for the yt-dlp binary. It can drop a file into the
// working directory the way the real tool's postprocessor does.
type fakeRunner struct {
	stdout    string
	stderr    string
	err       error
	writeFile string
	fileData  []byte

	calls    int
	lastDir  string
	lastArgs []string
}

func (f *fakeRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, error) {
	f.calls++
	f.lastDir = dir
	f.lastArgs = args
	if f.writeFile != "" {
		if err := os.WriteFile(filepath.Join(dir, f.writeFile), f.fileData, 0644); err != nil {
			return nil, nil, err
		}
	}
	return []byte(f.stdout), []byte(f.stderr), f.err
}

const infoLine = `{"id":"dQw4w9WgXcQ","title":"Never Gonna Give You Up","duration":212.1,"channel":"Rick Astley"}`

func TestExtractSuccess(t *testing.T) {
	runner := &fakeRunner{
		stdout:    "[download] some progress noise\n" + infoLine + "\n",
		writeFile: "dQw4w9WgXcQ.mp3",
		fileData:  []byte("mp3 bytes"),
	}
	e := New(WithCommandRunner(runner), WithLogger(zaptest.NewLogger(t)))

	result, err := e.Extract(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := domain.VideoMetadata{
		Title:    "Never Gonna Give You Up",
		Duration: 212,
		Channel:  "Rick Astley",
		VideoID:  "dQw4w9WgXcQ",
	}
	if result.Metadata != want {
		t.Errorf("metadata = %+v, want %+v", result.Metadata, want)
	}
	if string(result.FileBytes) != "mp3 bytes" {
		t.Errorf("file bytes = %q", result.FileBytes)
	}

	// The working directory must not outlive the call.
	if _, err := os.Stat(runner.lastDir); !os.IsNotExist(err) {
		t.Errorf("working directory %s still exists", runner.lastDir)
	}
}

func TestExtractToolFailure(t *testing.T) {
	runner := &fakeRunner{
		stderr: "WARNING: something\nERROR: Video unavailable. This video is private\n",
		err:    errors.New("exit status 1"),
	}
	e := New(WithCommandRunner(runner), WithLogger(zaptest.NewLogger(t)))

	_, err := e.Extract(context.Background(), "https://youtu.be/private")
	if err == nil {
		t.Fatal("expected error")
	}
	if domain.KindOf(err) != domain.KindExtraction {
		t.Errorf("kind = %q, want extraction", domain.KindOf(err))
	}
	if !strings.Contains(err.Error(), "Video unavailable") {
		t.Errorf("error should carry the tool message, got %q", err)
	}
}

func TestExtractFileMissingAfterSuccess(t *testing.T) {
	// Tool claims success but never writes the mp3.
	runner := &fakeRunner{stdout: infoLine + "\n"}
	e := New(WithCommandRunner(runner), WithLogger(zaptest.NewLogger(t)))

	_, err := e.Extract(context.Background(), "https://youtu.be/x")
	if err == nil {
		t.Fatal("expected error")
	}
	if domain.KindOf(err) != domain.KindExtraction {
		t.Errorf("kind = %q, want extraction", domain.KindOf(err))
	}
	if !strings.Contains(err.Error(), "missing after extraction") {
		t.Errorf("unexpected message: %q", err)
	}
}

func TestExtractNoVideoID(t *testing.T) {
	runner := &fakeRunner{stdout: `{"title":"no id here"}` + "\n"}
	e := New(WithCommandRunner(runner))

	_, err := e.Extract(context.Background(), "https://youtu.be/x")
	if err == nil || domain.KindOf(err) != domain.KindExtraction {
		t.Fatalf("expected extraction error, got %v", err)
	}
}

func TestBuildArgsOptionalExtras(t *testing.T) {
	cookieFile := filepath.Join(t.TempDir(), "cookies.txt")
	if err := os.WriteFile(cookieFile, []byte("# cookies"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		opts    []Option
		want    []string
		notWant []string
	}{
		{
			name:    "no extras configured",
			opts:    nil,
			want:    []string{"--no-playlist", "--audio-format"},
			notWant: []string{"--cookies", "--proxy", "--impersonate"},
		},
		{
			name: "cookie file exists",
			opts: []Option{WithCookieFile(cookieFile)},
			want: []string{"--cookies"},
		},
		{
			name:    "cookie file absent",
			opts:    []Option{WithCookieFile("/nonexistent/cookies.txt")},
			notWant: []string{"--cookies"},
		},
		{
			name: "proxy and impersonation",
			opts: []Option{WithProxy("http://proxy:8080"), WithImpersonation("chrome")},
			want: []string{"--proxy", "http://proxy:8080", "--impersonate", "chrome"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(tt.opts...)
			args := e.buildArgs("https://youtu.be/x")
			for _, w := range tt.want {
				if !slices.Contains(args, w) {
					t.Errorf("args missing %q: %v", w, args)
				}
			}
			for _, nw := range tt.notWant {
				if slices.Contains(args, nw) {
					t.Errorf("args should not contain %q: %v", nw, args)
				}
			}
			if args[len(args)-1] != "https://youtu.be/x" {
				t.Errorf("source URL must be the final argument: %v", args)
			}
		})
	}
}

func TestVersion(t *testing.T) {
	tests := []struct {
		name   string
		runner *fakeRunner
		want   string
	}{
		{"probe succeeds", &fakeRunner{stdout: "2025.08.11\n"}, "2025.08.11"},
		{"probe errors", &fakeRunner{err: errors.New("not found")}, "unknown"},
		{"empty output", &fakeRunner{stdout: "  \n"}, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(WithCommandRunner(tt.runner))
			if got := e.Version(context.Background()); got != tt.want {
				t.Errorf("Version() = %q, want %q", got, tt.want)
			}
		})
	}
}
