package main

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/go-cmp/cmp"
)

func parse(t *testing.T, args ...string) *CLI {
	t.Helper()

	cli := &CLI{}
	parser, err := kong.New(cli, kong.Name("fetchio"))
	if err != nil {
		t.Fatalf("kong: %v", err)
	}
	if _, err := parser.Parse(args); err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}

	return cli
}

// echo replies with the method, content type and body it received.
func echo() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("X-Seen-Agent", r.Header.Get("User-Agent"))
		io.WriteString(w, r.Method+"|"+r.Header.Get("Content-Type")+"|"+r.Header.Get("X-Token")+"|"+string(b))
	}))
}

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestParse_Defaults(t *testing.T) {
	cli := parse(t, "http://x")

	if cli.Timeout != 30*time.Second || cli.Burst != 1 || cli.UserAgent != "fetchio/1.0" || cli.Redirect != "follow" {
		t.Errorf("unexpected defaults: %+v", cli)
	}
}

func TestParse_RepeatableFlags(t *testing.T) {
	cli := parse(t, "-H", "Accept: a, b", "-H", "X-Token: t", "-F", "a=1", "-F", "b=2,3", "http://x")

	if diff := cmp.Diff([]string{"Accept: a, b", "X-Token: t"}, cli.Header); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a=1", "b=2,3"}, cli.Form); diff != "" {
		t.Errorf("form mismatch (-want +got):\n%s", diff)
	}
}

func TestRun(t *testing.T) {
	srv := echo()
	defer srv.Close()

	testCases := []struct {
		name string
		args []string
		exp  string
	}{
		{name: "get", args: []string{srv.URL}, exp: "GET|||"},
		{name: "post text", args: []string{"-d", "hello", srv.URL}, exp: "POST|text/plain;charset=UTF-8||hello"},
		{name: "post json", args: []string{"--json", "-d", `{"a":1}`, srv.URL}, exp: `POST|application/json||{"a":1}`},
		{name: "header", args: []string{"-X", "delete", "-H", "X-Token: abc", srv.URL}, exp: "DELETE||abc|"},
		{name: "patch with explicit type", args: []string{"-X", "PATCH", "-H", "Content-Type: text/csv", "-d", "a,b", srv.URL}, exp: "PATCH|text/csv||a,b"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := parse(t, tc.args...).Run(t.Context(), &out, discard(), false); err != nil {
				t.Fatalf("run: %v", err)
			}

			if out.String() != tc.exp {
				t.Errorf("exp %q, got %q", tc.exp, out.String())
			}
		})
	}
}

func TestRun_Form(t *testing.T) {
	var got map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
			return
		}
		got = r.MultipartForm.Value
	}))
	defer srv.Close()

	if err := parse(t, "-F", "a=1", "-F", "b=2", srv.URL).Run(t.Context(), io.Discard, discard(), false); err != nil {
		t.Fatalf("run: %v", err)
	}

	if diff := cmp.Diff(map[string][]string{"a": {"1"}, "b": {"2"}}, got); diff != "" {
		t.Errorf("form mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_Include(t *testing.T) {
	srv := echo()
	defer srv.Close()

	var out bytes.Buffer
	if err := parse(t, "-i", "--user-agent", "cli-test", srv.URL).Run(t.Context(), &out, discard(), false); err != nil {
		t.Fatalf("run: %v", err)
	}

	got := out.String()
	for _, want := range []string{"HTTP 200 OK\n", "content-type: text/plain; charset=utf-8\n", "x-seen-agent: cli-test\n", "\n\nGET|||"} {
		if !strings.Contains(got, want) {
			t.Errorf("exp output to contain %q, got:\n%s", want, got)
		}
	}
}

func TestRun_BinaryWithheldOnTerminal(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(png)
	}))
	defer srv.Close()

	var out bytes.Buffer
	if err := parse(t, srv.URL).Run(t.Context(), &out, discard(), true); err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("exp nothing written to the terminal, got %d bytes", out.Len())
	}

	out.Reset()
	if err := parse(t, srv.URL).Run(t.Context(), &out, discard(), false); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !bytes.Equal(out.Bytes(), png) {
		t.Errorf("exp raw body when piped, got %q", out.Bytes())
	}
}

func TestRun_Errors(t *testing.T) {
	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	t.Run("unreachable", func(t *testing.T) {
		err := parse(t, closedURL).Run(t.Context(), io.Discard, discard(), false)
		if !errors.Is(err, ErrErrorResponse) {
			t.Fatalf("exp ErrErrorResponse, got: %v", err)
		}
	})

	t.Run("body on get", func(t *testing.T) {
		err := parse(t, "-X", "GET", "-d", "x", closedURL).Run(t.Context(), io.Discard, discard(), false)
		if err == nil || errors.Is(err, ErrErrorResponse) {
			t.Fatalf("exp misuse error, got: %v", err)
		}
	})

	t.Run("bad header", func(t *testing.T) {
		err := parse(t, "-H", "no-colon", closedURL).Run(t.Context(), io.Discard, discard(), false)
		if err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("bad json", func(t *testing.T) {
		err := parse(t, "--json", "-d", "{", closedURL).Run(t.Context(), io.Discard, discard(), false)
		if err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("data and form", func(t *testing.T) {
		err := parse(t, "-d", "x", "-F", "a=1", closedURL).Run(t.Context(), io.Discard, discard(), false)
		if err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestRun_Config(t *testing.T) {
	srv := echo()
	defer srv.Close()

	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	if err := os.WriteFile(good, []byte(`{"defaultHeaders":{"X-Token":"from-config"}}`), 0o600); err != nil {
		t.Fatal(err)
	}
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"throttle":{"rps":0,"burst":0}}`), 0o600); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := parse(t, "--config", good, srv.URL).Run(t.Context(), &out, discard(), false); err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.String() != "GET||from-config|" {
		t.Errorf("exp configured header, got %q", out.String())
	}

	if err := parse(t, "--config", bad, srv.URL).Run(t.Context(), io.Discard, discard(), false); err == nil {
		t.Fatal("expected config validation error")
	}
}

func TestIsText(t *testing.T) {
	testCases := map[string]bool{
		"text/html; charset=utf-8": true,
		"application/json":         true,
		"image/png":                false,
		"application/octet-stream": false,
		"":                         false,
	}

	for ct, exp := range testCases {
		if got := isText(ct); got != exp {
			t.Errorf("isText(%q): exp %v, got %v", ct, exp, got)
		}
	}
}
