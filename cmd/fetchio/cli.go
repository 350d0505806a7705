package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/adamwoolhether/fetchio"
	"github.com/adamwoolhether/fetchio/client"
	"github.com/adamwoolhether/fetchio/fetch"
	"github.com/adamwoolhether/fetchio/host"
)

// ErrErrorResponse is returned when the fetch produced a network-error response.
var ErrErrorResponse = errors.New("network error response")

// CLI holds the command line flags.
type CLI struct {
	Method    string        `short:"X" env:"FETCHIO_METHOD" help:"HTTP method. Defaults to POST when a body is given, GET otherwise."`
	Header    []string      `short:"H" sep:"none" help:"Request header as 'Name: value'. Repeatable."`
	Data      string        `short:"d" help:"Request body."`
	JSON      bool          `name:"json" help:"Parse --data as JSON and send it as a JSON value."`
	Form      []string      `short:"F" sep:"none" help:"Multipart form field as 'name=value'. Repeatable."`
	Include   bool          `short:"i" help:"Print the status line and headers before the body."`
	Redirect  string        `enum:"follow,manual,error" default:"follow" help:"Redirect mode (follow, manual, error)."`
	Timeout   time.Duration `default:"30s" env:"FETCHIO_TIMEOUT" help:"Overall request timeout."`
	RPS       int           `name:"rps" env:"FETCHIO_RPS" help:"Requests per second limit. Zero disables throttling."`
	Burst     int           `default:"1" env:"FETCHIO_BURST" help:"Throttle burst size."`
	UserAgent string        `default:"fetchio/1.0" env:"FETCHIO_USER_AGENT" help:"User-Agent sent when no header sets one."`
	Config    string        `type:"existingfile" env:"FETCHIO_CONFIG" help:"JSON client config file."`
	Verbose   bool          `short:"v" help:"Enable debug logging."`

	URL string `arg:"" help:"URL to fetch."`
}

// Run performs the fetch and writes the result to out. Binary bodies are
// withheld when out is a terminal.
func (cli *CLI) Run(ctx context.Context, out io.Writer, logger *slog.Logger, terminal bool) error {
	c, err := cli.client(logger)
	if err != nil {
		return err
	}

	init, err := cli.requestInit(ctx)
	if err != nil {
		return err
	}

	resp, err := c.Fetch(ctx, cli.URL, init)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	if resp.Type() == fetch.TypeError {
		return fmt.Errorf("%s: %w", cli.URL, ErrErrorResponse)
	}

	if cli.Include {
		fmt.Fprintf(out, "HTTP %d %s\n", resp.Status(), resp.StatusText())
		for _, e := range resp.Headers().Entries() {
			fmt.Fprintf(out, "%s: %s\n", e.Name, e.Value)
		}
		fmt.Fprintln(out)
	}

	blob, err := resp.Blob(ctx)
	if err != nil {
		return fmt.Errorf("reading body: %w", err)
	}

	if terminal && blob.Size() > 0 && !isText(blob.Type()) {
		logger.Warn("binary body not printed to terminal", "type", blob.Type(), "bytes", blob.Size())
		return nil
	}

	if _, err := out.Write(blob.Bytes()); err != nil {
		return fmt.Errorf("writing body: %w", err)
	}

	return nil
}

func (cli *CLI) client(logger *slog.Logger) (*client.Client, error) {
	hostOpts := []host.Option{
		host.WithLogger(logger),
		host.WithTimeout(cli.Timeout),
	}

	clientOpts := []client.Option{
		client.WithLogger(logger),
		client.WithUserAgent(cli.UserAgent),
	}
	if cli.Config != "" {
		cfg, err := loadConfig(cli.Config)
		if err != nil {
			return nil, err
		}
		clientOpts = append(clientOpts, client.WithConfig(cfg))
	}
	if cli.RPS > 0 {
		clientOpts = append(clientOpts, client.WithThrottle(cli.RPS, cli.Burst))
	}

	return fetchio.NewHTTPClient(hostOpts, clientOpts...)
}

func (cli *CLI) requestInit(signal fetch.Signal) (*fetch.RequestInit, error) {
	headers := fetch.NewHeaders()
	for _, h := range cli.Header {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("header %q: want 'Name: value'", h)
		}
		headers.Append(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	body, err := cli.body()
	if err != nil {
		return nil, err
	}

	method := cli.Method
	if method == "" {
		method = http.MethodGet
		if !body.IsZero() {
			method = http.MethodPost
		}
	}

	return &fetch.RequestInit{
		Method:   strings.ToUpper(method),
		Headers:  headers,
		Body:     body,
		Redirect: cli.Redirect,
		Signal:   signal,
	}, nil
}

func (cli *CLI) body() (fetch.Body, error) {
	switch {
	case len(cli.Form) > 0 && cli.Data != "":
		return fetch.Body{}, errors.New("--data and --form are mutually exclusive")
	case len(cli.Form) > 0:
		form := fetch.NewFormData()
		for _, f := range cli.Form {
			name, value, ok := strings.Cut(f, "=")
			if !ok || name == "" {
				return fetch.Body{}, fmt.Errorf("form field %q: want 'name=value'", f)
			}
			form.Append(name, value)
		}
		return fetch.FormBody(form), nil
	case cli.JSON:
		var v any
		if err := json.Unmarshal([]byte(cli.Data), &v); err != nil {
			return fetch.Body{}, fmt.Errorf("parsing --data as json: %w", err)
		}
		return fetch.JSONBody(v), nil
	case cli.Data != "":
		return fetch.TextBody(cli.Data), nil
	default:
		return fetch.Body{}, nil
	}
}

func loadConfig(path string) (client.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return client.Config{}, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	cfg, err := client.LoadConfig(f)
	if err != nil {
		return client.Config{}, fmt.Errorf("loading config %s: %w", path, err)
	}

	return cfg, nil
}

func newLogger(w io.Writer, verbose, terminal bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}

	if terminal {
		return slog.New(slog.NewTextHandler(w, opts))
	}

	return slog.New(slog.NewJSONHandler(w, opts))
}

// isText reports whether a media type is safe to print: text/plain or
// anything mimetype knows to descend from it.
func isText(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	if strings.HasPrefix(mediaType, "text/") {
		return true
	}

	for m := mimetype.Lookup(mediaType); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}

	return false
}
