package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	httpforms "github.com/steveAllen0112/http-aware-forms"
	"github.com/steveAllen0112/http-aware-forms/internal/ctxlog"
	"github.com/steveAllen0112/http-aware-forms/pkg/browser"
	"github.com/steveAllen0112/http-aware-forms/pkg/host"
	"github.com/steveAllen0112/http-aware-forms/pkg/markup"
	"github.com/steveAllen0112/http-aware-forms/pkg/model"
	pkgopenapi "github.com/steveAllen0112/http-aware-forms/pkg/openapi"
	"github.com/steveAllen0112/http-aware-forms/pkg/orchestrator"
	"github.com/steveAllen0112/http-aware-forms/pkg/prompt"
	"github.com/steveAllen0112/http-aware-forms/pkg/submit"
	"github.com/steveAllen0112/http-aware-forms/pkg/transport"
)

// errNotSubmitted marks attempts that ended without a response: invalid
// input, cancellation or a transport failure.
var errNotSubmitted = errors.New("form was not submitted")

type pairs []string

func (p *pairs) String() string { return strings.Join(*p, ",") }

func (p *pairs) Set(value string) error {
	if !strings.Contains(value, "=") {
		return fmt.Errorf("expected name=value, got %q", value)
	}
	*p = append(*p, value)
	return nil
}

type config struct {
	formPath    string
	formName    string
	example     string
	openapi     string
	operation   string
	specTimeout time.Duration
	base        string
	submitter   string
	logLevel    string
	sets        pairs
	files       pairs
	interactive bool
	dryRun      bool
	emitHTML    bool
	timeout     time.Duration
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr, nil); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (config, error) {
	var cfg config
	flags := flag.NewFlagSet("httpform", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&cfg.formPath, "form", "", "form description file (.json, .yaml, .hcl, .html)")
	flags.StringVar(&cfg.formName, "name", "", "form name inside the description file")
	flags.StringVar(&cfg.example, "example", "", "bundled example form to submit (pagination, conditional)")
	flags.StringVar(&cfg.openapi, "openapi", "", "OpenAPI document path or URL")
	flags.StringVar(&cfg.operation, "operation", "", "OpenAPI operation ID to submit")
	flags.DurationVar(&cfg.specTimeout, "openapi-timeout", 0, "timeout for fetching an OpenAPI URL on its own client (0 shares the submission client)")
	flags.StringVar(&cfg.base, "base", "", "document URL relative actions resolve against")
	flags.StringVar(&cfg.submitter, "submitter", "", "submit control name (defaults to the first)")
	flags.StringVar(&cfg.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	flags.Var(&cfg.sets, "set", "field value as name=value (repeatable)")
	flags.Var(&cfg.files, "file", "file control selection as name=path (repeatable)")
	flags.BoolVar(&cfg.interactive, "interactive", false, "prompt for every field before submitting")
	flags.BoolVar(&cfg.dryRun, "dry-run", false, "print the request instead of sending it")
	flags.BoolVar(&cfg.emitHTML, "html", false, "print the form as annotated HTML instead of submitting it")
	flags.DurationVar(&cfg.timeout, "timeout", 30*time.Second, "HTTP client timeout")
	if err := flags.Parse(args); err != nil {
		return config{}, err
	}

	sources := 0
	for _, set := range []bool{cfg.formPath != "", cfg.example != "", cfg.openapi != ""} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return config{}, errors.New("exactly one of -form, -example or -openapi is required")
	}
	if cfg.openapi != "" && cfg.operation == "" {
		return config{}, errors.New("-operation is required with -openapi")
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, driver prompt.Driver) error {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.logLevel)); err != nil {
		return fmt.Errorf("invalid -log-level %q: %w", cfg.logLevel, err)
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	ctx = ctxlog.WithLogger(ctx, logger)

	client := &http.Client{Timeout: cfg.timeout}
	sender := transport.New(transport.WithClient(client), transport.WithUserAgent("httpform"))

	req, options, err := buildRequest(ctx, cfg, client)
	if err != nil {
		return err
	}
	options = append(options,
		orchestrator.WithTransport(sender),
		orchestrator.WithBrowser(browser.New(browser.WithFetcher(sender))),
		orchestrator.WithControllerOptions(
			submit.OnInvalid(func(_ context.Context, violations []submit.Violation) {
				for _, v := range violations {
					fmt.Fprintf(stderr, "invalid: %s\n", v)
				}
			}),
			submit.OnError(func(ctx context.Context, event submit.ErrorEvent) {
				ctxlog.FromContext(ctx).Error("request failed", "method", event.Request.Method, "url", event.Request.URL, "error", event.Err)
			}),
		),
	)
	if cfg.interactive {
		if driver == nil {
			driver = prompt.NewSurveyDriver()
		}
		options = append(options, orchestrator.WithFiller(orchestrator.FillerFunc(func(ctx context.Context, form *host.Form) error {
			return prompt.Fill(ctx, driver, form)
		})))
	}
	orch := httpforms.NewOrchestrator(options...)

	if cfg.emitHTML {
		spec, err := orch.Describe(ctx, req)
		if err != nil {
			return err
		}
		return markup.Render(stdout, spec, markup.WithDocument(spec.Name))
	}

	if cfg.dryRun {
		built, err := orch.Build(ctx, req)
		if err != nil {
			return err
		}
		dump, err := transport.Dump(ctx, built)
		if err != nil {
			return err
		}
		_, err = stdout.Write(dump)
		return err
	}

	outcome, err := orch.Submit(ctx, req)
	if err != nil {
		return err
	}
	return report(stdout, outcome)
}

func buildRequest(ctx context.Context, cfg config, client *http.Client) (orchestrator.Request, []orchestrator.Option, error) {
	req := orchestrator.Request{DocumentURL: cfg.base, Submitter: cfg.submitter}
	var options []orchestrator.Option

	switch {
	case cfg.example != "":
		req.FormName = cfg.example
		options = append(options, orchestrator.WithFormsFS(httpforms.ExampleFormsFS()))
	case cfg.formPath != "":
		spec, err := httpforms.LoadForm(cfg.formPath, cfg.formName)
		if err != nil {
			return req, nil, err
		}
		req.Form = &spec
	default:
		source, err := pkgopenapi.SourceFor(cfg.openapi)
		if err != nil {
			return req, nil, err
		}
		req.Source = source
		req.OperationID = cfg.operation
		loaderOption := pkgopenapi.WithHTTPClient(client)
		if cfg.specTimeout > 0 {
			loaderOption = pkgopenapi.WithHTTPFallback(cfg.specTimeout)
		}
		options = append(options, orchestrator.WithLoader(httpforms.NewLoader(loaderOption)))
	}

	for _, pair := range cfg.sets {
		name, value, _ := strings.Cut(pair, "=")
		req.Values = append(req.Values, orchestrator.Value{Name: name, Value: value})
	}
	for _, pair := range cfg.files {
		name, path, _ := strings.Cut(pair, "=")
		file, err := prompt.ReadFile(path)
		if err != nil {
			return req, nil, fmt.Errorf("-file %s: %w", name, err)
		}
		if req.Files == nil {
			req.Files = make(map[string]model.File)
		}
		req.Files[name] = file
	}
	ctxlog.FromContext(ctx).Debug("request prepared", "values", len(req.Values), "files", len(req.Files))
	return req, options, nil
}

func report(out io.Writer, outcome submit.Outcome) error {
	switch outcome.State {
	case submit.StateInvalid, submit.StateCancelled:
		return fmt.Errorf("%w: %s", errNotSubmitted, outcome.State)
	case submit.StateNetworkError:
		return fmt.Errorf("%w: %v", errNotSubmitted, outcome.Err)
	}

	resp := outcome.Response
	fmt.Fprintf(out, "%s %s -> %d (%s)\n", outcome.Request.Method, outcome.Request.URL, resp.StatusCode, outcome.Elapsed.Round(time.Millisecond))
	if outcome.Navigation != nil && outcome.Navigation.NoContent {
		return nil
	}
	doc := browser.DocumentFrom(*resp)
	if doc.IsHTML() {
		fmt.Fprintln(out, doc.Text())
		return nil
	}
	_, err := out.Write(append(doc.Body, '\n'))
	return err
}
