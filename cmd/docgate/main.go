package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docgate/internal/config"
	"git.home.luguber.info/inful/docgate/internal/logging"
	"git.home.luguber.info/inful/docgate/internal/preprocess"
	"git.home.luguber.info/inful/docgate/internal/processor"
	"git.home.luguber.info/inful/docgate/internal/validator"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Process struct{} `cmd:"" default:"1" help:"Run as a preprocessor: read [context, book] JSON from stdin, write the transformed book to stdout"`

	Supports struct {
		Renderer string `arg:"" help:"Renderer name to test"`
	} `cmd:"" help:"Check whether a renderer is supported by this preprocessor"`

	Check struct {
		File   string `arg:"" type:"existingfile" help:"Markdown file to transform"`
		Output string `short:"o" help:"Write the transformed text to a file instead of stdout"`
	} `cmd:"" help:"Transform a single Markdown file directly"`

	Lint struct {
		File string `arg:"" type:"existingfile" help:"Markdown file to inspect"`
	} `cmd:"" help:"Report conditional sections and body links missing from their opener list (no network access)"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("docgate"),
		kong.Description("A preprocessor that validates sections that could change in the future."))

	// stdout carries the book; all diagnostics go to stderr.
	logger := logging.New(os.Stderr, CLI.Verbose)
	slog.SetDefault(logger)

	var err error
	switch ctx.Command() {
	case "process":
		err = runProcess(CLI.Config)
	case "supports <renderer>":
		if !preprocess.SupportsRenderer(CLI.Supports.Renderer) {
			os.Exit(1)
		}
		return
	case "check <file>":
		err = runCheck(CLI.Config, CLI.Check.File, CLI.Check.Output)
	case "lint <file>":
		err = runLint(CLI.Lint.File)
	}
	if err != nil {
		slog.Error("docgate failed", "error", err)
		os.Exit(1)
	}
}

func runProcess(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	pctx, book, err := preprocess.ParseInput(os.Stdin)
	if err != nil {
		return err
	}
	preprocess.CheckVersion(slog.Default(), pctx.MdbookVersion)
	cfg.ApplyTable(pctx.PreprocessorTable("docgate"))

	proc := newProcessor(cfg)
	err = book.ForEachChapter(func(ch *preprocess.Chapter) error {
		out, err := proc.ProcessChapter(context.Background(), ch.Content)
		if err != nil {
			return fmt.Errorf("chapter %q: %w", ch.Name, err)
		}
		ch.Content = out
		return nil
	})
	if err != nil {
		return err
	}

	return preprocess.WriteBook(os.Stdout, book)
}

func runCheck(configPath, file, output string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}

	proc := newProcessor(cfg)
	out, err := proc.ProcessChapter(context.Background(), string(raw))
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}

	if output != "" {
		return os.WriteFile(output, []byte(out), 0o644)
	}
	_, err = os.Stdout.WriteString(out)
	return err
}

func newProcessor(cfg *config.Config) *processor.Processor {
	v := validator.NewLiveValidator(cfg.GithubAPI, cfg.GithubToken, &http.Client{Timeout: cfg.Timeout})
	return processor.New(v, cfg.ProcessorOptions())
}
