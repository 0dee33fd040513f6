package cardsplit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Afrawles/cardsplit/internal/cards"
	"github.com/Afrawles/cardsplit/internal/config"
	"github.com/Afrawles/cardsplit/internal/expand"
	"github.com/Afrawles/cardsplit/internal/export"
	"github.com/Afrawles/cardsplit/internal/table"
	"github.com/google/uuid"
)

// Hooks let a caller follow a run. Begin receives -1 when the amount of work
// is unknown. Any hook may be nil.
type Hooks struct {
	Begin func(stage string, total int)
	Step  func()
	End   func(stage string)
}

type Application struct {
	Config   *config.Config
	Logger   *slog.Logger
	Expander *expand.Expander
	Exporter export.Exporter
	Hooks    Hooks
}

// Result describes a finished run.
type Result struct {
	RunID  string       `json:"run_id"`
	Input  string       `json:"input"`
	Output string       `json:"output"`
	Column string       `json:"column"`
	Stats  expand.Stats `json:"stats"`
}

func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	missing, err := cards.ParseMissingPolicy(cfg.Missing)
	if err != nil {
		return nil, err
	}
	empty, err := expand.ParseEmptyPolicy(cfg.Empty)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Application{
		Config:   cfg,
		Logger:   logger,
		Expander: expand.NewExpander(cfg.TargetColumn, missing, empty),
		Exporter: export.For(cfg.OutputPath(), cfg.Output.Sheet),
	}, nil
}

// Run loads the input table, expands the target column and writes the result.
// Nothing is written when loading or expanding fails.
func (app *Application) Run(ctx context.Context) (*Result, error) {
	res := &Result{
		RunID:  uuid.NewString(),
		Input:  app.Config.Input.Path,
		Output: app.Config.OutputPath(),
		Column: app.Config.TargetColumn,
	}
	logger := app.Logger.With("run_id", res.RunID)

	logger.Info("loading table",
		"input", res.Input,
		"encoding", app.Config.Input.Encoding,
		"column", res.Column,
	)

	app.begin("Loading", -1)
	src, err := table.Load(res.Input, table.Options{
		Encoding: app.Config.Input.Encoding,
		Sheet:    app.Config.Input.Sheet,
	})
	app.end("Loading")
	if err != nil {
		logger.Error("failed to load table", "error", err)
		return nil, err
	}
	if _, err := src.Require(res.Column); err != nil {
		err = &table.LoadError{Path: res.Input, Err: err}
		logger.Error("failed to load table", "error", err)
		return nil, err
	}

	logger.Info("table loaded", "rows", len(src.Rows), "columns", len(src.Columns))

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run cancelled: %w", err)
	}

	app.begin("Expanding", len(src.Rows))
	app.Expander.Progress = app.Hooks.Step
	expanded, stats, err := app.Expander.Expand(src)
	app.end("Expanding")
	if err != nil {
		logger.Error("failed to expand table", "error", err)
		return nil, fmt.Errorf("failed to expand table: %w", err)
	}
	res.Stats = stats

	if stats.DroppedRows > 0 {
		logger.Warn("rows without card names were dropped", "dropped", stats.DroppedRows)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run cancelled: %w", err)
	}

	app.begin("Writing", -1)
	err = app.Exporter.Export(expanded, res.Output)
	app.end("Writing")
	if err != nil {
		logger.Error("failed to write table", "error", err)
		return nil, err
	}

	if summary := app.Config.Output.Summary; summary != "" {
		if err := export.ExportSummary(res, summary); err != nil {
			logger.Error("failed to write summary", "error", err)
			return nil, err
		}
		logger.Info("summary exported", "file", summary)
	}

	logger.Info("expansion complete",
		"output", res.Output,
		"input_rows", stats.InputRows,
		"output_rows", stats.OutputRows,
		"dropped", stats.DroppedRows,
	)

	return res, nil
}

func (app *Application) begin(stage string, total int) {
	if app.Hooks.Begin != nil {
		app.Hooks.Begin(stage, total)
	}
}

func (app *Application) end(stage string) {
	if app.Hooks.End != nil {
		app.Hooks.End(stage)
	}
}
