package cardsplit

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Afrawles/cardsplit/internal/config"
	"github.com/Afrawles/cardsplit/internal/table"
)

func newTestApp(t *testing.T, input string, data []byte) (*Application, *config.Config) {
	t.Helper()
	dir := t.TempDir()
	inPath := filepath.Join(dir, input)
	if err := os.WriteFile(inPath, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{
		Input:        config.InputConfig{Path: inPath, Encoding: "ISO-8859-1"},
		Output:       config.OutputConfig{Summary: filepath.Join(dir, "summary.json")},
		TargetColumn: config.DefaultColumn,
		Missing:      "literal",
		Empty:        "drop",
	}
	app, err := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return app, cfg
}

func TestRun(t *testing.T) {
	app, cfg := newTestApp(t, "offers.csv", []byte(
		"ID,Eligible Credit Cards\n"+
			"1,\"Card A, Card B\"\n"+
			"2,\"Card C (bonus, 2x) and Card D\"\n"+
			"3,\"  \"\n"))

	var stages []string
	steps := 0
	app.Hooks = Hooks{
		Begin: func(stage string, total int) { stages = append(stages, stage) },
		Step:  func() { steps++ },
	}

	res, err := app.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Output != cfg.OutputPath() {
		t.Errorf("expected output %q, got %q", cfg.OutputPath(), res.Output)
	}
	if res.RunID == "" {
		t.Error("expected run id")
	}
	if res.Stats.OutputRows != 4 || res.Stats.DroppedRows != 1 {
		t.Errorf("unexpected stats %+v", res.Stats)
	}
	if steps != 3 {
		t.Errorf("expected 3 progress steps, got %d", steps)
	}
	if len(stages) != 3 {
		t.Errorf("expected 3 stages, got %q", stages)
	}

	data, err := os.ReadFile(res.Output)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	want := "ID,Eligible Credit Cards\n" +
		"1,Card A\n" +
		"1,Card B\n" +
		"2,\"Card C (bonus, 2x)\"\n" +
		"2,Card D\n"
	if string(data) != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, data)
	}

	summary, err := os.ReadFile(cfg.Output.Summary)
	if err != nil {
		t.Fatalf("failed to read summary: %v", err)
	}
	var got Result
	if err := json.Unmarshal(summary, &got); err != nil {
		t.Fatalf("invalid summary: %v", err)
	}
	if got.RunID != res.RunID || got.Stats.OutputRows != 4 {
		t.Errorf("unexpected summary %+v", got)
	}
}

func TestRun_MissingColumnWritesNothing(t *testing.T) {
	app, cfg := newTestApp(t, "offers.csv", []byte("ID,Eligible Debit Cards\n1,Card A\n"))

	_, err := app.Run(context.Background())
	var loadErr *table.LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected LoadError, got %v", err)
	}
	if _, statErr := os.Stat(cfg.OutputPath()); !os.IsNotExist(statErr) {
		t.Errorf("expected no output file, stat returned %v", statErr)
	}
}

func TestRun_HeaderOnly(t *testing.T) {
	app, _ := newTestApp(t, "offers.csv", []byte("ID,Eligible Credit Cards\n"))

	_, err := app.Run(context.Background())
	var loadErr *table.LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected LoadError, got %v", err)
	}
}

func TestRun_Cancelled(t *testing.T) {
	app, cfg := newTestApp(t, "offers.csv", []byte("ID,Eligible Credit Cards\n1,Card A\n"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := app.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, statErr := os.Stat(cfg.OutputPath()); !os.IsNotExist(statErr) {
		t.Errorf("expected no output file, stat returned %v", statErr)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := &config.Config{TargetColumn: config.DefaultColumn}
	if _, err := New(cfg, nil); err == nil {
		t.Error("expected error for config without input")
	}
}

func TestRun_WorkbookOutputSheet(t *testing.T) {
	app, cfg := newTestApp(t, "offers.csv", []byte("ID,Eligible Credit Cards\n1,Card A and Card B\n"))
	cfg.Output.Path = filepath.Join(filepath.Dir(cfg.Input.Path), "expanded.xlsx")
	cfg.Output.Sheet = "Cards"

	app, err := New(cfg, app.Logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := app.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := table.Load(cfg.Output.Path, table.Options{Sheet: "Cards"})
	if err != nil {
		t.Fatalf("failed to read workbook: %v", err)
	}
	if len(got.Rows) != 2 {
		t.Errorf("expected 2 rows, got %d", len(got.Rows))
	}
}
