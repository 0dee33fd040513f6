package main

import (
	"os"
	"time"

	"github.com/Afrawles/cardsplit/internal/cardsplit"
	"github.com/schollz/progressbar/v3"
)

// progressHooks drives a spinner for stages of unknown size and a counted bar
// for the rest.
func progressHooks() cardsplit.Hooks {
	var bar *progressbar.ProgressBar

	return cardsplit.Hooks{
		Begin: func(stage string, total int) {
			if total < 0 {
				bar = newSpinner(stage)
				return
			}
			bar = newBar(stage, total)
		},
		Step: func() {
			if bar != nil {
				_ = bar.Add(1)
			}
		},
		End: func(stage string) {
			finishBar(bar)
			bar = nil
		},
	}
}

func newSpinner(description string) *progressbar.ProgressBar {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(15),
		progressbar.OptionThrottle(100*time.Millisecond),
	)
	_ = bar.RenderBlank()
	return bar
}

func newBar(description string, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(100*time.Millisecond),
	)
}

func finishBar(bar *progressbar.ProgressBar) {
	if bar != nil {
		_ = bar.Finish()
	}
}
