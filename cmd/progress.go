package cmd

import (
	"github.com/creativeprojects/onesecmail/term"
	"github.com/pterm/pterm"
)

type progresser struct {
	pbar *pterm.ProgressbarPrinter
}

func newProgresser(title string, total int) *progresser {
	if total < 2 || term.GetLevel() > term.LevelInfo {
		return &progresser{}
	}
	pbar, _ := pterm.DefaultProgressbar.WithTitle(title).WithTotal(total).Start()
	return &progresser{
		pbar: pbar,
	}
}

func (p *progresser) Increment() {
	if p.pbar == nil {
		return
	}
	p.pbar.Increment()
}

func (p *progresser) Stop() {
	if p.pbar == nil {
		return
	}
	_, _ = p.pbar.Stop()
}
