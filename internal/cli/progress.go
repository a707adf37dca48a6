package cli

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
)

// ExportProgress implements progress reporting with a progress bar.
type ExportProgress struct {
	quiet     bool
	bar       *progressbar.ProgressBar
	startTime time.Time
}

// NewExportProgress creates a new export progress reporter.
func NewExportProgress(quiet bool) *ExportProgress {
	return &ExportProgress{
		quiet:     quiet,
		startTime: time.Now(),
	}
}

func (p *ExportProgress) OnDiscoveryComplete(totalPages int) {
	if p.quiet {
		return
	}

	p.bar = progressbar.NewOptions(totalPages,
		progressbar.OptionSetDescription("Exporting pages"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("pages/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
}

func (p *ExportProgress) OnPageProcessed() {
	if p.quiet {
		return
	}
	if p.bar != nil {
		p.bar.Add(1)
	}
}

func (p *ExportProgress) OnComplete(records, files int) {
	if p.quiet {
		return
	}
	if p.bar != nil {
		p.bar.Finish()
	}
	fmt.Printf("✓ Export complete: %d records in %d feed files (%.1fs)\n",
		records, files, time.Since(p.startTime).Seconds())
}
