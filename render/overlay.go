package render

import (
	"io"

	"github.com/giwty/slm-view/progress"
	"github.com/schollz/progressbar/v3"
)

// Console rendition of the progress overlay
type ConsoleOverlay struct {
	w     io.Writer
	bar   *progressbar.ProgressBar
	total int
}

// Constructor for the console overlay, the bar is drawn on w
func NewConsoleOverlay(w io.Writer) *ConsoleOverlay {
	return &ConsoleOverlay{w: w}
}

// Redraw from an overlay state
func (c *ConsoleOverlay) Update(s progress.State) {
	if !s.Visible {
		c.finish()
		return
	}

	total := s.Update.Total
	if total <= 0 {
		total = -1
	}
	if c.bar == nil || c.total != total {
		c.finish()
		c.total = total
		c.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(c.w),
			progressbar.OptionSetDescription(s.Label),
			progressbar.OptionClearOnFinish(),
		)
	}

	c.bar.Describe(s.Label)
	if total > 0 {
		c.bar.Set(min(s.Update.Curr, total))
	}
}

// A bar is being drawn
func (c *ConsoleOverlay) Visible() bool {
	return c.bar != nil
}

func (c *ConsoleOverlay) finish() {
	if c.bar == nil {
		return
	}
	c.bar.Finish()
	c.bar = nil
	c.total = 0
}
