package printer

import (
	"TreeSnap/logger"
	"fmt"

	"github.com/fatih/color"
)

// Printer prints grouped progress lines: the first line after a Section (or
// Reset) carries the bold section title, later lines are indented under it.
type Printer struct {
	logger     *logger.Logger
	title      string
	heading    *color.Color
	firstPrint bool
}

func NewPrinter(title string, logger *logger.Logger) *Printer {
	p := &Printer{
		logger:  logger,
		heading: color.New(color.Bold),
	}
	p.Section(title)
	return p
}

// Section starts a new block titled title.
func (p *Printer) Section(title string) {
	p.title = title
	p.firstPrint = true
}

func (p *Printer) prefix() string {
	if p.title == "" {
		return ""
	}
	if p.logger.ColorEnabled() {
		p.heading.EnableColor()
	} else {
		p.heading.DisableColor()
	}
	return "\n" + p.heading.Sprint(p.title) + " -> "
}

func (p *Printer) Print(format string, args ...interface{}) {
	if p.logger == nil {
		fmt.Printf("Logger not initialized for Printer. Message: "+format+"\n", args...)
		return
	}

	message := fmt.Sprintf(format, args...)

	switch {
	case p.title == "":
		p.logger.Logf("%s", message)
	case p.firstPrint:
		p.logger.Logf("%s%s", p.prefix(), message)
		p.firstPrint = false
	default:
		p.logger.Logf("  %s", message)
	}
}

func (p *Printer) Reset() {
	p.firstPrint = true
}
