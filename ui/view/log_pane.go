package view

import (
	"fmt"
	"strings"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

const maxLogLines = 500

// LogPane is a read-only text area showing recent log records.
type LogPane interface {
	AppendLog(lines []string)
}

type logPane struct {
	text  *TextWidget
	lines int
}

// NewLogPane places the pane at row, spanning cols columns.
func NewLogPane(row, cols int) LogPane {
	p := &logPane{text: Text(Height(10), Width(90), Wrap("none"), State("disabled"))}
	Grid(p.text, Row(row), Column(0), Columnspan(cols), Sticky("nswe"), Padx("0.4m"), Pady("0.3m"))
	return p
}

func (p *logPane) AppendLog(lines []string) {
	if p == nil || p.text == nil || len(lines) == 0 {
		return
	}
	defer func() { _ = recover() }() // widget destroyed during shutdown
	p.text.Configure(State("normal"))
	p.text.Insert(END, strings.Join(lines, "\n")+"\n")
	p.lines += len(lines)
	if over := p.lines - maxLogLines; over > 0 {
		p.text.Delete("1.0", fmt.Sprintf("%d.0", over+1))
		p.lines = maxLogLines
	}
	p.text.See(END)
	p.text.Configure(State("disabled"))
}
