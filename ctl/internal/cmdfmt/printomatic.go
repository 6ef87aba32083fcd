// Package cmdfmt renders command output. Commands feed rows to a Printomatic
// and it prints them as an aligned table or as JSON depending on the global
// output flags.
package cmdfmt

import (
	"fmt"
	"os"
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/updraft-io/updraft-go/ctl/pkg/config"
)

// printer is the slice of go-pretty's table.Writer the Printomatic drives.
// The JSON printer implements it too so both render paths share one call
// surface.
type printer interface {
	SetColumnConfigs(configs []table.ColumnConfig)
	AppendRow(row table.Row, configs ...table.RowConfig)
	Render() string
}

// Printomatic buffers rows and flushes them a page at a time so long outputs
// stream instead of accumulating.
type Printomatic struct {
	allColumns []string
	configs    []table.ColumnConfig
	pageSize   int
	buffered   int
	current    printer
}

// NewPrintomatic sets up output for the given column set. defaultColumns
// names the ones visible without --columns; --columns overrides that and
// 'all' selects everything.
func NewPrintomatic(allColumns []string, defaultColumns []string) Printomatic {
	p := Printomatic{
		allColumns: allColumns,
		pageSize:   viper.GetInt(config.PageSizeKey),
	}
	visible := selectedColumns(allColumns, defaultColumns, viper.GetStringSlice(config.ColumnsKey))
	p.configs = make([]table.ColumnConfig, 0, len(allColumns))
	for _, name := range allColumns {
		p.configs = append(p.configs, table.ColumnConfig{
			Name:   name,
			Hidden: !slices.Contains(visible, name),
		})
	}
	p.current = p.newPrinter()
	return p
}

func selectedColumns(allColumns, defaultColumns, requested []string) []string {
	if slices.Contains(requested, "all") {
		return allColumns
	}
	selected := make([]string, 0, len(requested))
	for _, name := range requested {
		if slices.Contains(allColumns, name) {
			selected = append(selected, name)
		}
	}
	if len(selected) > 0 {
		return selected
	}
	return defaultColumns
}

func (p *Printomatic) newPrinter() printer {
	if viper.GetBool(config.PrintJsonKey) || viper.GetBool(config.PrintJsonPrettyKey) {
		jp := newJSONPrinter(viper.GetBool(config.PrintJsonPrettyKey))
		jp.SetColumnConfigs(p.configs)
		return jp
	}
	t := table.NewWriter()
	style := table.StyleDefault
	style.Options.DrawBorder = false
	t.SetStyle(style)
	t.SetColumnConfigs(p.configs)
	header := make(table.Row, 0, len(p.allColumns))
	for _, name := range p.allColumns {
		header = append(header, name)
	}
	t.AppendHeader(header)
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		t.SetAllowedRowLength(w)
	}
	return t
}

// AddItem appends one row. The values must line up with the full column set.
func (p *Printomatic) AddItem(values ...any) {
	if len(values) != len(p.allColumns) {
		panic(fmt.Sprintf("unable to print row, %d values do not line up with %d columns (this is likely a bug)", len(values), len(p.allColumns)))
	}
	p.current.AppendRow(table.Row(values))
	p.buffered++
	if p.pageSize > 0 && p.buffered >= p.pageSize {
		p.flush()
	}
}

// PrintRemaining flushes buffered rows. Call it once after the last AddItem;
// with nothing buffered it prints nothing.
func (p *Printomatic) PrintRemaining() {
	if p.buffered > 0 {
		p.flush()
	}
}

func (p *Printomatic) flush() {
	fmt.Fprintln(os.Stdout, p.current.Render())
	p.current = p.newPrinter()
	p.buffered = 0
}

// Printf prints operator-facing messages to stdout, keeping commands off
// direct fmt usage so output handling stays in one place.
func Printf(format string, a ...any) {
	fmt.Fprintf(os.Stdout, format, a...)
}
