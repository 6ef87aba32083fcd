package cmdfmt

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
)

// jsonPrinter mirrors the table writer's call surface and renders rows as a
// JSON list of objects keyed by column name. Hidden columns are dropped so
// --columns shapes JSON output the same way it shapes tables.
type jsonPrinter struct {
	columns []table.ColumnConfig
	rows    []map[string]any
	pretty  bool
}

func newJSONPrinter(pretty bool) *jsonPrinter {
	return &jsonPrinter{
		rows:   []map[string]any{},
		pretty: pretty,
	}
}

func (p *jsonPrinter) SetColumnConfigs(configs []table.ColumnConfig) {
	p.columns = configs
}

func (p *jsonPrinter) AppendRow(row table.Row, _ ...table.RowConfig) {
	if len(p.columns) != len(row) {
		panic(fmt.Sprintf("unable to print json, the number of keys %d does not match the number of values %d (this is likely a bug)", len(p.columns), len(row)))
	}
	item := make(map[string]any, len(p.columns))
	for i, col := range p.columns {
		if col.Hidden {
			continue
		}
		item[col.Name] = row[i]
	}
	p.rows = append(p.rows, item)
}

func (p *jsonPrinter) Render() string {
	var (
		out []byte
		err error
	)
	if p.pretty {
		out, err = json.MarshalIndent(p.rows, "", " ")
	} else {
		out, err = json.Marshal(p.rows)
	}
	if err != nil {
		panic("unable to marshal json (this is likely a bug): " + err.Error())
	}
	return string(out)
}
