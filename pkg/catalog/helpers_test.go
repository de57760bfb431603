package catalog

import "github.com/sheetshop/sheetshop/pkg/sheets"

func mkRow(addr int, cells map[int]string) sheets.Row {
	r := sheets.Row{Address: addr, Cells: make([]string, sheets.Width)}
	for i, v := range cells {
		r.Cells[i] = v
	}
	return r
}

func mustParser() *Parser {
	p, err := NewParser(nil)
	if err != nil {
		panic(err)
	}
	return p
}
