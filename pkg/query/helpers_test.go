package query

import "github.com/sheetshop/sheetshop/pkg/sheets"

func mr(addr int, title, brand, category, seller string) MetaRow {
	return MetaRow{RowAddress: addr, Title: title, Brand: brand, Category: category, Seller: seller}
}

func row(addr int, cells ...string) sheets.Row {
	return sheets.Row{Address: addr, Cells: cells}
}
