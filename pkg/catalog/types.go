package catalog

// Item is a single catalog product decoded from one sheet row.
type Item struct {
	// RowAddress is the 1-based sheet row the item was read from.
	RowAddress int    `json:"row_address"`
	ID         string `json:"id"`
	Slug       string `json:"slug"`
	Title      string `json:"title"`
	Brand      string `json:"brand"`
	Category   string `json:"category"`
	Seller     string `json:"seller"`

	// Images holds one URL per distinct asset. Images[0] is the cover.
	Images []string `json:"images"`

	SourceURL      string   `json:"source_url"`
	SourceDomain   string   `json:"source_domain,omitempty"`
	SourcePriceRaw string   `json:"source_price_raw"`
	Tags           []string `json:"tags"`

	// PriceConverted is nil when the source price could not be parsed.
	PriceConverted *float64 `json:"price_converted"`
}

// Cover returns the first image or "" when the item has none.
func (it Item) Cover() string {
	if len(it.Images) == 0 {
		return ""
	}
	return it.Images[0]
}
