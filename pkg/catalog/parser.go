package catalog

import (
	"net/url"
	"strings"

	"github.com/weppos/publicsuffix-go/publicsuffix"

	"github.com/sheetshop/sheetshop/pkg/images"
	"github.com/sheetshop/sheetshop/pkg/sheets"
)

// Parser decodes padded catalog rows into Items.
type Parser struct {
	images *images.Normalizer
}

// NewParser validates the column layout and returns a Parser that uses n to
// deduplicate image references.
func NewParser(n *images.Normalizer) (*Parser, error) {
	if err := ValidateColumns(); err != nil {
		return nil, err
	}
	if n == nil {
		n = images.NewNormalizer()
	}
	return &Parser{images: n}, nil
}

// Parse decodes one row. Only a row with no title, no source URL and no other
// non-empty cell is absent and yields ok == false; a partially filled row
// still becomes an Item, even without a title. rate converts the source price; pass 0 to
// leave PriceConverted nil.
func (p *Parser) Parse(row sheets.Row, rate float64) (it Item, ok bool) {
	if len(row.Cells) < sheets.Width {
		row.Cells = sheets.Pad(row.Cells, sheets.Width)
	}
	if row.Empty() {
		return Item{}, false
	}

	it.RowAddress = row.Address
	for _, c := range Columns {
		if c.Decode != nil {
			c.Decode(&it, row.Cell(c.Index))
		}
	}

	it.Slug = ItemSlug(it.Slug, it.Title, it.ID)
	it.Images = p.images.Dedup(imageCandidates(row))
	if it.Images == nil {
		it.Images = []string{}
	}
	if it.Tags == nil {
		it.Tags = []string{}
	}
	it.SourceDomain = sourceDomain(it.SourceURL)
	it.PriceConverted = ConvertPrice(it.SourcePriceRaw, rate)
	return it, true
}

// ParseAll decodes rows in order, skipping absent ones.
func (p *Parser) ParseAll(rows []sheets.Row, rate float64) []Item {
	out := make([]Item, 0, len(rows))
	for _, r := range rows {
		if it, ok := p.Parse(r, rate); ok {
			out = append(out, it)
		}
	}
	return out
}

// ItemSlug applies the slug policy: an explicit slug wins, then the title,
// then the raw id.
func ItemSlug(slug, title, id string) string {
	if s := Slugify(slug); s != "" {
		return s
	}
	if s := Slugify(title); s != "" {
		return s
	}
	return strings.TrimSpace(id)
}

func imageCandidates(row sheets.Row) []string {
	out := make([]string, 0, len(ImageSlots)+4)
	for _, i := range ImageSlots {
		if v := row.Cell(i); v != "" {
			out = append(out, v)
		}
	}
	return append(out, images.Extract(row.Cell(ColExtraImages))...)
}

func sourceDomain(raw string) string {
	clean, ok := images.Clean(raw)
	if !ok {
		return ""
	}
	u, err := url.Parse(clean)
	if err != nil {
		return ""
	}
	domain, err := publicsuffix.Domain(u.Hostname())
	if err != nil {
		return ""
	}
	return domain
}
