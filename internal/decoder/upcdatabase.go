package decoder

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/MichalMitros/product-rater/internal/platform/models"
	"github.com/samber/lo"
)

type upcDatabaseResponse struct {
	Success      flexString                  `json:"success"`
	Barcode      flexString                  `json:"barcode"`
	Title        flexString                  `json:"title"`
	Alias        flexString                  `json:"alias"`
	Description  flexString                  `json:"description"`
	Brand        flexString                  `json:"brand"`
	Manufacturer flexString                  `json:"manufacturer"`
	MSRP         flexString                  `json:"msrp"`
	Category     flexString                  `json:"category"`
	Images       flexStrings                 `json:"images"`
	Stores       looseList[upcDatabaseStore] `json:"stores"`
	Metadata     json.RawMessage             `json:"metadata"`
}

func (r *upcDatabaseResponse) Provider() Provider {
	return ProviderUPCDatabase
}

func (r *upcDatabaseResponse) Found() bool {
	return strings.EqualFold(r.Success.String(), "true")
}

func (r *upcDatabaseResponse) normalize(barcode string) models.ProductInfo {
	info := models.ProductInfo{
		Barcode:     firstNonBlank(barcode, r.Barcode.String()),
		Title:       firstNonBlank(r.Title.String(), r.Alias.String()),
		Brand:       r.Brand.String(),
		Description: r.Description.String(),
		Category:    r.Category.String(),
		Images:      r.Images,
		Offers: lo.Map([]upcDatabaseStore(r.Stores), func(store upcDatabaseStore, _ int) models.Offer {
			price := ParseOptionalNumber(store.Price.String())
			return models.Offer{
				Merchant:  strings.TrimSpace(store.Store),
				Price:     price,
				ListPrice: price,
				Link:      store.Link,
			}
		}),
	}

	meta := map[string]any{}
	if len(r.Metadata) > 0 {
		// metadata has no fixed shape, anything else than an object is dropped
		_ = json.Unmarshal(r.Metadata, &meta)
	}
	meta["manufacturer"] = r.Manufacturer.String()
	if msrp := ParseOptionalNumber(r.MSRP.String()); msrp.Valid {
		meta["msrp"] = msrp.Decimal.String()
	}
	info.Metadata = metadata(meta)

	return info
}

// upcDatabaseStore is single store entry. Provider encodes product link
// as a property name, so the entry is decoded by scanning its keys.
type upcDatabaseStore struct {
	Store string
	Price flexString
	Link  string
}

func (s *upcDatabaseStore) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	if raw, ok := fields["store"]; ok {
		var store flexString
		if err := json.Unmarshal(raw, &store); err == nil {
			s.Store = store.String()
		}
	}

	if raw, ok := fields["price"]; ok {
		if err := json.Unmarshal(raw, &s.Price); err != nil {
			s.Price = ""
		}
	}

	s.Link = linkKey(fields)

	return nil
}

// linkKey returns first (in lexical order) key which is an http(s) URL.
func linkKey(fields map[string]json.RawMessage) string {
	keys := lo.Keys(fields)
	sort.Strings(keys)

	link, _ := lo.Find(keys, func(key string) bool {
		return strings.HasPrefix(key, "https://") || strings.HasPrefix(key, "http://")
	})

	return link
}
