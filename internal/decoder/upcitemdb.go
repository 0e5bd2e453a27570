package decoder

import (
	"github.com/MichalMitros/product-rater/internal/platform/models"
	"github.com/samber/lo"
)

type upcItemDBResponse struct {
	Code  flexString               `json:"code"`
	Total flexString               `json:"total"`
	Items looseList[upcItemDBItem] `json:"items"`
}

type upcItemDBItem struct {
	EAN          flexString                `json:"ean"`
	UPC          flexString                `json:"upc"`
	Title        flexString                `json:"title"`
	Description  flexString                `json:"description"`
	Brand        flexString                `json:"brand"`
	Model        flexString                `json:"model"`
	Color        flexString                `json:"color"`
	Size         flexString                `json:"size"`
	Category     flexString                `json:"category"`
	LowestPrice  flexString                `json:"lowest_recorded_price"`
	HighestPrice flexString                `json:"highest_recorded_price"`
	Images       flexStrings               `json:"images"`
	Offers       looseList[upcItemDBOffer] `json:"offers"`
}

type upcItemDBOffer struct {
	Merchant  flexString `json:"merchant"`
	Domain    flexString `json:"domain"`
	Title     flexString `json:"title"`
	Price     flexString `json:"price"`
	ListPrice flexString `json:"list_price"`
	Link      flexString `json:"link"`
}

func (r *upcItemDBResponse) Provider() Provider {
	return ProviderUPCItemDB
}

func (r *upcItemDBResponse) Found() bool {
	return len(r.Items) > 0
}

func (r *upcItemDBResponse) normalize(barcode string) models.ProductInfo {
	if len(r.Items) == 0 {
		return models.ProductInfo{Barcode: barcode}
	}

	item := r.Items[0]

	return models.ProductInfo{
		Barcode:     firstNonBlank(barcode, item.UPC.String(), item.EAN.String()),
		Title:       item.Title.String(),
		Brand:       item.Brand.String(),
		Description: item.Description.String(),
		Category:    item.Category.String(),
		Images:      item.Images,
		Offers: lo.Map([]upcItemDBOffer(item.Offers), func(offer upcItemDBOffer, _ int) models.Offer {
			return models.Offer{
				Merchant:  firstNonBlank(offer.Merchant.String(), offer.Domain.String()),
				Price:     ParseOptionalNumber(offer.Price.String()),
				ListPrice: ParseOptionalNumber(offer.ListPrice.String()),
				Link:      offer.Link.String(),
			}
		}),
		Metadata: metadata(map[string]any{
			"ean":                    item.EAN.String(),
			"model":                  item.Model.String(),
			"color":                  item.Color.String(),
			"size":                   item.Size.String(),
			"lowest_recorded_price":  item.LowestPrice.String(),
			"highest_recorded_price": item.HighestPrice.String(),
		}),
	}
}
