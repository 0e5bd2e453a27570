package decoder

import (
	"sort"
	"strings"

	"github.com/MichalMitros/product-rater/internal/platform/models"
	"github.com/samber/lo"
)

// frontImageLocale is preferred locale of front image.
const frontImageLocale = "en"

type openFoodFactsResponse struct {
	Code    flexString                   `json:"code"`
	Status  flexString                   `json:"status"`
	Product loose[*openFoodFactsProduct] `json:"product"`
}

type openFoodFactsProduct struct {
	ProductName     flexString                   `json:"product_name"`
	GenericName     flexString                   `json:"generic_name"`
	Brands          flexString                   `json:"brands"`
	Categories      flexString                   `json:"categories"`
	ImageFrontURL   flexString                   `json:"image_front_url"`
	ImageURL        flexString                   `json:"image_url"`
	SelectedImages  loose[openFoodFactsSelected] `json:"selected_images"`
	NutritionGrades flexString                   `json:"nutrition_grades"`
	EcoscoreGrade   flexString                   `json:"ecoscore_grade"`
	NovaGroup       flexString                   `json:"nova_group"`
	IngredientsText flexString                   `json:"ingredients_text"`
	Nutriments      loose[map[string]any]        `json:"nutriments"`
	AdditivesTags   flexStrings                  `json:"additives_tags"`
	Quantity        flexString                   `json:"quantity"`
}

type openFoodFactsSelected struct {
	Front loose[openFoodFactsImageSet] `json:"front"`
}

type openFoodFactsImageSet struct {
	Display map[string]flexString `json:"display"`
	Small   map[string]flexString `json:"small"`
	Thumb   map[string]flexString `json:"thumb"`
}

func (r *openFoodFactsResponse) Provider() Provider {
	return ProviderOpenFoodFacts
}

func (r *openFoodFactsResponse) Found() bool {
	return r.Status.String() == "1" && r.Product.Value != nil
}

func (r *openFoodFactsResponse) normalize(barcode string) models.ProductInfo {
	info := models.ProductInfo{
		Barcode: firstNonBlank(barcode, r.Code.String()),
	}
	if r.Product.Value == nil {
		return info
	}

	p := r.Product.Value
	info.Title = firstNonBlank(p.ProductName.String(), p.GenericName.String())
	info.Brand = firstBrand(p.Brands.String())
	info.Description = p.GenericName.String()
	info.Category = firstBrand(p.Categories.String())
	info.Images = p.images()
	info.Metadata = metadata(map[string]any{
		"nutrition_grades": p.NutritionGrades.String(),
		"ecoscore_grade":   p.EcoscoreGrade.String(),
		"nova_group":       p.NovaGroup.String(),
		"ingredients_text": p.IngredientsText.String(),
		"nutriments":       p.Nutriments.Value,
		"additives_tags":   []string(p.AdditivesTags),
		"quantity":         p.Quantity.String(),
	})

	return info
}

// images returns every recognised image, front image first.
func (p *openFoodFactsProduct) images() []string {
	images := []string{p.ImageFrontURL.String()}
	images = append(images, localized(p.SelectedImages.Value.Front.Value.Display)...)
	images = append(images, p.ImageURL.String())

	return images
}

// localized returns images of the preferred locale followed by remaining locales in lexical order.
func localized(byLocale map[string]flexString) []string {
	locales := lo.Keys(byLocale)
	sort.Slice(locales, func(i, j int) bool {
		if locales[i] == frontImageLocale || locales[j] == frontImageLocale {
			return locales[i] == frontImageLocale
		}
		return locales[i] < locales[j]
	})

	return lo.Map(locales, func(locale string, _ int) string {
		return byLocale[locale].String()
	})
}

// firstBrand returns first entry of comma separated list.
func firstBrand(list string) string {
	brand, _, _ := strings.Cut(list, ",")
	return strings.TrimSpace(brand)
}
