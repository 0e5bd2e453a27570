package rating

import (
	"math"

	"github.com/MichalMitros/product-rater/internal/platform/models"
)

// Rubric is versioned rating instruction sent to the generation service
// together with score bounds it asks for.
type Rubric struct {
	Version              string
	SystemPrompt         string
	Instruction          string
	Temperature          float64
	MinScore             int
	MaxScore             int
	NeutralScore         int
	SustainabilityWeight int
}

// DefaultRubric is sustainability-weighted rubric.
var DefaultRubric = Rubric{
	Version:              "2025-03-sustainability-weighted",
	SystemPrompt:         sustainabilityWeightedPrompt,
	Instruction:          "Here is the product information JSON.",
	Temperature:          0.1,
	MinScore:             1,
	MaxScore:             5,
	NeutralScore:         3,
	SustainabilityWeight: 2,
}

// InRange reports whether score is within rubric bounds.
func (r Rubric) InRange(score int) bool {
	return score >= r.MinScore && score <= r.MaxScore
}

// ExpectedHolistic returns holistic rating computed from sub-scores with sustainability weight.
// Halves are rounded away from zero.
func (r Rubric) ExpectedHolistic(ratings models.Ratings) int {
	weight := r.SustainabilityWeight
	if weight <= 0 {
		weight = 1
	}

	sum := weight*ratings.SustainabilityScore + ratings.NutritionalValue + ratings.PriceValue
	return int(math.Round(float64(sum) / float64(weight+2)))
}

const sustainabilityWeightedPrompt = `You are given a JSON object containing basic product information extracted from a barcode.
Analyze the product and return a JSON object with four integer ratings from 1 to 5, a one sentence description and an estimated price.

Based on the product name and brand, evaluate the following attributes:

priceValue (1-5): how good the product is for the price.
sustainabilityScore (1-5): how environmentally friendly the product or brand is.
nutritionalValue (1-5): how healthy the product is for the average consumer.
holisticRating (1-5): overall rating computed as round((2 * sustainabilityScore + nutritionalValue + priceValue) / 4). Sustainability counts double.
description: one sentence describing the product and briefly commenting on the ratings.
rawPrice: estimated typical retail price of the product in USD as a number, or null when unknown.

When information is ambiguous or missing, use the neutral score 3.
Do not give extreme scores (1 or 5) without strong justification.
Use your general knowledge of the brand and product type to make reasonable judgments.

Respond with the JSON object only, following exactly this format:

{
    "priceValue": 3,
    "sustainabilityScore": 3,
    "nutritionalValue": 4,
    "holisticRating": 3,
    "description": "Brief description of the product and comments on the ratings.",
    "rawPrice": 4.99
}
`
