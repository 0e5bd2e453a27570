package rating

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/MichalMitros/product-rater/internal/decoder"
	"github.com/MichalMitros/product-rater/internal/platform"
	"github.com/MichalMitros/product-rater/internal/platform/genai"
	"github.com/MichalMitros/product-rater/internal/platform/models"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

//go:generate mockery --name Generator --filename generator.go

// Generator generates text content.
type Generator interface {
	Generate(ctx context.Context, req genai.Request) (string, error)
}

// Acquirer acquires product ratings from generation service.
type Acquirer struct {
	generator Generator
	rubric    Rubric
	logger    *zerolog.Logger
}

// Option configures Acquirer.
type Option func(a *Acquirer)

// WithRubric overrides DefaultRubric.
func WithRubric(rubric Rubric) Option {
	return func(a *Acquirer) {
		a.rubric = rubric
	}
}

// NewAcquirer returns new Acquirer.
func NewAcquirer(generator Generator, logger *zerolog.Logger, opts ...Option) *Acquirer {
	a := &Acquirer{
		generator: generator,
		rubric:    DefaultRubric,
		logger:    logger,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Acquire asks generation service to rate product and parses its reply.
// Every failure matches platform.ErrRatingAcquisition, replies with missing
// or out of range fields also match platform.ErrMalformedRating.
func (a *Acquirer) Acquire(ctx context.Context, info models.ProductInfo) (models.Ratings, error) {
	payload, err := json.Marshal(info)
	if err != nil {
		return models.Ratings{}, fmt.Errorf("%w: can't marshal product info: %w", platform.ErrRatingAcquisition, err)
	}

	text, err := a.generator.Generate(ctx, genai.Request{
		SystemPrompt: a.rubric.SystemPrompt,
		Parts:        []string{a.rubric.Instruction, string(payload)},
		Temperature:  a.rubric.Temperature,
		GoogleSearch: true,
	})
	if err != nil {
		return models.Ratings{}, fmt.Errorf("%w: %w", platform.ErrRatingAcquisition, err)
	}

	ratings, err := a.parse(text)
	if err != nil {
		return models.Ratings{}, err
	}

	if expected := a.rubric.ExpectedHolistic(ratings); expected != ratings.HolisticRating {
		a.logger.Warn().
			Str("barcode", info.Barcode).
			Str("rubric", a.rubric.Version).
			Int("holistic_rating", ratings.HolisticRating).
			Int("expected_holistic_rating", expected).
			Msg("holistic rating does not match rubric formula")
	}

	return ratings, nil
}

type reply struct {
	PriceValue           *float64        `json:"priceValue"`
	SustainabilityScore  *float64        `json:"sustainabilityScore"`
	SustainabilityRating *float64        `json:"sustainabilityRating"`
	NutritionalValue     *float64        `json:"nutritionalValue"`
	HolisticRating       *float64        `json:"holisticRating"`
	Description          *string         `json:"description"`
	RawPrice             json.RawMessage `json:"rawPrice"`
}

func (a *Acquirer) parse(text string) (models.Ratings, error) {
	payload := StripCodeFence(text)
	if payload == "" {
		return models.Ratings{}, fmt.Errorf("%w: empty reply", platform.ErrRatingAcquisition)
	}

	var r reply
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return models.Ratings{}, fmt.Errorf("%w: field %s: %w", platform.ErrMalformedRating, typeErr.Field, err)
		}
		return models.Ratings{}, fmt.Errorf("%w: can't parse reply: %w", platform.ErrRatingAcquisition, err)
	}

	if r.SustainabilityScore == nil {
		r.SustainabilityScore = r.SustainabilityRating
	}

	var (
		ratings models.Ratings
		err     error
	)
	if ratings.PriceValue, err = a.score("priceValue", r.PriceValue); err != nil {
		return models.Ratings{}, err
	}
	if ratings.SustainabilityScore, err = a.score("sustainabilityScore", r.SustainabilityScore); err != nil {
		return models.Ratings{}, err
	}
	if ratings.NutritionalValue, err = a.score("nutritionalValue", r.NutritionalValue); err != nil {
		return models.Ratings{}, err
	}
	if ratings.HolisticRating, err = a.score("holisticRating", r.HolisticRating); err != nil {
		return models.Ratings{}, err
	}

	ratings.Description = strings.TrimSpace(lo.FromPtr(r.Description))
	if ratings.Description == "" {
		return models.Ratings{}, fmt.Errorf("%w: description is missing", platform.ErrMalformedRating)
	}

	ratings.RawPrice = rawPrice(r.RawPrice)

	return ratings, nil
}

func (a *Acquirer) score(field string, value *float64) (int, error) {
	if value == nil {
		return 0, fmt.Errorf("%w: %s is missing", platform.ErrMalformedRating, field)
	}

	if *value != math.Trunc(*value) {
		return 0, fmt.Errorf("%w: %s is not an integer: %v", platform.ErrMalformedRating, field, *value)
	}

	score := int(*value)
	if !a.rubric.InRange(score) {
		return 0, fmt.Errorf("%w: %s out of range [%d, %d]: %d",
			platform.ErrMalformedRating, field, a.rubric.MinScore, a.rubric.MaxScore, score,
		)
	}

	return score, nil
}

// rawPrice returns price estimated by the model. It accepts numbers and numeric strings,
// anything else (including negative prices) is treated as absent.
func rawPrice(raw json.RawMessage) *float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		value = string(raw)
	}

	number := decoder.ParseOptionalNumber(value)
	if !number.Valid || number.Decimal.IsNegative() {
		return nil
	}

	price, _ := number.Decimal.Float64()
	return &price
}

// StripCodeFence removes fenced code block markup around JSON payload.
// Text surrounding single JSON object is dropped too.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// language tag, e.g. ```json
		if idx := strings.IndexAny(text, "\n{"); idx >= 0 && text[idx] == '\n' {
			text = text[idx+1:]
		} else if idx >= 0 {
			text = text[idx:]
		}
	}
	text = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "```"))

	if strings.HasPrefix(text, "{") && strings.HasSuffix(text, "}") {
		return text
	}

	start, end := strings.Index(text, "{"), strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}

	return text
}
