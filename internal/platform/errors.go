package platform

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is returned when required input is missing or invalid.
	ErrValidation = errors.New("validation failed")
	// ErrBarcodeMissing is returned when ingestion is requested without barcode.
	ErrBarcodeMissing = fmt.Errorf("%w: barcode is required", ErrValidation)
	// ErrNotFound is returned when there is no product for provided barcode.
	ErrNotFound = errors.New("product not found")
	// ErrUpstream is returned when third-party product lookup fails.
	ErrUpstream = errors.New("upstream request failed")
	// ErrRatingAcquisition is returned when ratings can't be acquired from generation service.
	ErrRatingAcquisition = errors.New("can't acquire ratings")
	// ErrMalformedRating is returned when generation service reply misses required fields or has invalid values.
	ErrMalformedRating = fmt.Errorf("%w: malformed rating", ErrRatingAcquisition)
)
