package ports

import (
	"context"

	"github.com/mikey/fakenews-detector/internal/core"
)

// Frontend defines the interface for an inbound surface of the detector
type Frontend interface {
	// Start starts serving
	Start() error

	// Stop stops serving
	Stop() error
}

// HeadlineFrontend classifies headlines handed to it directly
type HeadlineFrontend interface {
	Frontend

	// ClassifyHeadline classifies one headline and reports the result
	ClassifyHeadline(ctx context.Context, headline string) (core.PredictionResult, error)
}
