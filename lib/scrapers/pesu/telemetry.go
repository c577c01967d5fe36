package pesu

import (
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/pesu")
