package pesu

import (
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("services/pesu")
