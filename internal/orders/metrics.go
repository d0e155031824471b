package orders

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var (
	meter = otel.Meter("orders")

	ordersCreated, _ = meter.Int64Counter("orders.created",
		metric.WithDescription("Orders created"),
		metric.WithUnit("{order}"))

	ordersDeleted, _ = meter.Int64Counter("orders.deleted",
		metric.WithDescription("Orders deleted"),
		metric.WithUnit("{order}"))

	quantityDelta, _ = meter.Int64Counter("orders.quantity_delta",
		metric.WithDescription("Net quantity applied to card aggregates"),
		metric.WithUnit("{card}"))
)
