package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Métricas Prometheus del motor de ventas e inventario. Se exponen en GET /metrics.
var (
	SalesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "licorera_sales_created_total",
		Help: "Total de ventas confirmadas",
	})

	SalesUpdatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "licorera_sales_updated_total",
		Help: "Total de ventas editadas",
	})

	SalesDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "licorera_sales_deleted_total",
		Help: "Total de ventas eliminadas",
	})

	SalesFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "licorera_sales_failed_total",
		Help: "Ventas abortadas, por motivo",
	}, []string{"reason"})

	MovementsRecordedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "licorera_inventory_movements_total",
		Help: "Movimientos de inventario registrados, por tipo",
	}, []string{"type"})

	InsufficientStockTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "licorera_insufficient_stock_total",
		Help: "Salidas rechazadas por stock insuficiente",
	})

	BackfillMovementsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "licorera_backfill_movements_total",
		Help: "Movimientos generados retroactivamente a partir de ventas",
	})

	SaleTxLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "licorera_sale_tx_latency_seconds",
		Help:    "Duración de la transacción de creación de venta",
		Buckets: prometheus.DefBuckets,
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "licorera_http_request_duration_seconds",
		Help:    "Latencia de peticiones HTTP",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "licorera_http_requests_total",
		Help: "Total de peticiones HTTP",
	}, []string{"method", "path", "status"})
)

