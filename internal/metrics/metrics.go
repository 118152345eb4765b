// Package metrics регистрирует счетчики Prometheus сервиса провижининга.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ProvisioningOperations считает операции провижининга по действию и исходу.
var ProvisioningOperations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bakeryadmin_provisioning_operations_total",
		Help: "Total provisioning operations by action and outcome.",
	},
	[]string{"action", "outcome"},
)

// Исходы операций для метки outcome.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)
