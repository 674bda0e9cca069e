package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(actionRequestsTotal, activationKeyMutationsTotal, configDownloadsTotal, permissionDeniedTotal)
}

var actionRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "console_action_requests_total",
		Help: "Console action requests by action and outcome.",
	},
	[]string{"action", "outcome"}, // outcome: ok, invalid, denied, not_found, error
)

var activationKeyMutationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "console_activation_key_mutations_total",
		Help: "Persisted activation key mutations.",
	},
	[]string{"op"}, // create, update, rename
)

var configDownloadsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "console_config_downloads_total",
		Help: "Configuration revision downloads by content kind.",
	},
	[]string{"kind"}, // text, binary
)

var permissionDeniedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "console_permission_denied_total",
		Help: "Requests rejected by a role check.",
	},
	[]string{"action"},
)

func IncActionRequest(action, outcome string) {
	actionRequestsTotal.WithLabelValues(norm(action), norm(outcome)).Inc()
}

func IncActivationKeyMutation(op string) {
	activationKeyMutationsTotal.WithLabelValues(norm(op)).Inc()
}

func IncConfigDownload(binary bool) {
	kind := "text"
	if binary {
		kind = "binary"
	}
	configDownloadsTotal.WithLabelValues(kind).Inc()
}

func IncPermissionDenied(action string) {
	permissionDeniedTotal.WithLabelValues(norm(action)).Inc()
}
