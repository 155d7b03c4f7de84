package redistopo

import "github.com/prometheus/client_golang/prometheus"

var (
	cyclesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "redistopo_reconcile_cycles_total",
		Help: "Reconciliation cycles started.",
	})
	cycleErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "redistopo_reconcile_errors_total",
		Help: "Reconciliation cycles abandoned due to fetch, parse or panic.",
	})
	failoversTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "redistopo_failovers_total",
		Help: "Slot ranges repointed to a newly promoted master.",
	})
	rangesAddedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "redistopo_slot_ranges_added_total",
		Help: "Slot ranges registered in the topology.",
	})
	rangesRemovedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "redistopo_slot_ranges_removed_total",
		Help: "Slot ranges deregistered from the topology.",
	})
	mastersRefusedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "redistopo_masters_refused_total",
		Help: "Candidate masters refused for FAIL flag or cluster_state:fail.",
	})
)

func init() {
	prometheus.MustRegister(
		cyclesTotal,
		cycleErrorsTotal,
		failoversTotal,
		rangesAddedTotal,
		rangesRemovedTotal,
		mastersRefusedTotal,
	)
}
