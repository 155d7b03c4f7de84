package redistopo

import (
	log "github.com/sirupsen/logrus"

	"github.com/redmesh/redistopo/redisnodes"
)

// Logger is used for logging topology events. Refusals to route to an
// unhealthy master are reported here as decisions, not errors.
type Logger interface {
	// Report is called when something happens during the manager's lifetime.
	Report(m *Manager, event LogEvent)
}

func (m *Manager) report(event LogEvent) {
	m.opts.Logger.Report(m, event)
}

// LogEvent is a sumtype for events to be logged.
type LogEvent interface {
	logEvent()
}

// LogBootstrapped is reported once startup discovery succeeds.
type LogBootstrapped struct {
	Seeds      []string
	Partitions int
}

// LogSeedUnavailable is reported when a seed cannot serve a topology fetch.
type LogSeedUnavailable struct {
	Addr  string
	Error error
}

// LogMasterAdded is reported when a partition entry is registered.
type LogMasterAdded struct {
	Partition *redisnodes.Partition
}

// LogMasterRefused is reported when a candidate master is not registered
// because the cluster cannot vouch for it.
type LogMasterRefused struct {
	Partition *redisnodes.Partition
	Reason    string
}

// LogEntryError is reported when the entry factory fails for a partition.
type LogEntryError struct {
	Addr  string
	Error error
}

// LogMasterChanged is reported for each slot range repointed on failover.
type LogMasterChanged struct {
	Range   redisnodes.SlotRange
	OldAddr string
	NewAddr string
}

// LogRangeRemoved is reported when a slot range vanishes from the cluster.
type LogRangeRemoved struct {
	Range      redisnodes.SlotRange
	MasterAddr string
}

// LogCycleSkipped is reported when a reconciliation cycle is abandoned;
// the previous topology stays in effect and the schedule continues.
type LogCycleSkipped struct {
	Error error
}

// LogCycleError is reported when a cycle panics. The monitor keeps running.
type LogCycleError struct {
	Recovered interface{}
}

// LogContextClosed is reported when the manager's context is closed.
type LogContextClosed struct {
	Error error
}

func (LogBootstrapped) logEvent()    {}
func (LogSeedUnavailable) logEvent() {}
func (LogMasterAdded) logEvent()     {}
func (LogMasterRefused) logEvent()   {}
func (LogEntryError) logEvent()      {}
func (LogMasterChanged) logEvent()   {}
func (LogRangeRemoved) logEvent()    {}
func (LogCycleSkipped) logEvent()    {}
func (LogCycleError) logEvent()      {}
func (LogContextClosed) logEvent()   {}

// DefaultLogger renders events through logrus.
type DefaultLogger struct{}

// Report implements Logger.Report.
func (DefaultLogger) Report(m *Manager, event LogEvent) {
	switch ev := event.(type) {
	case LogBootstrapped:
		log.WithFields(log.Fields{
			"seeds":      ev.Seeds,
			"partitions": ev.Partitions,
		}).Info("redistopo: cluster topology bootstrapped")
	case LogSeedUnavailable:
		log.WithFields(log.Fields{
			"addr":  ev.Addr,
			"error": ev.Error,
		}).Warn("redistopo: seed unavailable")
	case LogMasterAdded:
		log.WithFields(log.Fields{
			"master": ev.Partition.MasterAddr,
			"slots":  ev.Partition.Slots,
		}).Info("redistopo: added master")
	case LogMasterRefused:
		log.WithFields(log.Fields{
			"master": ev.Partition.MasterAddr,
			"slots":  ev.Partition.Slots,
			"reason": ev.Reason,
		}).Warn("redistopo: add master refused")
	case LogEntryError:
		log.WithFields(log.Fields{
			"master": ev.Addr,
			"error":  ev.Error,
		}).Error("redistopo: partition entry creation failed")
	case LogMasterChanged:
		log.WithFields(log.Fields{
			"slots": ev.Range,
			"from":  ev.OldAddr,
			"to":    ev.NewAddr,
		}).Info("redistopo: changed master")
	case LogRangeRemoved:
		log.WithFields(log.Fields{
			"slots":  ev.Range,
			"master": ev.MasterAddr,
		}).Info("redistopo: slot range removed")
	case LogCycleSkipped:
		log.WithFields(log.Fields{
			"error": ev.Error,
		}).Warn("redistopo: reconciliation cycle skipped")
	case LogCycleError:
		log.WithFields(log.Fields{
			"panic": ev.Recovered,
		}).Error("redistopo: reconciliation cycle failed")
	case LogContextClosed:
		log.WithFields(log.Fields{
			"error": ev.Error,
		}).Info("redistopo: shutting down")
	default:
		log.Infof("redistopo: unexpected event %v", event)
	}
}

// NoopLogger implements Logger with no logging at all.
type NoopLogger struct{}

// Report implements Logger.Report.
func (NoopLogger) Report(m *Manager, event LogEvent) {}
