package health

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Composite is the gateway's aggregated health: healthy iff every upstream
// reported healthy, degraded otherwise.
type Composite struct {
	Status   string            `json:"status"`
	Services map[string]Report `json:"services"`
}

// Healthy reports whether every upstream probe succeeded.
func (c Composite) Healthy() bool { return c.Status == StatusHealthy }

// Aggregator fans probes out to all configured targets and merges the
// results. Results are computed fresh on every call; nothing is cached.
type Aggregator struct {
	prober  *Prober
	targets []Target
	log     *zap.Logger
}

func NewAggregator(prober *Prober, targets []Target, log *zap.Logger) *Aggregator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Aggregator{prober: prober, targets: targets, log: log}
}

// Check probes all targets concurrently and waits for every probe to finish,
// so aggregate latency is the slowest probe, not the sum.
func (a *Aggregator) Check(ctx context.Context) Composite {
	reports := make([]Report, len(a.targets))

	var wg sync.WaitGroup
	for i, t := range a.targets {
		wg.Add(1)
		go func(i int, t Target) {
			defer wg.Done()
			reports[i] = a.prober.Probe(ctx, t)
		}(i, t)
	}
	wg.Wait()

	comp := Composite{Status: StatusHealthy, Services: make(map[string]Report, len(reports))}
	for _, rep := range reports {
		comp.Services[rep.Name] = rep
		if rep.Status != StatusHealthy {
			comp.Status = StatusDegraded
			a.log.Error("upstream unhealthy",
				zap.String("service", rep.Name),
				zap.String("error", rep.Error))
		}
	}
	return comp
}
