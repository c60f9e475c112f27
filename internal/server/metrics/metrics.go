// Package metrics counts operation outcomes and durations with go-metrics
// and exposes them as expvar JSON.
package metrics

import (
	"net/http"
	"time"

	gometrics "github.com/rcrowley/go-metrics"
	"github.com/rcrowley/go-metrics/exp"
)

type Registry struct {
	r gometrics.Registry
}

func NewRegistry() *Registry {
	return &Registry{r: gometrics.NewRegistry()}
}

// Handler serves the registry in expvar format.
func (m *Registry) Handler() http.Handler {
	return exp.ExpHandler(m.r)
}

// Op returns the counters for an operation, registering them on first use.
func (m *Registry) Op(name string) *Op {
	return &Op{
		Success: gometrics.GetOrRegisterCounter("service."+name+".success", m.r),
		Failure: gometrics.GetOrRegisterCounter("service."+name+".failure", m.r),
		Timer:   gometrics.GetOrRegisterTimer("service."+name+".timer", m.r),
	}
}

// Op is a success/failure counter pair plus a timer.
type Op struct {
	Success gometrics.Counter
	Failure gometrics.Counter
	Timer   gometrics.Timer
}

// Observe records the outcome of a call that started at start and returns
// err unchanged, so it can wrap a return statement.
func (o *Op) Observe(start time.Time, err error) error {
	o.Timer.UpdateSince(start)
	if err != nil {
		o.Failure.Inc(1)
	} else {
		o.Success.Inc(1)
	}
	return err
}
