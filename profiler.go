package lightpass

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Profiler accumulates wall time per named scope. A nil *Profiler is valid
// and records nothing.
type Profiler struct {
	Scopes     map[string]time.Duration
	StartTimes map[string]time.Time
	Counts     map[string]int
	Order      []string
}

func NewProfiler() *Profiler {
	return &Profiler{
		Scopes:     make(map[string]time.Duration),
		StartTimes: make(map[string]time.Time),
		Counts:     make(map[string]int),
		Order:      make([]string, 0),
	}
}

func (p *Profiler) BeginScope(name string) {
	if p == nil {
		return
	}
	p.StartTimes[name] = time.Now()
	if _, seen := p.Counts[name]; !seen {
		p.Order = append(p.Order, name)
	}
}

// EndScope adds the time since BeginScope and bumps the scope's call count.
func (p *Profiler) EndScope(name string) {
	if p == nil {
		return
	}
	if start, ok := p.StartTimes[name]; ok {
		p.Scopes[name] += time.Since(start)
		p.Counts[name]++
		delete(p.StartTimes, name)
	}
}

func (p *Profiler) Reset() {
	if p == nil {
		return
	}
	for k := range p.Scopes {
		p.Scopes[k] = 0
	}
	for k := range p.Counts {
		p.Counts[k] = 0
	}
}

func (p *Profiler) GetStatsString() string {
	if p == nil {
		return ""
	}
	var sb strings.Builder

	sb.WriteString("Timings (total / mean):\n")
	for _, name := range p.Order {
		dur := p.Scopes[name]
		n := p.Counts[name]
		mean := 0.0
		if n > 0 {
			mean = float64(dur.Microseconds()) / 1000.0 / float64(n)
		}
		sb.WriteString(fmt.Sprintf("  %-15s: %.2f ms / %.3f ms\n", name, float64(dur.Microseconds())/1000.0, mean))
	}

	sb.WriteString("\nCalls:\n")
	keys := make([]string, 0, len(p.Counts))
	for k := range p.Counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("  %-15s: %d\n", k, p.Counts[k]))
	}

	return sb.String()
}

type ProfilerModule struct{}

func (ProfilerModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(NewProfiler())
}
