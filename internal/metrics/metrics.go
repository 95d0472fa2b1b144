package metrics

import (
	"sort"
	"sync"
	"time"
)

const maxSamples = 1000

type Metrics struct {
	mutex          sync.RWMutex
	requests       int64
	outcomes       map[Outcome]int64
	upstreamTimes  []time.Duration
	upstreamStatus map[int]int64
	upstreamErrors int64
	startTime      time.Time
}

type Snapshot struct {
	TotalRequests int64             `json:"total_requests"`
	Uptime        time.Duration     `json:"uptime"`
	Outcomes      map[Outcome]int64 `json:"outcomes"`
	Upstream      UpstreamMetrics   `json:"upstream"`
}

type UpstreamMetrics struct {
	Calls           int64         `json:"calls"`
	TransportErrors int64         `json:"transport_errors"`
	AvgResponse     time.Duration `json:"avg_response"`
	P50Response     time.Duration `json:"p50_response"`
	P95Response     time.Duration `json:"p95_response"`
	P99Response     time.Duration `json:"p99_response"`
	StatusCodes     map[int]int64 `json:"status_codes"`
}

func (m *Metrics) IncrementRequests() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.requests++
}

func (m *Metrics) RecordOutcome(outcome Outcome) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.outcomes[outcome]++
}

// RecordUpstream stores one upstream call. A zero statusCode means no HTTP
// response was received.
func (m *Metrics) RecordUpstream(duration time.Duration, statusCode int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.upstreamTimes = append(m.upstreamTimes, duration)
	if len(m.upstreamTimes) > maxSamples {
		m.upstreamTimes = m.upstreamTimes[1:]
	}

	if statusCode == 0 {
		m.upstreamErrors++
		return
	}
	m.upstreamStatus[statusCode]++
}

func (m *Metrics) Snapshot() Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := Snapshot{
		TotalRequests: m.requests,
		Uptime:        time.Since(m.startTime),
		Outcomes:      make(map[Outcome]int64, len(m.outcomes)),
		Upstream: UpstreamMetrics{
			TransportErrors: m.upstreamErrors,
			StatusCodes:     make(map[int]int64, len(m.upstreamStatus)),
		},
	}

	for outcome, n := range m.outcomes {
		snap.Outcomes[outcome] = n
	}
	for code, n := range m.upstreamStatus {
		snap.Upstream.StatusCodes[code] = n
		snap.Upstream.Calls += n
	}
	snap.Upstream.Calls += m.upstreamErrors

	if len(m.upstreamTimes) > 0 {
		sorted := make([]time.Duration, len(m.upstreamTimes))
		copy(sorted, m.upstreamTimes)
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i] < sorted[j]
		})

		snap.Upstream.AvgResponse = average(sorted)
		snap.Upstream.P50Response = percentile(sorted, 0.50)
		snap.Upstream.P95Response = percentile(sorted, 0.95)
		snap.Upstream.P99Response = percentile(sorted, 0.99)
	}

	return snap
}

func NewMetrics() *Metrics {
	return &Metrics{
		outcomes:       make(map[Outcome]int64),
		upstreamStatus: make(map[int]int64),
		startTime:      time.Now(),
	}
}

func average(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	return sum / time.Duration(len(durations))
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}
