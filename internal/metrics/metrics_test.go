package metrics_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/brand-strategist/internal/metrics"
)

var _ = Describe("Metrics", func() {
	var m *metrics.Metrics

	BeforeEach(func() {
		m = metrics.NewMetrics()
	})

	Describe("IncrementRequests", func() {
		It("should count received requests", func() {
			m.IncrementRequests()
			m.IncrementRequests()

			Expect(m.Snapshot().TotalRequests).To(Equal(int64(2)))
		})
	})

	Describe("RecordOutcome", func() {
		It("should count outcomes separately", func() {
			m.RecordOutcome(metrics.OutcomeSuccess)
			m.RecordOutcome(metrics.OutcomeSuccess)
			m.RecordOutcome(metrics.OutcomeInvalidBody)

			snap := m.Snapshot()
			Expect(snap.Outcomes[metrics.OutcomeSuccess]).To(Equal(int64(2)))
			Expect(snap.Outcomes[metrics.OutcomeInvalidBody]).To(Equal(int64(1)))
			Expect(snap.Outcomes).NotTo(HaveKey(metrics.OutcomeUpstreamError))
		})
	})

	Describe("RecordUpstream", func() {
		It("should record latency and status codes", func() {
			m.RecordUpstream(100*time.Millisecond, 200)
			m.RecordUpstream(200*time.Millisecond, 200)
			m.RecordUpstream(300*time.Millisecond, 500)

			snap := m.Snapshot()
			Expect(snap.Upstream.Calls).To(Equal(int64(3)))
			Expect(snap.Upstream.AvgResponse).To(Equal(200 * time.Millisecond))
			Expect(snap.Upstream.StatusCodes[200]).To(Equal(int64(2)))
			Expect(snap.Upstream.StatusCodes[500]).To(Equal(int64(1)))
		})

		It("should count calls without a response as transport errors", func() {
			m.RecordUpstream(50*time.Millisecond, 0)

			snap := m.Snapshot()
			Expect(snap.Upstream.TransportErrors).To(Equal(int64(1)))
			Expect(snap.Upstream.Calls).To(Equal(int64(1)))
			Expect(snap.Upstream.StatusCodes).To(BeEmpty())
		})

		It("should calculate percentiles correctly", func() {
			for i := 1; i <= 100; i++ {
				m.RecordUpstream(time.Duration(i)*time.Millisecond, 200)
			}

			snap := m.Snapshot()
			Expect(snap.Upstream.P50Response).To(BeNumerically("~", 50*time.Millisecond, 1*time.Millisecond))
			Expect(snap.Upstream.P95Response).To(BeNumerically("~", 95*time.Millisecond, 1*time.Millisecond))
			Expect(snap.Upstream.P99Response).To(BeNumerically("~", 99*time.Millisecond, 1*time.Millisecond))
		})

		It("should limit stored latencies to 1000", func() {
			for i := 1; i <= 1500; i++ {
				m.RecordUpstream(time.Duration(i)*time.Millisecond, 200)
			}

			snap := m.Snapshot()
			Expect(snap.Upstream.AvgResponse).To(BeNumerically(">", 500*time.Millisecond))
			Expect(snap.Upstream.Calls).To(Equal(int64(1500)))
		})
	})

	Describe("Snapshot", func() {
		It("should include uptime", func() {
			time.Sleep(10 * time.Millisecond)
			Expect(m.Snapshot().Uptime).To(BeNumerically(">", 0))
		})

		It("should handle empty metrics", func() {
			snap := m.Snapshot()
			Expect(snap.TotalRequests).To(Equal(int64(0)))
			Expect(snap.Outcomes).To(BeEmpty())
			Expect(snap.Upstream.AvgResponse).To(BeZero())
		})

		It("should return independent snapshots", func() {
			m.RecordOutcome(metrics.OutcomeSuccess)
			snap1 := m.Snapshot()
			m.RecordOutcome(metrics.OutcomeSuccess)
			snap2 := m.Snapshot()

			Expect(snap1.Outcomes[metrics.OutcomeSuccess]).To(Equal(int64(1)))
			Expect(snap2.Outcomes[metrics.OutcomeSuccess]).To(Equal(int64(2)))
		})
	})
})
