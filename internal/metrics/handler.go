package metrics

import (
	"encoding/json"
	"math"
	"net/http"
	"sort"
	"time"

	dto "github.com/prometheus/client_model/go"
)

// Summary is the JSON response for the metrics endpoint.
type Summary struct {
	Mode     string         `json:"mode"`
	HTTP     httpSummary    `json:"http"`
	Backend  backendSummary `json:"backend"`
	Schedule scheduleInfo   `json:"schedule"`
	Auth     authInfo       `json:"auth"`
	Server   serverInfo     `json:"server"`
}

type httpSummary struct {
	TotalRequests float64 `json:"totalRequests"`
	ErrorRate     float64 `json:"errorRate"`
	P50Latency    float64 `json:"p50Latency"`
	P95Latency    float64 `json:"p95Latency"`
	P99Latency    float64 `json:"p99Latency"`
}

type backendSummary struct {
	TotalRequests  float64 `json:"totalRequests"`
	ErrorRate      float64 `json:"errorRate"`
	P50Latency     float64 `json:"p50Latency"`
	P95Latency     float64 `json:"p95Latency"`
	DroppedRecords float64 `json:"droppedRecords"`
}

type scheduleInfo struct {
	WeeksFinalized        float64 `json:"weeksFinalized"`
	WeeksReopened         float64 `json:"weeksReopened"`
	EligibilityRejections float64 `json:"eligibilityRejections"`
}

type authInfo struct {
	Failures       float64 `json:"failures"`
	Successes      float64 `json:"successes"`
	ActiveSessions float64 `json:"activeSessions"`
}

type serverInfo struct {
	StartTime     float64 `json:"startTime"`
	UptimeSeconds float64 `json:"uptimeSeconds"`
}

// Handler returns an http.HandlerFunc that serves live metrics in JSON format.
func (m *Metrics) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.handleLive(w)
	}
}

func (m *Metrics) handleLive(w http.ResponseWriter) {
	families, err := m.registry.Gather()
	if err != nil {
		http.Error(w, "failed to gather metrics", http.StatusInternalServerError)
		return
	}

	fam := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		fam[f.GetName()] = f
	}

	summary := Summary{
		Mode: "live",
		HTTP: httpSummary{
			TotalRequests: sumCounter(fam["shiftdesk_http_requests_total"]),
			ErrorRate:     computeErrorRate(fam["shiftdesk_http_requests_total"]),
			P50Latency:    histogramPercentile(fam["shiftdesk_http_request_duration_seconds"], 0.50),
			P95Latency:    histogramPercentile(fam["shiftdesk_http_request_duration_seconds"], 0.95),
			P99Latency:    histogramPercentile(fam["shiftdesk_http_request_duration_seconds"], 0.99),
		},
		Backend: backendSummary{
			TotalRequests:  sumCounter(fam["shiftdesk_backend_requests_total"]),
			ErrorRate:      backendErrorRate(fam["shiftdesk_backend_requests_total"]),
			P50Latency:     histogramPercentile(fam["shiftdesk_backend_request_duration_seconds"], 0.50),
			P95Latency:     histogramPercentile(fam["shiftdesk_backend_request_duration_seconds"], 0.95),
			DroppedRecords: sumCounter(fam["shiftdesk_backend_dropped_records_total"]),
		},
		Schedule: scheduleInfo{
			WeeksFinalized:        counterWithLabel(fam["shiftdesk_lock_transitions_total"], "status", "final"),
			WeeksReopened:         counterWithLabel(fam["shiftdesk_lock_transitions_total"], "status", "draft"),
			EligibilityRejections: counterValue(fam["shiftdesk_eligibility_rejections_total"]),
		},
		Auth: authInfo{
			Failures:       counterValue(fam["shiftdesk_auth_failures_total"]),
			Successes:      counterValue(fam["shiftdesk_auth_successes_total"]),
			ActiveSessions: gaugeValue(fam["shiftdesk_active_sessions"]),
		},
		Server: serverInfo{
			StartTime:     gaugeValue(fam["shiftdesk_server_start_time_seconds"]),
			UptimeSeconds: float64(time.Now().Unix()) - gaugeValue(fam["shiftdesk_server_start_time_seconds"]),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store")
	_ = json.NewEncoder(w).Encode(summary)
}

// --- Prometheus metric helpers ---

func sumCounter(f *dto.MetricFamily) float64 {
	if f == nil {
		return 0
	}
	var total float64
	for _, m := range f.GetMetric() {
		if m.GetCounter() != nil {
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func gaugeValue(f *dto.MetricFamily) float64 {
	if f == nil {
		return 0
	}
	ms := f.GetMetric()
	if len(ms) == 0 {
		return 0
	}
	if ms[0].GetGauge() != nil {
		return ms[0].GetGauge().GetValue()
	}
	return 0
}

func counterValue(f *dto.MetricFamily) float64 {
	if f == nil {
		return 0
	}
	ms := f.GetMetric()
	if len(ms) == 0 {
		return 0
	}
	if ms[0].GetCounter() != nil {
		return ms[0].GetCounter().GetValue()
	}
	return 0
}

func counterWithLabel(f *dto.MetricFamily, labelName, labelValue string) float64 {
	if f == nil {
		return 0
	}
	for _, m := range f.GetMetric() {
		for _, lp := range m.GetLabel() {
			if lp.GetName() == labelName && lp.GetValue() == labelValue {
				if m.GetCounter() != nil {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

// computeErrorRate treats 4xx and 5xx status codes as errors.
func computeErrorRate(f *dto.MetricFamily) float64 {
	if f == nil {
		return 0
	}
	var total, errors float64
	for _, m := range f.GetMetric() {
		if m.GetCounter() == nil {
			continue
		}
		v := m.GetCounter().GetValue()
		total += v
		for _, lp := range m.GetLabel() {
			if lp.GetName() == "status_code" {
				code := lp.GetValue()
				if len(code) > 0 && code[0] >= '4' {
					errors += v
				}
			}
		}
	}
	if total == 0 {
		return 0
	}
	return errors / total
}

// backendErrorRate treats every outcome other than "ok" as an error.
func backendErrorRate(f *dto.MetricFamily) float64 {
	if f == nil {
		return 0
	}
	var total, errors float64
	for _, m := range f.GetMetric() {
		if m.GetCounter() == nil {
			continue
		}
		v := m.GetCounter().GetValue()
		total += v
		for _, lp := range m.GetLabel() {
			if lp.GetName() == "outcome" && lp.GetValue() != "ok" {
				errors += v
			}
		}
	}
	if total == 0 {
		return 0
	}
	return errors / total
}

// histogramPercentile computes a percentile from aggregated histogram buckets
// using linear interpolation.
func histogramPercentile(f *dto.MetricFamily, q float64) float64 {
	if f == nil {
		return 0
	}

	// Aggregate all histogram metrics in the family.
	type bucket struct {
		upperBound      float64
		cumulativeCount uint64
	}
	var totalCount uint64
	bucketMap := make(map[float64]uint64)

	for _, m := range f.GetMetric() {
		h := m.GetHistogram()
		if h == nil {
			continue
		}
		totalCount += h.GetSampleCount()
		for _, b := range h.GetBucket() {
			bucketMap[b.GetUpperBound()] += b.GetCumulativeCount()
		}
	}

	if totalCount == 0 {
		return 0
	}

	buckets := make([]bucket, 0, len(bucketMap))
	for ub, count := range bucketMap {
		buckets = append(buckets, bucket{upperBound: ub, cumulativeCount: count})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].upperBound < buckets[j].upperBound
	})

	rank := q * float64(totalCount)

	var prevBound float64
	var prevCount uint64
	for _, b := range buckets {
		if math.IsInf(b.upperBound, 1) {
			break
		}
		if float64(b.cumulativeCount) >= rank {
			// Linear interpolation within this bucket.
			bucketCount := b.cumulativeCount - prevCount
			if bucketCount == 0 {
				return b.upperBound
			}
			fraction := (rank - float64(prevCount)) / float64(bucketCount)
			return prevBound + fraction*(b.upperBound-prevBound)
		}
		prevBound = b.upperBound
		prevCount = b.cumulativeCount
	}

	// If we didn't find it, return the last finite bucket upper bound.
	if len(buckets) > 0 {
		for i := len(buckets) - 1; i >= 0; i-- {
			if !math.IsInf(buckets[i].upperBound, 1) {
				return buckets[i].upperBound
			}
		}
	}
	return 0
}
