/*
 * @Author: NEFU AB-IN
 * @Date: 2026-10-14 10:36:03
 * @FilePath: \dashboard-catalog\backend\internal\infra\metrics\metrics.go
 * @LastEditTime: 2026-10-15 11:31:43
 */
package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	registerOnce       sync.Once
	apiRequests        *prometheus.CounterVec
	apiDuration        *prometheus.HistogramVec
	validationFailures *prometheus.CounterVec
	rateLimited        *prometheus.CounterVec
)

const (
	namespaceMetrics = "dashboard_catalog"
)

// 结果标签取值。
const (
	ResultOK         = "ok"
	ResultInvalid    = "invalid"
	ResultNotFound   = "not_found"
	ResultError      = "error"
	ResultConstraint = "constraint"
)

// MustRegister 初始化 Prometheus 指标并注册 Go 运行时采样器，需在应用启动阶段调用一次。
func MustRegister() {
	registerOnce.Do(func() {
		apiRequests = registerCounterVec(
			prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: namespaceMetrics,
					Subsystem: "api",
					Name:      "requests_total",
					Help:      "看板接口调用次数，按操作与结果统计。",
				},
				[]string{"operation", "result"},
			),
		)
		apiDuration = registerHistogramVec(
			prometheus.NewHistogramVec(
				prometheus.HistogramOpts{
					Namespace: namespaceMetrics,
					Subsystem: "api",
					Name:      "duration_seconds",
					Help:      "看板接口处理耗时，按操作区分。",
					Buckets:   prometheus.DefBuckets,
				},
				[]string{"operation"},
			),
		)
		validationFailures = registerCounterVec(
			prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: namespaceMetrics,
					Subsystem: "validation",
					Name:      "failures_total",
					Help:      "提交数据校验失败次数，按字段统计。",
				},
				[]string{"field"},
			),
		)
		rateLimited = registerCounterVec(
			prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: namespaceMetrics,
					Subsystem: "ratelimit",
					Name:      "rejections_total",
					Help:      "被限流拒绝的请求数，按路由统计。",
				},
				[]string{"route"},
			),
		)

		registerRuntimeCollectors()
	})
}

// ObserveRequest 记录一次接口调用的结果与耗时。
func ObserveRequest(operation, result string, duration time.Duration) {
	if apiRequests == nil || apiDuration == nil {
		return
	}
	op := normalizeLabel(operation, "unknown")
	apiRequests.WithLabelValues(op, normalizeLabel(result, "unknown")).Inc()
	apiDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordValidationFailure 记录校验失败的字段。
func RecordValidationFailure(field string) {
	if validationFailures == nil {
		return
	}
	validationFailures.WithLabelValues(normalizeLabel(field, "unknown")).Inc()
}

// RecordRateLimited 记录限流拒绝。
func RecordRateLimited(route string) {
	if rateLimited == nil {
		return
	}
	rateLimited.WithLabelValues(normalizeLabel(route, "unmatched")).Inc()
}

func normalizeLabel(value string, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func registerCounterVec(vec *prometheus.CounterVec) *prometheus.CounterVec {
	if err := prometheus.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing
			}
		}
		panic(err)
	}
	return vec
}

func registerHistogramVec(vec *prometheus.HistogramVec) *prometheus.HistogramVec {
	if err := prometheus.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing
			}
		}
		panic(err)
	}
	return vec
}

func registerRuntimeCollectors() {
	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := prometheus.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				panic(err)
			}
		}
	}
}
