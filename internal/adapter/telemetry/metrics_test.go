package telemetry

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
)

func TestAppMetrics_Counters(t *testing.T) {
	RegisterTestingT(t)
	ctx := context.Background()
	metrics := NewAppMetrics(prometheus.NewRegistry())

	metrics.RecordTodoOperation(ctx, "create")
	metrics.RecordTodoOperation(ctx, "create")
	metrics.RecordHistoryEntry(ctx)
	metrics.RecordCacheHit(ctx, "weather")
	metrics.RecordCacheMiss(ctx, "weather")
	metrics.RecordRequest(ctx, "GET", "/api/todos", 200, 10*time.Millisecond)

	Expect(testutil.ToFloat64(metrics.todoOperations.WithLabelValues("create"))).To(Equal(2.0))
	Expect(testutil.ToFloat64(metrics.historyEntries)).To(Equal(1.0))
	Expect(testutil.ToFloat64(metrics.cacheHits.WithLabelValues("weather"))).To(Equal(1.0))
	Expect(testutil.ToFloat64(metrics.requestTotal.WithLabelValues("GET", "/api/todos", "200"))).To(Equal(1.0))
}

func TestNewContainer_WithoutExport(t *testing.T) {
	RegisterTestingT(t)

	container, err := NewContainer(context.Background(), Config{
		ServiceName:    "serenity-test",
		ServiceVersion: "test",
		Environment:    "test",
	}, zap.NewNop())

	Expect(err).To(BeNil())
	Expect(container.MetricsServer).To(BeNil())

	container.AppMetrics.RecordUserOperation(context.Background(), "login")

	count, err := testutil.GatherAndCount(container.PrometheusRegistry, "user_operations_total")
	Expect(err).To(BeNil())
	Expect(count).To(Equal(1))

	Expect(container.Shutdown(context.Background())).To(Succeed())
}
