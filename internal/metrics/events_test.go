package metrics

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/NexusMissions_Go/internal/domain"
	"github.com/osse101/NexusMissions_Go/internal/event"
)

func TestEventMetricsCollector_Resolved(t *testing.T) {
	collector := NewEventMetricsCollector()
	bus := event.NewMemoryBus()
	require.NoError(t, collector.Register(bus))

	m := domain.MissionDefinition{ID: uuid.New(), Title: "Patrol", Reward: 40}
	userID := uuid.New()

	successBefore := testutil.ToFloat64(MissionsResolved.WithLabelValues(OutcomeSuccess))
	failureBefore := testutil.ToFloat64(MissionsResolved.WithLabelValues(OutcomeFailure))
	debugBefore := testutil.ToFloat64(MissionsResolved.WithLabelValues(OutcomeDebug))
	creditedBefore := testutil.ToFloat64(CurrencyCredited)

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, event.NewMissionResolvedEvent(userID, domain.MissionResult{Mission: m, IsSuccess: true}, false)))
	require.NoError(t, bus.Publish(ctx, event.NewMissionResolvedEvent(userID, domain.MissionResult{Mission: m, IsSuccess: false}, false)))
	require.NoError(t, bus.Publish(ctx, event.NewMissionResolvedEvent(userID, domain.MissionResult{Mission: m, IsSuccess: true}, true)))

	assert.Equal(t, successBefore+1, testutil.ToFloat64(MissionsResolved.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, failureBefore+1, testutil.ToFloat64(MissionsResolved.WithLabelValues(OutcomeFailure)))
	assert.Equal(t, debugBefore+1, testutil.ToFloat64(MissionsResolved.WithLabelValues(OutcomeDebug)))
	assert.Equal(t, creditedBefore+40, testutil.ToFloat64(CurrencyCredited))
}

func TestEventMetricsCollector_StartedAndReady(t *testing.T) {
	collector := NewEventMetricsCollector()
	bus := event.NewMemoryBus()
	require.NoError(t, collector.Register(bus))

	startedBefore := testutil.ToFloat64(MissionsStarted)
	readyBefore := testutil.ToFloat64(MissionsReady)

	m := domain.MissionDefinition{ID: uuid.New(), Title: "Patrol", DurationHours: 1}
	userID := uuid.New()
	a := domain.NewMissionAssignment(userID, m, testNow)

	require.NoError(t, bus.Publish(context.Background(), event.NewMissionStartedEvent(a, m)))
	require.NoError(t, bus.Publish(context.Background(), event.NewMissionReadyEvent(userID, m)))

	assert.Equal(t, startedBefore+1, testutil.ToFloat64(MissionsStarted))
	assert.Equal(t, readyBefore+1, testutil.ToFloat64(MissionsReady))
}

func TestEventMetricsCollector_MalformedPayload(t *testing.T) {
	collector := NewEventMetricsCollector()
	errorsBefore := testutil.ToFloat64(EventHandlerErrors.WithLabelValues(string(event.MissionResolved)))

	err := collector.HandleEvent(context.Background(), event.Event{Type: event.MissionResolved, Payload: "garbage"})

	assert.NoError(t, err)
	assert.Equal(t, errorsBefore+1, testutil.ToFloat64(EventHandlerErrors.WithLabelValues(string(event.MissionResolved))))
}
