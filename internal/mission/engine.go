package mission

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/osse101/NexusMissions_Go/internal/clock"
	"github.com/osse101/NexusMissions_Go/internal/domain"
	"github.com/osse101/NexusMissions_Go/internal/event"
	"github.com/osse101/NexusMissions_Go/internal/logger"
	"github.com/osse101/NexusMissions_Go/internal/notify"
	"github.com/osse101/NexusMissions_Go/internal/repository"
)

// Deps are the collaborators shared by every engine
type Deps struct {
	Gateway   repository.Mission
	Alerts    notify.Scheduler
	Publisher event.Publisher
	Session   SessionProvider
	Clock     clock.Clock
	Roller    Roller
}

func (d Deps) withDefaults() Deps {
	if d.Session == nil {
		d.Session = ContextSession{}
	}
	if d.Clock == nil {
		d.Clock = clock.NewRealClock()
	}
	if d.Roller == nil {
		d.Roller = NewRandomRoller()
	}
	return d
}

// Engine owns one user's mission state: the catalog, their assignments,
// the derived available/active/completed lists and the countdowns.
// All state changes happen under mu; remote calls happen outside it.
type Engine struct {
	userID uuid.UUID
	deps   Deps

	issued atomic.Uint64 // last load generation handed out

	mu         sync.Mutex
	catalog    []domain.MissionDefinition
	available  []domain.MissionDefinition
	active     []domain.MissionDefinition
	completed  []domain.MissionDefinition
	supervisor *Supervisor
	armed      map[uuid.UUID]time.Time // mission id -> fire time of the alert this engine armed
	resolving  map[uuid.UUID]struct{}  // missions with a resolution in flight
	lastResult *domain.MissionResult
	errMsg     string
	userLevel  int
	loadedAt   *time.Time
	generation uint64 // generation of the applied snapshot
}

// NewEngine creates an engine for userID with empty state. Call
// LoadAllMissions or Reload before use.
func NewEngine(userID uuid.UUID, deps Deps) *Engine {
	return &Engine{
		userID:     userID,
		deps:       deps.withDefaults(),
		supervisor: NewSupervisor(),
		armed:      make(map[uuid.UUID]time.Time),
		resolving:  make(map[uuid.UUID]struct{}),
	}
}

// AlertKey is the stable alert key for a mission
func AlertKey(missionID uuid.UUID) string {
	return AlertKeyPrefix + missionID.String()
}

// UserID returns the user this engine serves
func (e *Engine) UserID() uuid.UUID {
	return e.userID
}

type alertPlan struct {
	arm    []notify.Alert
	cancel []string
}

// Reload fetches the user's level from their profile and reloads
func (e *Engine) Reload(ctx context.Context) error {
	profile, err := e.deps.Gateway.GetProfile(ctx, e.userID)
	if err != nil {
		e.setError(ErrMsgLoadFailed)
		return fmt.Errorf("failed to get profile: %w", err)
	}
	return e.LoadAllMissions(ctx, profile.Level)
}

// LoadAllMissions fetches the catalog and the user's assignments
// concurrently, then atomically swaps in the derived lists and rebuilds
// every countdown. A load that finishes after a newer one has been applied
// is discarded. On failure the previous lists are kept and an error
// message is recorded.
func (e *Engine) LoadAllMissions(ctx context.Context, userLevel int) error {
	log := logger.FromContext(ctx)
	gen := e.issued.Add(1)
	start := time.Now()

	log.Debug(LogMsgLoadStarted, "user_id", e.userID, "generation", gen)

	var (
		catalog     []domain.MissionDefinition
		assignments []domain.MissionAssignment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		catalog, err = e.deps.Gateway.FetchCatalog(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		assignments, err = e.deps.Gateway.FetchAssignments(gctx, e.userID)
		return err
	})

	if err := g.Wait(); err != nil {
		e.mu.Lock()
		if gen > e.generation {
			e.errMsg = ErrMsgLoadFailed
		}
		e.mu.Unlock()
		log.Error(LogMsgLoadFailed, "user_id", e.userID, "generation", gen, "error", err)
		return fmt.Errorf("failed to load missions: %w", err)
	}

	e.mu.Lock()
	if gen <= e.generation {
		e.mu.Unlock()
		log.Debug(LogMsgLoadDiscardedStale, "user_id", e.userID, "generation", gen)
		return nil
	}

	now := e.deps.Clock.Now()
	active, completed, _ := partition(catalog, assignments)

	e.catalog = catalog
	e.active = active
	e.completed = completed
	e.available = ComputeAvailable(catalog, assignments, userLevel)
	e.supervisor.Reset(assignments)
	e.userLevel = userLevel
	e.errMsg = ""
	e.loadedAt = &now
	e.generation = gen

	plan := e.planAlertsLocked(assignments, now)
	snapshot := e.snapshotLocked(now)
	e.mu.Unlock()

	e.applyAlertPlan(ctx, plan)

	log.Debug(LogMsgLoadApplied,
		"user_id", e.userID,
		"generation", gen,
		"available", len(snapshot.AvailableMissions),
		"active", len(snapshot.ActiveMissions),
		"completed", len(snapshot.CompletedMissions))

	reloaded := event.NewMissionReloadedEvent(snapshot)
	if payload, ok := reloaded.Payload.(domain.MissionReloadedPayload); ok {
		payload.DurationMs = time.Since(start).Milliseconds()
		reloaded.Payload = payload
	}
	e.publish(ctx, reloaded)
	return nil
}

// planAlertsLocked arms alerts for active missions this engine has not
// armed yet and cancels alerts for missions that are no longer active.
func (e *Engine) planAlertsLocked(assignments []domain.MissionAssignment, now time.Time) alertPlan {
	var plan alertPlan
	stillActive := make(map[uuid.UUID]struct{}, len(assignments))

	for _, a := range assignments {
		if !a.IsActive() {
			continue
		}
		m, ok := findByID(e.catalog, a.MissionID)
		if !ok {
			continue
		}
		stillActive[a.MissionID] = struct{}{}

		if fireAt, armed := e.armed[a.MissionID]; armed && fireAt.Equal(a.FinishAt) {
			continue
		}
		if !a.FinishAt.After(now) {
			continue
		}
		e.armed[a.MissionID] = a.FinishAt
		plan.arm = append(plan.arm, e.alertFor(m, a.FinishAt))
	}

	for id := range e.armed {
		if _, ok := stillActive[id]; !ok {
			delete(e.armed, id)
			plan.cancel = append(plan.cancel, AlertKey(id))
		}
	}
	return plan
}

func (e *Engine) alertFor(m domain.MissionDefinition, fireAt time.Time) notify.Alert {
	return notify.Alert{
		Key:    AlertKey(m.ID),
		UserID: e.userID,
		Title:  AlertTitle,
		Body:   fmt.Sprintf(AlertBodyFormat, m.Title),
		FireAt: fireAt,
	}
}

func (e *Engine) applyAlertPlan(ctx context.Context, plan alertPlan) {
	if e.deps.Alerts == nil {
		return
	}
	log := logger.FromContext(ctx)
	for _, key := range plan.cancel {
		if err := e.deps.Alerts.CancelAlert(ctx, e.userID, key); err != nil {
			log.Warn(LogMsgAlertCancelFailed, "user_id", e.userID, "key", key, "error", err)
		}
	}
	for _, alert := range plan.arm {
		if err := e.deps.Alerts.ScheduleAlert(ctx, alert); err != nil {
			log.Warn(LogMsgAlertScheduleFailed, "user_id", e.userID, "key", alert.Key, "error", err)
		}
	}
}

// StartMission creates an assignment for an available mission, arms its
// alert and reloads. Nothing changes locally when the insert fails.
func (e *Engine) StartMission(ctx context.Context, missionID uuid.UUID) (*domain.MissionAssignment, error) {
	log := logger.FromContext(ctx)

	if err := e.requireSession(ctx); err != nil {
		return nil, err
	}

	e.mu.Lock()
	mission, err := e.lookupStartableLocked(missionID)
	if err != nil {
		e.errMsg = ErrMsgStartFailed
		e.mu.Unlock()
		return nil, err
	}
	level := e.userLevel
	e.mu.Unlock()

	assignment := domain.NewMissionAssignment(e.userID, mission, e.deps.Clock.Now().Truncate(time.Microsecond))
	if err := e.deps.Gateway.InsertAssignment(ctx, assignment); err != nil {
		e.setError(ErrMsgStartFailed)
		log.Error(LogMsgStartFailed, "user_id", e.userID, "mission_id", missionID, "error", err)
		return nil, fmt.Errorf("failed to start mission %s: %w", missionID, err)
	}

	// The row exists now; finish even if the caller goes away.
	ctx = context.WithoutCancel(ctx)

	e.mu.Lock()
	e.armed[mission.ID] = assignment.FinishAt
	e.mu.Unlock()
	e.applyAlertPlan(ctx, alertPlan{arm: []notify.Alert{e.alertFor(mission, assignment.FinishAt)}})

	log.Info(LogMsgMissionStarted, "user_id", e.userID, "mission_id", missionID, "finish_at", assignment.FinishAt)
	e.publish(ctx, event.NewMissionStartedEvent(assignment, mission))

	if err := e.LoadAllMissions(ctx, level); err != nil {
		log.Warn(LogMsgLoadFailed, "user_id", e.userID, "error", err)
	}
	return &assignment, nil
}

func (e *Engine) lookupStartableLocked(missionID uuid.UUID) (domain.MissionDefinition, error) {
	if m, ok := findByID(e.available, missionID); ok {
		return m, nil
	}
	if _, ok := findByID(e.active, missionID); ok {
		return domain.MissionDefinition{}, domain.ErrMissionAlreadyActive
	}
	if _, ok := findByID(e.catalog, missionID); ok {
		return domain.MissionDefinition{}, domain.ErrMissionNotAvailable
	}
	return domain.MissionDefinition{}, domain.ErrMissionNotFound
}

// CompleteMission rolls for an active mission and applies the outcome.
//
// The result is recorded and published before any remote call. Success
// marks the assignment complete and credits the reward in one idempotent
// write; failure deletes the assignment and cancels its alert. In debug
// mode the ready gate is bypassed, no remote write is made and an
// inactive mission may be resolved. The engine always reloads afterwards.
//
// Only one resolution per mission runs at a time; a second call made while
// one is in flight fails with domain.ErrResolutionInProgress. Once rolled,
// the write and the reload run to completion even if ctx is cancelled.
//
// When the remote write fails both the result and an error are returned.
func (e *Engine) CompleteMission(ctx context.Context, missionID uuid.UUID, debug bool) (*domain.MissionResult, error) {
	log := logger.FromContext(ctx)

	if err := e.requireSession(ctx); err != nil {
		return nil, err
	}

	e.mu.Lock()
	if _, busy := e.resolving[missionID]; busy {
		e.mu.Unlock()
		return nil, domain.ErrResolutionInProgress
	}
	mission, err := e.lookupCompletableLocked(missionID, debug)
	if err != nil {
		e.errMsg = ErrMsgCompleteFailed
		e.mu.Unlock()
		return nil, err
	}
	finishAt, _ := e.supervisor.FinishAt(missionID)
	result := resolveRoll(mission, e.deps.Roller.Roll())
	e.lastResult = &result
	e.resolving[missionID] = struct{}{}
	level := e.userLevel
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		delete(e.resolving, missionID)
		e.mu.Unlock()
	}()

	ctx = context.WithoutCancel(ctx)

	log.Info(LogMsgMissionResolved,
		"user_id", e.userID,
		"mission_id", missionID,
		"success", result.IsSuccess,
		"roll", result.Roll,
		"chance", mission.EffectiveSuccessChance(),
		"debug", debug)
	e.publish(ctx, event.NewMissionResolvedEvent(e.userID, result, debug))

	var writeErr error
	if !debug {
		writeErr = e.applyResolution(ctx, result, ResolutionKey(e.userID, missionID, finishAt))
		if writeErr != nil {
			log.Error(LogMsgResolutionWriteFail, "user_id", e.userID, "mission_id", missionID, "error", writeErr)
		}
	}

	if err := e.LoadAllMissions(ctx, level); err != nil {
		log.Warn(LogMsgLoadFailed, "user_id", e.userID, "error", err)
	}

	if writeErr != nil {
		e.setError(ErrMsgCompleteFailed)
		return &result, fmt.Errorf("failed to apply result for mission %s: %w", missionID, writeErr)
	}
	return &result, nil
}

func (e *Engine) lookupCompletableLocked(missionID uuid.UUID, debug bool) (domain.MissionDefinition, error) {
	m, ok := findByID(e.active, missionID)
	if !ok && debug {
		m, ok = findByID(e.catalog, missionID)
	}
	if !ok {
		if _, inCatalog := findByID(e.catalog, missionID); inCatalog {
			return domain.MissionDefinition{}, domain.ErrAssignmentNotFound
		}
		return domain.MissionDefinition{}, domain.ErrMissionNotFound
	}
	if !debug && !e.supervisor.IsReady(missionID, e.deps.Clock.Now()) {
		return domain.MissionDefinition{}, domain.ErrMissionNotReady
	}
	return m, nil
}

// ResolutionKey identifies one assignment's reward credit. It is derived
// from the assignment so a retried write for the same run reuses it; a
// restarted mission gets a new finish time and so a new key.
func ResolutionKey(userID, missionID uuid.UUID, finishAt time.Time) uuid.UUID {
	name := userID.String() + "/" + missionID.String() + "/" + finishAt.UTC().Format(time.RFC3339Nano)
	return uuid.NewSHA1(resolutionNamespace, []byte(name))
}

func (e *Engine) applyResolution(ctx context.Context, result domain.MissionResult, key uuid.UUID) error {
	missionID := result.Mission.ID

	if result.IsSuccess {
		return e.deps.Gateway.CompleteWithReward(ctx, e.userID, missionID, result.Mission.Reward, key)
	}

	deleteErr := e.deps.Gateway.DeleteAssignment(ctx, e.userID, missionID)

	e.mu.Lock()
	delete(e.armed, missionID)
	e.mu.Unlock()
	e.applyAlertPlan(ctx, alertPlan{cancel: []string{AlertKey(missionID)}})

	if deleteErr != nil && !errors.Is(deleteErr, domain.ErrAssignmentNotFound) {
		return deleteErr
	}
	return nil
}

// Tick re-evaluates every countdown and returns the missions that became
// ready since the previous tick. Each is announced once.
func (e *Engine) Tick(ctx context.Context) []domain.MissionDefinition {
	e.mu.Lock()
	crossed := e.supervisor.Tick(e.deps.Clock.Now())
	ready := make([]domain.MissionDefinition, 0, len(crossed))
	for _, id := range crossed {
		if m, ok := findByID(e.active, id); ok {
			ready = append(ready, m)
		}
	}
	e.mu.Unlock()

	log := logger.FromContext(ctx)
	for _, m := range ready {
		log.Info(LogMsgMissionReady, "user_id", e.userID, "mission_id", m.ID, "title", m.Title)
		e.publish(ctx, event.NewMissionReadyEvent(e.userID, m))
	}
	return ready
}

// IsReadyToComplete reports whether the mission's countdown has elapsed
func (e *Engine) IsReadyToComplete(missionID uuid.UUID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.supervisor.IsReady(missionID, e.deps.Clock.Now())
}

// RemainingTime returns the time left on an active mission
func (e *Engine) RemainingTime(missionID uuid.UUID) (time.Duration, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.supervisor.Remaining(missionID, e.deps.Clock.Now())
}

// FormattedRemainingTime renders RemainingTime, or "" for untracked missions
func (e *Engine) FormattedRemainingTime(missionID uuid.UUID) string {
	left, ok := e.RemainingTime(missionID)
	if !ok {
		return ""
	}
	return FormatRemaining(left)
}

// DismissResult clears the last resolution result
func (e *Engine) DismissResult() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastResult = nil
}

// Snapshot returns a copy of the current state
func (e *Engine) Snapshot() domain.MissionSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked(e.deps.Clock.Now())
}

func (e *Engine) snapshotLocked(now time.Time) domain.MissionSnapshot {
	s := domain.MissionSnapshot{
		UserID:            e.userID,
		UserLevel:         e.userLevel,
		AvailableMissions: cloneDefs(e.available),
		ActiveMissions:    cloneDefs(e.active),
		CompletedMissions: cloneDefs(e.completed),
		Timers:            e.supervisor.Timers(now),
		ErrorMessage:      e.errMsg,
		Generation:        e.generation,
	}
	if e.lastResult != nil {
		r := *e.lastResult
		s.LastResult = &r
	}
	if e.loadedAt != nil {
		t := *e.loadedAt
		s.LoadedAt = &t
	}
	return s
}

func (e *Engine) requireSession(ctx context.Context) error {
	id, err := e.deps.Session.CurrentUserID(ctx)
	if err == nil && id != e.userID {
		err = domain.ErrNotAuthenticated
	}
	if err != nil {
		e.setError(ErrMsgSignInRequired)
		if !errors.Is(err, domain.ErrNotAuthenticated) {
			err = fmt.Errorf("%w: %v", domain.ErrNotAuthenticated, err)
		}
		return err
	}
	return nil
}

func (e *Engine) setError(msg string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.errMsg = msg
}

func (e *Engine) publish(ctx context.Context, evt event.Event) {
	if e.deps.Publisher != nil {
		e.deps.Publisher.PublishWithRetry(ctx, evt)
	}
}

func cloneDefs(defs []domain.MissionDefinition) []domain.MissionDefinition {
	out := make([]domain.MissionDefinition, len(defs))
	copy(out, defs)
	return out
}
