package mission

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/NexusMissions_Go/internal/clock"
	"github.com/osse101/NexusMissions_Go/internal/domain"
	"github.com/osse101/NexusMissions_Go/internal/event"
	"github.com/osse101/NexusMissions_Go/internal/notify"
)

var testStart = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }
func strPtr(v string) *string { return &v }

func def(title string, level, hours, reward int) domain.MissionDefinition {
	return domain.MissionDefinition{
		ID:               uuid.New(),
		Title:            title,
		LevelRequirement: level,
		DurationHours:    hours,
		Reward:           reward,
		SuccessMessage:   title + " complete",
	}
}

// fakeGateway is an in-memory gateway for a single user
type fakeGateway struct {
	mu      sync.Mutex
	catalog []domain.MissionDefinition
	rows    map[uuid.UUID]domain.MissionAssignment
	credits map[uuid.UUID]int
	balance int
	level   int

	insertErr   error
	completeErr error
	deleteErr   error
	fetchErr    error

	completeCalls int
	deleteCalls   int

	// blockNext, when set, parks the next FetchAssignments after it has
	// read its rows. entered is closed once it is parked.
	blockNext chan struct{}
	entered   chan struct{}

	// blockComplete parks the next CompleteWithReward before it writes;
	// completeEntered is closed once it is parked.
	blockComplete   chan struct{}
	completeEntered chan struct{}

	// afterComplete runs after CompleteWithReward has committed
	afterComplete func()
}

func newFakeGateway(level int, catalog ...domain.MissionDefinition) *fakeGateway {
	return &fakeGateway{
		catalog: catalog,
		rows:    make(map[uuid.UUID]domain.MissionAssignment),
		credits: make(map[uuid.UUID]int),
		level:   level,
	}
}

// Reads fail on a cancelled context the way pgx does.
func (g *fakeGateway) FetchCatalog(ctx context.Context) ([]domain.MissionDefinition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fetchErr != nil {
		return nil, g.fetchErr
	}
	return append([]domain.MissionDefinition(nil), g.catalog...), nil
}

func (g *fakeGateway) FetchAssignments(ctx context.Context, _ uuid.UUID) ([]domain.MissionAssignment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.mu.Lock()
	if g.fetchErr != nil {
		g.mu.Unlock()
		return nil, g.fetchErr
	}
	rows := make([]domain.MissionAssignment, 0, len(g.rows))
	for _, m := range g.catalog {
		if a, ok := g.rows[m.ID]; ok {
			rows = append(rows, a)
		}
	}
	block, entered := g.blockNext, g.entered
	g.blockNext, g.entered = nil, nil
	g.mu.Unlock()

	if block != nil {
		close(entered)
		<-block
	}
	return rows, nil
}

func (g *fakeGateway) InsertAssignment(_ context.Context, a domain.MissionAssignment) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.insertErr != nil {
		return g.insertErr
	}
	if _, ok := g.rows[a.MissionID]; ok {
		return domain.ErrMissionAlreadyActive
	}
	g.rows[a.MissionID] = a
	return nil
}

// DeleteAssignment only removes active rows, like the NOT completed guard in SQL
func (g *fakeGateway) DeleteAssignment(_ context.Context, _, missionID uuid.UUID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deleteCalls++
	if g.deleteErr != nil {
		return g.deleteErr
	}
	a, ok := g.rows[missionID]
	if !ok || a.Completed {
		return domain.ErrAssignmentNotFound
	}
	delete(g.rows, missionID)
	return nil
}

// CompleteWithReward marks an active row complete and credits once per key
func (g *fakeGateway) CompleteWithReward(_ context.Context, _, missionID uuid.UUID, amount int, key uuid.UUID) error {
	g.mu.Lock()
	g.completeCalls++
	block, entered := g.blockComplete, g.completeEntered
	g.blockComplete, g.completeEntered = nil, nil
	g.mu.Unlock()

	if block != nil {
		close(entered)
		<-block
	}

	g.mu.Lock()
	if g.completeErr != nil {
		g.mu.Unlock()
		return g.completeErr
	}
	if _, seen := g.credits[key]; seen {
		g.mu.Unlock()
		return nil
	}
	a, ok := g.rows[missionID]
	if !ok || a.Completed {
		g.mu.Unlock()
		return domain.ErrAssignmentNotFound
	}
	a.Completed = true
	g.rows[missionID] = a
	g.credits[key] = amount
	g.balance += amount
	after := g.afterComplete
	g.mu.Unlock()

	if after != nil {
		after()
	}
	return nil
}

func (g *fakeGateway) GetProfile(_ context.Context, userID uuid.UUID) (*domain.Profile, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return &domain.Profile{UserID: userID, Level: g.level, Currency: g.balance}, nil
}

func (g *fakeGateway) row(missionID uuid.UUID) (domain.MissionAssignment, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	a, ok := g.rows[missionID]
	return a, ok
}

func (g *fakeGateway) seed(a domain.MissionAssignment) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rows[a.MissionID] = a
}

// MockGateway is a testify mock for precise call assertions
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) FetchCatalog(ctx context.Context) ([]domain.MissionDefinition, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MissionDefinition), args.Error(1)
}

func (m *MockGateway) FetchAssignments(ctx context.Context, userID uuid.UUID) ([]domain.MissionAssignment, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MissionAssignment), args.Error(1)
}

func (m *MockGateway) InsertAssignment(ctx context.Context, a domain.MissionAssignment) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockGateway) DeleteAssignment(ctx context.Context, userID, missionID uuid.UUID) error {
	return m.Called(ctx, userID, missionID).Error(0)
}

func (m *MockGateway) CompleteWithReward(ctx context.Context, userID, missionID uuid.UUID, amount int, key uuid.UUID) error {
	return m.Called(ctx, userID, missionID, amount, key).Error(0)
}

func (m *MockGateway) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

// sequenceRoller returns rolls in order, repeating the last one
type sequenceRoller struct {
	mu    sync.Mutex
	rolls []int
}

func (r *sequenceRoller) Roll() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	roll := r.rolls[0]
	if len(r.rolls) > 1 {
		r.rolls = r.rolls[1:]
	}
	return roll
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *recordingPublisher) PublishWithRetry(_ context.Context, evt event.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
}

func (p *recordingPublisher) count(t event.Type) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

type engineFixture struct {
	userID  uuid.UUID
	ctx     context.Context
	gateway *fakeGateway
	alerts  *notify.MemoryStore
	pub     *recordingPublisher
	clock   *clock.SimulatedClock
	engine  *Engine
}

func newFixture(gateway *fakeGateway, roll int) *engineFixture {
	return newFixtureWithRoller(gateway, FixedRoller(roll))
}

func newFixtureWithRoller(gateway *fakeGateway, roller Roller) *engineFixture {
	userID := uuid.New()
	pub := &recordingPublisher{}
	f := &engineFixture{
		userID:  userID,
		ctx:     WithUserID(context.Background(), userID),
		gateway: gateway,
		alerts:  notify.NewMemoryStore(pub),
		pub:     pub,
		clock:   clock.NewSimulatedClock(testStart),
	}
	f.engine = NewEngine(userID, Deps{
		Gateway:   gateway,
		Alerts:    f.alerts,
		Publisher: pub,
		Session:   ContextSession{},
		Clock:     f.clock,
		Roller:    roller,
	})
	return f
}

func titles(defs []domain.MissionDefinition) []string {
	out := make([]string, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.Title)
	}
	return out
}
