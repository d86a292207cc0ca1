package onboarding

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"

	"github.com/mechanio/garage/internal/model"
)

// ---------- Mock DB ----------

// mockDB implements the DB interface for testing.
type mockDB struct {
	mock.Mock
}

func (m *mockDB) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgconn.CommandTag), args.Error(1)
}

func (m *mockDB) Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error) {
	args := m.Called(ctx, sql, arguments)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Rows), args.Error(1)
}

func (m *mockDB) QueryRow(ctx context.Context, sql string, arguments ...any) pgx.Row {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgx.Row)
}

// ---------- Mock Row ----------

// mockRow implements pgx.Row for testing.
type mockRow struct {
	scanFunc func(dest ...any) error
}

func (m *mockRow) Scan(dest ...any) error {
	return m.scanFunc(dest...)
}

// ---------- In-memory fakes for engine/reconciler/facade tests ----------

// fakeStore is a map-backed Store with failure injection.
type fakeStore struct {
	mu       sync.Mutex
	states   map[string]*model.WorkflowState
	loadErr  error
	saveErr  error
	resetErr error
	saves    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{states: map[string]*model.WorkflowState{}}
}

func (f *fakeStore) Load(ctx context.Context, actor model.Actor) (*model.WorkflowState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if s, ok := f.states[actor.UserID]; ok {
		return s.Clone(), nil
	}
	return model.NewWorkflowState(actor.UserID), nil
}

func (f *fakeStore) Save(ctx context.Context, state *model.WorkflowState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.states[state.ActorID] = state.Clone()
	return nil
}

func (f *fakeStore) Reset(ctx context.Context, actor model.Actor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.resetErr != nil {
		return f.resetErr
	}
	delete(f.states, actor.UserID)
	return nil
}

func (f *fakeStore) persisted(actorID string) *model.WorkflowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.states[actorID]; ok {
		return s.Clone()
	}
	return nil
}

// fakeChecker reports a fixed set of existing gating entities, with
// optional per-step error injection.
type fakeChecker struct {
	mu       sync.Mutex
	existing map[model.WorkflowStep]bool
	errs     map[model.WorkflowStep]error
	calls    map[model.WorkflowStep]int
}

func newFakeChecker(existing ...model.WorkflowStep) *fakeChecker {
	c := &fakeChecker{
		existing: map[model.WorkflowStep]bool{},
		errs:     map[model.WorkflowStep]error{},
		calls:    map[model.WorkflowStep]int{},
	}
	for _, s := range existing {
		c.existing[s] = true
	}
	return c
}

func (c *fakeChecker) Exists(ctx context.Context, actor model.Actor, step model.WorkflowStep) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[step]++
	if err := c.errs[step]; err != nil {
		return false, err
	}
	return c.existing[step], nil
}

func (c *fakeChecker) setExists(step model.WorkflowStep, exists bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.existing[step] = exists
}

func (c *fakeChecker) setErr(step model.WorkflowStep, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		delete(c.errs, step)
		return
	}
	c.errs[step] = err
}
