// Package memory is an in-process Store used by tests and by the dev profile
// (database.driver: memory). Units of work are serialized and commit atomically.
package memory

import (
	"context"
	"sync"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/repository"
)

type state struct {
	reservations map[int64]*domain.Reservation
	vehicles     map[int64]*domain.Vehicle
	parties      map[int64]*domain.Party
	nextID       int64
}

func newState() *state {
	return &state{
		reservations: make(map[int64]*domain.Reservation),
		vehicles:     make(map[int64]*domain.Vehicle),
		parties:      make(map[int64]*domain.Party),
	}
}

// clone copies the state for a unit of work. Party values are never mutated in
// place, so only the map is copied.
func (s *state) clone() *state {
	cp := &state{
		reservations: make(map[int64]*domain.Reservation, len(s.reservations)),
		vehicles:     make(map[int64]*domain.Vehicle, len(s.vehicles)),
		parties:      make(map[int64]*domain.Party, len(s.parties)),
		nextID:       s.nextID,
	}
	for id, p := range s.parties {
		cp.parties[id] = p
	}
	for id, r := range s.reservations {
		cp.reservations[id] = r.Clone()
	}
	for id, v := range s.vehicles {
		vc := *v
		cp.vehicles[id] = &vc
	}
	return cp
}

// access is how a repository reaches the state it operates on.
type access interface {
	view(fn func(st *state) error) error
	update(fn func(st *state) error) error
}

type Store struct {
	// tx serializes units of work; mu guards st, inFlight and pending.
	tx sync.Mutex
	mu sync.RWMutex
	st *state

	// Direct writes made while a unit of work runs on an older clone are
	// replayed onto that clone at commit.
	inFlight bool
	pending  []func(st *state)
}

func NewStore() *Store {
	return &Store{st: newState()}
}

// AddVehicle inserts or replaces a vehicle. It is visible immediately and
// survives the commit of a unit of work already in progress.
func (s *Store) AddVehicle(v domain.Vehicle) {
	s.write(func(st *state) {
		vc := v
		st.vehicles[v.ID] = &vc
	})
}

// AddParty inserts or replaces a party, with the same visibility as AddVehicle.
func (s *Store) AddParty(p domain.Party) {
	s.write(func(st *state) {
		pc := p
		st.parties[p.ID] = &pc
	})
}

func (s *Store) write(apply func(st *state)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	apply(s.st)
	if s.inFlight {
		s.pending = append(s.pending, apply)
	}
}

func (s *Store) Repositories() repository.Repositories {
	return bind(committed{s})
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Repositories) error) error {
	return s.run(ctx, func(work *state) error {
		return fn(bind(&uncommitted{st: work}))
	})
}

func (s *Store) run(ctx context.Context, fn func(work *state) error) error {
	s.tx.Lock()
	defer s.tx.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	work := s.st.clone()
	s.inFlight = true
	s.mu.Unlock()

	err := fn(work)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		for _, apply := range s.pending {
			apply(work)
		}
		s.st = work
	}
	s.inFlight = false
	s.pending = nil
	return err
}

// committed reads the last committed state and runs each write as its own unit of work.
type committed struct {
	s *Store
}

func (c committed) view(fn func(st *state) error) error {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	return fn(c.s.st)
}

func (c committed) update(fn func(st *state) error) error {
	return c.s.run(context.Background(), fn)
}

// uncommitted works on a unit of work's private copy.
type uncommitted struct {
	st *state
}

func (u *uncommitted) view(fn func(st *state) error) error   { return fn(u.st) }
func (u *uncommitted) update(fn func(st *state) error) error { return fn(u.st) }

func bind(a access) repository.Repositories {
	return repository.Repositories{
		Reservations: &reservationRepository{a: a},
		Vehicles:     &vehicleRepository{a: a},
		Parties:      &partyRepository{a: a},
	}
}
