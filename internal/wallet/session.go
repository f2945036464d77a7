package wallet

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// State is a snapshot of the wallet connection.
type State struct {
	Address   common.Address
	ChainID   int64
	Connected bool
}

func (s State) IsCorrectNetwork(target int64) bool {
	return s.Connected && s.ChainID == target
}

// Session is the application-wide wallet connection. Components read it via
// State and react to changes through Subscribe instead of polling.
type Session struct {
	mu     sync.RWMutex
	state  State
	nextID uint64
	subs   map[uint64]func(State)
}

func NewSession() *Session {
	return &Session{subs: make(map[uint64]func(State))}
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers fn for every change and returns a func that removes it.
// fn is called synchronously and must not call back into the session's
// mutating methods.
func (s *Session) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Session) Connect(addr common.Address, chainID int64) {
	s.update(func(st *State) {
		st.Address = addr
		st.ChainID = chainID
		st.Connected = true
	})
}

func (s *Session) Disconnect() {
	s.update(func(st *State) {
		*st = State{}
	})
}

func (s *Session) SwitchChain(chainID int64) {
	s.update(func(st *State) {
		st.ChainID = chainID
	})
}

func (s *Session) update(apply func(*State)) {
	s.mu.Lock()
	apply(&s.state)
	snapshot := s.state
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}
