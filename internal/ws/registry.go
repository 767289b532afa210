package ws

import (
	"encoding/json"
	"errors"
	"slices"
	"sync"
)

// Member is one addressable relay connection.
type Member interface {
	ID() string
	Send(data []byte) error
	Close() error
}

var ErrDuplicateMember = errors.New("member already joined")

type roomState struct {
	members []Member // join order

	// Payload caches filled by toss and game messages. The relay never reads
	// them back; clients rebuild game state from the broadcast stream.
	toss     map[string]json.RawMessage
	gameData map[string]json.RawMessage
}

func newRoomState() *roomState {
	return &roomState{
		toss:     map[string]json.RawMessage{},
		gameData: map[string]json.RawMessage{},
	}
}

// Registry keeps the members and transient state of every active room.
// A room exists exactly while it has at least one member.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*roomState // room code -> state
}

func NewRegistry() *Registry { return &Registry{rooms: map[string]*roomState{}} }

func (r *Registry) EnsureRoom(code string) {
	r.mu.Lock()
	r.ensureRoomLocked(code)
	r.mu.Unlock()
}

func (r *Registry) ensureRoomLocked(code string) *roomState {
	st, ok := r.rooms[code]
	if !ok {
		st = newRoomState()
		r.rooms[code] = st
	}
	return st
}

// AddMember appends m to the room, creating the room on first join, and
// returns the member count after the join.
func (r *Registry) AddMember(code string, m Member) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if st, ok := r.rooms[code]; ok && slices.Contains(st.members, m) {
		return len(st.members), ErrDuplicateMember
	}
	st := r.ensureRoomLocked(code)
	st.members = append(st.members, m)
	return len(st.members), nil
}

// RemoveMember drops m from the room and tears the room down once it is
// empty. It reports the remaining count and whether m was present.
func (r *Registry) RemoveMember(code string, m Member) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.rooms[code]
	if !ok {
		return 0, false
	}
	idx := slices.Index(st.members, m)
	if idx < 0 {
		return len(st.members), false
	}
	st.members = slices.Delete(st.members, idx, idx+1)
	if len(st.members) == 0 {
		delete(r.rooms, code)
	}
	return len(st.members), true
}

func (r *Registry) MemberCount(code string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if st, ok := r.rooms[code]; ok {
		return len(st.members)
	}
	return 0
}

// MembersOf returns a snapshot safe to iterate while membership changes.
func (r *Registry) MembersOf(code string) []Member {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st, ok := r.rooms[code]
	if !ok {
		return nil
	}
	return slices.Clone(st.members)
}

// Counts snapshots the member count of every active room.
func (r *Registry) Counts() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]int, len(r.rooms))
	for code, st := range r.rooms {
		out[code] = len(st.members)
	}
	return out
}

func (r *Registry) cacheToss(code, kind string, raw json.RawMessage) {
	r.mu.Lock()
	if st, ok := r.rooms[code]; ok {
		st.toss[kind] = raw
	}
	r.mu.Unlock()
}

func (r *Registry) cacheGameData(code, kind string, raw json.RawMessage) {
	r.mu.Lock()
	if st, ok := r.rooms[code]; ok {
		st.gameData[kind] = raw
	}
	r.mu.Unlock()
}

// caches returns copies of the room's payload caches.
func (r *Registry) caches(code string) (toss, gameData map[string]json.RawMessage, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st, ok := r.rooms[code]
	if !ok {
		return nil, nil, false
	}
	toss = make(map[string]json.RawMessage, len(st.toss))
	for k, v := range st.toss {
		toss[k] = v
	}
	gameData = make(map[string]json.RawMessage, len(st.gameData))
	for k, v := range st.gameData {
		gameData[k] = v
	}
	return toss, gameData, true
}
