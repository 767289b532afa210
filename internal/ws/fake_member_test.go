package ws

import (
	"encoding/json"
	"errors"
	"sync"
)

type fakeMember struct {
	id   string
	fail bool

	mu     sync.Mutex
	sent   [][]byte
	closed int
}

func newFake(id string) *fakeMember { return &fakeMember{id: id} }

func (f *fakeMember) ID() string { return f.id }

func (f *fakeMember) Send(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("broken pipe")
	}
	f.sent = append(f.sent, append([]byte(nil), data...))
	return nil
}

func (f *fakeMember) Close() error {
	f.mu.Lock()
	f.closed++
	f.mu.Unlock()
	return nil
}

func (f *fakeMember) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.sent))
	for i, b := range f.sent {
		out[i] = string(b)
	}
	return out
}

func (f *fakeMember) last() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return nil
	}
	var m map[string]any
	_ = json.Unmarshal(f.sent[len(f.sent)-1], &m)
	return m
}
