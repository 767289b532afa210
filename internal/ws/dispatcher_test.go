package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeClassifiesKnownKinds(t *testing.T) {
	cases := map[string]Message{
		`{"type":"toss_choice","player":"p1","choice":"heads"}`: TossChoice{},
		`{"type":"toss_number","player":"p1","number":4}`:       TossNumber{},
		`{"type":"toss_result","winner":"p2"}`:                  TossResult{},
		`{"type":"bat_bowl_choice","choice":"bat"}`:             BatBowlChoice{},
		`{"type":"game_action","action":"ball","data":{"n":6}}`: GameAction{},
	}
	for raw, want := range cases {
		got := Decode([]byte(raw))
		assert.IsType(t, want, got, raw)
		assert.Equal(t, want.Kind(), got.Kind())
	}
}

func TestDecodeFallsBackToOpaque(t *testing.T) {
	for _, raw := range []string{
		`{"type":"chat","text":"hi"}`,
		`{"text":"no type"}`,
		`{"type":7}`,
		`{"type":null}`,
		`{"TYPE":"toss_choice","player":"p1","choice":"heads","x":1}`,
		`{"Type":"game_action","action":"ball"}`,
		`null`,
		`[1,2,3]`,
		`not json at all`,
		``,
	} {
		msg := Decode([]byte(raw))
		require.IsType(t, Opaque{}, msg, raw)
		assert.Equal(t, raw, string(msg.(Opaque).Raw))
	}
}

func TestDispatchReshapesKnownKinds(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "toss_choice drops extra fields",
			in:   `{"type":"toss_choice","player":"p1","choice":"heads","cheat":true}`,
			want: `{"type":"toss_choice","player":"p1","choice":"heads"}`,
		},
		{
			name: "toss_number",
			in:   `{"number":3,"type":"toss_number","player":"p2"}`,
			want: `{"type":"toss_number","player":"p2","number":3}`,
		},
		{
			name: "toss_result",
			in:   `{"type":"toss_result","winner":"p1","player1_number":3,"player2_number":5,"x":1}`,
			want: `{"type":"toss_result","winner":"p1","player1_number":3,"player2_number":5}`,
		},
		{
			name: "bat_bowl_choice",
			in:   `{"type":"bat_bowl_choice","player":"p1","choice":"bowl"}`,
			want: `{"type":"bat_bowl_choice","player":"p1","choice":"bowl"}`,
		},
		{
			name: "game_action keeps nested data verbatim",
			in:   `{"type":"game_action","action":"play","data":{"runs":4,"seq":[1,2]},"ts":9}`,
			want: `{"type":"game_action","action":"play","data":{"runs":4,"seq":[1,2]}}`,
		},
		{
			name: "missing fields stay absent",
			in:   `{"type":"toss_result","winner":"p1"}`,
			want: `{"type":"toss_result","winner":"p1"}`,
		},
		{
			name: "differently cased keys are not fields",
			in:   `{"type":"toss_choice","PLAYER":"mallory","Choice":"tails","choice":"heads"}`,
			want: `{"type":"toss_choice","choice":"heads"}`,
		},
		{
			name: "only the exact type key classifies",
			in:   `{"type":"toss_choice","Type":"chat","player":"p1"}`,
			want: `{"type":"toss_choice","player":"p1"}`,
		},
		{
			name: "explicit null is kept",
			in:   `{"type":"bat_bowl_choice","player":null,"choice":"bat"}`,
			want: `{"type":"bat_bowl_choice","player":null,"choice":"bat"}`,
		},
		{
			name: "bare kind",
			in:   `{"type":"game_action"}`,
			want: `{"type":"game_action"}`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reg := NewRegistry()
			a := newFake("a")
			_, _ = reg.AddMember("ABC123", a)

			report := NewDispatcher(reg).Dispatch("ABC123", []byte(tc.in))
			assert.Equal(t, 1, report.Delivered())
			require.Len(t, a.messages(), 1)
			assert.JSONEq(t, tc.want, a.messages()[0])
		})
	}
}

func TestDispatchForwardsUnknownVerbatimToAll(t *testing.T) {
	reg := NewRegistry()
	a, b := newFake("a"), newFake("b")
	_, _ = reg.AddMember("ABC123", a)
	_, _ = reg.AddMember("ABC123", b)

	for _, raw := range []string{
		`{"type":"emoji",  "value":"🏏"}`,
		`{"no_type":true}`,
		`{"TYPE":"toss_choice","player":"p1","choice":"heads","x":1}`,
		`garbage{`,
	} {
		NewDispatcher(reg).Dispatch("ABC123", []byte(raw))
		assert.Equal(t, raw, a.messages()[len(a.messages())-1])
		assert.Equal(t, raw, b.messages()[len(b.messages())-1])
	}
}

func TestDispatchSurvivesFailingPeer(t *testing.T) {
	reg := NewRegistry()
	a, b, c := newFake("a"), newFake("b"), newFake("c")
	b.fail = true
	for _, m := range []*fakeMember{a, b, c} {
		_, _ = reg.AddMember("ABC123", m)
	}

	report := NewDispatcher(reg).Dispatch("ABC123", []byte(`{"type":"ping"}`))

	assert.Equal(t, 2, report.Delivered())
	assert.Equal(t, 1, report.Skipped())
	assert.Equal(t, []Delivery{
		{ConnID: "a", Status: Delivered},
		{ConnID: "b", Status: Skipped},
		{ConnID: "c", Status: Delivered},
	}, report.Deliveries)
	assert.Len(t, a.messages(), 1)
	assert.Len(t, c.messages(), 1)
	assert.Equal(t, 1, b.closed, "failed peer is scheduled for cleanup")
}

func TestDispatchIsolatesRooms(t *testing.T) {
	reg := NewRegistry()
	a, b := newFake("a"), newFake("b")
	_, _ = reg.AddMember("AAA111", a)
	_, _ = reg.AddMember("BBB222", b)
	d := NewDispatcher(reg)

	d.Dispatch("AAA111", []byte(`{"type":"game_action","action":"a"}`))
	d.Dispatch("BBB222", []byte(`{"type":"game_action","action":"b"}`))

	assert.Equal(t, "a", a.last()["action"])
	assert.Equal(t, "b", b.last()["action"])
	assert.Len(t, a.messages(), 1)
	assert.Len(t, b.messages(), 1)
}

func TestDispatchToUnknownRoomIsNoop(t *testing.T) {
	report := NewDispatcher(NewRegistry()).Dispatch("GONE00", []byte(`{"type":"toss_choice"}`))
	assert.Empty(t, report.Deliveries)
}

func TestDispatchCachesTossAndGameData(t *testing.T) {
	reg := NewRegistry()
	_, _ = reg.AddMember("ABC123", newFake("a"))
	d := NewDispatcher(reg)

	d.Dispatch("ABC123", []byte(`{"type":"toss_choice","player":"p1","choice":"tails"}`))
	d.Dispatch("ABC123", []byte(`{"type":"toss_number","player":"p1","number":2}`))
	d.Dispatch("ABC123", []byte(`{"type":"game_action","action":"ball","data":1}`))
	d.Dispatch("ABC123", []byte(`{"type":"game_action","action":"ball","data":2}`))
	d.Dispatch("ABC123", []byte(`{"type":"chat"}`))

	toss, gameData, ok := reg.caches("ABC123")
	require.True(t, ok)
	assert.Len(t, toss, 2)
	assert.JSONEq(t, `{"type":"toss_choice","player":"p1","choice":"tails"}`, string(toss[KindTossChoice]))
	require.Len(t, gameData, 1)
	assert.JSONEq(t, `{"type":"game_action","action":"ball","data":2}`, string(gameData[KindGameAction]))
}
