package ws

import "encoding/json"

// Message kinds understood by the relay. Anything else is forwarded as-is.
const (
	KindTossChoice    = "toss_choice"
	KindTossNumber    = "toss_number"
	KindTossResult    = "toss_result"
	KindBatBowlChoice = "bat_bowl_choice"
	KindGameAction    = "game_action"

	KindPlayerJoined = "player_joined"
	KindPlayerLeft   = "player_left"
)

// Message is an inbound relay frame. The concrete types below are the only
// implementations; Opaque covers unknown, untyped and malformed frames.
type Message interface {
	Kind() string
}

// Field values stay raw JSON: the relay copies them without interpreting
// gameplay. An absent field stays absent in the outbound event.

type TossChoice struct {
	Type   string          `json:"type"`
	Player json.RawMessage `json:"player,omitempty"`
	Choice json.RawMessage `json:"choice,omitempty"`
}

type TossNumber struct {
	Type   string          `json:"type"`
	Player json.RawMessage `json:"player,omitempty"`
	Number json.RawMessage `json:"number,omitempty"`
}

type TossResult struct {
	Type          string          `json:"type"`
	Winner        json.RawMessage `json:"winner,omitempty"`
	Player1Number json.RawMessage `json:"player1_number,omitempty"`
	Player2Number json.RawMessage `json:"player2_number,omitempty"`
}

type BatBowlChoice struct {
	Type   string          `json:"type"`
	Player json.RawMessage `json:"player,omitempty"`
	Choice json.RawMessage `json:"choice,omitempty"`
}

type GameAction struct {
	Type   string          `json:"type"`
	Action json.RawMessage `json:"action,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// Opaque is relayed byte for byte.
type Opaque struct {
	Raw []byte
}

func (TossChoice) Kind() string    { return KindTossChoice }
func (TossNumber) Kind() string    { return KindTossNumber }
func (TossResult) Kind() string    { return KindTossResult }
func (BatBowlChoice) Kind() string { return KindBatBowlChoice }
func (GameAction) Kind() string    { return KindGameAction }
func (Opaque) Kind() string        { return "" }

// PlayerCountEvent announces membership changes to a room.
type PlayerCountEvent struct {
	Type        string `json:"type"`
	PlayerCount int    `json:"player_count"`
}
