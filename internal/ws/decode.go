package ws

import "encoding/json"

// fields holds one frame's top-level members keyed by their exact names.
// encoding/json folds case when filling structs, so frames are never
// unmarshalled straight into the message types.
type fields map[string]json.RawMessage

// decoder builds a typed message from a frame's fields.
type decoder func(f fields) Message

// decoders maps the "type" discriminator to its decoder, à-la gin.Engine routes.
var decoders = map[string]decoder{}

func init() {
	register(KindTossChoice, func(f fields) Message {
		return TossChoice{Type: KindTossChoice, Player: f["player"], Choice: f["choice"]}
	})
	register(KindTossNumber, func(f fields) Message {
		return TossNumber{Type: KindTossNumber, Player: f["player"], Number: f["number"]}
	})
	register(KindTossResult, func(f fields) Message {
		return TossResult{Type: KindTossResult, Winner: f["winner"],
			Player1Number: f["player1_number"], Player2Number: f["player2_number"]}
	})
	register(KindBatBowlChoice, func(f fields) Message {
		return BatBowlChoice{Type: KindBatBowlChoice, Player: f["player"], Choice: f["choice"]}
	})
	register(KindGameAction, func(f fields) Message {
		return GameAction{Type: KindGameAction, Action: f["action"], Data: f["data"]}
	})
}

// register binds a kind to its decoder.
func register(kind string, dec decoder) {
	if kind == "" {
		panic("ws decode: empty kind")
	}
	decoders[kind] = dec
}

// Decode classifies one inbound frame. It never fails: frames that are not
// JSON objects, carry no string "type", or name an unknown kind come back
// as Opaque. Only the exact lower-case keys count.
func Decode(raw []byte) Message {
	var f fields
	if err := json.Unmarshal(raw, &f); err != nil {
		return Opaque{Raw: raw}
	}
	typ, ok := f["type"]
	if !ok {
		return Opaque{Raw: raw}
	}
	var kind string
	if err := json.Unmarshal(typ, &kind); err != nil {
		return Opaque{Raw: raw}
	}
	dec, ok := decoders[kind]
	if !ok {
		return Opaque{Raw: raw}
	}
	return dec(f)
}
