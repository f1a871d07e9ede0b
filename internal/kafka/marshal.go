package kafka

import "encoding/json"

func MustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

// eventTyper is implemented by payloads that name their event type.
type eventTyper interface {
	Type() string
}
