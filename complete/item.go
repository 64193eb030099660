package complete

import (
	"encoding/json"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Data keys attached to every item so resolve can find its candidate.
const (
	DataResponseID = "rid"
	DataProposalID = "pid"
	DataURI        = "uri"
)

// Item is a protocol completion item plus textEditText, which the 3.16
// protocol types predate. It is used when the item's edit range was elided
// into the list defaults.
type Item struct {
	protocol.CompletionItem
	TextEditText *string `json:"-"`
}

func (i Item) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(i.CompletionItem)
	if err != nil || i.TextEditText == nil {
		return base, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	text, err := json.Marshal(*i.TextEditText)
	if err != nil {
		return nil, err
	}
	fields["textEditText"] = text
	return json.Marshal(fields)
}

// DataMap returns the item's data map, or nil.
func (i Item) DataMap() map[string]string {
	m, _ := i.Data.(map[string]string)
	return m
}

// List is a completed response as sent to the client.
type List struct {
	IsIncomplete bool          `json:"isIncomplete"`
	ItemDefaults *ItemDefaults `json:"itemDefaults,omitempty"`
	Items        []Item        `json:"items"`
}
