package complete

import (
	"encoding/json"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// EditRange is either a plain range (Replace nil) or an insert/replace pair.
// It serializes to the matching shape of the LSP itemDefaults.editRange union.
type EditRange struct {
	Insert  protocol.Range
	Replace *protocol.Range
}

type insertReplaceRange struct {
	Insert  protocol.Range `json:"insert"`
	Replace protocol.Range `json:"replace"`
}

func (r EditRange) MarshalJSON() ([]byte, error) {
	if r.Replace == nil {
		return json.Marshal(r.Insert)
	}
	return json.Marshal(insertReplaceRange{Insert: r.Insert, Replace: *r.Replace})
}

func (r *EditRange) UnmarshalJSON(data []byte) error {
	var pair struct {
		Insert  *protocol.Range `json:"insert"`
		Replace *protocol.Range `json:"replace"`
	}
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if pair.Insert != nil && pair.Replace != nil {
		*r = EditRange{Insert: *pair.Insert, Replace: pair.Replace}
		return nil
	}
	var plain protocol.Range
	if err := json.Unmarshal(data, &plain); err != nil {
		return err
	}
	*r = EditRange{Insert: plain}
	return nil
}

// Equal compares by value; a plain range never equals an insert/replace pair.
func (r *EditRange) Equal(other *EditRange) bool {
	if r == nil || other == nil {
		return r == other
	}
	if r.Insert != other.Insert {
		return false
	}
	if r.Replace == nil || other.Replace == nil {
		return r.Replace == other.Replace
	}
	return *r.Replace == *other.Replace
}

// ItemDefaults holds attributes shared by the items of one list.
type ItemDefaults struct {
	InsertTextFormat *protocol.InsertTextFormat `json:"insertTextFormat,omitempty"`
	EditRange        *EditRange                 `json:"editRange,omitempty"`
}

func (d *ItemDefaults) empty() bool {
	return d == nil || (d.InsertTextFormat == nil && d.EditRange == nil)
}

// renderEdit shapes a computed edit for the client: an insert/replace pair
// when the client supports it, otherwise one range covering the replace span.
func renderEdit(edit *EditRange, caps ClientCapabilities) *EditRange {
	if edit == nil {
		return nil
	}
	if caps.InsertReplaceSupport && edit.Replace != nil {
		replace := *edit.Replace
		return &EditRange{Insert: edit.Insert, Replace: &replace}
	}
	if edit.Replace != nil {
		return &EditRange{Insert: *edit.Replace}
	}
	return &EditRange{Insert: edit.Insert}
}

// computeDefaults derives the list defaults from the top-ranked candidate's
// replacement. Each attribute is set only when the client supports it.
func computeDefaults(repl *Replacement, caps ClientCapabilities) *ItemDefaults {
	if repl == nil {
		return nil
	}
	d := &ItemDefaults{}
	if caps.ItemDefaultsInsertTextFormat && repl.Format != 0 {
		format := repl.Format
		d.InsertTextFormat = &format
	}
	if caps.ItemDefaultsEditRange {
		d.EditRange = renderEdit(repl.Edit, caps)
	}
	if d.empty() {
		return nil
	}
	return d
}
