package models

// MaxLabelSlots is the number of label slots available per board. Each slot
// corresponds to one bit in a card's LabelMask.
const MaxLabelSlots = 8

// Label is a named, colored tag addressable by bit position in a card's
// label mask. A label whose name and color are both empty marks a deleted
// slot: deleting a label clears its bit across all cards on the board, and
// renderers skip deleted slots even if a stale mask still carries the bit.
type Label struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Deleted reports whether this label slot has been invalidated.
func (l Label) Deleted() bool {
	return l.Name == "" && l.Color == ""
}

// LabelMask is a bitmask over the board's label slots. Bit i corresponds to
// label slot i.
type LabelMask uint64

// Has reports whether the bit for the given slot is set.
func (m LabelMask) Has(slot int) bool {
	if slot < 0 || slot >= MaxLabelSlots {
		return false
	}
	return m&(1<<uint(slot)) != 0
}

// Set returns the mask with the bit for the given slot set.
func (m LabelMask) Set(slot int) LabelMask {
	if slot < 0 || slot >= MaxLabelSlots {
		return m
	}
	return m | (1 << uint(slot))
}

// Clear returns the mask with the bit for the given slot cleared.
func (m LabelMask) Clear(slot int) LabelMask {
	if slot < 0 || slot >= MaxLabelSlots {
		return m
	}
	return m &^ (1 << uint(slot))
}
