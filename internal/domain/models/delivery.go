package models

import "time"

// ProgressEntry is one timestamped status note attached to a delivery order.
// Entries are append-only; history is never edited or reordered.
type ProgressEntry struct {
	Time       time.Time `json:"time"`
	Keterangan string    `json:"keterangan"`
}

// DeliveryOrder tracks one shipment to a student. Nomor is the identity key;
// once assigned it never changes.
type DeliveryOrder struct {
	Nomor        string          `json:"nomor"`
	NIM          string          `json:"nim"`
	Nama         string          `json:"nama"`
	Ekspedisi    string          `json:"ekspedisi"`
	TanggalKirim time.Time       `json:"tanggalKirim"`
	TotalHarga   float64         `json:"totalHarga"`
	Progress     []ProgressEntry `json:"progress"`

	// DraftProgress holds the note being composed for the next progress
	// entry. Transient UI state, excluded from persistence.
	DraftProgress string `json:"-"`
}

// Clone returns a deep copy so callers can mutate the result without
// aliasing the progress history.
func (d DeliveryOrder) Clone() DeliveryOrder {
	out := d
	if d.Progress != nil {
		out.Progress = make([]ProgressEntry, len(d.Progress))
		copy(out.Progress, d.Progress)
	}
	return out
}

// Expedition is one carrier option shown when composing a delivery order.
type Expedition struct {
	Nama string `json:"nama"`
}
