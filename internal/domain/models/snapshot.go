package models

// Snapshot is the serialized shape shared by the bundled seed file and the
// persisted state snapshot: stock records, delivery orders and the carrier
// list. Timestamps travel as RFC 3339 text.
type Snapshot struct {
	Stocks         []StockRecord   `json:"stocks"`
	DeliveryOrders []DeliveryOrder `json:"do"`
	PengirimanList []Expedition    `json:"pengirimanList"`
}

// Clone deep-copies the snapshot so the caller owns every slice.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{}
	if s.Stocks != nil {
		out.Stocks = make([]StockRecord, len(s.Stocks))
		copy(out.Stocks, s.Stocks)
	}
	if s.DeliveryOrders != nil {
		out.DeliveryOrders = make([]DeliveryOrder, 0, len(s.DeliveryOrders))
		for _, d := range s.DeliveryOrders {
			out.DeliveryOrders = append(out.DeliveryOrders, d.Clone())
		}
	}
	if s.PengirimanList != nil {
		out.PengirimanList = make([]Expedition, len(s.PengirimanList))
		copy(out.PengirimanList, s.PengirimanList)
	}
	return out
}
