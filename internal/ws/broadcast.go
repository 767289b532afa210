package ws

// DeliveryStatus is the outcome of one send within a broadcast.
type DeliveryStatus string

const (
	Delivered DeliveryStatus = "delivered"
	Skipped   DeliveryStatus = "skipped" // peer unreachable
)

type Delivery struct {
	ConnID string
	Status DeliveryStatus
}

// BroadcastReport lists the per-recipient outcome of one fan-out.
type BroadcastReport struct {
	Deliveries []Delivery
}

func (r BroadcastReport) count(st DeliveryStatus) int {
	n := 0
	for _, d := range r.Deliveries {
		if d.Status == st {
			n++
		}
	}
	return n
}

func (r BroadcastReport) Delivered() int { return r.count(Delivered) }
func (r BroadcastReport) Skipped() int   { return r.count(Skipped) }

// fanOut sends msg to every member of the snapshot. A failed peer is closed,
// which makes its own reader loop run the leave path, and the fan-out moves
// on to the next member.
func fanOut(members []Member, msg []byte) BroadcastReport {
	report := BroadcastReport{Deliveries: make([]Delivery, 0, len(members))}
	for _, m := range members {
		if err := m.Send(msg); err != nil {
			_ = m.Close()
			report.Deliveries = append(report.Deliveries, Delivery{ConnID: m.ID(), Status: Skipped})
			continue
		}
		report.Deliveries = append(report.Deliveries, Delivery{ConnID: m.ID(), Status: Delivered})
	}
	return report
}
