package rental

type Status string

const (
	StatusQuotation Status = "quotation"
	StatusConfirmed Status = "confirmed"
	StatusPickedUp  Status = "picked_up"
	StatusReturned  Status = "returned"
	StatusCancelled Status = "cancelled"
)

var validNext = map[Status]map[Status]bool{
	StatusQuotation: {StatusConfirmed: true, StatusCancelled: true},
	StatusConfirmed: {StatusPickedUp: true, StatusCancelled: true},
	StatusPickedUp:  {StatusReturned: true, StatusCancelled: true},
	StatusReturned:  {},
	StatusCancelled: {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// Orders in these statuses hold physical units; their items count against
// availability. Quotations and terminal orders never do.
var capacityConsuming = map[Status]bool{
	StatusConfirmed: true,
	StatusPickedUp:  true,
}

func ConsumesCapacity(s Status) bool { return capacityConsuming[s] }

func (s Status) Terminal() bool { return s == StatusReturned || s == StatusCancelled }
