package rental

const (
	TopicOrderStatus      = "rental.order.status"
	TopicCapacityRejected = "rental.capacity.rejected"
)

// Partition key = order_id, supaya semua event 1 order maintain urutan.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
