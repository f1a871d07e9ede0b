package orders

const (
	TopicOrderCreated     = "order.created"
	StreamPaymentComplete = "payment.completed"
)

// Partition key = order_id, so every event of one order keeps its order.
func PartitionKey(orderID string) string { return orderID }
