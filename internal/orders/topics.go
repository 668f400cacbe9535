package orders

import "strconv"

const (
	TopicOrderAdmitted   = "order.admitted"
	TopicOrderDispatched = "order.dispatched"
	TopicOrderCompleted  = "order.completed"
	TopicOrderCancelled  = "order.cancelled"
	TopicOrderCompletion = "order.completion"
)

func TopicFor(s Status) string {
	switch s {
	case StatusPending:
		return TopicOrderAdmitted
	case StatusProcessing:
		return TopicOrderDispatched
	case StatusCompleted:
		return TopicOrderCompleted
	case StatusCancelled:
		return TopicOrderCancelled
	}
	return ""
}

// Partition key = order id, so every event of one order keeps its order.
func PartitionKey(id OrderID) []byte { return []byte(strconv.FormatInt(int64(id), 10)) }
