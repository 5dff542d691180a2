package orderevents

const (
	TopicName       = "order"
	orderPlacedName = TopicName + ".placed"
)

type OrderPlaced struct {
	OrderUID      string
	CustomerUID   string
	PaymentMethod string
	Amount        int64
	Currency      string
	ItemCount     int
}

func (e OrderPlaced) GetEventTypeName() string {
	return orderPlacedName
}

func (e OrderPlaced) GetAggregateName() string {
	return e.OrderUID
}
