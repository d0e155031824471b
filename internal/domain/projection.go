package domain

// OrderProjection is the read model returned to callers after every
// order mutation: the order plus the catalog fields a client would
// otherwise have to join for.
type OrderProjection struct {
	CardOrder
	CardName    string `json:"card_name"`
	StatusLabel string `json:"status_label"`
}

func ProjectOrder(order *CardOrder, card *Card) OrderProjection {
	return OrderProjection{
		CardOrder:   *order,
		CardName:    card.Name,
		StatusLabel: order.Status.Label(),
	}
}
