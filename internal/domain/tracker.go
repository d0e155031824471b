package domain

// ChangeSnapshot holds the pre-mutation values of the watched order
// fields (quantity and status). One snapshot is taken per mutation
// attempt and discarded when the mutation completes; snapshots are
// never shared between operations.
type ChangeSnapshot struct {
	existed      bool
	prevQuantity int
	prevStatus   OrderStatus
}

// CaptureChanges records the watched fields of an existing order
// before any mutation is applied to it.
func CaptureChanges(order *CardOrder) ChangeSnapshot {
	return ChangeSnapshot{
		existed:      true,
		prevQuantity: order.Quantity,
		prevStatus:   order.Status,
	}
}

// CaptureCreation returns the snapshot for a record that does not
// exist yet: no previous values.
func CaptureCreation() ChangeSnapshot {
	return ChangeSnapshot{}
}

func (s ChangeSnapshot) Existed() bool {
	return s.existed
}

func (s ChangeSnapshot) QuantityChanged(order *CardOrder) bool {
	return !s.existed || order.Quantity != s.prevQuantity
}

func (s ChangeSnapshot) StatusChanged(order *CardOrder) bool {
	return !s.existed || order.Status != s.prevStatus
}

// PreviousQuantity is 0 when the order did not previously exist.
func (s ChangeSnapshot) PreviousQuantity() int {
	return s.prevQuantity
}

// PreviousStatus is empty when the order did not previously exist.
func (s ChangeSnapshot) PreviousStatus() OrderStatus {
	return s.prevStatus
}
