package order_test

import (
	"testing"
	"time"

	"github.com/messhub/messhub-api/internal/domain/order"
)

func TestRecomputeTotals(t *testing.T) {
	o := &order.Order{
		Items: []order.Item{
			{Price: 2500, Quantity: 2},
			{Price: 3500, Quantity: 1},
		},
	}
	o.RecomputeTotals()

	if o.Subtotal != 8500 {
		t.Fatalf("expected subtotal 8500, got %d", o.Subtotal)
	}
	if o.Total != 8500 {
		t.Fatalf("expected total 8500, got %d", o.Total)
	}

	o.Taxes = 425
	o.Discount = 500
	o.RecomputeTotals()
	if o.Total != 8425 {
		t.Fatalf("expected total 8425, got %d", o.Total)
	}
}

func TestRecomputeTotalsNeverNegative(t *testing.T) {
	o := &order.Order{
		Items:    []order.Item{{Price: 100, Quantity: 1}},
		Discount: 500,
	}
	o.RecomputeTotals()
	if o.Total != 0 {
		t.Fatalf("expected total clamped to 0, got %d", o.Total)
	}
}

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to order.Status }{
		{order.StatusPending, order.StatusConfirmed},
		{order.StatusPending, order.StatusCancelled},
		{order.StatusConfirmed, order.StatusPreparing},
		{order.StatusConfirmed, order.StatusCancelled},
		{order.StatusPreparing, order.StatusReady},
		{order.StatusReady, order.StatusDelivered},
	}
	for _, c := range allowed {
		if !order.CanTransition(c.from, c.to) {
			t.Errorf("expected %s -> %s to be allowed", c.from, c.to)
		}
	}

	denied := []struct{ from, to order.Status }{
		{order.StatusPending, order.StatusPreparing},
		{order.StatusPending, order.StatusDelivered},
		{order.StatusPreparing, order.StatusCancelled},
		{order.StatusReady, order.StatusCancelled},
		{order.StatusDelivered, order.StatusPending},
		{order.StatusDelivered, order.StatusCancelled},
		{order.StatusCancelled, order.StatusConfirmed},
	}
	for _, c := range denied {
		if order.CanTransition(c.from, c.to) {
			t.Errorf("expected %s -> %s to be denied", c.from, c.to)
		}
	}
}

func TestEstimateDelivery(t *testing.T) {
	from := time.Date(2025, time.September, 1, 12, 0, 0, 0, time.UTC)

	// 5min per order line + 15min base; quantities within a line do not
	// stretch the estimate.
	tests := []struct {
		name  string
		items []order.Item
		want  time.Duration
	}{
		{"single line high quantity", []order.Item{{Quantity: 3}}, 20 * time.Minute},
		{"two lines", []order.Item{{Quantity: 2}, {Quantity: 1}}, 25 * time.Minute},
		{"three lines", []order.Item{{Quantity: 1}, {Quantity: 1}, {Quantity: 1}}, 30 * time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &order.Order{Items: tt.items}
			want := from.Add(tt.want)
			if got := o.EstimateDelivery(from); !got.Equal(want) {
				t.Fatalf("expected %v, got %v", want, got)
			}
		})
	}
}

func TestCanBeCancelled(t *testing.T) {
	for _, s := range []order.Status{order.StatusPending, order.StatusConfirmed} {
		o := &order.Order{Status: s}
		if !o.CanBeCancelled() {
			t.Errorf("expected %s order to be cancellable", s)
		}
	}
	for _, s := range []order.Status{order.StatusPreparing, order.StatusReady, order.StatusDelivered, order.StatusCancelled} {
		o := &order.Order{Status: s}
		if o.CanBeCancelled() {
			t.Errorf("expected %s order to not be cancellable", s)
		}
	}
}

func TestCanBeRated(t *testing.T) {
	o := &order.Order{Status: order.StatusDelivered}
	if !o.CanBeRated() {
		t.Fatal("expected delivered unrated order to be ratable")
	}

	now := time.Now()
	o.RatedAt = &now
	if o.CanBeRated() {
		t.Fatal("expected rated order to not be ratable again")
	}

	o = &order.Order{Status: order.StatusReady}
	if o.CanBeRated() {
		t.Fatal("expected undelivered order to not be ratable")
	}
}
