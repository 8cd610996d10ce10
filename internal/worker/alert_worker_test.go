package worker

import (
	"context"
	"testing"

	"budget/internal/amqp"

	"github.com/shopspring/decimal"
)

func alert(id int, category, amount, z string) *amqp.AnomalyAlertMessage {
	return sessionAlert("s1", id, category, amount, z)
}

func sessionAlert(session string, id int, category, amount, z string) *amqp.AnomalyAlertMessage {
	return &amqp.AnomalyAlertMessage{
		SessionID:     session,
		TransactionID: id,
		Category:      category,
		Amount:        decimal.RequireFromString(amount),
		ZScore:        decimal.RequireFromString(z),
	}
}

func TestAlertWorkerTallies(t *testing.T) {
	ctx := context.Background()
	w := NewAlertWorker(nil)

	msgs := []*amqp.AnomalyAlertMessage{
		alert(9, "Food", "200", "2.67"),
		alert(12, "Rent", "2500", "2.10"),
		alert(18, "Food", "5", "-3.20"),
		alert(9, "Food", "200", "2.67"), // redelivery
	}
	for _, m := range msgs {
		if err := w.HandleAnomalyAlert(ctx, m); err != nil {
			t.Fatalf("HandleAnomalyAlert(%d): %v", m.TransactionID, err)
		}
	}

	got := w.Summary()
	if len(got) != 2 {
		t.Fatalf("summary has %d categories, want 2", len(got))
	}
	food := got[0]
	if food.Category != "Food" || food.Count != 2 {
		t.Fatalf("food tally = %+v", food)
	}
	if !food.Total.Equal(decimal.RequireFromString("205")) {
		t.Errorf("food total = %s, want 205", food.Total)
	}
	if !food.MaxZ.Equal(decimal.RequireFromString("3.2")) {
		t.Errorf("food max |z| = %s, want 3.2", food.MaxZ)
	}
	if got[1].Category != "Rent" || got[1].Count != 1 {
		t.Errorf("rent tally = %+v", got[1])
	}
}

func TestAlertWorkerDropsMissingCategory(t *testing.T) {
	w := NewAlertWorker(nil)
	if err := w.HandleAnomalyAlert(context.Background(), alert(1, "", "1", "3")); err != nil {
		t.Fatalf("HandleAnomalyAlert: %v", err)
	}
	if len(w.Summary()) != 0 {
		t.Fatal("dropped alert must not be tallied")
	}
}

func TestAlertWorkerKeepsSameIDFromOtherSession(t *testing.T) {
	ctx := context.Background()
	w := NewAlertWorker(nil)

	// Both sessions number their transactions from 1.
	for _, m := range []*amqp.AnomalyAlertMessage{
		sessionAlert("session-a", 9, "Food", "200", "2.67"),
		sessionAlert("session-b", 9, "Rent", "2500", "2.10"),
		sessionAlert("session-b", 9, "Rent", "2500", "2.10"), // redelivery
	} {
		if err := w.HandleAnomalyAlert(ctx, m); err != nil {
			t.Fatalf("HandleAnomalyAlert: %v", err)
		}
	}

	got := w.Summary()
	if len(got) != 2 {
		t.Fatalf("summary = %+v, want Food and Rent", got)
	}
	if got[0].Category != "Food" || got[0].Count != 1 {
		t.Errorf("food tally = %+v", got[0])
	}
	if got[1].Category != "Rent" || got[1].Count != 1 {
		t.Errorf("rent tally = %+v", got[1])
	}
}
