package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"budget/internal/core"
	"budget/internal/services"
	"budget/internal/stats"

	"github.com/shopspring/decimal"
)

func newSession(t *testing.T, input string) (*Session, *services.Analyzer, *bytes.Buffer) {
	t.Helper()
	l := core.NewLedger(decimal.NewFromInt(1000), core.RecomputeOnTransaction)
	a := services.NewAnalyzer(l, nil, stats.DefaultConfig(), nil, nil, nil)
	var out bytes.Buffer
	return NewSession(a, strings.NewReader(input), &out, nil), a, &out
}

func script(lines ...string) string { return strings.Join(lines, "\n") + "\n" }

func TestSessionSetupAndMenu(t *testing.T) {
	input := script(
		"y", "2",
		"Food", "300",
		"Rent", "abc", "700",
		"y",
		"Food", "12,50", "lunch", "2025-03-01",
		"Rent", "600", "march", "2025-03-02",
		"",
		"3", "4", "5", "6", "7",
		"8", "2000",
		"2", "Food", "10",
		"42",
		"9",
	)
	s, a, out := newSession(t, input)

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := len(a.Transactions()); got != 2 {
		t.Fatalf("transactions = %d, want 2", got)
	}
	if !a.MonthlyBudget().Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("monthly budget = %s", a.MonthlyBudget())
	}

	text := out.String()
	for _, want := range []string{
		"Invalid amount!",
		"[OK] Transaction added successfully!",
		"FINANCIAL DASHBOARD",
		" Total Spent: $612.50",
		" Budget Used: 61.3%",
		" Food: $12.50 (1.3%)",
		"[Rent]",
		"[!] HIGH SPENDING",
		"[OK] HEALTHY SPENDING",
		"[OK] No anomalies detected!",
		"[1] 2025-03-01 | Food | $12.50",
		"    Description: lunch",
		"Budget Utilization: 61.2%",
		"[OK] Your spending is under control. Keep it up!",
		"[OK] Budget set to $2000.00",
		"[ERROR] Category 'Food' already exists.",
		"Invalid choice! Please try again.",
		"Thank you for using Smart Budget Analyzer!",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestSessionSkipsSetupAndStopsAtEOF(t *testing.T) {
	s, a, out := newSession(t, script("n", "n", "6"))

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(a.Transactions()) != 0 {
		t.Fatal("no transactions expected")
	}
	if !strings.Contains(out.String(), "No transactions recorded.") {
		t.Fatalf("unexpected output: %s", out.String())
	}
}

func TestSessionCancelled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	l := core.NewLedger(core.DefaultMonthlyBudget, core.RecomputeOnTransaction)
	s := NewSession(services.NewAnalyzer(l, nil, stats.DefaultConfig(), nil, nil, nil), pr, io.Discard, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRenderAnomaliesListsFlagged(t *testing.T) {
	ctx := context.Background()
	l := core.NewLedger(core.DefaultMonthlyBudget, core.RecomputeOnTransaction)
	a := services.NewAnalyzer(l, nil, stats.DefaultConfig(), nil, nil, nil)
	_, _ = a.AddCategory(ctx, "Food", decimal.Zero)
	for _, v := range []int64{10, 12, 11, 13, 10, 12, 11, 13, 200} {
		a.AddTransaction(ctx, "Food", decimal.NewFromInt(v), "meal", "2025-03-14")
	}

	var buf bytes.Buffer
	RenderAnomalies(&buf, a.Anomalies())
	text := buf.String()
	for _, want := range []string{
		"[*] Category: Food",
		"[!] ANOMALY: $200.00 on 2025-03-14",
		"Z-Score: 2.67",
		"[WARNING] Found 1 anomalous transactions!",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q in:\n%s", want, text)
		}
	}
}

func TestSessionReleasesReaderAfterExit(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	l := core.NewLedger(core.DefaultMonthlyBudget, core.RecomputeOnTransaction)
	s := NewSession(services.NewAnalyzer(l, nil, stats.DefaultConfig(), nil, nil, nil), pr, io.Discard, nil)

	runErr := make(chan error, 1)
	go func() { runErr <- s.Run(context.Background()) }()

	// Pipe writes return once the scanner has consumed them.
	for _, line := range []string{"n\n", "n\n", "9\n"} {
		if _, err := pw.Write([]byte(line)); err != nil {
			t.Fatalf("write %q: %v", line, err)
		}
	}
	if err := <-runErr; err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Input typed after exit must not strand the reader on a send.
	go pw.Write([]byte("late\n"))

	select {
	case <-s.readerDone:
	case <-time.After(2 * time.Second):
		t.Fatal("reader goroutine still running after the session ended")
	}
}
