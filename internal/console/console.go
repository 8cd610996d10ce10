// Package console is the interactive front end: a first-run setup followed by
// a numbered menu over a services.Analyzer. It owns all prompt and report
// text; no numbers are computed here.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"budget/internal/core"
	"budget/internal/log"
	"budget/internal/services"

	"github.com/shopspring/decimal"
)

var menuItems = []string{
	"Add Transaction",
	"Add Category",
	"View Dashboard",
	"Analyze Spending Patterns",
	"Detect Anomalies",
	"View All Transactions",
	"Generate Monthly Report",
	"Set Monthly Budget",
	"Exit",
}

const choiceExit = 9

// Session reads commands from one input stream and writes to one output.
type Session struct {
	analyzer   *services.Analyzer
	out        io.Writer
	lines      <-chan string
	done       chan struct{}
	stopOnce   sync.Once
	readerDone chan struct{}
	logger     *log.Logger
}

// NewSession starts reading in on a background goroutine so prompts can be
// abandoned when the context is cancelled. The reader stops at end of input
// or after Stop; a reader blocked inside in.Read returns with its next line.
func NewSession(analyzer *services.Analyzer, in io.Reader, out io.Writer, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Nop()
	}
	lines := make(chan string)
	s := &Session{
		analyzer:   analyzer,
		out:        out,
		lines:      lines,
		done:       make(chan struct{}),
		readerDone: make(chan struct{}),
		logger:     logger.WithComponent(log.ComponentConsole),
	}
	go func() {
		defer close(s.readerDone)
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimRight(scanner.Text(), "\r"):
			case <-s.done:
				return
			}
		}
	}()
	return s
}

// Stop releases the input reader. It is safe to call more than once.
func (s *Session) Stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

// Run performs the setup dialogue and then serves the menu until the user
// exits, the input ends or ctx is cancelled. End of input is a clean exit.
// The session is stopped when Run returns.
func (s *Session) Run(ctx context.Context) error {
	defer s.Stop()

	err := s.Setup(ctx)
	if err == nil {
		err = s.Menu(ctx)
	}
	if errors.Is(err, io.EOF) {
		s.logger.Debug("Input closed")
		return nil
	}
	return err
}

// Setup optionally creates categories and records initial transactions.
func (s *Session) Setup(ctx context.Context) error {
	yes, err := s.confirm(ctx, "Would you like to set up your categories now? (y/n): ")
	if err != nil {
		return err
	}
	if yes {
		line, err := s.prompt(ctx, "How many categories do you want to add: ")
		if err != nil {
			return err
		}
		n, _ := strconv.Atoi(strings.TrimSpace(line))
		for i := 0; i < n; i++ {
			name, err := s.prompt(ctx, fmt.Sprintf("Enter name for category #%d: ", i+1))
			if err != nil {
				return err
			}
			amount, err := s.promptAmount(ctx, fmt.Sprintf("Enter monthly budget for '%s': $", name))
			if err != nil {
				return err
			}
			s.addCategory(ctx, name, amount)
		}
	}

	yes, err = s.confirm(ctx, "Would you like to add initial transactions now? (y/n): ")
	if err != nil {
		return err
	}
	if !yes {
		return nil
	}
	for {
		category, err := s.prompt(ctx, "Enter category for transaction (or just Enter to stop): ")
		if err != nil {
			return err
		}
		if category == "" {
			return nil
		}
		if err := s.readTransaction(ctx, category); err != nil {
			return err
		}
	}
}

// Menu serves the numbered menu until Exit is chosen.
func (s *Session) Menu(ctx context.Context) error {
	for {
		RenderMenu(s.out)
		line, err := s.readLine(ctx)
		if err != nil {
			return err
		}
		choice, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			choice = 0
		}
		if choice == choiceExit {
			fmt.Fprintln(s.out, "\nThank you for using Smart Budget Analyzer!")
			return nil
		}
		if err := s.dispatch(ctx, choice); err != nil {
			return err
		}
	}
}

func (s *Session) dispatch(ctx context.Context, choice int) error {
	switch choice {
	case 1:
		category, err := s.prompt(ctx, "Enter category: ")
		if err != nil {
			return err
		}
		return s.readTransaction(ctx, category)
	case 2:
		name, err := s.prompt(ctx, "Enter category name: ")
		if err != nil {
			return err
		}
		amount, err := s.promptAmount(ctx, "Enter budget for this category: $")
		if err != nil {
			return err
		}
		s.addCategory(ctx, name, amount)
	case 3:
		RenderDashboard(s.out, s.analyzer.DashboardSummary())
	case 4:
		RenderSpendingAnalysis(s.out, s.analyzer.SpendingAnalysis())
	case 5:
		RenderAnomalies(s.out, s.analyzer.Anomalies())
	case 6:
		RenderTransactions(s.out, s.analyzer.Transactions())
	case 7:
		RenderMonthlyReport(s.out, s.analyzer.MonthlyReport(), s.analyzer.Thresholds())
	case 8:
		amount, err := s.promptAmount(ctx, "Enter monthly budget: $")
		if err != nil {
			return err
		}
		s.analyzer.SetMonthlyBudget(ctx, amount)
		fmt.Fprintf(s.out, "[OK] Budget set to %s\n", money(amount))
	default:
		fmt.Fprintln(s.out, "Invalid choice! Please try again.")
	}
	return nil
}

func (s *Session) readTransaction(ctx context.Context, category string) error {
	amount, err := s.promptAmount(ctx, "Enter amount: $")
	if err != nil {
		return err
	}
	description, err := s.prompt(ctx, "Enter description: ")
	if err != nil {
		return err
	}
	date, err := s.prompt(ctx, "Enter date (YYYY-MM-DD): ")
	if err != nil {
		return err
	}
	s.analyzer.AddTransaction(ctx, category, amount, description, date)
	fmt.Fprintln(s.out, "[OK] Transaction added successfully!")
	return nil
}

func (s *Session) addCategory(ctx context.Context, name string, amount decimal.Decimal) {
	if _, err := s.analyzer.AddCategory(ctx, name, amount); err != nil {
		switch {
		case errors.Is(err, core.ErrCategoryExists):
			fmt.Fprintf(s.out, "[ERROR] Category '%s' already exists.\n", name)
		case errors.Is(err, core.ErrEmptyCategoryName):
			fmt.Fprintln(s.out, "[ERROR] Category name cannot be empty.")
		default:
			fmt.Fprintf(s.out, "[ERROR] %v\n", err)
		}
		return
	}
	fmt.Fprintln(s.out, "[OK] Category added successfully!")
}

func (s *Session) prompt(ctx context.Context, text string) (string, error) {
	fmt.Fprint(s.out, text)
	line, err := s.readLine(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptAmount asks again until the answer parses as an amount.
func (s *Session) promptAmount(ctx context.Context, text string) (decimal.Decimal, error) {
	for {
		line, err := s.prompt(ctx, text)
		if err != nil {
			return decimal.Zero, err
		}
		amount, err := core.ParseAmount(line)
		if err == nil {
			return amount, nil
		}
		fmt.Fprintln(s.out, "Invalid amount! Please enter a number such as 12.50.")
	}
}

func (s *Session) confirm(ctx context.Context, text string) (bool, error) {
	line, err := s.prompt(ctx, text)
	if err != nil {
		return false, err
	}
	return strings.HasPrefix(strings.ToLower(line), "y"), nil
}

func (s *Session) readLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-s.done:
		return "", io.EOF
	case line, ok := <-s.lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	}
}
