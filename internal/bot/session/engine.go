// Package session implements the per-chat conversational engine: a finite-state
// dialog that turns free-text chat messages into transaction and settings
// records, plus the selection cache resolving numeric removal replies.
package session

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/potatotracker/internal/aggregate"
	"github.com/potatotracker/internal/bot/transport"
	"github.com/potatotracker/internal/domain/settings"
	"github.com/potatotracker/internal/domain/transaction"
)

const replyGenericError = "An error occurred. Please try again."

// Engine drives the per-chat dialog state machine. An inbound message either
// starts or advances the chat's session; the reply goes out via the transport
// sender. Any fault during step processing destroys the session so a chat is
// never left pointing at a draft that failed to persist.
type Engine struct {
	logger       *slog.Logger
	transactions transaction.Repository
	prefs        settings.Repository
	sender       transport.Sender
	sessions     *sessionStore
	cache        *selectionCache
	now          func() time.Time
}

// NewEngine creates a dialog engine over the given store and transport
func NewEngine(logger *slog.Logger, transactions transaction.Repository, prefs settings.Repository, sender transport.Sender) *Engine {
	return &Engine{
		logger:       logger,
		transactions: transactions,
		prefs:        prefs,
		sender:       sender,
		sessions:     newSessionStore(),
		cache:        newSelectionCache(),
		now:          time.Now,
	}
}

// HandleMessage processes one inbound chat message. With an active session the
// text is consumed as step input; otherwise it is dispatched as a command.
// Commands are matched case-insensitively; unrecognized commands are ignored.
func (e *Engine) HandleMessage(ctx context.Context, chatID, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	var err error
	if sess, ok := e.sessions.get(chatID); ok {
		err = e.handleStep(ctx, chatID, sess, text)
	} else {
		err = e.handleCommand(ctx, chatID, strings.ToLower(text))
	}

	if err != nil {
		e.logger.Error("message handling failed", "chat_id", chatID, "error", err)
		e.sessions.delete(chatID)
		if sendErr := e.sender.Send(ctx, chatID, replyGenericError); sendErr != nil {
			e.logger.Error("failed to send error reply", "chat_id", chatID, "error", sendErr)
		}
	}
}

func (e *Engine) handleCommand(ctx context.Context, chatID, command string) error {
	switch command {
	case "/start":
		return e.sender.SendKeyboard(ctx, chatID, "Choose an option:", mainMenuKeyboard)

	case "/income":
		e.sessions.set(chatID, &session{step: stepIncomeAmount})
		return e.sender.Send(ctx, chatID, "What is the income amount?")

	case "/expense":
		e.sessions.set(chatID, &session{step: stepExpenseAmount})
		return e.sender.Send(ctx, chatID, "What is the expense amount?")

	case "/remove":
		e.sessions.set(chatID, &session{step: stepRemoveSelect})
		return e.sender.Send(ctx, chatID, "Enter the number of the transaction to remove (as shown in the history):")

	case "/settings":
		e.sessions.set(chatID, &session{
			step:     stepSettingsMenu,
			settings: settings.Settings{ChatID: chatID},
		})
		return e.sender.SendKeyboard(ctx, chatID, "Choose a setting to update:", settingsMenuKeyboard)

	case "/history":
		list, err := e.transactions.List(ctx, chatID)
		if err != nil {
			return err
		}
		e.cache.set(chatID, list)
		return e.sender.Send(ctx, chatID, formatList(list))

	case "/expensehistory":
		return e.sendTypeHistory(ctx, chatID, transaction.TypeExpense)

	case "/incomehistory":
		return e.sendTypeHistory(ctx, chatID, transaction.TypeIncome)

	case "/monthly":
		return e.sendCycleHistory(ctx, chatID)

	case "/balance":
		list, err := e.transactions.List(ctx, chatID)
		if err != nil {
			return err
		}
		return e.sender.Send(ctx, chatID, formatBalance(aggregate.Balance(list)))

	case "/monthlybalance":
		list, err := e.transactions.List(ctx, chatID)
		if err != nil {
			return err
		}
		now := e.now()
		return e.sender.Send(ctx, chatID, formatMonthlyBalance(aggregate.MonthlyBalance(list, now), now))
	}

	// Unrecognized commands in idle are silently ignored
	return nil
}

func (e *Engine) sendTypeHistory(ctx context.Context, chatID string, typ transaction.Type) error {
	list, err := e.transactions.List(ctx, chatID)
	if err != nil {
		return err
	}
	filtered := aggregate.FilterByType(list, typ)
	e.cache.set(chatID, filtered)
	return e.sender.Send(ctx, chatID, formatList(filtered))
}

// sendCycleHistory lists the current salary cycle. Without a configured salary
// day the command only points the user at /settings.
func (e *Engine) sendCycleHistory(ctx context.Context, chatID string) error {
	prefs, err := e.prefs.Get(ctx, chatID)
	if err != nil {
		return err
	}
	if prefs == nil || prefs.SalaryDay == nil {
		return e.sender.Send(ctx, chatID, "You need to set your salary day first. Use /settings to set it.")
	}

	list, err := e.transactions.List(ctx, chatID)
	if err != nil {
		return err
	}
	window := aggregate.FilterFromDate(list, aggregate.CycleWindowStart(prefs, e.now()))
	e.cache.set(chatID, window)
	return e.sender.Send(ctx, chatID, formatList(window))
}

func (e *Engine) handleStep(ctx context.Context, chatID string, sess *session, text string) error {
	switch sess.step {
	case stepIncomeAmount:
		return e.stepAmount(ctx, chatID, sess, text, stepIncomeDescription)

	case stepExpenseAmount:
		return e.stepAmount(ctx, chatID, sess, text, stepExpenseDescription)

	case stepIncomeDescription:
		return e.stepDescription(ctx, chatID, sess, text, transaction.TypeIncome, "Income recorded.")

	case stepExpenseDescription:
		return e.stepDescription(ctx, chatID, sess, text, transaction.TypeExpense, "Expense recorded.")

	case stepRemoveSelect:
		return e.stepRemoveSelect(ctx, chatID, text)

	case stepSettingsMenu:
		return e.stepSettingsMenu(ctx, chatID, sess, text)

	case stepSettingsCurrency:
		sess.settings.Currency = text
		if err := e.prefs.Save(ctx, &sess.settings); err != nil {
			return err
		}
		e.sessions.delete(chatID)
		return e.sender.Send(ctx, chatID, "Currency updated.")

	case stepSettingsSalaryDay:
		day, err := strconv.Atoi(text)
		if err != nil || day < 1 || day > 31 {
			// Unlike removal, a bad day aborts the dialog instead of re-prompting
			e.sessions.delete(chatID)
			return e.sender.Send(ctx, chatID, "Invalid day. Please enter a valid day of the month (1-31):")
		}
		sess.settings.SalaryDay = &day
		if err := e.prefs.Save(ctx, &sess.settings); err != nil {
			return err
		}
		e.sessions.delete(chatID)
		return e.sender.Send(ctx, chatID, "Salary day updated.")
	}

	return nil
}

func (e *Engine) stepAmount(ctx context.Context, chatID string, sess *session, text string, next step) error {
	// ParseFloat accepts "NaN" and "Inf"; neither is a valid magnitude
	amount, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		e.sessions.delete(chatID)
		return e.sender.Send(ctx, chatID, "Invalid amount. Please enter a valid number.")
	}

	sess.draft = transaction.Transaction{ChatID: chatID, Amount: amount}
	sess.step = next
	return e.sender.Send(ctx, chatID, "Write the description")
}

func (e *Engine) stepDescription(ctx context.Context, chatID string, sess *session, text string, typ transaction.Type, reply string) error {
	sess.draft.Description = text
	sess.draft.Date = e.now()
	sess.draft.Type = typ

	if err := e.transactions.Create(ctx, &sess.draft); err != nil {
		return err
	}

	e.sessions.delete(chatID)
	return e.sender.Send(ctx, chatID, reply)
}

// stepRemoveSelect refreshes the selection cache with the current salary-cycle
// window, then resolves the reply as a 1-based index into it. An out-of-range
// or non-numeric reply re-prompts without destroying the session.
func (e *Engine) stepRemoveSelect(ctx context.Context, chatID, text string) error {
	prefs, err := e.prefs.Get(ctx, chatID)
	if err != nil {
		return err
	}

	list, err := e.transactions.List(ctx, chatID)
	if err != nil {
		return err
	}
	window := aggregate.FilterFromDate(list, aggregate.CycleWindowStart(prefs, e.now()))
	e.cache.set(chatID, window)

	index, err := strconv.Atoi(text)
	if err != nil {
		return e.sender.Send(ctx, chatID, "Invalid index. Please enter a valid transaction number from the history:")
	}

	tx, ok := e.cache.resolve(chatID, index)
	if !ok {
		return e.sender.Send(ctx, chatID, "Invalid index. Please enter a valid transaction number from the history:")
	}

	if err := e.transactions.Remove(ctx, chatID, tx.ID); err != nil {
		return err
	}

	e.sessions.delete(chatID)
	return e.sender.Send(ctx, chatID, "Transaction removed.")
}

func (e *Engine) stepSettingsMenu(ctx context.Context, chatID string, sess *session, text string) error {
	switch strings.ToLower(text) {
	case "currency":
		sess.step = stepSettingsCurrency
		return e.sender.Send(ctx, chatID, "Enter your preferred currency:")

	case "salary day":
		sess.step = stepSettingsSalaryDay
		return e.sender.Send(ctx, chatID, "Enter your salary day (1-31):")

	default:
		return e.sender.SendKeyboard(ctx, chatID, "Choose a setting to update:", settingsMenuKeyboard)
	}
}
