// Package wallet defines the narrow session contract the mint desk consumes
// and its Ethereum implementation. The core never inspects provider
// internals beyond this contract.
package wallet

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrProviderMissing no wallet provider is configured.
	ErrProviderMissing = errors.New("wallet provider missing")
	// ErrUserRejected the holder declined the connection or transaction.
	ErrUserRejected = errors.New("wallet request rejected")
	// ErrInsufficientFunds balance cannot cover the requested transfer.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrTransactionFailed the transfer was submitted but not accepted.
	ErrTransactionFailed = errors.New("transaction failed")
)

// Receipt confirms one submitted payment. It carries no finality guarantee.
type Receipt struct {
	TxHash string
	Amount decimal.Decimal
}

// EventKind classifies asynchronous session notifications.
type EventKind string

const (
	EventAccountChanged EventKind = "account_changed"
	EventDisconnected   EventKind = "disconnected"
)

// Event is an asynchronous account-change or disconnect notification.
type Event struct {
	Kind    EventKind
	Address string
}

// Session is the four-operation wallet contract plus a notification
// subscription consumed once per session.
type Session interface {
	// Connect requests account access and returns the active address.
	Connect(ctx context.Context) (string, error)
	// RestoreSilently returns the active address without prompting,
	// or "" when no session can be restored.
	RestoreSilently(ctx context.Context) (string, error)
	// GetBalance reads the native-currency balance of an address in ETH.
	GetBalance(ctx context.Context, address string) (decimal.Decimal, error)
	// SendPayment signs and submits a native-currency transfer.
	SendPayment(ctx context.Context, to string, amount decimal.Decimal) (*Receipt, error)
	// Subscribe registers for account-change/disconnect notifications.
	Subscribe() (id string, events <-chan Event)
	// Unsubscribe releases a subscription.
	Unsubscribe(id string)
}
