package wallet

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StubSession is an in-memory session for tests and the view-only mode:
// it holds a fake balance and settles transfers instantly.
type StubSession struct {
	mu      sync.Mutex
	address string
	balance decimal.Decimal
	subs    map[string]chan Event
	txSeq   int

	RejectConnect bool
	FailSend      bool
	// SendDelay pauses SendPayment before it settles, mimicking
	// confirmation latency of a real transfer.
	SendDelay time.Duration
}

func NewStubSession(address string, balance decimal.Decimal) *StubSession {
	return &StubSession{
		address: address,
		balance: balance,
		subs:    make(map[string]chan Event),
	}
}

func (s *StubSession) Connect(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.address == "" {
		return "", ErrProviderMissing
	}
	if s.RejectConnect {
		return "", ErrUserRejected
	}
	return s.address, nil
}

func (s *StubSession) RestoreSilently(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.address, nil
}

func (s *StubSession) GetBalance(_ context.Context, _ string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance, nil
}

func (s *StubSession) SendPayment(ctx context.Context, to string, amount decimal.Decimal) (*Receipt, error) {
	if s.SendDelay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.SendDelay):
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailSend {
		return nil, ErrTransactionFailed
	}
	if s.balance.LessThan(amount) {
		return nil, ErrInsufficientFunds
	}

	s.balance = s.balance.Sub(amount)
	s.txSeq++
	return &Receipt{TxHash: fmt.Sprintf("0xstub%06d", s.txSeq), Amount: amount}, nil
}

func (s *StubSession) Subscribe() (string, <-chan Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	ch := make(chan Event, 4)
	s.subs[id] = ch
	return id, ch
}

func (s *StubSession) Unsubscribe(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ch, ok := s.subs[id]; ok {
		close(ch)
		delete(s.subs, id)
	}
}

// SwitchAccount emits an account-change event to all subscribers.
func (s *StubSession) SwitchAccount(address string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.address = address
	for _, ch := range s.subs {
		select {
		case ch <- Event{Kind: EventAccountChanged, Address: address}:
		default:
		}
	}
}

// Disconnect emits a disconnect event to all subscribers.
func (s *StubSession) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.address = ""
	for _, ch := range s.subs {
		select {
		case ch <- Event{Kind: EventDisconnected}:
		default:
		}
	}
}
