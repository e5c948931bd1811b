package wallet

import (
	"context"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestWeiToEth(t *testing.T) {
	wei, ok := new(big.Int).SetString("1500000000000000000", 10)
	require.True(t, ok)
	require.True(t, WeiToEth(wei).Equal(decimal.RequireFromString("1.5")))
}

func TestEthToWei(t *testing.T) {
	wei := EthToWei(decimal.RequireFromString("0.062400"))
	want, ok := new(big.Int).SetString("62400000000000000", 10)
	require.True(t, ok)
	require.Zero(t, wei.Cmp(want))
}

func TestEthToWeiTruncatesSubWei(t *testing.T) {
	// 19 fractional digits: the final digit is below one wei
	wei := EthToWei(decimal.RequireFromString("0.0000000000000000015"))
	require.Zero(t, wei.Cmp(big.NewInt(1)))
}

func TestWeiRoundTrip(t *testing.T) {
	amount := decimal.RequireFromString("0.05")
	require.True(t, WeiToEth(EthToWei(amount)).Equal(amount))
}

func TestNewEthSessionRequiresKey(t *testing.T) {
	_, err := NewEthSession(context.Background(), "http://localhost:8545", "", 1, nil)
	require.ErrorIs(t, err, ErrProviderMissing)
}

func TestStubSessionPaymentFlow(t *testing.T) {
	s := NewStubSession("0xd85ca20db6e444e3b4c4b3c18a36fc45f7a66991", decimal.NewFromInt(1))

	receipt, err := s.SendPayment(context.Background(), "0x0000000000000000000000000000000000000001", decimal.RequireFromString("0.4"))
	require.NoError(t, err)
	require.NotEmpty(t, receipt.TxHash)

	balance, err := s.GetBalance(context.Background(), "")
	require.NoError(t, err)
	require.True(t, balance.Equal(decimal.RequireFromString("0.6")))

	_, err = s.SendPayment(context.Background(), "0x0000000000000000000000000000000000000001", decimal.NewFromInt(5))
	require.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestStubSessionEvents(t *testing.T) {
	s := NewStubSession("0xd85ca20db6e444e3b4c4b3c18a36fc45f7a66991", decimal.NewFromInt(1))
	id, events := s.Subscribe()
	defer s.Unsubscribe(id)

	s.SwitchAccount("0x0000000000000000000000000000000000000002")
	ev := <-events
	require.Equal(t, EventAccountChanged, ev.Kind)
	require.Equal(t, "0x0000000000000000000000000000000000000002", ev.Address)

	s.Disconnect()
	ev = <-events
	require.Equal(t, EventDisconnected, ev.Kind)
}
