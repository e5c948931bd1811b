package wallet

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	weiDecimals      = 18
	transferGasLimit = 21000
)

// EthSession is a locally-keyed wallet session over a JSON-RPC node.
type EthSession struct {
	client     *ethclient.Client
	privateKey *ecdsa.PrivateKey
	address    common.Address
	chainID    *big.Int
	logger     *zap.Logger

	mu   sync.Mutex
	subs map[string]chan Event
}

// NewEthSession derives the account from the private key and dials the node.
// An empty key means no provider is configured.
func NewEthSession(ctx context.Context, rpcURL, privateKeyHex string, chainID int64, logger *zap.Logger) (*EthSession, error) {
	if privateKeyHex == "" {
		return nil, ErrProviderMissing
	}

	key := strings.TrimPrefix(strings.TrimPrefix(privateKeyHex, "0x"), "0X")
	privateKey, err := crypto.HexToECDSA(key)
	if err != nil {
		return nil, errors.Wrap(err, "parse wallet private key")
	}

	pub, ok := privateKey.Public().(*ecdsa.PublicKey)
	if !ok {
		return nil, errors.New("error casting public key to ECDSA")
	}

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, errors.Wrapf(ErrProviderMissing, "dial %s: %v", rpcURL, err)
	}

	return &EthSession{
		client:     client,
		privateKey: privateKey,
		address:    crypto.PubkeyToAddress(*pub),
		chainID:    big.NewInt(chainID),
		logger:     logger,
		subs:       make(map[string]chan Event),
	}, nil
}

func (s *EthSession) Connect(_ context.Context) (string, error) {
	return s.address.Hex(), nil
}

// RestoreSilently always succeeds for a locally-keyed session; the address
// is derived from the key, no prompt is involved.
func (s *EthSession) RestoreSilently(_ context.Context) (string, error) {
	return s.address.Hex(), nil
}

func (s *EthSession) GetBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	if !common.IsHexAddress(address) {
		return decimal.Zero, errors.Errorf("invalid account address %q", address)
	}

	wei, err := s.client.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "read balance")
	}

	return WeiToEth(wei), nil
}

// SendPayment signs and submits a plain value transfer to the given address.
func (s *EthSession) SendPayment(ctx context.Context, to string, amount decimal.Decimal) (*Receipt, error) {
	if !common.IsHexAddress(to) {
		return nil, errors.Wrapf(ErrTransactionFailed, "invalid destination address %q", to)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, errors.Wrapf(ErrTransactionFailed, "non-positive amount %s", amount.String())
	}

	wei := EthToWei(amount)

	balance, err := s.client.BalanceAt(ctx, s.address, nil)
	if err != nil {
		return nil, errors.Wrap(err, "read balance before transfer")
	}
	if balance.Cmp(wei) < 0 {
		return nil, errors.Wrapf(ErrInsufficientFunds, "needed %s ETH, available %s ETH",
			amount.String(), WeiToEth(balance).StringFixed(6))
	}

	nonce, err := s.client.PendingNonceAt(ctx, s.address)
	if err != nil {
		return nil, errors.Wrap(err, "read pending nonce")
	}

	gasPrice, err := s.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "suggest gas price")
	}

	tx := types.NewTransaction(nonce, common.HexToAddress(to), wei, transferGasLimit, gasPrice, nil)
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(s.chainID), s.privateKey)
	if err != nil {
		return nil, errors.Wrap(err, "sign transfer")
	}

	if err := s.client.SendTransaction(ctx, signed); err != nil {
		return nil, errors.Wrapf(ErrTransactionFailed, "submit transfer: %v", err)
	}

	s.logger.Info("payment submitted",
		zap.String("tx", signed.Hash().Hex()),
		zap.String("to", to),
		zap.String("amount_eth", amount.String()))

	return &Receipt{TxHash: signed.Hash().Hex(), Amount: amount}, nil
}

func (s *EthSession) Subscribe() (string, <-chan Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	ch := make(chan Event, 4)
	s.subs[id] = ch
	return id, ch
}

func (s *EthSession) Unsubscribe(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ch, ok := s.subs[id]; ok {
		close(ch)
		delete(s.subs, id)
	}
}

// Close notifies subscribers and releases the RPC client.
func (s *EthSession) Close() {
	s.mu.Lock()
	for id, ch := range s.subs {
		select {
		case ch <- Event{Kind: EventDisconnected}:
		default:
		}
		close(ch)
		delete(s.subs, id)
	}
	s.mu.Unlock()

	s.client.Close()
}

// WeiToEth converts a wei amount into ETH.
func WeiToEth(wei *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(wei, -weiDecimals)
}

// EthToWei converts an ETH amount into wei, truncating sub-wei precision.
func EthToWei(eth decimal.Decimal) *big.Int {
	return eth.Shift(weiDecimals).Truncate(0).BigInt()
}
