// Package web serves the mint desk UI: an HTML page, an SSE state stream
// and a small JSON action API.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/vadiminshakov/silvermint/internal/app"
	"github.com/vadiminshakov/silvermint/internal/domain"
	"github.com/vadiminshakov/silvermint/internal/services/convert"
	"github.com/vadiminshakov/silvermint/internal/services/wallet"
)

const statePollInterval = 2 * time.Second

type desk interface {
	State() app.State
	Refresh(ctx context.Context) error
	SetCurrency(c domain.DisplayCurrency)
	Connect(ctx context.Context) (string, error)
	Disconnect()
	Quote(amount decimal.Decimal) convert.Conversion
	Mint(ctx context.Context, amount decimal.Decimal) (*app.MintResult, error)
}

// Server exposes HTTP endpoints serving the HTML UI, an SSE stream of the
// desk state and JSON actions.
type Server struct {
	Addr string
	Desk desk

	// TLSDomains switches the server to HTTPS with ACME-issued certificates
	// when non-empty. CertCacheDir stores the obtained certificates.
	TLSDomains   []string
	CertCacheDir string

	logger *zap.Logger
}

// NewServer creates a new web server instance.
func NewServer(addr string, d desk, logger *zap.Logger) *Server {
	return &Server{Addr: addr, Desk: d, logger: logger}
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/stream", s.handleStateStream)
	mux.HandleFunc("/api/refresh", s.handleRefresh)
	mux.HandleFunc("/api/quote", s.handleQuote)
	mux.HandleFunc("/api/currency", s.handleCurrency)
	mux.HandleFunc("/api/connect", s.handleConnect)
	mux.HandleFunc("/api/disconnect", s.handleDisconnect)
	mux.HandleFunc("/api/mint", s.handleMint)
	return mux
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is
// cancelled. With TLSDomains set it serves HTTPS via autocert and keeps a
// plain listener for the ACME http-01 challenge.
func (s *Server) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	server := &http.Server{
		Addr:              s.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	var challenge *http.Server
	if len(s.TLSDomains) > 0 {
		manager := &autocert.Manager{
			Prompt:     autocert.AcceptTOS,
			HostPolicy: autocert.HostWhitelist(s.TLSDomains...),
			Cache:      autocert.DirCache(s.CertCacheDir),
		}
		server.TLSConfig = manager.TLSConfig()

		challenge = &http.Server{
			Addr:              ":http",
			Handler:           manager.HTTPHandler(nil),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := challenge.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Error("ACME challenge listener failed", zap.Error(err))
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		if challenge != nil {
			_ = challenge.Shutdown(shutdownCtx)
		}
	}()

	var err error
	if len(s.TLSDomains) > 0 {
		err = server.ListenAndServeTLS("", "")
	} else {
		err = server.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}

func (s *Server) handleStateStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// comment heartbeat every 30s so proxies keep the connection
	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	pollTicker := time.NewTicker(statePollInterval)
	defer pollTicker.Stop()

	sendState := func() error {
		payload, err := json.Marshal(renderState(s.Desk.State()))
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "event: state\n")
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
		return nil
	}

	if err := sendState(); err != nil {
		s.logger.Error("state stream initial send failed", zap.Error(err))
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		case <-pollTicker.C:
			if err := sendState(); err != nil {
				s.logger.Error("state stream send failed", zap.Error(err))
				return
			}
		}
	}
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := s.Desk.Refresh(r.Context()); err != nil {
		s.logger.Warn("manual refresh failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "price feeds unavailable")
		return
	}
	writeJSON(w, renderState(s.Desk.State()))
}

type amountRequest struct {
	Amount string `json:"amount"`
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	amount, err := decodeAmount(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, renderQuote(s.Desk.Quote(amount)))
}

func (s *Server) handleCurrency(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Currency string `json:"currency"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	currency, err := domain.ParseDisplayCurrency(req.Currency)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.Desk.SetCurrency(currency)
	writeJSON(w, renderState(s.Desk.State()))
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if _, err := s.Desk.Connect(r.Context()); err != nil {
		switch {
		case errors.Is(err, wallet.ErrProviderMissing):
			writeError(w, http.StatusServiceUnavailable, "no wallet is configured")
		case errors.Is(err, wallet.ErrUserRejected):
			writeError(w, http.StatusConflict, "connection rejected")
		default:
			s.logger.Error("wallet connect failed", zap.Error(err))
			writeError(w, http.StatusBadGateway, "wallet connection failed")
		}
		return
	}
	writeJSON(w, renderState(s.Desk.State()))
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.Desk.Disconnect()
	writeJSON(w, renderState(s.Desk.State()))
}

func (s *Server) handleMint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	amount, err := decodeAmount(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.Desk.Mint(r.Context(), amount)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrMintAmountInvalid):
			writeError(w, http.StatusBadRequest, "amount must be a positive number of tokens")
		case errors.Is(err, app.ErrNoWallet):
			writeError(w, http.StatusConflict, "connect a wallet first")
		case errors.Is(err, app.ErrQuoteUnavailable), errors.Is(err, app.ErrPaymentUnavailable):
			writeError(w, http.StatusServiceUnavailable, "pricing unavailable, refresh and retry")
		case errors.Is(err, wallet.ErrInsufficientFunds):
			writeError(w, http.StatusPaymentRequired, "insufficient wallet balance")
		case errors.Is(err, wallet.ErrUserRejected):
			writeError(w, http.StatusConflict, "payment rejected")
		default:
			s.logger.Error("mint failed", zap.Error(err))
			writeError(w, http.StatusBadGateway, "payment failed")
		}
		return
	}

	resp := struct {
		Record  viewRecord `json:"record"`
		TxHash  string     `json:"tx_hash"`
		Balance string     `json:"balance,omitempty"`
	}{
		Record: renderRecord(result.Record),
		TxHash: result.Receipt.TxHash,
	}
	if result.Balance != nil {
		resp.Balance = result.Balance.StringFixed(5) + " ETH"
	}
	writeJSON(w, resp)
}

func decodeAmount(r *http.Request) (decimal.Decimal, error) {
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return decimal.Zero, errors.New("malformed request body")
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return decimal.Zero, errors.New("amount is not a number")
	}
	return amount, nil
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
