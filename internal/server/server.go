// ABOUTME: Reference host running admin messages against transactional storage
// ABOUTME: Builds the Extern and Env for each call and serialises execution

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/2389/multiadmin/internal/admin"
	"github.com/2389/multiadmin/internal/auth"
	"github.com/2389/multiadmin/internal/host"
	"github.com/2389/multiadmin/internal/store"
)

// Config wires a Host. Store, Api and Verifier are required.
type Config struct {
	Store    store.Store
	Api      host.Api
	Verifier auth.TokenVerifier

	Contract host.HumanAddr
	ChainID  string

	// Handler and Querier default to admin.DefaultHandler and admin.DefaultQuerier.
	Handler admin.Handler
	Querier admin.Querier

	Logger *slog.Logger
	Now    func() time.Time
}

// Host executes admin messages for one contract.
type Host struct {
	store    store.Store
	api      host.Api
	verifier auth.TokenVerifier
	contract host.HumanAddr
	chainID  string
	handler  admin.Handler
	querier  admin.Querier
	logger   *slog.Logger
	now      func() time.Time

	mu     sync.Mutex
	height uint64

	httpServer *http.Server
}

// New validates cfg and returns a Host.
func New(cfg Config) (*Host, error) {
	if cfg.Store == nil {
		return nil, errors.New("server: store is required")
	}
	if cfg.Api == nil {
		return nil, errors.New("server: address api is required")
	}
	if cfg.Verifier == nil {
		return nil, errors.New("server: token verifier is required")
	}
	if cfg.Contract == "" {
		return nil, errors.New("server: contract address is required")
	}

	h := &Host{
		store:    cfg.Store,
		api:      cfg.Api,
		verifier: cfg.Verifier,
		contract: cfg.Contract,
		chainID:  cfg.ChainID,
		handler:  cfg.Handler,
		querier:  cfg.Querier,
		logger:   cfg.Logger,
		now:      cfg.Now,
	}
	if h.handler == nil {
		h.handler = admin.DefaultHandler{}
	}
	if h.querier == nil {
		h.querier = admin.DefaultQuerier{}
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	h.logger = h.logger.With("component", "server", "contract", string(h.contract))
	if h.now == nil {
		h.now = time.Now
	}

	return h, nil
}

// Execute runs msg on behalf of sender in one transaction.
func (h *Host) Execute(ctx context.Context, sender host.HumanAddr, msg admin.HandleMsg) (host.HandleResponse, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// The height only advances when the transaction commits.
	env := h.env(sender, h.height+1)

	var resp host.HandleResponse
	err := h.store.Update(ctx, h.contract, func(s host.Storage) error {
		deps := &admin.Deps{Storage: s, Api: h.api, Querier: host.NoopQuerier{}}
		var err error
		resp, err = admin.Handle(deps, env, msg, h.handler)
		return err
	})
	if err != nil {
		return host.HandleResponse{}, err
	}

	h.height = env.Block.Height
	return normalize(resp), nil
}

// Query answers msg against committed state.
func (h *Host) Query(ctx context.Context, msg admin.QueryMsg) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var data []byte
	err := h.store.View(ctx, h.contract, func(s host.ReadonlyStorage) error {
		deps := &admin.ReadonlyDeps{Storage: s, Api: h.api, Querier: host.NoopQuerier{}}
		var err error
		data, err = admin.Query(deps, msg, h.querier)
		return err
	})
	return data, err
}

// Bootstrap appends admins without an admin check. It is the trusted path
// for seeding the first admin of a fresh contract and must not be exposed
// over HTTP.
func (h *Host) Bootstrap(ctx context.Context, admins []host.HumanAddr) error {
	if len(admins) == 0 {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	err := h.store.Update(ctx, h.contract, func(s host.Storage) error {
		deps := &admin.Deps{Storage: s, Api: h.api, Querier: host.NoopQuerier{}}
		return admin.SaveAdmins(deps, admins)
	})
	if err != nil {
		return fmt.Errorf("bootstrapping admins: %w", err)
	}

	h.logger.Info("bootstrapped admins", "count", len(admins))
	return nil
}

// Seed appends admins only when the contract has no admin set yet and
// reports whether it wrote anything. It is the startup path for configured
// bootstrap admins, so restarting the host does not add them again.
func (h *Host) Seed(ctx context.Context, admins []host.HumanAddr) (bool, error) {
	if len(admins) == 0 {
		return false, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	seeded := false
	err := h.store.Update(ctx, h.contract, func(s host.Storage) error {
		deps := &admin.Deps{Storage: s, Api: h.api, Querier: host.NoopQuerier{}}
		_, err := admin.LoadAdmins(deps)
		switch {
		case err == nil:
			return nil
		case !errors.Is(err, admin.ErrNotFound):
			return err
		}
		if err := admin.SaveAdmins(deps, admins); err != nil {
			return err
		}
		seeded = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("seeding admins: %w", err)
	}

	if seeded {
		h.logger.Info("seeded admins", "count", len(admins))
	} else {
		h.logger.Debug("admin set exists, skipping seed")
	}
	return seeded, nil
}

func (h *Host) env(sender host.HumanAddr, height uint64) host.Env {
	return host.Env{
		Block: host.BlockInfo{
			Height:  height,
			Time:    h.now().UTC(),
			ChainID: h.chainID,
		},
		Message:  host.MessageInfo{Sender: sender},
		Contract: host.ContractInfo{Address: h.contract},
	}
}

// normalize replaces nil slices so responses encode as [] rather than null.
func normalize(resp host.HandleResponse) host.HandleResponse {
	if resp.Messages == nil {
		resp.Messages = []any{}
	}
	if resp.Log == nil {
		resp.Log = []host.LogAttribute{}
	}
	return resp
}

// Serve accepts HTTP connections on ln until ctx is cancelled, then shuts
// down within shutdownTimeout.
func (h *Host) Serve(ctx context.Context, ln net.Listener, shutdownTimeout time.Duration) error {
	h.httpServer = &http.Server{
		Handler:           h.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		h.logger.Info("http server listening", "addr", ln.Addr().String())
		if err := h.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	// The serve context is already cancelled here.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	h.logger.Info("shutting down http server")
	if err := h.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return serveErr
}
