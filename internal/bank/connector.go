// Package bank simulates linking bank accounts. No real institution is
// contacted: connections succeed after a configurable delay.
package bank

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"spendwise/internal/log"
)

var (
	ErrUnknownInstitution = errors.New("unknown institution")
	ErrNotConnected       = errors.New("account not connected")
)

// Account is a linked (simulated) bank account.
type Account struct {
	ID          string
	Institution string
	Name        string
	Mask        string
	Balance     decimal.Decimal
	ConnectedAt time.Time
}

// Connector hands out simulated connections and remembers linked accounts.
type Connector struct {
	delay        time.Duration
	institutions []string
	logger       *log.Logger
	now          func() time.Time

	mu       sync.Mutex
	accounts map[string]Account
}

// DefaultInstitutions is the catalogue offered when none is configured.
var DefaultInstitutions = []string{"Chase", "Bank of America", "Wells Fargo", "Citi", "Capital One"}

func NewConnector(delay time.Duration, institutions []string, logger *log.Logger) *Connector {
	if len(institutions) == 0 {
		institutions = DefaultInstitutions
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Connector{
		delay:        delay,
		institutions: slices.Clone(institutions),
		logger:       logger.WithComponent(log.ComponentBank),
		now:          time.Now,
		accounts:     make(map[string]Account),
	}
}

// Institutions returns the catalogue of linkable institutions.
func (c *Connector) Institutions() []string {
	return slices.Clone(c.institutions)
}

func (c *Connector) known(name string) (string, bool) {
	for _, inst := range c.institutions {
		if strings.EqualFold(inst, strings.TrimSpace(name)) {
			return inst, true
		}
	}
	return "", false
}

func (c *Connector) wait(ctx context.Context) error {
	if c.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(c.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Connect starts linking an account at institution.
func (c *Connector) Connect(ctx context.Context, institution string) *Task[Account] {
	return Start(ctx, func(ctx context.Context) (Account, error) {
		name, ok := c.known(institution)
		if !ok {
			return Account{}, fmt.Errorf("%w: %q", ErrUnknownInstitution, institution)
		}
		started := c.now()
		if err := c.wait(ctx); err != nil {
			fields := log.NewFields().WithOperation(log.OpConnect).WithError(err)
			if errors.Is(err, context.DeadlineExceeded) {
				fields = fields.WithErrorType(log.ErrorTypeTimeout)
			}
			c.logger.WarnContext(ctx, "Bank connection aborted",
				append(fields.ToSlice(), log.FieldInstitute, name)...)
			return Account{}, err
		}

		id := uuid.NewString()
		acct := Account{
			ID:          id,
			Institution: name,
			Name:        name + " Checking",
			Mask:        id[len(id)-4:],
			Balance:     decimal.Zero,
			ConnectedAt: c.now(),
		}
		c.mu.Lock()
		c.accounts[acct.ID] = acct
		c.mu.Unlock()

		c.logger.InfoContext(ctx, "Bank account connected",
			log.FieldInstitute, name,
			log.FieldAccountID, acct.ID,
			log.FieldDuration, c.now().Sub(started).Milliseconds())
		return acct, nil
	})
}

// Disconnect starts unlinking accountID.
func (c *Connector) Disconnect(ctx context.Context, accountID string) *Task[struct{}] {
	return Start(ctx, func(ctx context.Context) (struct{}, error) {
		c.mu.Lock()
		_, ok := c.accounts[accountID]
		c.mu.Unlock()
		if !ok {
			return struct{}{}, fmt.Errorf("%w: %s", ErrNotConnected, accountID)
		}
		if err := c.wait(ctx); err != nil {
			return struct{}{}, err
		}
		c.mu.Lock()
		delete(c.accounts, accountID)
		c.mu.Unlock()

		c.logger.InfoContext(ctx, "Bank account disconnected",
			log.FieldAccountID, accountID, log.FieldOperation, log.OpDisconnect)
		return struct{}{}, nil
	})
}

// Accounts lists linked accounts ordered by institution.
func (c *Connector) Accounts() []Account {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Account, 0, len(c.accounts))
	for _, a := range c.accounts {
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b Account) int {
		if n := strings.Compare(a.Institution, b.Institution); n != 0 {
			return n
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// ConnectAll links every institution concurrently. The first failure
// cancels the remaining connections, and accounts already linked by this
// call are unlinked again so a failed call leaves no partial state.
func (c *Connector) ConnectAll(ctx context.Context, institutions []string) ([]Account, error) {
	g, gctx := errgroup.WithContext(ctx)
	accounts := make([]Account, len(institutions))
	for i, inst := range institutions {
		g.Go(func() error {
			// Tasks stop with gctx; waiting on them rather than on gctx keeps
			// a late success from landing after the rollback below.
			acct, err := c.Connect(gctx, inst).Wait(context.Background())
			if err != nil {
				return fmt.Errorf("connect %s: %w", inst, err)
			}
			accounts[i] = acct
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.rollback(ctx, accounts)
		return nil, err
	}
	return accounts, nil
}

func (c *Connector) rollback(ctx context.Context, accounts []Account) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, a := range accounts {
		if a.ID == "" {
			continue
		}
		delete(c.accounts, a.ID)
		c.logger.InfoContext(ctx, "Bank account unlinked after failed batch",
			log.FieldInstitute, a.Institution,
			log.FieldAccountID, a.ID,
			log.FieldOperation, log.OpDisconnect)
	}
}
