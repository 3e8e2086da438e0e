// Package webhook is the Webhook Dispatcher spec.md §2.5 describes: an
// at-least-once notifier that polls the deposit set and POSTs the list of
// accounts with ready deposits to a configured URL. Grounded on
// full-service's WebhookThread::start in sync.rs, adapted from a raw OS
// thread with an atomic stop flag into the teacher's goroutine-
// lifecycle idiom. No HTTP client library appears anywhere in the
// example corpus, so this, like ledger.HTTPClient, is built directly on
// net/http - see DESIGN.md.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shieldwallet/walletd/depositset"
	"github.com/shieldwallet/walletd/lifecycle"
	"github.com/shieldwallet/walletd/persist"
	"github.com/shieldwallet/walletd/types"
)

// PollInterval is how often the dispatcher checks the deposit set,
// matching WebhookThread::start's 10ms sleep.
const PollInterval = 10 * time.Millisecond

// payload is the JSON body posted to the webhook URL, matching
// full-service's `{"accounts": [...], "restart": bool}` shape.
type payload struct {
	Accounts []types.AccountID `json:"accounts"`
	Restart  bool              `json:"restart"`
}

// Dispatcher delivers at-least-once deposit notifications.
type Dispatcher struct {
	url      string
	deposits *depositset.Set
	restart  *RestartFlag
	client   *http.Client
	log      *persist.Logger

	tg *lifecycle.Group
}

// RestartFlag is a process-lifetime flag reported in every webhook
// payload, letting a receiver tell a cold process start from a crash
// recovery or routine restart. It is read-only from the dispatcher's
// point of view; cmd/walletd sets it once at startup.
type RestartFlag struct {
	v bool
}

// NewRestartFlag returns a flag fixed at the given value for the
// lifetime of the process.
func NewRestartFlag(v bool) *RestartFlag { return &RestartFlag{v: v} }

// Load reports the flag's value.
func (f *RestartFlag) Load() bool { return f.v }

// New constructs a Dispatcher that posts to url.
func New(url string, deposits *depositset.Set, restart *RestartFlag, log *persist.Logger) *Dispatcher {
	return &Dispatcher{
		url:      url,
		deposits: deposits,
		restart:  restart,
		client:   &http.Client{Timeout: 10 * time.Second},
		log:      log,
		tg:       lifecycle.NewGroup(),
	}
}

// Run blocks, polling the deposit set and firing webhooks, until ctx is
// canceled or Stop is called.
func (d *Dispatcher) Run(ctx context.Context) {
	defer d.tg.Done()
	d.log.Info("webhook dispatcher started")
	defer d.log.Info("webhook dispatcher stopped")

	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-d.tg.StopChan():
			return
		case <-ticker.C:
			d.fireIfReady(ctx)
		}
	}
}

// Stop signals Run to return and waits for it to finish.
func (d *Dispatcher) Stop() {
	d.tg.Stop()
}

func (d *Dispatcher) fireIfReady(ctx context.Context) {
	ready := d.deposits.DrainReady()
	if len(ready) == 0 {
		return
	}
	if err := d.post(ctx, ready); err != nil {
		// Per DESIGN.md's resolution of Open Question 2, delivery
		// failures are logged and dropped rather than retried or
		// requeued - the next deposit for the same account will fire
		// its own webhook.
		d.log.WithError(err).Error("failed sending webhook request")
	}
}

func (d *Dispatcher) post(ctx context.Context, accounts []types.AccountID) error {
	body, err := json.Marshal(payload{Accounts: accounts, Restart: d.restart.Load()})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &httpStatusError{url: d.url, status: resp.StatusCode}
	}
	return nil
}

type httpStatusError struct {
	url    string
	status int
}

func (e *httpStatusError) Error() string {
	return "webhook: " + e.url + " returned status " + http.StatusText(e.status)
}
