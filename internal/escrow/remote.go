package escrow

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"Babel/internal/market"
)

// defaultRemoteTimeout bounds one custody call.
const defaultRemoteTimeout = 10 * time.Second

// Remote forwards escrow operations to an external custody service over HTTP.
// Each request carries an Idempotency-Key derived from the operation, so a
// retried call cannot move funds twice.
type Remote struct {
	baseURL string
	http    *resty.Client
}

// remoteRequest is the body of POST {base}/escrow/{kind}.
type remoteRequest struct {
	ProjectID uint64 `json:"project_id"`
	Account   string `json:"account"`
	Amount    uint64 `json:"amount"`
	Reference string `json:"reference"`
}

// NewRemote creates a custody client for baseURL.
func NewRemote(baseURL string) *Remote {
	c := resty.New().
		SetTimeout(defaultRemoteTimeout).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})

	return &Remote{baseURL: strings.TrimRight(baseURL, "/"), http: c}
}

// Deposit asks the custody service to lock the reward.
func (r *Remote) Deposit(ctx context.Context, projectID uint64, from market.Account, amount uint64) error {
	return r.call(ctx, KindDeposit, projectID, from, amount)
}

// Release asks the custody service to pay the translator.
func (r *Remote) Release(ctx context.Context, projectID uint64, to market.Account, amount uint64) error {
	return r.call(ctx, KindRelease, projectID, to, amount)
}

// Refund asks the custody service to return the reward to the owner.
func (r *Remote) Refund(ctx context.Context, projectID uint64, to market.Account, amount uint64) error {
	return r.call(ctx, KindRefund, projectID, to, amount)
}

func (r *Remote) call(ctx context.Context, kind Kind, projectID uint64, account market.Account, amount uint64) error {
	ref := Reference(kind, projectID, account, amount)
	refHex := hex.EncodeToString(ref[:])

	url := fmt.Sprintf("%s/escrow/%s", r.baseURL, strings.ToLower(kind.String()))

	resp, err := r.http.R().SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Idempotency-Key", refHex).
		SetBody(remoteRequest{
			ProjectID: projectID,
			Account:   string(account),
			Amount:    amount,
			Reference: refHex,
		}).
		Post(url)
	if err != nil {
		return fmt.Errorf("escrow %s:\n%w", kind, err)
	}

	switch {
	case resp.StatusCode() == http.StatusConflict:
		return fmt.Errorf("%w: %s project %d: %s", ErrConflict, kind, projectID, resp.String())
	case resp.IsError():
		return fmt.Errorf("escrow %s: %s; body: %s", kind, resp.Status(), resp.String())
	}

	return nil
}
