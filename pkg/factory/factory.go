// Package factory sends placed orders to the pizza factory for fulfillment
// and returns the signed receipt it issues.
package factory

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shashiranjanraj/jwtpizza/pkg/auth"
	"github.com/shashiranjanraj/jwtpizza/pkg/http"
	"github.com/shashiranjanraj/jwtpizza/pkg/metrics"
)

// Ticket is what the factory needs to bake one order.
type Ticket struct {
	OrderID uint
	Diner   auth.Identity
	Total   float64
	Order   interface{} // sent verbatim as the "order" field
}

// Receipt is the factory's confirmation. JWT is distinct from the diner's
// bearer token.
type Receipt struct {
	JWT       string `json:"jwt"`
	ReportURL string `json:"reportUrl,omitempty"`
}

// Fulfiller hands orders to a factory.
type Fulfiller interface {
	Fulfill(ctx context.Context, t Ticket) (Receipt, error)
}

// Error is a rejection reported by the factory.
type Error struct {
	Status    int
	Message   string
	ReportURL string
}

func (e *Error) Error() string {
	return fmt.Sprintf("factory: status %d: %s", e.Status, e.Message)
}

// ReportURL returns the factory's failure report link carried by err, if any.
func ReportURL(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.ReportURL
	}
	return ""
}

// ─── Remote factory ───────────────────────────────────────────────────────────

type Client struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	retries int
}

// NewClient targets the factory at baseURL. retries is the number of extra
// attempts after a failed connection; an order that reached the factory is
// never sent twice.
func NewClient(baseURL, apiKey string, timeout time.Duration, retries int) *Client {
	return &Client{baseURL: baseURL, apiKey: apiKey, timeout: timeout, retries: retries}
}

type dinerPayload struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (c *Client) Fulfill(ctx context.Context, t Ticket) (Receipt, error) {
	defer func(start time.Time) {
		metrics.FactoryDuration.Observe(time.Since(start).Seconds())
	}(time.Now())

	resp, err := http.Post(c.baseURL+"/api/order").
		Bearer(c.apiKey).
		Body(map[string]interface{}{
			"diner": dinerPayload{ID: t.Diner.ID, Name: t.Diner.Name, Email: t.Diner.Email},
			"order": t.Order,
		}).
		Timeout(c.timeout).
		Retry(c.retries+1, 200*time.Millisecond).
		WithContext(ctx).
		Send()
	if err != nil {
		return Receipt{}, err
	}

	var body struct {
		Receipt
		Message string `json:"message"`
	}
	decodeErr := resp.JSON(&body)

	if !resp.OK() {
		msg := body.Message
		if msg == "" {
			msg = resp.Text()
		}
		return Receipt{}, &Error{Status: resp.StatusCode, Message: msg, ReportURL: body.ReportURL}
	}
	if decodeErr != nil {
		return Receipt{}, decodeErr
	}
	if body.JWT == "" {
		return Receipt{}, &Error{Status: resp.StatusCode, Message: "receipt missing jwt", ReportURL: body.ReportURL}
	}
	return body.Receipt, nil
}

// ─── Local signer ─────────────────────────────────────────────────────────────

// ReceiptClaims is the payload of a locally signed receipt.
type ReceiptClaims struct {
	OrderID uint    `json:"ord"`
	DinerID uint    `json:"din"`
	Total   float64 `json:"tot"`
	jwt.RegisteredClaims
}

// LocalSigner fulfills orders in-process by signing a receipt. It is used
// when no factory URL is configured.
type LocalSigner struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewLocalSigner(secret, issuer string) *LocalSigner {
	return &LocalSigner{secret: []byte(secret), issuer: issuer, now: time.Now}
}

func (s *LocalSigner) Fulfill(_ context.Context, t Ticket) (Receipt, error) {
	claims := ReceiptClaims{
		OrderID: t.OrderID,
		DinerID: t.Diner.ID,
		Total:   t.Total,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   s.issuer,
			Subject:  strconv.FormatUint(uint64(t.OrderID), 10),
			IssuedAt: jwt.NewNumericDate(s.now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Receipt{}, fmt.Errorf("factory: sign receipt: %w", err)
	}
	return Receipt{JWT: signed}, nil
}

// Verify parses a receipt produced by Fulfill.
func (s *LocalSigner) Verify(raw string) (*ReceiptClaims, error) {
	claims := &ReceiptClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(s.issuer))
	if err != nil {
		return nil, err
	}
	return claims, nil
}
