package payment

import (
	"context"
	"errors"
	"fmt"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preference"
)

var ErrDisabled = errors.New("payments disabled")

type Checkout struct {
	Reference   string
	Title       string
	Description string
	Amount      float64
	PayerName   string
}

type Link struct {
	PreferenceID string `json:"preference_id"`
	URL          string `json:"url"`
	SandboxURL   string `json:"sandbox_url,omitempty"`
}

type Gateway interface {
	CreateLink(ctx context.Context, in Checkout) (*Link, error)
}

type preferenceCreator interface {
	Create(ctx context.Context, request preference.Request) (*preference.Response, error)
}

type MercadoPago struct {
	client   preferenceCreator
	currency string
	backURL  string
}

func NewMercadoPago(accessToken, currency, backURL string) (*MercadoPago, error) {
	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}
	return &MercadoPago{
		client:   preference.NewClient(cfg),
		currency: currency,
		backURL:  backURL,
	}, nil
}

func (m *MercadoPago) request(in Checkout) preference.Request {
	req := preference.Request{
		ExternalReference: in.Reference,
		Items: []preference.ItemRequest{
			{
				ID:          in.Reference,
				Title:       in.Title,
				Description: in.Description,
				Quantity:    1,
				UnitPrice:   in.Amount,
				CurrencyID:  m.currency,
			},
		},
	}
	if in.PayerName != "" {
		req.Payer = &preference.PayerRequest{Name: in.PayerName}
	}
	if m.backURL != "" {
		req.BackURLs = &preference.BackURLsRequest{
			Success: m.backURL,
			Pending: m.backURL,
			Failure: m.backURL,
		}
		req.AutoReturn = "approved"
	}
	return req
}

func (m *MercadoPago) CreateLink(ctx context.Context, in Checkout) (*Link, error) {
	resp, err := m.client.Create(ctx, m.request(in))
	if err != nil {
		return nil, fmt.Errorf("mercadopago preference: %w", err)
	}
	return &Link{
		PreferenceID: resp.ID,
		URL:          resp.InitPoint,
		SandboxURL:   resp.SandboxInitPoint,
	}, nil
}

// Compile-time check
var _ Gateway = (*MercadoPago)(nil)
