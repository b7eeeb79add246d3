// Package branding looks up company branding configured for a sign-in page
// tenant, so designs could start from what users already see.
package branding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"cssd/config"
)

// ErrBadUsername is returned when lookup is requested for something which
// is not a user principal name.
var ErrBadUsername = errors.New("user name must be an email address")

const maxResponseSize = 1 << 20

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		validateInst = validator.New(validator.WithRequiredStructEnabled())
	})
	return validateInst
}

// Info is branding of the tenant user belongs to. Empty fields mean tenant
// has not customized that part.
type Info struct {
	UserDisplayName string `json:"userDisplayName"`
	BannerLogo      string `json:"bannerLogo,omitempty"`
	BackgroundImage string `json:"backgroundImage,omitempty"`
	BoilerplateText string `json:"boilerplateText,omitempty"`
}

// HasBranding reports whether tenant customized anything.
func (i Info) HasBranding() bool {
	return i.BannerLogo != "" || i.BackgroundImage != "" || i.BoilerplateText != ""
}

// credentialType is a part of GetCredentialType response relevant to
// branding, everything else is ignored.
type credentialType struct {
	Username       string `json:"Username"`
	Display        string `json:"Display" validate:"required"`
	EstsProperties struct {
		UserTenantBranding []tenantBranding `json:"UserTenantBranding" validate:"dive"`
	} `json:"EstsProperties"`
}

type tenantBranding struct {
	BannerLogo      string `json:"BannerLogo" validate:"omitempty,url"`
	TileLogo        string `json:"TileLogo" validate:"omitempty,url"`
	TileDarkLogo    string `json:"TileDarkLogo" validate:"omitempty,url"`
	Illustration    string `json:"Illustration" validate:"omitempty,url"`
	BackgroundColor string `json:"BackgroundColor"`
	BoilerPlateText string `json:"BoilerPlateText"`
	UserIDLabel     string `json:"UserIdLabel"`
	Favicon         string `json:"Favicon" validate:"omitempty,url"`
}

// Client talks to the sign-in service. Every call is a single best-effort
// request, failures are returned to the caller as is.
type Client struct {
	cfg  *config.BrandingConfig
	http *http.Client
	log  *zap.Logger
}

// New creates client. When hc is nil a client with configured timeout is
// used.
func New(cfg *config.BrandingConfig, hc *http.Client, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{cfg: cfg, http: hc, log: log.Named("branding")}
}

// setBaseHeaders mirrors what a browser sends, some tenants do not return
// branding for unknown clients.
func (c *Client) setBaseHeaders(req *http.Request) {
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("User-Agent", c.cfg.UserAgent)
}

// Lookup returns branding for the tenant of username.
func (c *Client) Lookup(ctx context.Context, username string) (Info, error) {
	if err := validatorInstance().Var(username, "required,email"); err != nil {
		return Info{}, fmt.Errorf("%w: %w", ErrBadUsername, err)
	}

	body, err := json.Marshal(map[string]string{"username": username})
	if err != nil {
		return Info{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return Info{}, fmt.Errorf("unable to prepare branding request: %w", err)
	}
	c.setBaseHeaders(req)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	if origin := originOf(c.cfg.Endpoint); origin != "" {
		req.Header.Set("Origin", origin)
	}

	c.log.Debug("Requesting branding", zap.String("endpoint", c.cfg.Endpoint))

	resp, err := c.http.Do(req)
	if err != nil {
		return Info{}, fmt.Errorf("branding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Info{}, fmt.Errorf("branding request failed: %s", resp.Status)
	}

	var ct credentialType
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&ct); err != nil {
		return Info{}, fmt.Errorf("unable to decode branding response: %w", err)
	}
	if err := validatorInstance().Struct(&ct); err != nil {
		return Info{}, fmt.Errorf("unexpected branding response: %w", err)
	}

	info := Info{UserDisplayName: ct.Display}
	if len(ct.EstsProperties.UserTenantBranding) > 0 {
		b := ct.EstsProperties.UserTenantBranding[0]
		info.BannerLogo = b.BannerLogo
		info.BackgroundImage = b.Illustration
		info.BoilerplateText = b.BoilerPlateText
	}
	c.log.Debug("Branding received",
		zap.Bool("customized", info.HasBranding()),
		zap.Int("variants", len(ct.EstsProperties.UserTenantBranding)))
	return info, nil
}
