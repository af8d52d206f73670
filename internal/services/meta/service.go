package meta

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultGraphURL  = "https://graph.facebook.com/v18.0"
	defaultDialogURL = "https://www.facebook.com/v18.0/dialog/oauth"

	// Long-lived tokens are valid for 60 days; the Graph API does not always
	// return expires_in on the exchange, so the expiry is fixed client-side.
	longLivedTokenTTL = 60 * 24 * time.Hour
)

var oauthScopes = []string{
	"public_profile",
	"instagram_basic",
	"instagram_content_publish",
	"pages_show_list",
	"pages_read_engagement",
}

var (
	ErrMissingCode   = errors.New("authorization code is required")
	ErrNotConfigured = errors.New("meta app credentials are not configured")
)

type ClientStore interface {
	SetMetaConnection(ctx context.Context, clientID int64, pageID, igBusinessID, accessToken string, expiry time.Time) error
	ClearMetaConnection(ctx context.Context, clientID int64) error
}

type Config struct {
	AppID       string
	AppSecret   string
	RedirectURL string
	GraphURL    string
	DialogURL   string
}

// Connection is what the exchange resolved for a client.
type Connection struct {
	PageID       string
	IGBusinessID string
	TokenExpiry  time.Time
}

// Service runs the Meta OAuth dance for a client: code to short-lived token,
// short-lived to long-lived, then page discovery, persisting the result on
// the client record.
type Service struct {
	store  ClientStore
	httpc  *http.Client
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

func NewService(store ClientStore, httpc *http.Client, cfg Config, logger *zap.Logger) *Service {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.GraphURL == "" {
		cfg.GraphURL = defaultGraphURL
	}
	if cfg.DialogURL == "" {
		cfg.DialogURL = defaultDialogURL
	}
	cfg.GraphURL = strings.TrimRight(cfg.GraphURL, "/")

	return &Service{
		store:  store,
		httpc:  httpc,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// LoginURL builds the consent dialog URL. The client id rides in the state
// parameter so the callback knows which client to connect.
func (s *Service) LoginURL(clientID int64) (string, error) {
	if s.cfg.AppID == "" {
		return "", ErrNotConfigured
	}

	query := url.Values{}
	query.Set("client_id", s.cfg.AppID)
	query.Set("redirect_uri", s.cfg.RedirectURL)
	query.Set("state", strconv.FormatInt(clientID, 10))
	query.Set("scope", strings.Join(oauthScopes, ","))

	return s.cfg.DialogURL + "?" + query.Encode(), nil
}

// Connect exchanges the callback code and stores the resulting long-lived
// token plus the discovered page on the client.
func (s *Service) Connect(ctx context.Context, clientID int64, code string) (Connection, error) {
	if s.cfg.AppID == "" || s.cfg.AppSecret == "" {
		return Connection{}, ErrNotConfigured
	}
	if strings.TrimSpace(code) == "" {
		return Connection{}, ErrMissingCode
	}

	shortLived, err := s.exchangeCode(ctx, code)
	if err != nil {
		return Connection{}, fmt.Errorf("exchange code: %w", err)
	}

	longLived, err := s.exchangeLongLived(ctx, shortLived)
	if err != nil {
		return Connection{}, fmt.Errorf("exchange long-lived token: %w", err)
	}

	pageID, igBusinessID, err := s.discoverPage(ctx, longLived)
	if err != nil {
		return Connection{}, fmt.Errorf("discover page: %w", err)
	}

	expiry := s.now().Add(longLivedTokenTTL)
	if err := s.store.SetMetaConnection(ctx, clientID, pageID, igBusinessID, longLived, expiry); err != nil {
		return Connection{}, fmt.Errorf("persist meta connection: %w", err)
	}

	s.logger.Info("meta account connected",
		zap.Int64("client_id", clientID),
		zap.String("page_id", pageID),
		zap.Bool("instagram_linked", igBusinessID != ""))

	return Connection{PageID: pageID, IGBusinessID: igBusinessID, TokenExpiry: expiry}, nil
}

func (s *Service) Disconnect(ctx context.Context, clientID int64) error {
	if err := s.store.ClearMetaConnection(ctx, clientID); err != nil {
		return fmt.Errorf("clear meta connection: %w", err)
	}

	s.logger.Info("meta account disconnected", zap.Int64("client_id", clientID))

	return nil
}

type graphError struct {
	Message string `json:"message"`
}

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	Error       *graphError `json:"error"`
}

type pagesResponse struct {
	Data []struct {
		ID                       string `json:"id"`
		Name                     string `json:"name"`
		InstagramBusinessAccount *struct {
			ID string `json:"id"`
		} `json:"instagram_business_account"`
	} `json:"data"`
	Error *graphError `json:"error"`
}

func (s *Service) exchangeCode(ctx context.Context, code string) (string, error) {
	query := url.Values{}
	query.Set("client_id", s.cfg.AppID)
	query.Set("redirect_uri", s.cfg.RedirectURL)
	query.Set("client_secret", s.cfg.AppSecret)
	query.Set("code", code)

	var resp tokenResponse
	if err := s.getJSON(ctx, "/oauth/access_token", query, &resp); err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", fmt.Errorf("graph api: %s", resp.Error.Message)
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("graph api returned no access token")
	}

	return resp.AccessToken, nil
}

func (s *Service) exchangeLongLived(ctx context.Context, shortLived string) (string, error) {
	query := url.Values{}
	query.Set("grant_type", "fb_exchange_token")
	query.Set("client_id", s.cfg.AppID)
	query.Set("client_secret", s.cfg.AppSecret)
	query.Set("fb_exchange_token", shortLived)

	var resp tokenResponse
	if err := s.getJSON(ctx, "/oauth/access_token", query, &resp); err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", fmt.Errorf("graph api: %s", resp.Error.Message)
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("graph api returned no access token")
	}

	return resp.AccessToken, nil
}

// discoverPage prefers the first page with a linked Instagram business
// account and falls back to the first page without one.
func (s *Service) discoverPage(ctx context.Context, accessToken string) (pageID, igBusinessID string, err error) {
	query := url.Values{}
	query.Set("access_token", accessToken)
	query.Set("fields", "name,id,instagram_business_account")

	var resp pagesResponse
	if err := s.getJSON(ctx, "/me/accounts", query, &resp); err != nil {
		return "", "", err
	}
	if resp.Error != nil {
		return "", "", fmt.Errorf("graph api: %s", resp.Error.Message)
	}

	for _, page := range resp.Data {
		if page.InstagramBusinessAccount != nil {
			return page.ID, page.InstagramBusinessAccount.ID, nil
		}
	}
	if len(resp.Data) > 0 {
		return resp.Data[0].ID, "", nil
	}

	return "", "", nil
}

func (s *Service) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.GraphURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := s.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("call graph api: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode graph response: %w", err)
	}

	return nil
}
