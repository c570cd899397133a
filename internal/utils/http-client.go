package utils

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

type HTTPClientConfig struct {
	Timeout       time.Duration
	KATimeout     time.Duration
	ProxyURL      string
	ProxyUsername string
	ProxyPassword string
	UserAgent     string
	Headers       map[string]string
	APIURL        string // requests to this host carry the token
	Token         string
	TokenType     string // "Token" unless overridden
}

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// AskAnnaHTTPClient never follows redirects on its own; callers that care about
// Location headers (download preflight) walk the chain themselves.
type AskAnnaHTTPClient struct {
	authed  *http.Client
	plain   *http.Client
	config  HTTPClientConfig
	apiHost string
}

func NewAskAnnaHTTPClient(cfg HTTPClientConfig) *AskAnnaHTTPClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.KATimeout == 0 {
		cfg.KATimeout = 60 * time.Second
	}
	if cfg.TokenType == "" {
		cfg.TokenType = DefaultTokenType
	}
	if cfg.Headers == nil {
		cfg.Headers = make(map[string]string)
	}
	transport := &http.Transport{
		IdleConnTimeout:     cfg.KATimeout,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		DisableCompression:  true,
		Proxy:               http.ProxyFromEnvironment,
	}
	if cfg.ProxyURL != "" {
		proxyURL, err := url.Parse(cfg.ProxyURL)
		if err == nil {
			if cfg.ProxyUsername != "" {
				if cfg.ProxyPassword != "" {
					proxyURL.User = url.UserPassword(cfg.ProxyUsername, cfg.ProxyPassword)
				} else {
					proxyURL.User = url.User(cfg.ProxyUsername)
				}
			}
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}
	noRedirect := func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	c := &AskAnnaHTTPClient{
		plain: &http.Client{
			Timeout:       cfg.Timeout,
			Transport:     transport,
			CheckRedirect: noRedirect,
		},
		config: cfg,
	}
	if parsed, err := url.Parse(cfg.APIURL); err == nil {
		c.apiHost = parsed.Host
	}
	if cfg.Token != "" {
		token := &oauth2.Token{AccessToken: cfg.Token, TokenType: cfg.TokenType}
		c.authed = &http.Client{
			Timeout: cfg.Timeout,
			Transport: &oauth2.Transport{
				Source: oauth2.StaticTokenSource(token),
				Base:   transport,
			},
			CheckRedirect: noRedirect,
		}
	}
	return c
}

func (c *AskAnnaHTTPClient) Do(req *http.Request) (*http.Response, error) {
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	} else {
		req.Header.Set("User-Agent", ToolUserAgent)
	}
	for k, v := range c.config.Headers {
		req.Header.Set(k, v)
	}
	if c.authed != nil && c.apiHost != "" && strings.EqualFold(req.URL.Host, c.apiHost) {
		return c.authed.Do(req)
	}
	return c.plain.Do(req)
}
