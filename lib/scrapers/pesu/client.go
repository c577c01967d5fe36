package pesu

import (
	"bytes"
	"context"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"
	"pesuassist-backend/lib/restyutil"
	"pesuassist-backend/lib/telemetry"
	"pesuassist-backend/lib/timezone"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

// portal endpoints, reproduced exactly, the dispatcher 404s on
// anything it doesn't know
const (
	landingPath   = "/Academy/"
	loginPath     = "/Academy/j_spring_security_check"
	profilePath   = "/Academy/s/studentProfilePESU"
	dispatchPath  = "/Academy/s/studentProfilePESUAdmin"
	semestersPath = "/Academy/a/studentProfilePESU/getStudentSemestersPESU"
	downloadPath  = "/Academy/a/referenceMeterials/downloadslidecoursedoc/"
)

// State tracks where one session is in its lifecycle. Sessions are
// never shared across operations, a Client lives for one chain of
// requests and is discarded.
type State int

const (
	StateAnonymous State = iota
	StateAuthenticating
	StateAuthenticated
	StateNavigating
	StateExpired
)

type Client struct {
	BaseUrl  *url.URL
	Http     *resty.Client
	Username string
	// instant this session's login began, the subjects snapshot guard
	// compares store timestamps against it
	LoginTime time.Time

	// guards the session fields below, fetches for different domains
	// may share one client across goroutines
	mu          sync.Mutex
	state       State
	csrfToken   string
	profileHtml string
}

type ClientOptions struct {
	BaseUrl string
}

var instrumentOutput restyutil.InstrumentOutput

// SetRestyInstrumentOutput makes every client constructed afterwards
// dump its full http exchanges to the given sink.
func SetRestyInstrumentOutput(output restyutil.InstrumentOutput) {
	instrumentOutput = output
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)

	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetHeader("referer", opts.BaseUrl+landingPath)
	client.SetTimeout(time.Second * 30)
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))

	telemetry.InstrumentResty(client, "scrapers/pesu/http")
	restyutil.InstrumentClient(client, instrumentOutput)

	return &Client{
		BaseUrl: baseUrl,
		Http:    client,
		state:   StateAnonymous,
	}, nil
}

func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Client) setState(state State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
}

// settleNavigation returns the session to Authenticated unless the
// dispatch marked it expired in the meantime.
func (c *Client) settleNavigation() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateNavigating {
		c.state = StateAuthenticated
	}
}

// ProfileHtml returns the most recently fetched authenticated profile
// page, the menu resolver reads routing codes out of it.
func (c *Client) ProfileHtml() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.profileHtml
}

// CsrfToken returns the token extracted from the most recent profile
// fetch, the portal rotates it per page load.
func (c *Client) CsrfToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.csrfToken
}

func (c *Client) setSession(profileHtml, token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profileHtml = profileHtml
	if token != "" {
		c.csrfToken = token
	}
}

func extractCsrf(doc *goquery.Document) string {
	token := doc.Find("meta[name=csrf-token]").AttrOr("content", "")
	if token != "" {
		return token
	}
	return doc.Find("input[name=_csrf]").AttrOr("value", "")
}

// the portal answers navigation requests on a dead session with its
// login page instead of an error status
func isLoginPage(html string) bool {
	return strings.Contains(html, "j_spring_security_check") ||
		strings.Contains(html, "name=\"j_username\"")
}

func (c *Client) Login(ctx context.Context, username, password string) error {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	c.setState(StateAuthenticating)

	res, err := c.Http.R().
		SetContext(ctx).
		Get(landingPath)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch landing page")
		return &AuthError{Kind: NetworkFailure, Cause: err}
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse landing page html")
		return &AuthError{Kind: NetworkFailure, Cause: err}
	}
	csrf := extractCsrf(doc)
	if csrf == "" {
		span.SetStatus(codes.Error, MissingCsrf.Error())
		return &AuthError{Kind: MissingCsrf}
	}

	res, err = c.Http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"j_username": username,
			"j_password": password,
			"_csrf":      csrf,
		}).
		SetHeader("X-CSRF-Token", csrf).
		Post(loginPath)
	if err != nil {
		span.SetStatus(codes.Error, "failed to post login request")
		return &AuthError{Kind: NetworkFailure, Cause: err}
	}

	finalUrl := res.RawResponse.Request.URL.String()
	if strings.Contains(strings.ToLower(finalUrl), "studentprofilepesu") {
		return c.completeLogin(ctx, username, res.String())
	}

	// post-login redirect targets are inconsistent, probe the profile
	// page with the same cookie jar before giving up
	probe, err := c.Http.R().
		SetContext(ctx).
		Get(profilePath)
	if err == nil && probe.StatusCode() == 200 && !isLoginPage(probe.String()) {
		return c.completeLogin(ctx, username, probe.String())
	}

	c.setState(StateAnonymous)
	span.SetStatus(codes.Error, InvalidCredentials.Error())
	return &AuthError{Kind: InvalidCredentials}
}

func (c *Client) completeLogin(ctx context.Context, username, profileHtml string) error {
	c.Username = username
	c.LoginTime = timezone.Now()

	token := ""
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(profileHtml))
	if err == nil {
		token = extractCsrf(doc)
	}
	c.setSession(profileHtml, token)
	c.setState(StateAuthenticated)
	return nil
}

// refreshCsrf re-fetches the profile page and re-extracts the csrf
// token, the portal rotates it and rejects authenticated POSTs that
// reuse a stale one.
func (c *Client) refreshCsrf(ctx context.Context) error {
	res, err := c.Http.R().
		SetContext(ctx).
		Get(profilePath)
	if err != nil {
		return err
	}
	html := res.String()
	if isLoginPage(html) {
		c.setState(StateExpired)
		return SessionExpired
	}

	token := ""
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err == nil {
		token = extractCsrf(doc)
	}
	c.setSession(html, token)
	return err
}
