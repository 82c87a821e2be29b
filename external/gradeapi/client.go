package gradeapi

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/propdesk/prop-grading/internal/domain/formula"
	"github.com/propdesk/prop-grading/internal/platform/logging"
	"github.com/propdesk/prop-grading/internal/platform/resilience"
	"github.com/propdesk/prop-grading/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var errGradeAPITransient = crerr.New("gradeapi transient failure")

type ClientConfig struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client invokes the external grading service. Grading is an explicit
// operator action, so the client never retries on its own; a failure is
// surfaced verbatim for the operator to act on.
type Client struct {
	http           *fasthttp.Client
	baseURL        string
	token          string
	timeout        time.Duration
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		http:           &fasthttp.Client{ReadTimeout: timeout, WriteTimeout: timeout},
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:          strings.TrimSpace(cfg.Token),
		timeout:        timeout,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type gradeRequest struct {
	AirtableID            string      `json:"airtableId"`
	DryRun                bool        `json:"dryRun"`
	OverrideFormulaParams formula.Bag `json:"overrideFormulaParams"`
}

type gradeResponse struct {
	Success    bool   `json:"success"`
	Error      string `json:"error"`
	PropStatus string `json:"propStatus"`
	PropResult string `json:"propResult"`
}

// GradeProp posts one gradePropByFormula invocation. A dry run returns the
// service's structured preview; a real run returns the prop's new status and
// result. A success=false response surfaces the service message verbatim.
func (c *Client) GradeProp(ctx context.Context, airtableID string, dryRun bool, overrideFormulaParams formula.Bag) (usecase.GradeOutcome, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "gradeapi circuit breaker rejected request", "state", c.breaker.State())
			return usecase.GradeOutcome{}, fmt.Errorf("%w: grading service is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}
	if strings.TrimSpace(airtableID) == "" {
		return usecase.GradeOutcome{}, fmt.Errorf("%w: airtable id is required", usecase.ErrInvalidInput)
	}

	baseURL, err := validateHTTPBaseURL(c.baseURL)
	if err != nil {
		return usecase.GradeOutcome{}, crerr.Wrap(err, "invalid GRADEAPI_BASE_URL")
	}
	fullURL := baseURL + "/gradePropByFormula"

	if overrideFormulaParams == nil {
		overrideFormulaParams = formula.Bag{}
	}
	body, err := sonic.Marshal(gradeRequest{
		AirtableID:            airtableID,
		DryRun:                dryRun,
		OverrideFormulaParams: overrideFormulaParams,
	})
	if err != nil {
		return usecase.GradeOutcome{}, crerr.Wrap(err, "marshal grade request")
	}

	bodyText := truncateForLog(string(body), 4096)
	curlPreview := buildGradeCurlPreview(fullURL, bodyText, c.token != "")
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("gradeapi.url", fullURL),
			attribute.Bool("gradeapi.dry_run", dryRun),
			attribute.String("gradeapi.request_curl_preview", curlPreview),
		)
	}
	c.logger.InfoContext(ctx, "grade invocation", "airtable_id", airtableID, "dry_run", dryRun, "curl_preview", curlPreview)

	raw, err := c.post(ctx, fullURL, body)
	c.recordCircuitResult(err)
	if err != nil {
		return usecase.GradeOutcome{}, err
	}

	var decoded gradeResponse
	if err := sonic.Unmarshal(raw, &decoded); err != nil {
		return usecase.GradeOutcome{}, crerr.Wrap(err, "decode grade response")
	}
	if !decoded.Success {
		message := strings.TrimSpace(decoded.Error)
		if message == "" {
			message = "grading service reported failure"
		}
		return usecase.GradeOutcome{}, fmt.Errorf("%w: %s", ErrGradeRejected, message)
	}

	outcome := usecase.GradeOutcome{
		Status: strings.TrimSpace(decoded.PropStatus),
		Result: strings.TrimSpace(decoded.PropResult),
	}
	if dryRun {
		var preview map[string]any
		if err := sonic.Unmarshal(raw, &preview); err == nil {
			delete(preview, "success")
			outcome.Preview = preview
		}
	}
	return outcome, nil
}

// ErrGradeRejected wraps a success=false response. The message after the
// sentinel is the service's own text, untouched.
var ErrGradeRejected = crerr.New("grade rejected")

func (c *Client) post(ctx context.Context, fullURL string, body []byte) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.SetBody(body)

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("%w: post grade request: %v", errGradeAPITransient, err)
	}

	status := resp.StatusCode()
	raw := append([]byte(nil), resp.Body()...)
	if status/100 != 2 {
		if status == fasthttp.StatusTooManyRequests || status >= fasthttp.StatusInternalServerError {
			return nil, fmt.Errorf("%w: grade request status=%d body=%s", errGradeAPITransient, status, truncateForLog(strings.TrimSpace(string(raw)), 240))
		}
		return nil, fmt.Errorf("grade request status=%d body=%s", status, truncateForLog(strings.TrimSpace(string(raw)), 240))
	}
	return raw, nil
}

func (c *Client) recordCircuitResult(err error) {
	if !c.circuitEnabled || c.breaker == nil {
		return
	}
	if err != nil && stderrors.Is(err, errGradeAPITransient) {
		c.breaker.RecordFailure()
		return
	}
	c.breaker.RecordSuccess()
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}

func buildGradeCurlPreview(fullURL, body string, withToken bool) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}

	appendPart("curl")
	appendPart("-X")
	appendPart("POST")
	appendPart(shellQuote(fullURL))
	if withToken {
		appendPart("-H")
		appendPart(shellQuote("Authorization: Bearer ***"))
	}
	appendPart("-H")
	appendPart(shellQuote("Content-Type: application/json"))
	appendPart("-d")
	appendPart(shellQuote(body))

	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}
