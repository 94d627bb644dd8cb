package line

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	appErrors "nlreminder/internal/pkg/errors"
	"nlreminder/internal/pkg/logger"

	"github.com/line/line-bot-sdk-go/v7/linebot"
)

// Config holds the credentials and limits of the LINE client.
type Config struct {
	ChannelSecret      string
	ChannelAccessToken string
	// EndpointBase overrides the Messaging API base URL (tests, proxies).
	EndpointBase string
	// Timeout bounds every API call.
	Timeout time.Duration
}

// Client wraps the linebot.Client.
type Client struct {
	bot     *linebot.Client
	secret  string
	timeout time.Duration
	log     logger.Logger
}

// NewClient creates a LINE Messaging API client.
func NewClient(cfg Config, log logger.Logger) (*Client, error) {
	if cfg.ChannelSecret == "" || cfg.ChannelAccessToken == "" {
		return nil, fmt.Errorf("%w: channel secret and channel access token must be set", appErrors.ErrConfiguration)
	}

	opts := []linebot.ClientOption{
		linebot.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	}
	if cfg.EndpointBase != "" {
		opts = append(opts, linebot.WithEndpointBase(cfg.EndpointBase))
	}

	bot, err := linebot.New(cfg.ChannelSecret, cfg.ChannelAccessToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create LINE Bot client: %v", appErrors.ErrConfiguration, err)
	}
	log.Info("Successfully created LINE Bot client.")
	return &Client{
		bot:     bot,
		secret:  cfg.ChannelSecret,
		timeout: cfg.Timeout,
		log:     log,
	}, nil
}

// Reply answers a webhook event through the reply API.
func (c *Client) Reply(ctx context.Context, replyToken, text string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, err := c.bot.ReplyMessage(replyToken, linebot.NewTextMessage(text)).WithContext(ctx).Do()
	if err != nil {
		return classify(ctx, err)
	}
	c.log.Debug("Successfully sent reply message.")
	return nil
}

// Push sends a proactive message to a user.
func (c *Client) Push(ctx context.Context, userID, text string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, err := c.bot.PushMessage(userID, linebot.NewTextMessage(text)).WithContext(ctx).Do()
	if err != nil {
		return classify(ctx, err)
	}
	c.log.Debug("Successfully sent push message.", "user_id", userID)
	return nil
}

// ParseRequest validates the X-Line-Signature header and decodes the webhook body.
func (c *Client) ParseRequest(r *http.Request) ([]*linebot.Event, error) {
	return linebot.ParseRequest(c.secret, r)
}

// ErrorKind separates the ways a call to the Messaging API can fail.
type ErrorKind int

const (
	// KindHTTPStatus means the API answered with a non-2xx status.
	KindHTTPStatus ErrorKind = iota + 1
	// KindTimeout means the call did not finish within its bound.
	KindTimeout
	// KindTransport covers connection and encoding failures.
	KindTransport
)

func (k ErrorKind) String() string {
	switch k {
	case KindHTTPStatus:
		return "http_status"
	case KindTimeout:
		return "timeout"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// DeliveryError is returned by Reply and Push.
type DeliveryError struct {
	Kind       ErrorKind
	StatusCode int    // set for KindHTTPStatus
	Body       string // API error message for KindHTTPStatus
	Err        error
}

func (e *DeliveryError) Error() string {
	if e.Kind == KindHTTPStatus {
		return fmt.Sprintf("LINE API returned status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("LINE API %s error: %v", e.Kind, e.Err)
}

// Unwrap lets errors.Is match ErrLineAPI, ErrTimeout and the underlying cause.
func (e *DeliveryError) Unwrap() []error {
	errs := []error{appErrors.ErrLineAPI}
	if e.Kind == KindTimeout {
		errs = append(errs, appErrors.ErrTimeout)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func classify(ctx context.Context, err error) error {
	var apiErr *linebot.APIError
	if errors.As(err, &apiErr) {
		body := ""
		if apiErr.Response != nil {
			body = apiErr.Response.Message
		}
		return &DeliveryError{Kind: KindHTTPStatus, StatusCode: apiErr.Code, Body: body, Err: err}
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return &DeliveryError{Kind: KindTimeout, Err: err}
	}
	return &DeliveryError{Kind: KindTransport, Err: err}
}
