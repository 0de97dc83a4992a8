package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"tarkovapi/app_error"
	"tarkovapi/metrics"
	"tarkovapi/utils"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
)

// retryLogger routes the retry client's leveled output into the service logger.
type retryLogger struct{}

func fields(keysAndValues []any) logrus.Fields {
	out := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		out[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return out
}

func (retryLogger) Error(msg string, keysAndValues ...any) {
	utils.Log.WithFields(fields(keysAndValues)).Error(msg)
}

func (retryLogger) Warn(msg string, keysAndValues ...any) {
	utils.Log.WithFields(fields(keysAndValues)).Warn(msg)
}

func (retryLogger) Info(msg string, keysAndValues ...any) {
	utils.Log.WithFields(fields(keysAndValues)).Debug(msg)
}

func (retryLogger) Debug(msg string, keysAndValues ...any) {
	utils.Log.WithFields(fields(keysAndValues)).Debug(msg)
}

type ClientError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *ClientError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Description)
	}
	return fmt.Sprintf("%s (status %d): %s", e.Code, e.StatusCode, e.Description)
}

// Every client failure means the provider could not deliver a usable batch.
func (e *ClientError) Unwrap() error {
	return app_error.ErrUpstreamUnavailable
}

type HttpClient struct {
	client    *retryablehttp.Client
	url       string
	userAgent string
}

func NewHttpClient(url string, userAgent string, timeout time.Duration, retryMax int) *HttpClient {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = retryLogger{}
	retryClient.RetryMax = retryMax
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.HTTPClient.Timeout = timeout
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.ResponseLogHook = func(_ retryablehttp.Logger, response *http.Response) {
		metrics.UpstreamResponseCounter.WithLabelValues(strconv.Itoa(response.StatusCode)).Inc()
	}
	return &HttpClient{
		client:    retryClient,
		url:       url,
		userAgent: userAgent,
	}
}

type RequestArgs struct {
	Method  string
	Body    []byte
	Headers map[string]string
}

// SendRequest performs the request with retries and returns the response body
// of a 2xx answer.
func (c *HttpClient) SendRequest(ctx context.Context, args RequestArgs) ([]byte, *ClientError) {
	method := args.Method
	if method == "" {
		method = http.MethodGet
	}
	var body io.Reader
	if args.Body != nil {
		body = bytes.NewReader(args.Body)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.url, body)
	if err != nil {
		return nil, &ClientError{Code: "tarkovapi_client_request_error", Description: err.Error()}
	}
	req.Header.Set("User-Agent", c.userAgent)
	for k, v := range args.Headers {
		req.Header.Set(k, v)
	}

	response, err := c.client.Do(req)
	if err != nil {
		return nil, &ClientError{Code: "tarkovapi_client_request_error", Description: err.Error()}
	}
	defer response.Body.Close()
	respBody, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, &ClientError{
			StatusCode:  response.StatusCode,
			Code:        "tarkovapi_client_response_body_read_error",
			Description: err.Error(),
		}
	}
	if response.StatusCode >= 400 {
		return nil, &ClientError{
			StatusCode:  response.StatusCode,
			Code:        "tarkovapi_client_response_error",
			Description: string(respBody),
		}
	}
	return respBody, nil
}
