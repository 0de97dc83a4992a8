package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"tarkovapi/app_error"
	"tarkovapi/metrics"
	"tarkovapi/utils"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
	"github.com/tidwall/gjson"
)

const (
	ItemsCollection = "items"
	TasksCollection = "tasks"
)

const itemsQuery = `query {
	items {
		id
		name
		shortName
		types
		avg24hPrice
		basePrice
		width
		height
		changeLast48hPercent
		link
		sellFor {
			price
			source
			currency
			priceRUB
		}
	}
}`

const tasksQuery = `query {
	tasks {
		id
		name
		normalizedName
		experience
		minPlayerLevel
		factionName
		kappaRequired
		lightkeeperRequired
		wikiLink
		trader {
			name
		}
		taskRequirements {
			status
			task {
				id
			}
		}
		objectives {
			id
			type
			description
			maps {
				id
				name
				normalizedName
				players
				description
				wiki
			}
		}
	}
}`

var queries = map[string]string{
	ItemsCollection: itemsQuery,
	TasksCollection: tasksQuery,
}

type BreakerSettings struct {
	// consecutive failed fetches that open the breaker
	MaxFailures uint32
	// how long the breaker stays open before letting one probe through
	OpenTimeout time.Duration
}

var DefaultBreakerSettings = BreakerSettings{MaxFailures: 3, OpenTimeout: 5 * time.Minute}

// TarkovClient fetches full collections from the GraphQL data provider. Each
// collection has its own circuit breaker so a failing items query does not
// block task ingestion.
type TarkovClient struct {
	Client   *HttpClient
	breakers map[string]*gobreaker.CircuitBreaker[[]byte]
}

func NewTarkovClient(url string, timeout time.Duration, retryMax int, settings BreakerSettings) *TarkovClient {
	breakers := make(map[string]*gobreaker.CircuitBreaker[[]byte], len(queries))
	for collection := range queries {
		breakers[collection] = newBreaker(collection, settings)
	}
	return &TarkovClient{
		Client:   NewHttpClient(url, "tarkovapi/1.0", timeout, retryMax),
		breakers: breakers,
	}
}

func newBreaker(collection string, settings BreakerSettings) *gobreaker.CircuitBreaker[[]byte] {
	metrics.CircuitBreakerStateGauge.WithLabelValues(collection).Set(0)
	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        collection,
		MaxRequests: 1,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			utils.Log.WithFields(logrus.Fields{
				"collection": name,
				"from":       from.String(),
				"to":         to.String(),
			}).Warn("upstream circuit breaker changed state")
			open := 0.0
			if to == gobreaker.StateOpen {
				open = 1
			}
			metrics.CircuitBreakerStateGauge.WithLabelValues(name).Set(open)
		},
	})
}

type graphQLRequest struct {
	Query string `json:"query"`
}

// Fetch returns the raw provider payload for one collection. Any failure,
// including an open breaker, unwraps to app_error.ErrUpstreamUnavailable.
func (c *TarkovClient) Fetch(ctx context.Context, collection string) ([]byte, error) {
	query, ok := queries[collection]
	if !ok {
		return nil, fmt.Errorf("%w: %s", app_error.ErrUnknownCollection, collection)
	}
	timer := prometheus.NewTimer(metrics.UpstreamRequestDuration.WithLabelValues(collection))
	defer timer.ObserveDuration()
	metrics.UpstreamRequestCounter.WithLabelValues(collection).Inc()

	payload, err := c.breakers[collection].Execute(func() ([]byte, error) {
		return c.query(ctx, collection, query)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %s: %v", app_error.ErrUpstreamUnavailable, collection, err)
		}
		return nil, err
	}
	return payload, nil
}

func (c *TarkovClient) query(ctx context.Context, collection string, query string) ([]byte, error) {
	body, err := json.Marshal(graphQLRequest{Query: query})
	if err != nil {
		return nil, &ClientError{Code: "tarkovapi_client_request_body_error", Description: err.Error()}
	}
	payload, clientErr := c.Client.SendRequest(ctx, RequestArgs{
		Method:  http.MethodPost,
		Body:    body,
		Headers: map[string]string{"Content-Type": "application/json"},
	})
	if clientErr != nil {
		return nil, clientErr
	}
	// GraphQL reports query failures with a 200 and an errors array
	if !gjson.GetBytes(payload, "data."+collection).IsArray() {
		description := gjson.GetBytes(payload, "errors.0.message").String()
		if description == "" {
			description = "response carries no data." + collection + " array"
		}
		return nil, &ClientError{
			StatusCode:  http.StatusOK,
			Code:        "tarkovapi_client_graphql_error",
			Description: description,
		}
	}
	return payload, nil
}
