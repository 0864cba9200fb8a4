// Package invoke classifies raw Lambda events as pub/sub deliveries or API Gateway requests.
package invoke

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jornageo/registration/internal/middleware"
	"github.com/jornageo/registration/internal/models"
)

// EventSourceSNS marks an SNS delivery record.
const EventSourceSNS = "aws:sns"

// Ack is returned for pub/sub deliveries.
type Ack struct {
	StatusCode int `json:"statusCode"`
}

// Router holds no per-invocation state.
type Router struct {
	proxy  *ginadapter.GinLambda
	logger *zap.Logger
}

// NewRouter serves HTTP events with engine.
func NewRouter(engine *gin.Engine, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{proxy: ginadapter.New(engine), logger: logger}
}

type envelope struct {
	Records    json.RawMessage `json:"Records"`
	HTTPMethod string          `json:"httpMethod"`
}

// Handle is the Lambda entry point. An event with a Records key is a pub/sub delivery and
// is only logged; anything else is treated as an API Gateway proxy request.
func (r *Router) Handle(ctx context.Context, raw json.RawMessage) (any, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	if env.Records != nil {
		return r.handleSNS(raw)
	}
	if env.HTTPMethod == "" {
		r.logger.Error("event is neither a pub/sub delivery nor an http request")
		return errorResponse(http.StatusInternalServerError, "Internal server error"), nil
	}

	var req events.APIGatewayProxyRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("decode api gateway request: %w", err)
	}
	resp, err := r.proxy.ProxyWithContext(ctx, req)
	if err != nil {
		r.logger.Error("proxy request", zap.Error(err))
		return errorResponse(http.StatusInternalServerError, "Internal server error"), nil
	}
	return resp, nil
}

func (r *Router) handleSNS(raw json.RawMessage) (Ack, error) {
	var ev events.SNSEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return Ack{}, fmt.Errorf("decode sns event: %w", err)
	}
	for _, rec := range ev.Records {
		if rec.EventSource != EventSourceSNS {
			continue
		}
		var reg models.Registration
		if err := json.Unmarshal([]byte(rec.SNS.Message), &reg); err != nil {
			r.logger.Warn("sns message is not a registration",
				zap.String("message_id", rec.SNS.MessageID),
				zap.Error(err),
			)
			continue
		}
		r.logger.Info("received sns message",
			zap.String("message_id", rec.SNS.MessageID),
			zap.String("registration_id", reg.RegistrationID),
			zap.String("email", reg.Email),
		)
	}
	return Ack{StatusCode: http.StatusOK}, nil
}

func errorResponse(status int, msg string) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(map[string]string{"error": msg})
	headers := middleware.CORSHeaders()
	headers["Content-Type"] = "application/json"
	return events.APIGatewayProxyResponse{StatusCode: status, Headers: headers, Body: string(body)}
}
