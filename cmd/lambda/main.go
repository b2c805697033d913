package main

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"

	"github.com/saulo-duarte/visionboard-lambda/internal/config"
	"github.com/saulo-duarte/visionboard-lambda/internal/container"
)

var chiLambda *chiadapter.ChiLambdaV2

func init() {
	start := time.Now()

	c, err := container.New(context.Background())
	if err != nil {
		log.Fatalf("failed to initialize container: %v", err)
	}
	chiLambda = chiadapter.NewV2(c.Router())

	config.Logger().WithField("cold_start", time.Since(start).String()).Info("Lambda initialized")
}

// Handler serves API Gateway HTTP API events. The voice and feed websockets
// need a long-lived server and are only reachable through cmd/api.
func Handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return chiLambda.ProxyWithContextV2(ctx, req)
}

func main() {
	lambda.Start(Handler)
}
