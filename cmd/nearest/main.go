package main

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/mbtanearby/backend-go/internal/api"
	"github.com/mbtanearby/backend-go/internal/config"
	"github.com/mbtanearby/backend-go/internal/handler"
	"github.com/mbtanearby/backend-go/internal/nearby"
	"github.com/rs/zerolog/log"
)

var (
	lambdaStart                           = lambda.Start // Allow mocking of lambda.Start in tests
	nearbyHandler  *handler.NearbyHandler
	setupOnce      sync.Once
	serviceFactory nearby.ServiceFactory = &nearby.DefaultServiceFactory{}
)

func InitializeService() error {
	var initError error
	setupOnce.Do(func() {
		cfg := config.LoadFromEnv()
		cfg.InitializeLogging()

		log.Debug().Msg("Initializing nearby service...")
		svc, err := serviceFactory.NewService(cfg)
		if err != nil {
			initError = fmt.Errorf("initializing nearby service: %w", err)
			log.Error().Err(err).Msg("Failed to initialize service")
			return
		}

		nearbyHandler = handler.NewNearbyHandler(svc)
		log.Debug().Msg("Nearby service initialized successfully")
	})
	return initError
}

func handleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if nearbyHandler == nil {
		return api.Error("Handler not initialized", http.StatusInternalServerError)
	}
	return nearbyHandler.HandleRequest(ctx, request)
}

func main() {
	if err := InitializeService(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize service")
	}
	lambdaStart(handleRequest)
}
