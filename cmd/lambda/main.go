// Lambda entrypoint for the Teamplane API.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/teamplane/teamplane/handler"
	"github.com/teamplane/teamplane/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	cfg, err := store.ConfigFromEnv()
	if err != nil {
		logger.Error("fatal misconfiguration", "error", err)
		os.Exit(1)
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background())
	if err != nil {
		logger.Error("load AWS config", "error", err)
		os.Exit(1)
	}

	s := store.New(dynamodb.NewFromConfig(awsCfg), cfg)
	h := handler.New(s, logger)

	lambda.Start(h.HandleRequest)
}
