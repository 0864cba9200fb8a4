// Package main is the AWS Lambda entry point for the registration form handler.
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jornageo/registration/config"
	"github.com/jornageo/registration/internal/app"
	"github.com/jornageo/registration/internal/invoke"
	"github.com/jornageo/registration/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.File)
	defer logger.Sync()

	gin.SetMode(gin.ReleaseMode)

	// Built once per execution environment and reused by warm invocations.
	application, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("build app", zap.Error(err))
	}
	defer application.Close()

	router := invoke.NewRouter(application.Engine, logger)
	lambda.Start(router.Handle)
}
