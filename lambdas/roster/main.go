package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"axiapac.com/attendance/app"
	"axiapac.com/attendance/config"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"
)

func handler(c *app.Container) func(ctx context.Context, event RosterEvent) (*RosterResult, error) {
	var out ObjectWriter = dirWriter{dir: "."}
	if c.Rosters != nil {
		out = c.Rosters
	}
	return func(ctx context.Context, event RosterEvent) (*RosterResult, error) {
		c.Logger.Info("roster requested",
			zap.String("date", event.Date),
			zap.String("query", event.Query),
			zap.Bool("latest", event.Latest))

		result, err := GenerateRoster(ctx, c.Attendance, out, c.Location, event)
		if err != nil {
			c.Alert(ctx, "roster failed", err)
			return nil, err
		}
		c.Logger.Info("roster stored",
			zap.String("bucket", result.Bucket),
			zap.String("key", result.Key),
			zap.Int("rows", result.Rows))
		return result, nil
	}
}

func main() {
	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Printf("[ERROR] %v\n", err)
		os.Exit(1)
	}
	logger, err := app.NewLogger(cfg)
	if err != nil {
		fmt.Printf("[ERROR] %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	c, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to build", zap.Error(err))
	}
	defer c.Close()

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		lambda.Start(handler(c))
		return
	}

	var event RosterEvent
	flag.StringVar(&event.Date, "date", "", "roster day (yyyy-MM-dd), defaults to today")
	flag.StringVar(&event.Query, "q", "", "text filter")
	flag.BoolVar(&event.Latest, "latest", false, "latest record per employee only")
	flag.Parse()

	result, err := handler(c)(ctx, event)
	if err != nil {
		fmt.Printf("[ERROR] %v\n", err)
		os.Exit(1)
	}
	resJson, _ := json.MarshalIndent(result, "", "  ")
	fmt.Printf("[SUCCESS] Result:\n%s\n", string(resJson))
}
