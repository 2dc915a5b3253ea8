package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"axiapac.com/attendance/app"
	"axiapac.com/attendance/config"
	"axiapac.com/attendance/core"
	"axiapac.com/attendance/infrastructure/filesystem"
	"axiapac.com/attendance/lambdas/clockin/helper"
	"axiapac.com/attendance/model"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"
)

type attendanceStore interface {
	GetAttendance(ctx context.Context, id string) (*model.AttendanceRecord, error)
	PutAttendance(ctx context.Context, record *model.AttendanceRecord) error
}

type ImportResult struct {
	Source    string `json:"source"`
	Punches   int    `json:"punches"`
	Records   int    `json:"records"`
	Unchanged int    `json:"unchanged"`
}

// Import reads one punch export and writes the shifts it describes.
// Shifts already stored are merged with helper.MergeShift.
func Import(ctx context.Context, store attendanceStore, r io.Reader, loc *time.Location, source string) (*ImportResult, error) {
	punches, err := helper.ParsePunches(r, loc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", source, err)
	}
	records := helper.GroupPunches(punches)
	result := &ImportResult{Source: source, Punches: len(punches), Records: len(records)}
	for _, record := range records {
		stored, err := store.GetAttendance(ctx, record.ID)
		switch {
		case errors.Is(err, core.ErrNoRecord):
		case err != nil:
			return nil, fmt.Errorf("failed to load %s: %w", record.ID, err)
		default:
			merged, changed := helper.MergeShift(*stored, record)
			if !changed {
				result.Unchanged++
				continue
			}
			record = merged
		}
		if err := store.PutAttendance(ctx, &record); err != nil {
			return nil, fmt.Errorf("failed to save %s: %w", record.ID, err)
		}
	}
	return result, nil
}

func HandleRequest(c *app.Container) func(ctx context.Context, event events.S3Event) ([]ImportResult, error) {
	return func(ctx context.Context, event events.S3Event) ([]ImportResult, error) {
		client, err := filesystem.NewS3Client(ctx)
		if err != nil {
			return nil, err
		}

		var results []ImportResult
		for _, record := range event.Records {
			bucket, key := record.S3.Bucket.Name, record.S3.Object.URLDecodedKey
			source := bucket + "/" + key

			var stream bytes.Buffer
			if _, err := filesystem.NewS3Store(client, bucket, "").ReadFile(ctx, key, &stream); err != nil {
				c.Alert(ctx, "failed to fetch punches from "+source, err)
				return results, err
			}
			result, err := Import(ctx, c.Store, &stream, c.Location, source)
			if err != nil {
				c.Alert(ctx, "failed to import punches from "+source, err)
				return results, err
			}
			c.Logger.Info("punches imported",
				zap.String("source", source),
				zap.Int("punches", result.Punches),
				zap.Int("records", result.Records),
				zap.Int("unchanged", result.Unchanged))
			results = append(results, *result)
		}
		return results, nil
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
		lambda.Start(HandleRequest(c))
		return
	}

	path := flag.String("file", "", "local punch export")
	flag.Parse()
	if *path == "" {
		fmt.Println("usage: clockin -file <punches.csv>")
		os.Exit(2)
	}
	file, err := os.Open(*path)
	if err != nil {
		fmt.Printf("[ERROR] failed to open file %s: %v\n", *path, err)
		os.Exit(1)
	}
	defer file.Close()

	result, err := Import(ctx, c.Store, file, c.Location, *path)
	if err != nil {
		fmt.Printf("[ERROR] %v\n", err)
		os.Exit(1)
	}
	resJson, _ := json.MarshalIndent(result, "", "  ")
	fmt.Printf("[SUCCESS] Result:\n%s\n", string(resJson))
}
