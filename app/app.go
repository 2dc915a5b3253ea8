package app

import (
	"context"
	"fmt"
	"time"

	"axiapac.com/attendance/config"
	"axiapac.com/attendance/core"
	"axiapac.com/attendance/infrastructure/communication"
	"axiapac.com/attendance/infrastructure/directory"
	"axiapac.com/attendance/infrastructure/filesystem"
	"axiapac.com/attendance/security"
	"axiapac.com/attendance/utils"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// Container holds the wired services shared by the server, the lambda and
// the command line tools.
type Container struct {
	Config   *config.Config
	Logger   *zap.Logger
	Location *time.Location

	Store      directory.Store
	Gateway    *security.Gateway
	Accounts   *core.AccountManager
	Attendance *core.Aggregator

	// nil when the bucket is not configured
	Profiles *filesystem.S3Store
	Rosters  *filesystem.S3Store
	Slack    *communication.Slack

	migrate func(ctx context.Context) error
	closers []func() error
}

func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	return utils.InitLogger(utils.LogConfig{Level: cfg.LogLevel, Dev: cfg.LogDev, File: cfg.LogFile})
}

// Build wires every service from cfg. Close releases what it opened.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	utils.SetSnowflakeNode(cfg.SnowflakeNode)

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	secret, err := security.DecodeSecret(cfg.SigningSecret)
	if err != nil {
		return nil, fmt.Errorf("decode SIGNING_SECRET: %w", err)
	}

	c := &Container{Config: cfg, Logger: logger, Location: loc}
	if err := c.openStore(ctx); err != nil {
		return nil, err
	}

	if err := c.openBuckets(ctx); err != nil {
		c.Close()
		return nil, err
	}

	c.Gateway = security.NewGateway(c.Store, secret,
		security.WithIssuer(cfg.TokenIssuer),
		security.WithTokenTTL(cfg.TokenTTL))

	opts := []core.AccountOption{}
	if c.Profiles != nil {
		opts = append(opts, core.WithImageStore(c.Profiles))
	}
	notifier, err := c.openNotifiers(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}
	if notifier != nil {
		opts = append(opts, core.WithNotifier(notifier))
	}

	c.Accounts = core.NewAccountManager(c.Store, c.Gateway, logger.Named("accounts"), opts...)
	c.Attendance = core.NewAggregator(c.Store, logger.Named("attendance"))
	return c, nil
}

func (c *Container) openStore(ctx context.Context) error {
	cfg := c.Config
	switch cfg.DirectoryDriver {
	case config.DriverMySQL:
		dm, err := core.New(cfg.MySQLDSN, cfg.DBMaxConns, core.ParseLogLevel(cfg.DBLogLevel))
		if err != nil {
			return err
		}
		store := directory.NewGormStore(dm)
		c.Store = store
		c.migrate = store.Migrate
		c.closers = append(c.closers, dm.Close)
	case config.DriverPostgres:
		db, err := directory.ConnectPostgres(ctx, cfg.PostgresDSN, cfg.DBMaxConns)
		if err != nil {
			return err
		}
		store := directory.NewPostgresStore(db)
		c.Store = store
		c.migrate = store.EnsureTables
		c.closers = append(c.closers, store.Close)
	default:
		c.Store = directory.NewMemoryStore()
		c.migrate = func(context.Context) error { return nil }
	}
	c.Logger.Info("directory store ready", zap.String("driver", cfg.DirectoryDriver))
	return nil
}

func (c *Container) openBuckets(ctx context.Context) error {
	cfg := c.Config
	if cfg.ProfileBucket == "" && cfg.RosterBucket == "" {
		return nil
	}
	client, err := filesystem.NewS3Client(ctx)
	if err != nil {
		return err
	}
	c.Profiles = bucket(client, cfg.ProfileBucket, cfg.ProfilePublicURL)
	c.Rosters = bucket(client, cfg.RosterBucket, "")
	return nil
}

func bucket(client *s3.Client, name, publicURL string) *filesystem.S3Store {
	if name == "" {
		return nil
	}
	return filesystem.NewS3Store(client, name, publicURL)
}

func (c *Container) openNotifiers(ctx context.Context) (core.Notifier, error) {
	cfg := c.Config
	var notifiers communication.Multi

	if cfg.SlackBotToken != "" && cfg.SlackInfoChannel != "" {
		c.Slack = communication.NewSlack(cfg.SlackBotToken, communication.SlackOption{
			InfoChannelID:  cfg.SlackInfoChannel,
			ErrorChannelID: cfg.SlackErrorChannel,
		})
		notifiers = append(notifiers, c.Slack)
	}
	if cfg.MailFrom != "" {
		mailer, err := communication.NewMailer(ctx, cfg.MailFrom)
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, mailer)
	}
	if cfg.RabbitURL != "" {
		publisher, err := communication.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, publisher)
		c.closers = append(c.closers, publisher.Close)
	}

	if len(notifiers) == 0 {
		return nil, nil
	}
	c.Logger.Info("account notifiers enabled", zap.Int("count", len(notifiers)))
	return notifiers, nil
}

// Alert logs a failure of a background job and posts it to Slack when
// Slack is configured.
func (c *Container) Alert(ctx context.Context, message string, err error) {
	c.Logger.Error(message, zap.Error(err))
	if c.Slack == nil {
		return
	}
	if serr := c.Slack.Error(ctx, fmt.Sprintf("%s: %v", message, err)); serr != nil {
		c.Logger.Warn("failed to post alert", zap.Error(serr))
	}
}

// Migrate creates or updates the directory tables.
func (c *Container) Migrate(ctx context.Context) error {
	return c.migrate(ctx)
}

func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			c.Logger.Warn("close failed", zap.Error(err))
		}
	}
	c.closers = nil
}
