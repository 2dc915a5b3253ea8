package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"axiapac.com/attendance/app"
	"axiapac.com/attendance/config"
	"axiapac.com/attendance/core"
	"axiapac.com/attendance/model"
	"go.uber.org/zap"
)

func main() {
	var (
		email     = flag.String("email", "", "superadmin email")
		password  = flag.String("password", "", "superadmin password")
		first     = flag.String("first", "System", "superadmin first name")
		last      = flag.String("last", "Admin", "superadmin last name")
		username  = flag.String("username", "superadmin", "superadmin username")
		employee  = flag.String("employee-id", "ADMIN-0001", "superadmin employee id")
		nic       = flag.String("nic", "ADMIN-0001", "superadmin national id")
		fixture   = flag.String("attendance", "", "JSON file of attendance records to import")
		skipAdmin = flag.Bool("skip-admin", false, "only import attendance")
	)
	flag.Parse()

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

	if cfg.DirectoryDriver == config.DriverMemory {
		logger.Warn("seeding the memory driver only lasts for this process")
	}

	c, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to build", zap.Error(err))
	}
	defer c.Close()

	if err := c.Migrate(ctx); err != nil {
		logger.Fatal("failed to migrate", zap.Error(err))
	}

	if !*skipAdmin {
		account, err := c.Accounts.Bootstrap(ctx, core.NewAccount{
			FirstName:  *first,
			LastName:   *last,
			Email:      *email,
			Username:   *username,
			EmployeeID: *employee,
			NationalID: *nic,
			Password:   *password,
			Role:       model.RoleAdmin,
			AdminRole:  model.AdminRoleSuperadmin,
		})
		if err != nil {
			logger.Fatal("failed to create superadmin", zap.Error(err))
		}
		logger.Info("superadmin created", zap.String("uid", account.ID), zap.String("email", account.Email))
	}

	if *fixture != "" {
		n, err := importAttendance(ctx, c.Store, *fixture)
		if err != nil {
			logger.Fatal("failed to import attendance", zap.String("file", *fixture), zap.Error(err))
		}
		logger.Info("attendance imported", zap.Int("records", n))
	}
}
