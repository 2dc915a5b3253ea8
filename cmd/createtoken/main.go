package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"axiapac.com/attendance/app"
	"axiapac.com/attendance/config"
)

// Prints a bearer token for an existing account. Handy for curl sessions
// against a local server.
func main() {
	uid := flag.String("uid", "", "account id")
	flag.Parse()
	if *uid == "" {
		fmt.Println("usage: createtoken -uid <account id>")
		os.Exit(2)
	}

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
	c, err := app.Build(ctx, cfg, logger)
	if err != nil {
		fmt.Printf("[ERROR] %v\n", err)
		os.Exit(1)
	}
	defer c.Close()

	account, err := c.Store.GetAccount(ctx, *uid)
	if err != nil {
		fmt.Printf("[ERROR] account %s: %v\n", *uid, err)
		os.Exit(1)
	}

	token, err := c.Gateway.Token(account.ID, account.Email, account.DisplayName())
	if err != nil {
		fmt.Printf("[ERROR] %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
