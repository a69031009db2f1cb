package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"medibook/cmd/bootstrap"

	"github.com/sirupsen/logrus"
)

func main() {
	app, err := bootstrap.New()
	if err != nil {
		logrus.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	interval := app.Config.Reminder.Interval
	app.Log.Infof("Reminder worker started, interval %s", interval)
	app.RunReminders(ctx, interval)
	app.Log.Info("Reminder worker stopped")
}
