// Package events holds commands for the prioritization event stream.
package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskrank/adapter/cli"
	"github.com/felixgeelhaar/taskrank/internal/productivity/application/subscribers"
	"github.com/felixgeelhaar/taskrank/internal/productivity/domain/task"
	"github.com/felixgeelhaar/taskrank/internal/shared/infrastructure/eventbus"
)

// ErrNoBroker is returned when no RabbitMQ URL is configured.
var ErrNoBroker = errors.New("RABBITMQ_URL is not set; events are only delivered in process")

// Cmd is the events command group.
var Cmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect prioritization events",
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print prioritization events as other processes publish them",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Config == nil {
			return cli.ErrNotInitialized
		}
		if app.Config.RabbitMQURL == "" {
			return ErrNoBroker
		}

		logger := cli.Logger()
		activity := subscribers.NewActivitySubscriber(0, logger)
		out := cmd.OutOrStdout()
		activity.OnEvent(func(evt task.TasksPrioritized) {
			cli.PrintEvent(out, evt)
		})

		consumer, err := eventbus.NewRabbitMQConsumer(eventbus.RabbitMQConsumerConfig{
			URL:       app.Config.RabbitMQURL,
			Exchange:  app.Config.EventsExchange,
			QueueName: "taskrank.watch." + uuid.NewString()[:8],
			Transient: true,
			Logger:    logger,
		}, eventbus.NewConsumerRegistry(logger))
		if err != nil {
			return err
		}
		defer consumer.Close()

		consumer.RegisterConsumer(activity)
		fmt.Fprintln(out, "Watching prioritization events (Ctrl+C to stop)")

		if err := consumer.Start(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	Cmd.AddCommand(watchCmd)
}
