package main

import (
	"context"
	"os/signal"
	"syscall"

	"ai-crm-be/internal/config"
	"ai-crm-be/pkg/events"
	pktNats "ai-crm-be/pkg/nats"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var watchDurable string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Tail contact events from NATS",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchDurable, "durable", "", "durable consumer name; empty only shows new events")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	sub, err := pktNats.NewSubscriber(cfg.App.NatsURL, nil)
	if err != nil {
		return err
	}
	defer sub.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cc, err := sub.Subscribe(ctx, pktNats.SubjectPrefix+".>", watchDurable, printEvent)
	if err != nil {
		return err
	}
	defer cc.Stop()

	color.Cyan("Watching %s (ctrl-c to stop)", pktNats.SubjectPrefix+".>")
	<-ctx.Done()
	return nil
}

func printEvent(ctx context.Context, event events.Event) error {
	paint := color.New(color.FgWhite)
	switch event.EventType() {
	case events.ContactCreated:
		paint = color.New(color.FgGreen)
	case events.ContactUpdated:
		paint = color.New(color.FgYellow)
	case events.ContactDeleted:
		paint = color.New(color.FgRed)
	}
	paint.Printf("%s %-18s %v\n", event.Timestamp().Format("15:04:05"), event.EventType(), event.Payload()["contact_ids"])
	return nil
}
