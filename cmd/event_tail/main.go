package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"collabnote-be/internal/config"
	"collabnote-be/pkg/events"
	pktNats "collabnote-be/pkg/nats"

	"github.com/fatih/color"
)

func main() {
	subject := flag.String("subject", pktNats.SubjectPrefix+">", "subject filter")
	durable := flag.String("durable", "", "durable consumer name (empty tails new events only)")
	flag.Parse()

	cfg := config.Load()
	if cfg.App.NatsURL == "" {
		color.Red("NATS_URL is not set")
		os.Exit(1)
	}

	sub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		color.Red("Failed to connect: %v", err)
		os.Exit(1)
	}
	defer sub.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = sub.Subscribe(ctx, *subject, *durable, func(ctx context.Context, event events.Event) error {
		data, _ := json.Marshal(event.Payload())
		switch event.EventType() {
		case events.NoteCreated:
			color.Green("%s %s %s", event.Timestamp().Format("15:04:05"), event.EventType(), data)
		case events.NoteUpdated:
			color.Cyan("%s %s %s", event.Timestamp().Format("15:04:05"), event.EventType(), data)
		case events.NoteDeleted:
			color.Red("%s %s %s", event.Timestamp().Format("15:04:05"), event.EventType(), data)
		default:
			color.White("%s %s %s", event.Timestamp().Format("15:04:05"), event.EventType(), data)
		}
		return nil
	})
	if err != nil {
		color.Red("Failed to subscribe: %v", err)
		os.Exit(1)
	}

	color.Cyan("Tailing %s, Ctrl+C to stop", *subject)
	<-ctx.Done()
}
