package main

import (
	"context"
	"fmt"
	"os"

	"bus-tracking/internal/config"
	"bus-tracking/internal/mylogger"

	adminservice "bus-tracking/internal/admin-service"
	tripservice "bus-tracking/internal/trip-service"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: app <trip-service|admin-service>")
		os.Exit(1)
	}
	service := os.Args[1]

	cfg, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	mylog, err := mylogger.New(service, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	switch service {
	case "trip-service":
		err = tripservice.Execute(ctx, mylog, cfg)
	case "admin-service":
		err = adminservice.Execute(ctx, mylog, cfg)
	default:
		fmt.Fprintf(os.Stderr, "unknown service: %s\n", service)
		os.Exit(1)
	}

	if err != nil {
		mylog.Error("service exited with error", err)
		os.Exit(1)
	}
}
