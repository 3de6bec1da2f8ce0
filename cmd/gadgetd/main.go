package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/danmuck/gadgetctl/internal/logging"
	"github.com/danmuck/gadgetctl/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to gadgetd TOML config")
	flag.Parse()

	logging.ConfigureRuntime()

	cfg := server.DefaultServiceConfig()
	if *configPath != "" {
		loaded, err := loadServiceConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "gadgetd: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	svc := server.NewServiceWithConfig(cfg)
	if err := svc.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "gadgetd: %v\n", err)
		os.Exit(1)
	}
}
