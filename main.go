package main

import (
	"flag"
	"fmt"
	"os"
	"pcd/internal/di"
	"pcd/internal/structures"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the yaml config file")
	debug := flag.Bool("debug", false, "enable debug mode (console logging)")
	flag.Parse()

	flags := &structures.CliFlags{
		ConfigPath: *configPath,
		DebugMode:  *debug,
	}

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "pcd: %s\n", err)
		os.Exit(1)
	}
}
