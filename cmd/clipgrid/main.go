package main

import (
	"flag"

	"github.com/clipgrid/clipgrid/internal/gui"
	"github.com/clipgrid/clipgrid/internal/logging"
)

func main() {
	root := flag.String("root", "", "library root directory (asked interactively when empty)")
	config := flag.String("config", "", "folder configuration file (default: folders.json inside the root)")
	flag.Parse()

	logging.Info("clipgrid starting, log level %s", logging.GetLevel())
	gui.Run(*root, *config)
}
