package main

import (
	"os"

	"github.com/setavenger/blindbit-desktop/internal/startup"
)

func main() {
	os.Exit(startup.RunProgram(os.Args[1:]))
}
