package main

import (
	"os"

	"github.com/firefly-engineering/grove/cmd"
	"github.com/firefly-engineering/grove/internal/errors"
	"github.com/firefly-engineering/grove/internal/logging"
)

func main() {
	if err := cmd.Execute(); err != nil {
		logging.UserError("%s", err)
		os.Exit(errors.GetExitCode(err))
	}
}
