package startup

import (
	"context"
	"fmt"
	"io"

	"github.com/setavenger/blindbit-desktop/internal/backend"
	"github.com/setavenger/blindbit-desktop/internal/config"
	"github.com/setavenger/blindbit-desktop/internal/instance"
	"github.com/setavenger/blindbit-desktop/internal/ui"
	"github.com/setavenger/blindbit-desktop/pkg/logging"
	"github.com/setavenger/blindbit-desktop/pkg/types"
)

func startupInteractiveMode(
	ctx context.Context,
	app *config.AppContext,
	eng backend.Engine,
	inst *instance.Instance,
	run InteractiveRunner,
	stderr io.Writer,
) int {
	if err := run(ctx, app, eng, inst); err != nil {
		logging.L.Err(err).Msg("interactive session failed")
		fmt.Fprintf(stderr, "error: %v\n", err)
		return types.ExitCode(err)
	}
	return types.ExitCodeSuccess
}

func runInteractive(ctx context.Context, app *config.AppContext, eng backend.Engine, inst *instance.Instance) error {
	wm := ui.NewWindowManager(app, eng)
	if inst != nil {
		inst.Serve(wm.Raise)
	}
	return wm.Run(ctx)
}
