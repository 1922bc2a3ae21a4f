package startup

import (
	"context"
	"fmt"
	"io"

	"github.com/setavenger/blindbit-desktop/internal/backend"
	"github.com/setavenger/blindbit-desktop/internal/cli"
	"github.com/setavenger/blindbit-desktop/internal/config"
	"github.com/setavenger/blindbit-desktop/internal/instance"
	"github.com/setavenger/blindbit-desktop/pkg/logging"
	"github.com/setavenger/blindbit-desktop/pkg/types"
)

func startupCLIMode(ctx context.Context, app *config.AppContext, eng backend.Engine, inst *instance.Instance, stdout, stderr io.Writer) int {
	if inst != nil {
		inst.Serve(func() {
			logging.L.Info().Str("mode", app.Launch.SubMode.String()).Msg("activation ignored during batch run")
		})
	}

	err := cli.Run(ctx, app, eng, stdout)
	if err != nil {
		logging.L.Err(err).Msg("cli mode failed")
		fmt.Fprintf(stderr, "error: %v\n", err)
		return types.ExitCode(err)
	}
	return types.ExitCodeSuccess
}
