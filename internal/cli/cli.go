// Package cli runs the non-interactive batch operations selected on the
// command line. Each one runs to completion and returns.
package cli

import (
	"context"
	"errors"
	"io"

	"github.com/setavenger/blindbit-desktop/internal/backend"
	"github.com/setavenger/blindbit-desktop/internal/config"
	"github.com/setavenger/blindbit-desktop/pkg/logging"
	"github.com/setavenger/blindbit-desktop/pkg/types"
	"github.com/setavenger/blindbit-desktop/pkg/utils"
	"github.com/setavenger/blindbit-desktop/pkg/wallet"
)

var (
	ErrInvalidSubMode   = errors.New("no valid sub-mode given, use --export-contacts, --export-txhistory or --bruteforce-password")
	ErrNoWalletFile     = errors.New("--wallet-file is required")
	ErrNoTarget         = errors.New("no target given")
	ErrPasswordNotFound = errors.New("no candidate opened the wallet")
)

// Run executes the sub-mode recorded in app.Launch. Output meant for the
// user goes to out.
func Run(ctx context.Context, app *config.AppContext, engine backend.Engine, out io.Writer) error {
	mode := app.Launch.SubMode

	logging.L.Info().
		Str("mode", mode.String()).
		Str("network", app.Network.String()).
		Msg("running cli mode")

	var err error
	switch mode {
	case config.CLIModeExportContacts:
		err = exportContacts(ctx, app, engine, out)
	case config.CLIModeExportTxHistory:
		err = exportTxHistory(ctx, app, engine, out)
	case config.CLIModeBruteforcePassword:
		err = bruteforcePassword(ctx, app, engine, out)
	default:
		err = ErrInvalidSubMode
	}

	if err != nil {
		return &types.SubModeError{Mode: mode.String(), Err: err}
	}
	return nil
}

func openWallet(app *config.AppContext, engine backend.Engine) (*wallet.Wallet, error) {
	if app.Launch.WalletFile == "" {
		return nil, ErrNoWalletFile
	}
	path, err := utils.ResolvePath(app.Launch.WalletFile, app.Env.HomeDir)
	if err != nil {
		return nil, err
	}
	return engine.OpenWallet(path, app.Launch.WalletPassword)
}
