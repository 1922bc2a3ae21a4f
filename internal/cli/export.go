package cli

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/setavenger/blindbit-desktop/internal/backend"
	"github.com/setavenger/blindbit-desktop/internal/config"
	"github.com/setavenger/blindbit-desktop/pkg/logging"
	"github.com/setavenger/blindbit-desktop/pkg/utils"
	"github.com/setavenger/blindbit-desktop/pkg/wallet"
)

var (
	contactsHeader = []string{"address", "name"}
	historyHeader  = []string{"timestamp", "txid", "direction", "amount", "fee", "height", "description"}
)

func exportContacts(ctx context.Context, app *config.AppContext, engine backend.Engine, out io.Writer) error {
	w, err := openWallet(app, engine)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(w.Contacts))
	for _, c := range w.Contacts {
		rows = append(rows, []string{c.Address, c.Name})
	}

	target, err := writeExport(ctx, app, contactsHeader, rows)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "exported %d contacts to %s\n", len(rows), target)
	return nil
}

func exportTxHistory(ctx context.Context, app *config.AppContext, engine backend.Engine, out io.Writer) error {
	w, err := openWallet(app, engine)
	if err != nil {
		return err
	}

	history := w.History()
	rows := make([][]string, 0, len(history))
	for _, tx := range history {
		rows = append(rows, historyRow(tx))
	}

	target, err := writeExport(ctx, app, historyHeader, rows)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "exported %d transactions to %s (balance %s)\n", len(rows), target, btcutil.Amount(w.Balance()))
	return nil
}

func historyRow(tx wallet.Transaction) []string {
	height := ""
	if !tx.Pending() {
		height = strconv.FormatUint(tx.Height, 10)
	}
	return []string{
		tx.Time().Format(time.RFC3339),
		tx.Txid,
		tx.Direction.String(),
		strconv.FormatUint(tx.Amount, 10),
		strconv.FormatUint(tx.Fee, 10),
		height,
		tx.Description,
	}
}

// writeExport writes the CSV next to the target and renames it into place,
// so a failed export leaves whatever was there before.
func writeExport(ctx context.Context, app *config.AppContext, header []string, rows [][]string) (string, error) {
	if app.Launch.SubModeTarget == "" {
		return "", ErrNoTarget
	}
	target, err := utils.ResolvePath(app.Launch.SubModeTarget, app.Env.HomeDir)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*")
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	cw := csv.NewWriter(tmp)
	if err = cw.Write(header); err != nil {
		tmp.Close()
		return "", err
	}
	for _, row := range rows {
		if err = ctx.Err(); err != nil {
			tmp.Close()
			return "", err
		}
		if err = cw.Write(row); err != nil {
			tmp.Close()
			return "", err
		}
	}
	cw.Flush()
	if err = cw.Error(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write export: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return "", err
	}

	if err = os.Rename(tmpName, target); err != nil {
		return "", fmt.Errorf("move export into place: %w", err)
	}

	logging.L.Info().Str("file", target).Int("rows", len(rows)).Msg("export written")
	return target, nil
}
