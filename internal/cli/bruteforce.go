package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"

	"github.com/setavenger/blindbit-desktop/internal/backend"
	"github.com/setavenger/blindbit-desktop/internal/config"
	"github.com/setavenger/blindbit-desktop/pkg/logging"
	"github.com/setavenger/blindbit-desktop/pkg/utils"
	"github.com/setavenger/blindbit-desktop/pkg/wallet"
	"golang.org/x/sync/errgroup"
)

// every attempt derives a key with argon2 (64MB), so keep the pool small
const maxBruteforceWorkers = 4

func bruteforcePassword(ctx context.Context, app *config.AppContext, engine backend.Engine, out io.Writer) error {
	target := app.Launch.SubModeTarget
	if target == "" {
		target = app.Launch.WalletFile
	}
	if target == "" {
		return ErrNoTarget
	}
	path, err := utils.ResolvePath(target, app.Env.HomeDir)
	if err != nil {
		return err
	}
	if _, err = os.Stat(path); err != nil {
		return fmt.Errorf("wallet file: %w", err)
	}

	parent := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	candidates := make(chan string)
	produceErr := make(chan error, 1)
	go func() {
		defer close(candidates)
		produceErr <- produceCandidates(ctx, app.Launch, candidates)
	}()

	workers := runtime.NumCPU()
	if workers > maxBruteforceWorkers {
		workers = maxBruteforceWorkers
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var (
		mu    sync.Mutex
		found string
		hit   bool
		tried int
	)

	for candidate := range candidates {
		if gctx.Err() != nil {
			break
		}
		candidate := candidate
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			_, err := engine.OpenWallet(path, candidate)

			mu.Lock()
			defer mu.Unlock()
			tried++
			switch {
			case err == nil:
				if !hit {
					hit, found = true, candidate
				}
				cancel()
				return nil
			case errors.Is(err, wallet.ErrInvalidPassword):
				return nil
			default:
				return err
			}
		})
	}
	// unblock the producer if we stopped early
	if gctx.Err() != nil {
		cancel()
		for range candidates {
		}
	}

	err = g.Wait()
	cancel()
	if err != nil && !hit {
		return err
	}
	if err = <-produceErr; err != nil && !hit && !errors.Is(err, context.Canceled) {
		return err
	}
	if hit {
		logging.L.Info().Int("tried", tried).Msg("password found")
		fmt.Fprintf(out, "password found: %s\n", found)
		return nil
	}

	if err = parent.Err(); err != nil {
		return err
	}
	logging.L.Warn().Int("tried", tried).Msg("password not found")
	return ErrPasswordNotFound
}

// produceCandidates sends the base password, its single-character edits over
// the configured alphabet and then every dictionary line.
func produceCandidates(ctx context.Context, launch config.LaunchConfig, out chan<- string) error {
	send := func(s string) bool {
		select {
		case out <- s:
			return true
		case <-ctx.Done():
			return false
		}
	}

	seen := map[string]struct{}{}
	if launch.WalletPassword != "" {
		for _, v := range passwordVariants(launch.WalletPassword, launch.BruteforceChars) {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			if !send(v) {
				return ctx.Err()
			}
		}
	}

	if launch.BruteforceDict == "" {
		return nil
	}
	f, err := os.Open(launch.BruteforceDict)
	if err != nil {
		return fmt.Errorf("open dictionary: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		if !send(line) {
			return ctx.Err()
		}
	}
	return scanner.Err()
}

// passwordVariants returns base followed by every insertion, replacement and
// deletion of a single character from chars.
func passwordVariants(base, chars string) []string {
	runes := []rune(base)
	alphabet := []rune(chars)

	variants := []string{base}
	for i := 0; i <= len(runes); i++ {
		for _, c := range alphabet {
			v := make([]rune, 0, len(runes)+1)
			v = append(v, runes[:i]...)
			v = append(v, c)
			v = append(v, runes[i:]...)
			variants = append(variants, string(v))
		}
	}
	for i := range runes {
		for _, c := range alphabet {
			if c == runes[i] {
				continue
			}
			v := make([]rune, len(runes))
			copy(v, runes)
			v[i] = c
			variants = append(variants, string(v))
		}
		v := make([]rune, 0, len(runes)-1)
		v = append(v, runes[:i]...)
		v = append(v, runes[i+1:]...)
		variants = append(variants, string(v))
	}
	return variants
}
