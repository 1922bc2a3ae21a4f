package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/setavenger/blindbit-desktop/pkg/types"
	"github.com/spf13/pflag"
)

var (
	// ErrHelp is returned by ParseArgs when --help was requested.
	ErrHelp = errors.New("help requested")
	// ErrVersion is returned by ParseArgs when --version was requested.
	ErrVersion = errors.New("version requested")
)

// CLIMode is the non-interactive batch operation selected on the command line.
type CLIMode int8

const (
	CLIModeNone CLIMode = iota
	CLIModeExportContacts
	CLIModeExportTxHistory
	CLIModeBruteforcePassword
	CLIModeInvalid
)

func (m CLIMode) String() string {
	switch m {
	case CLIModeNone:
		return "none"
	case CLIModeExportContacts:
		return "export-contacts"
	case CLIModeExportTxHistory:
		return "export-txhistory"
	case CLIModeBruteforcePassword:
		return "bruteforce-password"
	default:
		return "invalid"
	}
}

// TorOverride holds the Tor settings given on the command line.
type TorOverride struct {
	Host        string
	Port        int
	HostSet     bool
	PortSet     bool
	UseLocalTor bool
}

// LaunchConfig is the resolved startup intent. It is built once by ParseArgs
// and not modified afterwards.
type LaunchConfig struct {
	Network NetworkType
	Quiet   bool
	Tor     TorOverride

	WalletFile     string
	WalletPassword string
	DaemonAddress  string

	CLIMode       bool
	SubMode       CLIMode
	SubModeTarget string

	BruteforceChars string
	BruteforceDict  string

	// Positional holds arguments that are accepted but otherwise ignored.
	Positional []string
}

type flagValues struct {
	help, version bool

	useLocalTor bool
	torHost     string
	torPort     int
	quiet       bool
	stagenet    bool
	testnet     bool

	walletFile    string
	password      string
	daemonAddress string

	exportContacts     string
	exportTxHistory    string
	bruteforcePassword string
	bruteforceChars    string
	bruteforceDict     string
}

func newFlagSet(v *flagValues) *pflag.FlagSet {
	fs := pflag.NewFlagSet(DirName, pflag.ContinueOnError)
	fs.SortFlags = false
	fs.SetOutput(io.Discard)

	fs.BoolVarP(&v.help, "help", "h", false, "Displays help on commandline options.")
	fs.BoolVarP(&v.version, "version", "v", false, "Displays version information.")

	fs.BoolVar(&v.useLocalTor, "use-local-tor", false, "Use system wide installed Tor instead of the bundled.")
	fs.StringVar(&v.torHost, "tor-host", "", "Address of running Tor instance.")
	fs.IntVar(&v.torPort, "tor-port", 0, "Port of running Tor instance.")
	fs.BoolVar(&v.quiet, "quiet", false, "Limit console output.")
	fs.BoolVar(&v.stagenet, "stagenet", false, "Stagenet is for development purposes only.")
	fs.BoolVar(&v.testnet, "testnet", false, "Testnet is for development purposes only.")

	fs.StringVar(&v.walletFile, "wallet-file", "", "Path to wallet keys file.")
	fs.StringVar(&v.password, "password", "", "Wallet password (escape/quote as needed).")
	fs.StringVar(&v.daemonAddress, "daemon-address", "", "Daemon address (IPv4:port).")

	fs.StringVar(&v.exportContacts, "export-contacts", "", "Output wallet contacts as CSV to specified path.")
	fs.StringVar(&v.exportTxHistory, "export-txhistory", "", "Output wallet transaction history as CSV to specified path.")
	fs.StringVar(&v.bruteforcePassword, "bruteforce-password", "", "Bruteforce the password of the given wallet file.")
	fs.StringVar(&v.bruteforceChars, "bruteforce-chars", "", "Chars used to bruteforce password.")
	fs.StringVar(&v.bruteforceDict, "bruteforce-dict", "", "Bruteforce dictionary file, one candidate per line.")

	return fs
}

// Usage returns the option summary printed for --help and usage errors.
func Usage() string {
	var v flagValues
	var b strings.Builder
	fmt.Fprintf(&b, "Usage: %s [options]\n\n%s - a silent payments desktop wallet\n\nOptions:\n", DirName, AppName)
	b.WriteString(newFlagSet(&v).FlagUsages())
	return b.String()
}

// ParseArgs turns the raw argument list (without the program name) into a
// LaunchConfig. It has no side effects.
func ParseArgs(args []string) (*LaunchConfig, error) {
	var v flagValues
	fs := newFlagSet(&v)

	if err := fs.Parse(args); err != nil {
		return nil, &types.UsageError{Err: err}
	}

	if v.help {
		return nil, ErrHelp
	}
	if v.version {
		return nil, ErrVersion
	}

	if v.stagenet && v.testnet {
		return nil, types.NewUsageError("--stagenet and --testnet are mutually exclusive")
	}

	lc := &LaunchConfig{
		Quiet:           v.quiet,
		WalletFile:      v.walletFile,
		WalletPassword:  v.password,
		DaemonAddress:   v.daemonAddress,
		BruteforceChars: v.bruteforceChars,
		BruteforceDict:  v.bruteforceDict,
		Positional:      fs.Args(),
	}

	switch {
	case v.stagenet:
		lc.Network = Stagenet
	case v.testnet:
		lc.Network = Testnet
	default:
		lc.Network = Mainnet
	}

	lc.Tor = TorOverride{
		Host:        v.torHost,
		Port:        v.torPort,
		HostSet:     fs.Changed("tor-host"),
		PortSet:     fs.Changed("tor-port"),
		UseLocalTor: v.useLocalTor,
	}
	if lc.Tor.PortSet && (lc.Tor.Port < 1 || lc.Tor.Port > 65535) {
		return nil, types.NewUsageError("--tor-port %d is out of range", lc.Tor.Port)
	}

	exportContacts := fs.Changed("export-contacts")
	exportTxHistory := fs.Changed("export-txhistory")
	bruteforcePassword := fs.Changed("bruteforce-password")

	lc.CLIMode = exportContacts || exportTxHistory || bruteforcePassword
	lc.SubMode, lc.SubModeTarget = selectSubMode(lc.CLIMode, []subModeFlag{
		{exportContacts, CLIModeExportContacts, v.exportContacts},
		{exportTxHistory, CLIModeExportTxHistory, v.exportTxHistory},
		{bruteforcePassword, CLIModeBruteforcePassword, v.bruteforcePassword},
	})

	return lc, nil
}

type subModeFlag struct {
	set    bool
	mode   CLIMode
	target string
}

// selectSubMode returns the first set flag in precedence order. Any further
// set flags are ignored.
func selectSubMode(cliMode bool, flags []subModeFlag) (CLIMode, string) {
	if !cliMode {
		return CLIModeNone, ""
	}
	for _, f := range flags {
		if f.set {
			return f.mode, f.target
		}
	}
	return CLIModeInvalid, ""
}
