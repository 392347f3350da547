package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/UniBookChain/unibook/pkg/cli"
)

var (
	timeout = 30 * time.Second
	format  = "table"
)

// version metadata populated via -ldflags at build time
var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	if len(os.Args) < 2 {
		showHelp()
		return
	}

	command := os.Args[1]
	args := os.Args[2:]

	// Parse global flags
	args = parseGlobalFlags(args)

	switch command {
	case "version":
		fmt.Printf("unibook %s", version)
		if commit != "" {
			fmt.Printf(" (commit %s)", commit)
		}
		if date != "" {
			fmt.Printf(" built %s", date)
		}
		fmt.Println()
		return

	// Wallet and connectivity
	case "status":
		cli.HandleStatusCommand(format, timeout)
	case "health":
		cli.HandleHealthCommand(format, timeout)

	// Request browsing
	case "list":
		cli.HandleListCommand(false, format, timeout)
	case "library":
		cli.HandleListCommand(true, format, timeout)
	case "show":
		if len(args) == 0 {
			fmt.Fprintf(os.Stderr, "Usage: unibook show <id>\n")
			os.Exit(1)
		}
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid request id: %s\n", args[0])
			os.Exit(1)
		}
		cli.HandleShowCommand(id, format, timeout)

	// Upload flow
	case "upload":
		if len(args) == 0 {
			fmt.Fprintf(os.Stderr, "Usage: unibook upload <file.pdf> [--name <name>] [--description <text>]\n")
			os.Exit(1)
		}
		name, description := parseUploadFlags(args[1:])
		cli.HandleUploadCommand(args[0], name, description, timeout)

	// Pin cleanup
	case "unpin":
		if len(args) == 0 {
			fmt.Fprintf(os.Stderr, "Usage: unibook unpin <cid>\n")
			os.Exit(1)
		}
		cli.HandleUnpinCommand(args[0], timeout)

	// Admin voting
	case "vote":
		if len(args) < 2 || (args[1] != "approve" && args[1] != "reject") {
			fmt.Fprintf(os.Stderr, "Usage: unibook vote <id> approve|reject\n")
			os.Exit(1)
		}
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid request id: %s\n", args[0])
			os.Exit(1)
		}
		cli.HandleVoteCommand(id, args[1] == "approve", timeout)

	// Subscriptions
	case "subscription":
		cli.HandleSubscriptionCommand(format, timeout)
	case "subscribe":
		tier, assumeYes := parseSubscribeFlags(args)
		if tier == "" {
			fmt.Fprintf(os.Stderr, "Usage: unibook subscribe basic|premium [--yes]\n")
			os.Exit(1)
		}
		cli.HandleSubscribeCommand(tier, assumeYes, timeout)

	// Help
	case "help", "--help", "-h":
		showHelp()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		showHelp()
		os.Exit(1)
	}
}

// parseGlobalFlags consumes --format and --timeout wherever they appear and
// returns the remaining positional arguments.
func parseGlobalFlags(args []string) []string {
	var rest []string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--format", "-f":
			if i+1 < len(args) {
				format = args[i+1]
				i++
			}
		case "--timeout", "-t":
			if i+1 < len(args) {
				if d, err := time.ParseDuration(args[i+1]); err == nil {
					timeout = d
				}
				i++
			}
		default:
			rest = append(rest, args[i])
		}
	}
	return rest
}

func parseSubscribeFlags(args []string) (tier string, assumeYes bool) {
	for _, arg := range args {
		switch arg {
		case "--yes", "-y":
			assumeYes = true
		default:
			if tier == "" {
				tier = arg
			}
		}
	}
	return tier, assumeYes
}

func parseUploadFlags(args []string) (name, description string) {
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--name":
			if i+1 < len(args) {
				name = args[i+1]
				i++
			}
		case "--description":
			if i+1 < len(args) {
				description = args[i+1]
				i++
			}
		}
	}
	return name, description
}

func showHelp() {
	fmt.Println("unibook - decentralized PDF repository client")
	fmt.Println()
	fmt.Println("Usage: unibook <command> [args] [--format table|json] [--timeout 30s]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  status                        Show wallet and contract status")
	fmt.Println("  health                        Check chain and pinning connectivity")
	fmt.Println("  list                          List all upload requests")
	fmt.Println("  library                       List approved uploads only")
	fmt.Println("  show <id>                     Show one request in full")
	fmt.Println("  upload <file> [--name] [--description]")
	fmt.Println("                                Pin a PDF and submit an upload request")
	fmt.Println("  unpin <cid>                   Remove a pinned file left over by a failed submission")
	fmt.Println("  vote <id> approve|reject      Vote on a pending request (admin)")
	fmt.Println("  subscription                  Show the wallet's subscription state")
	fmt.Println("  subscribe basic|premium [--yes]")
	fmt.Println("                                Purchase a subscription tier (prompts unless --yes)")
	fmt.Println("  version                       Show version information")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  UNIBOOK_CONFIG       Path to a YAML config file")
	fmt.Println("  UNIBOOK_RPC_URL      Ethereum RPC endpoint")
	fmt.Println("  UNIBOOK_KEYSTORE     Keystore JSON file for the wallet")
	fmt.Println("  WALLET_PASSPHRASE    Keystore passphrase")
	fmt.Println("  UNIBOOK_PRIVATE_KEY  Hex private key (alternative to keystore)")
	fmt.Println("  PINATA_JWT           Pinning service token (required for uploads)")
}
