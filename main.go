//	@title			IDGate API
//	@version		1.0
//	@description	Email login, session and event forwarding service
//	@termsOfService	http://swagger.io/terms/

//	@contact.name	API Support
//	@contact.url	https://github.com/go-authgate/idgate

//	@license.name	MIT
//	@license.url	https://github.com/go-authgate/idgate/blob/main/LICENSE

//	@host		localhost:8080
//	@BasePath	/

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the session token.

//	@securityDefinitions.apikey	SessionAuth
//	@in							cookie
//	@name						idgate_session
//	@description				Session cookie for logged-in browsers

//	@securityDefinitions.apikey	MetricsToken
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the metrics token.

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-authgate/idgate/internal/bootstrap"
	"github.com/go-authgate/idgate/internal/config"
	"github.com/go-authgate/idgate/internal/version"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	_ "github.com/go-authgate/idgate/api" // swagger docs
)

func main() {
	// Define flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Usage = printUsage
	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		version.PrintVersion()
		os.Exit(0)
	}

	// Check if command is provided
	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	// Handle subcommands
	switch args[0] {
	case "server":
		runServer()
	case "login":
		runLogin(args[1:])
	default:
		fmt.Printf("Unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf("Usage: %s [OPTIONS] COMMAND\n\n", os.Args[0])
	fmt.Println("Email login and event forwarding service")
	fmt.Println("\nCommands:")
	fmt.Println("  server    Start the HTTP server")
	fmt.Println("  login     Open the login screen in the terminal")
	fmt.Println("\nOptions:")
	fmt.Println("  -v, --version    Show version information")
	fmt.Println("  -h, --help       Show this help message")
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runServer() {
	cfg := config.Load()

	ctx, stop := signalContext()
	defer stop()

	if err := bootstrap.Run(ctx, cfg); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func runLogin(args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	deviceID := fs.String("device", os.Getenv("IDGATE_DEVICE_ID"), "Device ID reported to kits")
	token := fs.String("token", os.Getenv("IDGATE_SESSION_TOKEN"), "Session token to resume")
	logFile := fs.String("log", "", "Write logs to this file instead of discarding them")
	_ = fs.Parse(args)

	if *deviceID == "" {
		*deviceID = "terminal-" + uuid.NewString()[:8]
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// The screens own the terminal
	if *logFile != "" {
		f, err := tea.LogToFile(*logFile, "idgate")
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	ctx, stop := signalContext()
	defer stop()

	if err := bootstrap.RunTerminal(ctx, cfg, *deviceID, *token); err != nil {
		fmt.Fprintf(os.Stderr, "Login failed: %v\n", err)
		os.Exit(1)
	}
}
