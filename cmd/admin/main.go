package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/sorgulen/tjenesteportal/internal/config"
	"github.com/sorgulen/tjenesteportal/internal/dashboard"
	"github.com/sorgulen/tjenesteportal/internal/domain"
	"github.com/sorgulen/tjenesteportal/internal/identity"
	"github.com/sorgulen/tjenesteportal/internal/logger"
	"github.com/sorgulen/tjenesteportal/internal/orderapi"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Keep log output out of the terminal UI unless explicitly raised
	if os.Getenv("ADMIN_LOG_LEVEL") != "" {
		cfg.Logging.Level = os.Getenv("ADMIN_LOG_LEVEL")
	} else {
		cfg.Logging.Level = "error"
	}

	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	orderAPI := orderapi.NewClient(&cfg.OrderAPI)
	identityClient := identity.NewClient(&cfg.Identity)
	tokenValidator := identity.NewTokenValidator(&cfg.Identity)
	gate := identity.NewGate(identityClient, tokenValidator, log)

	// Sign in: resume an existing session token if provided, otherwise
	// prompt for credentials. Only admin accounts get through.
	if token := os.Getenv("ADMIN_ACCESS_TOKEN"); token != "" {
		user, err := gate.Resume(ctx, token)
		if err != nil {
			return fmt.Errorf("session resume failed: %w", err)
		}
		fmt.Printf("Innlogget som %s\n", user.Email)
	} else {
		if err := signIn(ctx, gate); err != nil {
			return err
		}
	}
	defer gate.SignOut(ctx)

	ctrl := dashboard.NewController(orderAPI, gate, log)
	if err := ctrl.Load(ctx); err != nil {
		fmt.Println(ctrl.LoadError())
	}

	printStats(ctrl.Stats())
	printOrders(ctrl)
	fmt.Println("Skriv 'help' for kommandoer.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}
		runCommand(ctx, ctrl, line)
	}

	return scanner.Err()
}

func signIn(ctx context.Context, gate *identity.Gate) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")

	reader := bufio.NewReader(os.Stdin)
	if email == "" {
		fmt.Print("E-post: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		email = strings.TrimSpace(line)
	}
	if password == "" {
		fmt.Print("Passord: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		password = strings.TrimSpace(line)
	}

	session, err := gate.SignIn(ctx, email, password)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrNotAdmin):
			return fmt.Errorf("kontoen har ikke admin-tilgang")
		case errors.Is(err, identity.ErrInvalidCredentials):
			return fmt.Errorf("feil e-post eller passord")
		default:
			return fmt.Errorf("sign in failed: %w", err)
		}
	}

	fmt.Printf("Innlogget som %s\n", session.User.Email)
	return nil
}

func runCommand(ctx context.Context, ctrl *dashboard.Controller, line string) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "help":
		printHelp()
	case "refresh":
		if err := ctrl.Load(ctx); err != nil {
			fmt.Println(ctrl.LoadError())
			return
		}
		printStats(ctrl.Stats())
		printOrders(ctrl)
	case "list":
		printOrders(ctrl)
	case "stats":
		printStats(ctrl.Stats())
	case "filter":
		applyFilter(ctrl, fields[1:])
		printOrders(ctrl)
	case "clear":
		ctrl.SetFilter(domain.OrderFilter{})
		printOrders(ctrl)
	case "set":
		if len(fields) != 3 {
			fmt.Println("bruk: set <id> <new|in_progress|done|cancelled>")
			return
		}
		if err := ctrl.UpdateStatus(ctx, fields[1], domain.OrderStatus(fields[2])); err != nil {
			fmt.Printf("Oppdatering feilet: %v\n", err)
			return
		}
		fmt.Println("Status oppdatert")
		printOrders(ctrl)
	default:
		fmt.Printf("ukjent kommando: %s\n", fields[0])
	}
}

func applyFilter(ctrl *dashboard.Controller, args []string) {
	f := ctrl.Filter()
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			fmt.Printf("bruk: filter status=<s> service=<s> search=<tekst>\n")
			return
		}
		switch key {
		case "status":
			f.Status = domain.OrderStatus(value)
		case "service":
			f.Service = domain.ServiceType(value)
		case "search":
			f.Search = value
		default:
			fmt.Printf("ukjent filter: %s\n", key)
			return
		}
	}
	ctrl.SetFilter(f)
}

func printStats(stats domain.OrderStats) {
	fmt.Printf("Totalt: %d  Nye: %d  Pågår: %d  Fullført: %d  Kansellert: %d\n",
		stats.Total, stats.New, stats.InProgress, stats.Done, stats.Cancelled)
}

func printOrders(ctrl *dashboard.Controller) {
	orders := ctrl.Visible()
	fmt.Println(ctrl.FilterSummary())
	if len(orders) == 0 {
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "REF\tKUNDE\tTJENESTE\tADRESSE\tOPPRETTET\tSTATUS")
	for i := range orders {
		o := &orders[i]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			o.ShortRef(),
			o.CustomerName,
			o.ServiceType.Label(),
			o.Address,
			o.CreatedAt.Format("02.01.2006 15:04"),
			o.Status.Label(),
		)
	}
	w.Flush()
}

func printHelp() {
	fmt.Println(`kommandoer:
  refresh                        hent bestillinger på nytt
  list                           vis bestillinger med gjeldende filter
  stats                          vis statuskolonnene
  filter status=<s> service=<s> search=<tekst>
  clear                          fjern alle filtre
  set <id> <status>              endre status (new|in_progress|done|cancelled)
  quit                           avslutt`)
}
