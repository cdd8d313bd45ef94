package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/payvault/internal/adapter/backend"
	"github.com/seu-repo/payvault/internal/adapter/cache"
	"github.com/seu-repo/payvault/internal/adapter/provider"
	"github.com/seu-repo/payvault/internal/ports"
	"github.com/seu-repo/payvault/internal/workflow"
)

var (
	backendURL = flag.String("backend", "http://localhost:8080", "Payments API base URL")
	redisURL   = flag.String("redis", "", "Redis URL for session state (in-process cache when empty)")
	stripeKey  = flag.String("stripe-key", os.Getenv("STRIPE_API_KEY"), "Stripe API key for card confirmation")
	assumeYes  = flag.Bool("yes", false, "Answer yes to confirmation prompts")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: payctl [flags] <command> [args]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  create-customer <email> <name>          Create a customer and make it current")
	fmt.Fprintln(os.Stderr, "  save-card <number> <mm> <yyyy> <cvc>    Save a card for the current customer")
	fmt.Fprintln(os.Stderr, "  list-cards                              List the current customer's saved cards")
	fmt.Fprintln(os.Stderr, "  delete-card <payment-method-id>         Remove a saved card")
	fmt.Fprintln(os.Stderr, "  charge <cents> [description]            Charge the current customer")
	fmt.Fprintln(os.Stderr, "  charge-card <pm-id> <cents> [desc]      Charge a specific saved card")
	fmt.Fprintln(os.Stderr, "  pay-once <cents> <number> <mm> <yyyy> <cvc> [description]")
	fmt.Fprintln(os.Stderr, "                                          One-time payment without a customer")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Flags:")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	var logger *zap.Logger
	var err error
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger = zap.NewNop()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()

	var sessionCache ports.Cache
	if *redisURL != "" {
		sessionCache, err = cache.NewRedisCache(*redisURL, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to Redis: %v\n", err)
			os.Exit(1)
		}
	} else {
		sessionCache = cache.NewLocalCache(time.Minute, logger)
	}
	defer sessionCache.Close()

	gateway := backend.NewClient(*backendURL, logger)
	confirmer := provider.NewStripeConfirmer(*stripeKey, logger)
	session := workflow.NewSession(ctx, sessionCache, logger)

	controller := workflow.NewController(gateway, confirmer, session, logger)
	controller.SetRenderer(renderCardList)

	if err := dispatch(ctx, controller, args[0], args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func dispatch(ctx context.Context, controller *workflow.Controller, command string, args []string) error {
	switch command {
	case "create-customer":
		if len(args) < 2 {
			return fmt.Errorf("usage: create-customer <email> <name>")
		}
		report(controller.CreateCustomer(ctx, args[0], strings.Join(args[1:], " ")))
		return nil

	case "save-card":
		card, err := parseCard(args)
		if err != nil {
			return err
		}
		report(controller.SaveCard(ctx, card))
		return nil

	case "list-cards":
		view := controller.ListCards(ctx)
		if view.State != workflow.ListStateLoaded {
			fmt.Println(view.Message)
		}
		return nil

	case "delete-card":
		if len(args) != 1 {
			return fmt.Errorf("usage: delete-card <payment-method-id>")
		}
		report(controller.DeleteCard(ctx, args[0], func() bool {
			return confirm(fmt.Sprintf("Delete payment method %s?", args[0]))
		}))
		return nil

	case "charge":
		if len(args) < 1 {
			return fmt.Errorf("usage: charge <cents> [description]")
		}
		amount, err := parseAmount(args[0])
		if err != nil {
			return err
		}
		report(controller.ChargeCustomer(ctx, nil, amount, strings.Join(args[1:], " ")))
		return nil

	case "charge-card":
		if len(args) < 2 {
			return fmt.Errorf("usage: charge-card <payment-method-id> <cents> [description]")
		}
		amount, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		pm := args[0]
		report(controller.ChargeCustomer(ctx, &pm, amount, strings.Join(args[2:], " ")))
		return nil

	case "pay-once":
		if len(args) < 5 {
			return fmt.Errorf("usage: pay-once <cents> <number> <mm> <yyyy> <cvc> [description]")
		}
		amount, err := parseAmount(args[0])
		if err != nil {
			return err
		}
		card, err := parseCard(args[1:5])
		if err != nil {
			return err
		}
		report(controller.PayOnce(ctx, card, amount, strings.Join(args[5:], " ")))
		return nil

	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

func report(res workflow.Result) {
	fmt.Println(res.Message)
	if res.TransactionID != "" {
		fmt.Println("  payment intent:", res.TransactionID)
	}
	if res.PaymentMethodID != "" {
		fmt.Println("  payment method:", res.PaymentMethodID)
	}
	if res.Status == workflow.StatusFailed && !res.Recoverable {
		os.Exit(1)
	}
}

func renderCardList(view workflow.CardListView) {
	switch view.State {
	case workflow.ListStateLoaded:
		fmt.Println("Saved cards:")
		for _, row := range view.Rows {
			fmt.Printf("  %s  %s ending in %s  (exp %02d/%d)\n",
				row.Card.ID, row.Card.Brand, row.Card.Last4, row.Card.ExpMonth, row.Card.ExpYear)
		}
	default:
		fmt.Println(view.Message)
	}
}

func confirm(prompt string) bool {
	if *assumeYes {
		return true
	}
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func parseCard(args []string) (ports.CardInput, error) {
	if len(args) != 4 {
		return ports.CardInput{}, fmt.Errorf("expected <number> <mm> <yyyy> <cvc>")
	}
	month, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || month < 1 || month > 12 {
		return ports.CardInput{}, fmt.Errorf("invalid expiry month: %s", args[1])
	}
	year, err := strconv.ParseInt(args[2], 10, 64)
	if err != nil {
		return ports.CardInput{}, fmt.Errorf("invalid expiry year: %s", args[2])
	}
	return ports.CardInput{
		Number:   strings.ReplaceAll(args[0], " ", ""),
		ExpMonth: month,
		ExpYear:  year,
		CVC:      args[3],
	}, nil
}

func parseAmount(raw string) (int64, error) {
	amount, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount in cents: %s", raw)
	}
	return amount, nil
}
