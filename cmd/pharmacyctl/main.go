// Command pharmacyctl drives the pack workflows from a terminal.
//
//	pharmacyctl token -user <uuid>
//	pharmacyctl check -customer <uuid> -pack WP-1 -initials JD
//	pharmacyctl scanout -customer <uuid> -pack WP-1 -initials JD
//	pharmacyctl deliver -id <uuid>
//	pharmacyctl export -out history.xlsx
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"pillflow-backend/client"
	"pillflow-backend/models"
	"pillflow-backend/services"
	"pillflow-backend/utils"
	"pillflow-backend/wizard"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd, args := os.Args[1], os.Args[2:]
	var err error
	switch cmd {
	case "token":
		err = runToken(args)
	case "check":
		err = runCheck(ctx, args, logger)
	case "scanout":
		err = runScanOut(ctx, args, logger)
	case "deliver":
		err = runDeliver(ctx, args, logger)
	case "export":
		err = runExport(ctx, args, logger)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: pharmacyctl <token|check|scanout|deliver|export> [flags]")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// apiFlags registers the flags every API command shares.
func apiFlags(fs *flag.FlagSet) (url, token *string) {
	url = fs.String("api", getEnv("PILLFLOW_API_URL", "http://localhost:8080"), "API base URL")
	token = fs.String("token", os.Getenv("PILLFLOW_TOKEN"), "bearer token")
	return
}

func parseUUID(name, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("-%s: %w", name, err)
	}
	return id, nil
}

func runToken(args []string) error {
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	secret := fs.String("secret", os.Getenv("JWT_SECRET"), "signing secret")
	user := fs.String("user", "", "user id")
	ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")
	fs.Parse(args)

	userID, err := parseUUID("user", *user)
	if err != nil {
		return err
	}
	if *secret == "" {
		return errors.New("-secret or JWT_SECRET is required")
	}
	tok, err := utils.GenerateToken(*secret, userID, *ttl)
	if err != nil {
		return err
	}
	fmt.Println(tok)
	return nil
}

type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter() *prompter {
	return &prompter{in: bufio.NewReader(os.Stdin), out: os.Stdout}
}

func (p *prompter) line(question string) string {
	fmt.Fprint(p.out, question)
	s, _ := p.in.ReadString('\n')
	return strings.TrimSpace(s)
}

func (p *prompter) yes(question string) bool {
	switch strings.ToLower(p.line(question + " [y/N] ")) {
	case "y", "yes":
		return true
	}
	return false
}

func runCheck(ctx context.Context, args []string, logger *zap.Logger) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	api, token := apiFlags(fs)
	customer := fs.String("customer", "", "customer record id")
	pack := fs.String("pack", "", "Webster pack id")
	initials := fs.String("initials", "", "checking pharmacist")
	packType := fs.String("type", string(models.BlisterPacks), "blister_packs or sachet_rolls")
	notes := fs.String("notes", "", "check notes")
	confirmBy := fs.String("confirm", "", "confirming pharmacist, defaults to -initials")
	all := fs.Bool("all-correct", false, "mark every entry correct without asking")
	fs.Parse(args)

	w := wizard.NewPackCheck(client.New(*api, *token, logger))
	if *initials == "" {
		if err := printPharmacists(ctx, w.ActivePharmacists); err != nil {
			return err
		}
		return errors.New("-initials is required")
	}
	customerID, err := parseUUID("customer", *customer)
	if err != nil {
		return err
	}

	if err := w.Select(wizard.Selection{
		CustomerID:         customerID,
		PharmacistInitials: strings.ToUpper(*initials),
		WebsterPackID:      *pack,
		PackType:           models.PackType(*packType),
		CheckNotes:         *notes,
	}); err != nil {
		return err
	}
	if err := w.Next(ctx); err != nil {
		return err
	}

	p := newPrompter()
	for _, group := range w.Groups() {
		if len(group.Entries) == 0 {
			continue
		}
		fmt.Printf("%s\n", strings.ToUpper(string(group.Slot)))
		for _, e := range group.Entries {
			fmt.Printf("  %d x %s %s (%s)\n", e.Quantity, e.Name, e.Strength, e.Form)
			if *all {
				continue
			}
			if !p.yes("  correct?") {
				comment := p.line("  comment: ")
				if err := w.SetVerdict(e.Index, false, comment); err != nil {
					return err
				}
			}
		}
	}
	if err := w.Next(ctx); err != nil {
		return err
	}

	confirmer := *confirmBy
	if confirmer == "" {
		confirmer = *initials
	}
	final := ""
	if !*all {
		final = p.line("final notes: ")
	}
	if err := w.Confirm(strings.ToUpper(confirmer), final); err != nil {
		return err
	}
	id, err := w.Submit(ctx)
	if err != nil {
		return err
	}
	fmt.Println("pack check saved:", id)
	return nil
}

func runScanOut(ctx context.Context, args []string, logger *zap.Logger) error {
	fs := flag.NewFlagSet("scanout", flag.ExitOnError)
	api, token := apiFlags(fs)
	customer := fs.String("customer", "", "customer record id")
	pack := fs.String("pack", "", "Webster pack id")
	initials := fs.String("initials", "", "pharmacist")
	packType := fs.String("type", string(models.BlisterPacks), "blister_packs or sachet_rolls")
	status := fs.String("status", string(models.ScannedOut), "scanned_out or delivered")
	notes := fs.String("notes", "", "notes")
	force := fs.Bool("force", false, "send unchecked packs without asking")
	fs.Parse(args)

	p := newPrompter()
	confirm := func(_ uuid.UUID, packID string) bool {
		return *force || p.yes(fmt.Sprintf("pack %s has not been checked. Proceed?", packID))
	}
	input := services.CreateScanOutInput{
		PharmacistInitials: strings.ToUpper(*initials),
		WebsterPackID:      *pack,
		PackType:           models.PackType(*packType),
		Status:             models.ScanOutStatus(*status),
	}
	if *notes != "" {
		input.Notes = notes
	}
	s := wizard.NewScanOut(client.New(*api, *token, logger), confirm)
	if *customer == "" {
		customers, err := s.EligibleCustomers(ctx)
		if err != nil {
			return err
		}
		for _, c := range customers {
			fmt.Printf("%s  %s  %s\n", c.ID, c.CustomerID, c.FullName())
		}
		return errors.New("-customer is required")
	}
	if *initials == "" {
		if err := printPharmacists(ctx, s.ActivePharmacists); err != nil {
			return err
		}
		return errors.New("-initials is required")
	}
	customerID, err := parseUUID("customer", *customer)
	if err != nil {
		return err
	}
	input.CustomerID = customerID

	id, err := s.Submit(ctx, input)
	if err != nil {
		return err
	}
	fmt.Println("scan out saved:", id)
	return nil
}

func printPharmacists(ctx context.Context, list func(context.Context) ([]models.TeamMember, error)) error {
	members, err := list(ctx)
	if err != nil {
		return err
	}
	fmt.Println("active pharmacists:")
	for _, m := range members {
		fmt.Printf("  %s  %s\n", m.Initials, m.FullName)
	}
	return nil
}

func runDeliver(ctx context.Context, args []string, logger *zap.Logger) error {
	fs := flag.NewFlagSet("deliver", flag.ExitOnError)
	api, token := apiFlags(fs)
	id := fs.String("id", "", "scan out id")
	fs.Parse(args)

	scanOutID, err := parseUUID("id", *id)
	if err != nil {
		return err
	}
	if err := wizard.NewScanOut(client.New(*api, *token, logger), nil).MarkDelivered(ctx, scanOutID); err != nil {
		return err
	}
	fmt.Println("marked delivered:", scanOutID)
	return nil
}

func runExport(ctx context.Context, args []string, logger *zap.Logger) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	api, token := apiFlags(fs)
	out := fs.String("out", "history.xlsx", "output file")
	fs.Parse(args)

	book, err := client.New(*api, *token, logger).ExportHistory(ctx)
	if err != nil {
		return err
	}
	return os.WriteFile(*out, book, 0o644)
}
