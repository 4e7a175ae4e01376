// Command lifecycle-viz renders lifecycle definitions as Mermaid or DOT
// diagrams and offers an interactive walk through the product publication
// workflow.
//
// Usage:
//
//	lifecycle-viz                        # diagram of the built-in product workflow
//	lifecycle-viz -config def.yaml       # diagram of a YAML definition
//	lifecycle-viz -format dot            # DOT output instead of Mermaid
//	lifecycle-viz -walk                  # interactive workflow walk
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dealgrid/catalog-core/lifecycle"
	"github.com/dealgrid/catalog-core/lifecycle/visualizer"
	"github.com/dealgrid/catalog-core/logger"
	"github.com/dealgrid/catalog-core/product"
	"github.com/dealgrid/catalog-core/telemetry"
	"github.com/manifoldco/promptui"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML definition (default: built-in product workflow)")
	format := flag.String("format", "mermaid", "diagram format: mermaid or dot")
	walk := flag.Bool("walk", false, "walk the product workflow interactively")
	jsonLogs := flag.Bool("json", false, "emit JSON logs")
	flag.Parse()

	logger.ConfigureLoggingWithOptions(logger.Options{
		Subsystem: "lifecycle-viz",
		JSON:      *jsonLogs,
		MinLevel:  slog.LevelInfo,
		Output:    os.Stderr,
	})

	ctx := context.Background()

	if err := telemetry.Initialize(ctx, telemetry.LoadConfigFromEnv("dev")); err != nil {
		slog.Error("telemetry initialization failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := telemetry.Shutdown(ctx); err != nil {
			slog.Error("telemetry shutdown failed", "error", err)
		}
	}()

	if *walk {
		if err := runWalk(ctx); err != nil {
			slog.Error("walk failed", "error", err)
			os.Exit(1)
		}

		return
	}

	if err := runDiagram(*configPath, *format); err != nil {
		slog.Error("diagram generation failed", "error", err)
		os.Exit(1)
	}
}

// runDiagram renders the requested definition to stdout.
func runDiagram(configPath, format string) error {
	var (
		config *lifecycle.Config
		err    error
	)

	if configPath != "" {
		config, err = lifecycle.LoadConfig(configPath)
		if err != nil {
			return err
		}
	} else {
		def, defErr := product.Definition()
		if defErr != nil {
			return defErr
		}

		config = visualizer.ConfigFromDefinition(def)
	}

	var out string

	switch format {
	case "mermaid":
		out, err = visualizer.GenerateMermaid(config)
	case "dot":
		out, err = visualizer.GenerateDOT(config)
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	if err != nil {
		return err
	}

	fmt.Print(out)

	return nil
}

// Walker menu entries that are not target states.
const (
	menuForce   = "[force override]"
	menuHistory = "[history]"
	menuQuit    = "[quit]"
)

// runWalk drives a sample product through the publication workflow, one
// promptui selection per transition. The walker acts as an admin: the
// verify permission is granted and force overrides are available.
func runWalk(ctx context.Context) error {
	engine, err := product.NewEngine()
	if err != nil {
		return err
	}

	p := sampleProduct()
	walkCtx := map[string]any{product.ContextKeyCanVerify: true}

	for {
		meta := engine.StateMetadata(p.CurrentState())
		fmt.Printf("\nProduct %d is %q (%s)\n", p.ID, meta.Label, p.CurrentState())

		items := []string{}
		for _, state := range engine.AllowedTransitions(ctx, p, walkCtx) {
			items = append(items, string(state))
		}

		items = append(items, menuForce, menuHistory, menuQuit)

		sel := &promptui.Select{
			Label: "Transition to",
			Items: items,
		}

		_, choice, err := sel.Run()
		if err != nil {
			return err
		}

		switch choice {
		case menuQuit:
			printHistory(engine, p)

			return nil
		case menuHistory:
			printHistory(engine, p)
		case menuForce:
			if err := forceWalk(ctx, engine, p); err != nil {
				return err
			}
		default:
			applyTransition(ctx, engine, p, lifecycle.State(choice), walkCtx)
		}
	}
}

func applyTransition(
	ctx context.Context,
	engine *lifecycle.Engine,
	p *product.Product,
	target lifecycle.State,
	walkCtx map[string]any,
) {
	reason, err := promptReason("Reason (optional)", false)
	if err != nil {
		return
	}

	record, err := engine.Transition(ctx, p, lifecycle.Request{
		CurrentState: p.CurrentState(),
		TargetState:  target,
		Reason:       reason,
		Context:      walkCtx,
	})
	if err != nil {
		printRejection(err)

		return
	}

	fmt.Printf("-> %s (record %s)\n", record.To, record.ID)
}

func forceWalk(ctx context.Context, engine *lifecycle.Engine, p *product.Product) error {
	states := []string{}
	for _, state := range engine.Definition().States() {
		if state != p.CurrentState() {
			states = append(states, string(state))
		}
	}

	sel := &promptui.Select{
		Label: "Force to",
		Items: states,
	}

	_, choice, err := sel.Run()
	if err != nil {
		return err
	}

	reason, err := promptReason("Reason (required)", true)
	if err != nil {
		return err
	}

	record, err := engine.ForceTransition(ctx, p, lifecycle.Request{
		CurrentState: p.CurrentState(),
		TargetState:  lifecycle.State(choice),
		Reason:       reason,
	})
	if err != nil {
		printRejection(err)

		return nil
	}

	fmt.Printf("-> %s (forced, record %s)\n", record.To, record.ID)

	return nil
}

func promptReason(label string, required bool) (string, error) {
	prompt := &promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if required && strings.TrimSpace(input) == "" {
				return errors.New("a reason is required")
			}

			return nil
		},
	}

	return prompt.Run()
}

func printRejection(err error) {
	if reasons := lifecycle.Reasons(err); len(reasons) > 0 {
		fmt.Println("rejected:")

		for _, reason := range reasons {
			fmt.Printf("  - %s\n", reason)
		}

		return
	}

	fmt.Printf("rejected: %v\n", err)
}

func printHistory(engine *lifecycle.Engine, p *product.Product) {
	records := engine.GetHistory(p, 0)
	if len(records) == 0 {
		fmt.Println("no transitions yet")

		return
	}

	for _, record := range records {
		line := fmt.Sprintf("%s  %s -> %s", record.Timestamp.Format("15:04:05"), record.From, record.To)

		if record.Reason != "" {
			line += fmt.Sprintf("  (%s)", record.Reason)
		}

		if record.Forced() {
			line += "  [forced]"
		}

		fmt.Println(line)
	}
}

// sampleProduct returns a product that satisfies every publish requirement,
// so the happy path is walkable end to end.
func sampleProduct() *product.Product {
	p := product.New(1)
	p.Name = "Walnut desk organizer"
	p.Description = "Five-slot desk organizer in oiled walnut."
	p.PriceCents = 4900
	p.CategoryID = 12
	p.ImageURL = "https://cdn.example.com/p/1.jpg"
	p.Links = []product.MarketplaceLink{
		{ID: 1, Marketplace: "amazon", URL: "https://amazon.example/p/1", Active: true},
	}

	return p
}
