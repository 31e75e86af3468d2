package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"voxnav/internal/client"
	"voxnav/internal/dispatch"
	"voxnav/internal/intent"
	"voxnav/internal/nav"
)

var (
	consoleServer string

	// mountDelay simulates the asynchronous mount of a freshly rendered
	// destination: the registry appears this long after navigation.
	consoleMountDelay = 150 * time.Millisecond
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive dispatcher over simulated destinations",
	Long: `Reads utterances from stdin, classifies each one (locally, or via a
running classification service with --server), and dispatches the
resulting actions into simulated destinations that mount
asynchronously. Exercises the full deferred-dispatch path end to end.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}

		local := localClassify(catalog)
		classify := local
		if consoleServer != "" {
			remote := client.New(consoleServer, 30*time.Second)
			classify = func(ctx context.Context, text, current string) intent.Action {
				action, err := remote.AnalyzeIntent(ctx, text, catalog.Destinations(), current)
				if err != nil {
					fmt.Printf("  service unreachable (%v), classifying locally\n", err)
					return local(ctx, text, current)
				}
				return action
			}
		}

		products := newSimProducts()
		contact := newSimContactForm()

		var ctrl *dispatch.Controller
		navigator := dispatch.NavigatorFunc(func(id string) {
			dest, _ := catalog.ByID(id)
			fmt.Printf("  → navigating to %s (%s)\n", dest.Name, dest.Path)
			// The destination mounts asynchronously, then publishes its
			// command registry; only then can a deferred action apply.
			go func() {
				time.Sleep(consoleMountDelay)
				switch id {
				case "products":
					ctrl.MountList(id, products)
				case "contact":
					ctrl.MountForm(id, contact)
				default:
					ctrl.SetActive(id)
				}
			}()
		})

		ctrl = dispatch.NewController(navigator,
			dispatch.WithControllerLogger(logger),
			dispatch.WithGracePeriod(time.Duration(cfg.Dispatch.GraceMillis)*time.Millisecond),
			dispatch.WithResultFunc(printResult))

		ctrl.SetActive("home")
		fmt.Println("voxnav console. Type an utterance, 'state' for screen state, 'quit' to exit.")

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Printf("[%s] > ", ctrl.Active())
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			switch line {
			case "quit", "exit":
				return nil
			case "state":
				fmt.Printf("  products: %v\n  contact:  %v\n", products.Snapshot(), contact.Snapshot())
				continue
			}

			action := classify(cmd.Context(), line, ctrl.Active())
			res := ctrl.Dispatch(action)
			if res.Deferred {
				fmt.Println("  … waiting for destination to mount")
				// Give the deferred apply a beat so output reads in order.
				time.Sleep(consoleMountDelay + 50*time.Millisecond)
			}
		}
		return scanner.Err()
	},
}

func init() {
	consoleCmd.Flags().StringVar(&consoleServer, "server", "", "classification service URL (default: classify in-process)")
}

func localClassify(catalog *nav.Catalog) func(ctx context.Context, text, current string) intent.Action {
	classifier := intent.NewClassifier(buildOracle(), intent.WithLogger(logger))
	return func(ctx context.Context, text, current string) intent.Action {
		return classifier.Classify(ctx, intent.Turn{
			Utterance:    text,
			Destinations: catalog.Destinations(),
			CurrentID:    current,
		})
	}
}

func printResult(res dispatch.Result) {
	switch {
	case errors.Is(res.Err, dispatch.ErrUnknownIntent):
		fmt.Printf("  ✗ couldn't determine intent for %q, try different wording\n", res.Action.Utterance)
	case errors.Is(res.Err, dispatch.ErrRegistryTimeout):
		fmt.Println("  ✗ could not complete the action, the screen never became ready")
	case errors.Is(res.Err, dispatch.ErrPendingInvalidated):
		fmt.Println("  ✗ action cancelled, you navigated somewhere else")
	case res.Err != nil && !res.Applied:
		fmt.Printf("  ✗ %v\n", res.Err)
	case res.RequestedFields > 0:
		fmt.Printf("  ✓ filled %d of %d field(s)\n", res.AppliedFields, res.RequestedFields)
		if res.Err != nil {
			fmt.Printf("    skipped: %v\n", res.Err)
		}
	case res.Action.Kind == intent.KindNavigation:
		// Navigation feedback already printed by the navigator.
	default:
		fmt.Println("  ✓ applied")
	}
}
