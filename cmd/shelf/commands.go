package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"shelf-widgets/core/archive"
	"shelf-widgets/core/domain"
	"shelf-widgets/core/featured"
	"shelf-widgets/core/reading"
	"shelf-widgets/core/relay"
	"shelf-widgets/core/snapshot"
	"shelf-widgets/widgets"
)

var envFiles []string

// newRootCmd builds the command tree
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "shelf",
		Short: "Render a personal site's reading, writing and featured widgets.",
		Long: `shelf builds the dynamic widgets of a personal website.

The reading widget shows Goodreads shelves, served from a local cache, then the
bundled snapshot file, then the live feed through public relays. The writing
and featured widgets render from static JSON data files.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringArrayVar(&envFiles, "env-file", []string{".env"}, "dotenv file to load before reading the environment (can be repeated)")

	root.AddCommand(
		newReadingCmd(),
		newRefreshSnapshotCmd(),
		newWritingCmd(),
		newFeaturedCmd(),
		newCacheCmd(),
	)
	return root
}

// signalContext cancels on SIGINT or SIGTERM
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// readingOutput is the JSON form of a reading load
type readingOutput struct {
	State         string          `json:"state"`
	Relay         string          `json:"relay,omitempty"`
	AcquisitionID string          `json:"acquisitionId"`
	Snapshot      domain.Snapshot `json:"snapshot"`
}

func newReadingCmd() *cobra.Command {
	var format string
	var noWait bool

	cmd := &cobra.Command{
		Use:   "reading",
		Short: "Load the reading list and render the reading widget",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "html" && format != "json" {
				return fmt.Errorf("unknown format %q (want html or json)", format)
			}

			a, err := newApp(envFiles)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			out := cmd.OutOrStdout()
			var renderer *widgets.Renderer
			if format == "html" {
				renderer = widgets.NewRenderer(out, a.cfg.Goodreads.ProfileURL)
			}

			var o *reading.Orchestrator
			if renderer != nil {
				o, err = a.orchestrator(renderer, nil)
			} else {
				o, err = a.orchestrator(nil, nil)
			}
			if err != nil {
				return err
			}

			result := o.Load(ctx)
			if !noWait {
				o.Wait()
			}

			if renderer != nil {
				return renderer.Err()
			}
			return writeJSON(out, readingOutput{
				State:         result.State.String(),
				Relay:         result.Relay,
				AcquisitionID: result.AcquisitionID,
				Snapshot:      result.Snapshot,
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "html", "output format: html or json")
	cmd.Flags().BoolVar(&noWait, "no-wait", false, "exit without waiting for a background cache refresh")
	return cmd
}

func newRefreshSnapshotCmd() *cobra.Command {
	var output string
	var maxRead int
	var viaRelays bool

	cmd := &cobra.Command{
		Use:   "refresh-snapshot",
		Short: "Fetch both shelves and rewrite the bundled snapshot file",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(envFiles)
			if err != nil {
				return err
			}
			defer a.close()

			if output == "" {
				output = a.cfg.Snapshot.Location
			}
			if maxRead <= 0 {
				maxRead = a.cfg.Snapshot.MaxReadBooks
			}

			relays := []relay.Relay{relay.Direct}
			if viaRelays {
				relays = nil
			}
			o, err := a.orchestrator(nil, relays)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			snap, relayName, err := o.Acquire(ctx)
			if err != nil {
				return fmt.Errorf("refresh snapshot: %w", err)
			}
			snap.CapturedAt = time.Now()

			target := snapshot.NewStaticSource(output, nil)
			if err := target.Save(snap, maxRead); err != nil {
				return err
			}

			a.deps.Logger.Info("Snapshot refreshed", map[string]interface{}{
				"path":    target.Location(),
				"relay":   relayName,
				"current": len(snap.CurrentBooks),
				"read":    min(len(snap.ReadBooks), maxRead),
			})
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d current, %d read)\n",
				target.Location(), len(snap.CurrentBooks), min(len(snap.ReadBooks), maxRead))
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "", "snapshot file to write (defaults to STATIC_SNAPSHOT)")
	cmd.Flags().IntVar(&maxRead, "max-read", 0, "read-shelf books to keep (defaults to SNAPSHOT_MAX_READ)")
	cmd.Flags().BoolVar(&viaRelays, "via-relays", false, "fetch through the configured relays instead of directly")
	return cmd
}

func newWritingCmd() *cobra.Command {
	var publications []string
	var search string
	var filters bool

	cmd := &cobra.Command{
		Use:   "writing",
		Short: "Render the writing archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(envFiles)
			if err != nil {
				return err
			}
			defer a.close()

			c, err := archive.Load(a.cfg.Data.WritingPath)
			if err != nil {
				return err
			}
			for _, p := range publications {
				c.Toggle(p, true)
			}
			c.SetSearch(search)

			out := cmd.OutOrStdout()
			if filters {
				if err := widgets.RenderFilters(out, c); err != nil {
					return err
				}
			}
			return widgets.RenderWriting(out, c)
		},
	}

	cmd.Flags().StringArrayVar(&publications, "publication", nil, "only show this publication (can be repeated)")
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive search over title, publication and keywords")
	cmd.Flags().BoolVar(&filters, "filters", false, "also render the publication filter checkboxes")
	return cmd
}

func newFeaturedCmd() *cobra.Command {
	var seed uint64

	cmd := &cobra.Command{
		Use:   "featured",
		Short: "Render a random featured work selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(envFiles)
			if err != nil {
				return err
			}
			defer a.close()

			catalog, err := featured.LoadCatalog(a.cfg.Data.FeaturedPath)
			if err != nil {
				return err
			}

			var s *featured.Selector
			if cmd.Flags().Changed("seed") {
				s = featured.NewSeededSelector(catalog, seed)
			} else {
				s = featured.NewSelector(catalog, nil)
			}
			return widgets.RenderFeatured(cmd.OutOrStdout(), s.Pick())
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for a reproducible selection")
	return cmd
}

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the cached reading snapshot",
	}

	var stats bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the cached snapshot if it is still fresh",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(envFiles)
			if err != nil {
				return err
			}
			defer a.close()

			if stats {
				reporter, ok := a.deps.Cache.(statsReporter)
				if !ok {
					return fmt.Errorf("cache backend %q does not report stats", a.cfg.Cache.Type)
				}
				report, err := reporter.Stats(cmd.Context())
				if err != nil {
					return fmt.Errorf("cache stats: %w", err)
				}
				report["backend"] = a.cfg.Cache.Type
				return writeJSON(cmd.OutOrStdout(), report)
			}

			snap, ok := a.store().Read(cmd.Context())
			if !ok {
				return errors.New("no fresh snapshot in cache")
			}
			return writeJSON(cmd.OutOrStdout(), snap)
		},
	}
	show.Flags().BoolVar(&stats, "stats", false, "print backend statistics instead of the snapshot")
	cmd.AddCommand(show)

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove the cached snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(envFiles)
			if err != nil {
				return err
			}
			defer a.close()

			return a.store().Clear(cmd.Context())
		},
	})

	return cmd
}

// statsReporter is implemented by cache backends that can describe their contents
type statsReporter interface {
	Stats(ctx context.Context) (map[string]interface{}, error)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
