package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tmdlayout/pkg/layout"
	"github.com/matzehuels/tmdlayout/pkg/pipeline"
	"github.com/matzehuels/tmdlayout/pkg/tmdl"
)

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Recompute the layout whenever a TMDL file changes",
		Long: `Recompute the layout whenever a TMDL file of the semantic model changes.

The layout is written once at startup and again after every burst of
changes, once no file has changed for the debounce interval. Press Ctrl+C
to stop.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWatch(cmd.Context(), modelPath(args), output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <model>.layout.<format>)")
	cmd.Flags().String("format", DefaultConfig().Output.Format, "output format: json, yaml")
	cmd.Flags().Duration("debounce", DefaultConfig().Watch.Debounce, "quiet period before recomputing")
	addLayoutFlags(cmd)

	return cmd
}

func (c *CLI) runWatch(ctx context.Context, path, output string) error {
	cfg := configFromContext(ctx)
	logger := loggerFromContext(ctx)
	opts, err := cfg.pipelineOptions(path)
	if err != nil {
		return err
	}
	project, err := tmdl.Find(path)
	if err != nil {
		return err
	}
	if output == "" {
		output = project.Name + ".layout." + string(opts.Formats[0])
	}

	runner, err := c.newRunner(ctx, cfg, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDir(watcher, project.Definition); err != nil {
		return fmt.Errorf("watch %s: %w", project.Definition, err)
	}

	rebuild := func() {
		if err := writeLayout(ctx, runner, opts, output, logger); err != nil {
			logger.Error("layout failed", "err", err)
		}
	}

	rebuild()
	printInfo("Watching %s", project.Definition)
	printDetail("Writing %s on change, Ctrl+C to stop", output)

	w := &watchLoop{watcher: watcher, debounce: cfg.Watch.Debounce, rebuild: rebuild, logger: logger}
	w.run(ctx)
	return nil
}

// writeLayout runs the pipeline once and exports the document.
func writeLayout(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, output string, logger *log.Logger) error {
	p := newProgress(logger)
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}
	if err := layout.Export(output, res.Document); err != nil {
		return err
	}
	p.done(fmt.Sprintf("wrote %s: %d positions, score %.1f", output, len(res.Document.Positions), res.Document.Quality.Score))
	return nil
}

// watchDir adds dir and every directory below it to the watcher.
func watchDir(watcher *fsnotify.Watcher, dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

// watchLoop debounces TMDL file events into rebuild calls. Rebuilds run on
// the loop goroutine, one at a time.
type watchLoop struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	rebuild  func()
	logger   *log.Logger
}

func (w *watchLoop) run(ctx context.Context) {
	var timer *time.Timer
	fire := make(chan struct{}, 1)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watchDir(w.watcher, event.Name)
					continue
				}
			}
			if !relevant(event) {
				continue
			}
			w.logger.Debug("change detected", "file", filepath.Base(event.Name), "op", event.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			w.rebuild()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "err", err)
		}
	}
}

// relevant reports whether event changes a TMDL file.
func relevant(event fsnotify.Event) bool {
	if !strings.EqualFold(filepath.Ext(event.Name), tmdl.Extension) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}
