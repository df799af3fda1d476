package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/alyraffauf/alycodes/internal/logger"
	"github.com/alyraffauf/alycodes/internal/site"
)

const (
	debounceDuration = 500 * time.Millisecond
	shutdownTimeout  = 5 * time.Second
)

var serverPort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the site locally and watches for changes",
	Long: `The serve command performs an initial build of your site, then starts a local
web server to serve your output directory. It also watches your content, layouts,
and static directories for changes and automatically rebuilds the site.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		b, err := newBuilder(appConfig, newStatsService(appConfig, log), log)
		if err != nil {
			return err
		}
		rb := &rebuilder{builder: b, log: log}

		log.Info("performing initial build")
		if _, err := b.Build(ctx); err != nil {
			return fmt.Errorf("initial build failed: %w", err)
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("failed to create file watcher: %w", err)
		}
		defer watcher.Close()

		go rb.watch(ctx, watcher)
		watchTrees(watcher, []string{appConfig.ContentDir, appConfig.LayoutsDir, appConfig.StaticDir}, log)

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", serverPort),
			Handler:           newSiteHandler(appConfig.OutputDir),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info("serving site", "dir", appConfig.OutputDir, "url", fmt.Sprintf("http://localhost%s", srv.Addr))
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("failed to start HTTP server: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

// rebuilder serializes debounced rebuilds.
type rebuilder struct {
	mu      sync.Mutex
	builder *site.Builder
	log     *logger.Logger
}

func (r *rebuilder) rebuild(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ctx.Err() != nil {
		return
	}
	r.log.Info("rebuilding site due to changes")
	if _, err := r.builder.Build(ctx); err != nil {
		r.log.Error("rebuild failed", "error", err)
	}
}

func (r *rebuilder) watch(ctx context.Context, watcher *fsnotify.Watcher) {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			r.log.Debug("change detected", "path", event.Name, "op", event.Op.String())

			// New subdirectories are not watched automatically.
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := watcher.Add(event.Name); err != nil {
					r.log.Warn("failed to watch new directory", "path", event.Name, "error", err)
				}
			}

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceDuration, func() { r.rebuild(ctx) })
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			r.log.Error("watcher error", "error", err)
		}
	}
}

// watchTrees adds every directory under each root. Missing roots are skipped.
func watchTrees(watcher *fsnotify.Watcher, roots []string, log *logger.Logger) {
	for _, root := range roots {
		if root == "" {
			continue
		}
		if _, err := os.Stat(root); os.IsNotExist(err) {
			log.Debug("directory not found, not watching", "path", root)
			continue
		}
		err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				log.Warn("error walking directory", "path", p, "error", err)
				return nil
			}
			if d.IsDir() {
				if err := watcher.Add(p); err != nil {
					log.Warn("failed to watch directory", "path", p, "error", err)
				}
			}
			return nil
		})
		if err != nil {
			log.Warn("initial watch walk failed", "path", root, "error", err)
		}
	}
}

// newSiteHandler serves dir without caching. Directories without an
// index.html and missing files get the site's 404.html when it exists.
func newSiteHandler(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")

		name := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
		info, err := os.Stat(name)
		switch {
		case err != nil:
			notFound(w, r, dir)
			return
		case info.IsDir() && strings.HasSuffix(r.URL.Path, "/"):
			if _, err := os.Stat(filepath.Join(name, "index.html")); err != nil {
				notFound(w, r, dir)
				return
			}
		}
		files.ServeHTTP(w, r)
	})
}

func notFound(w http.ResponseWriter, r *http.Request, dir string) {
	page, err := os.ReadFile(filepath.Join(dir, "404.html"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	w.Write(page)
}

func isDir(p string) bool {
	fileInfo, err := os.Stat(p)
	if err != nil {
		return false
	}
	return fileInfo.IsDir()
}

func init() {
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 1313, "Port to serve the site on")
	rootCmd.AddCommand(serveCmd)
}
