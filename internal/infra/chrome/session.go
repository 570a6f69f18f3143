package chrome

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/chromedp/chromedp"

	"pdf-gateway/internal/config"
	"pdf-gateway/internal/domain"
)

// Options controls how a browser process is launched.
type Options struct {
	ExecPath           string
	NoSandbox          bool
	DisableWebSecurity bool
	// ProfileBase is the parent of per-session profile directories. Empty uses os.TempDir.
	ProfileBase string
}

// OptionsFromConfig extracts launch options from the service configuration.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		ExecPath:           cfg.PDF.ChromePath,
		NoSandbox:          cfg.PDF.ChromeNoSandbox,
		DisableWebSecurity: cfg.PDF.DisableWebSecurity,
		ProfileBase:        cfg.PDF.UserDataDir,
	}
}

func (o Options) allocatorOptions(profileDir string) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserDataDir(profileDir),
		// Force software rendering and avoid Vulkan/ANGLE issues in minimal container environments.
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-gpu-compositing", true),
		chromedp.Flag("disable-features", "Vulkan,UseSkiaRenderer"),
		chromedp.Flag("use-gl", "swiftshader"),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if o.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(o.ExecPath))
	}
	if o.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	if o.DisableWebSecurity {
		opts = append(opts, chromedp.Flag("disable-web-security", true))
	}
	return opts
}

// Session is one browser process with one page, owned by a single render.
// Ctx addresses the page; it stays valid until Close.
type Session struct {
	Ctx context.Context

	profileDir    string
	allocCancel   context.CancelFunc
	browserCancel context.CancelFunc
	tracker       *Tracker
	closeOnce     sync.Once
}

// Launch starts a browser process with its own profile directory and opens a
// page. On error nothing is left running. Callers must Close a returned session.
func Launch(ctx context.Context, opts Options, tracker *Tracker) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if tracker == nil {
		tracker = NewTracker()
	}
	tracker.opened()

	s := &Session{tracker: tracker}

	dir, err := createProfileDir(opts.ProfileBase)
	if err != nil {
		tracker.failed()
		s.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrSessionLaunch, err)
	}
	s.profileDir = dir

	// The browser lives as long as the session, not as long as the caller's
	// context; per-call deadlines are applied to contexts derived from Ctx.
	base := context.WithoutCancel(ctx)
	allocCtx, allocCancel := chromedp.NewExecAllocator(base, opts.allocatorOptions(dir)...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	s.Ctx = browserCtx
	s.allocCancel = allocCancel
	s.browserCancel = browserCancel

	// The first Run on the browser context starts the process and the first tab.
	if err := chromedp.Run(browserCtx); err != nil {
		tracker.failed()
		s.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrSessionLaunch, err)
	}
	return s, nil
}

// TrackNetwork starts counting in-flight requests of the session's page.
// Call it before loading content and enable the network domain in the same run.
func (s *Session) TrackNetwork() *IdleTracker {
	t := NewIdleTracker()
	chromedp.ListenTarget(s.Ctx, t.Handle)
	return t
}

// Close shuts the browser down, waits for the process to exit and removes the
// profile directory. It is safe to call more than once.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.Ctx != nil {
			if cerr := chromedp.Cancel(s.Ctx); cerr != nil && !errors.Is(cerr, context.Canceled) {
				err = cerr
			}
		}
		if s.browserCancel != nil {
			s.browserCancel()
		}
		if s.allocCancel != nil {
			s.allocCancel()
		}
		if s.profileDir != "" {
			if rerr := os.RemoveAll(s.profileDir); rerr != nil && err == nil {
				err = rerr
			}
		}
		s.tracker.closed()
	})
	return err
}

// ExecutableReady reports whether path names an executable file. An empty
// path leaves the lookup to chromedp and counts as ready.
func ExecutableReady(path string) bool {
	if path == "" {
		return true
	}
	st, err := os.Stat(path)
	return err == nil && !st.IsDir() && st.Mode()&0o111 != 0
}

func createProfileDir(base string) (string, error) {
	if base != "" {
		if err := os.MkdirAll(base, 0o700); err != nil {
			return "", fmt.Errorf("cannot create profile base dir: %w", err)
		}
	}
	dir, err := os.MkdirTemp(base, "chromedata-*")
	if err != nil {
		return "", fmt.Errorf("cannot create temp profile dir: %w", err)
	}
	return dir, nil
}

// IsSessionInterrupted reports errors caused by the browser going away or the
// render being cut short, as opposed to errors in the page itself.
func IsSessionInterrupted(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"target closed", "websocket", "connection reset", "broken pipe", "browser closed"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
