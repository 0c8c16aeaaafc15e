package rod

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the number of pages a browser renders before it is
// replaced with a fresh one. Chrome does not give back memory between pages.
const DefaultMaxPages = 75

// browserPool owns the running browser and swaps it out every maxPages
// pages. It is safe for concurrent use.
type browserPool struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	pages    atomic.Int64
	maxPages int64
	closed   atomic.Bool
}

func newBrowserPool(maxPages int64) (*browserPool, error) {
	p := &browserPool{maxPages: maxPages}
	if err := p.launch(); err != nil {
		return nil, err
	}
	return p, nil
}

// acquire returns the current browser, relaunching it first once the page
// budget is spent.
func (p *browserPool) acquire() *rod.Browser {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.maxPages > 0 && p.pages.Load() >= p.maxPages {
		p.recycle()
	}
	return p.browser
}

// done records one rendered page.
func (p *browserPool) done() {
	p.pages.Add(1)
}

func (p *browserPool) close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	var err error
	if p.browser != nil {
		err = p.browser.Close()
		p.browser = nil
	}
	if p.launcher != nil {
		p.launcher.Kill()
		p.launcher = nil
	}
	return err
}

func (p *browserPool) launch() error {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}
	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}
	p.browser = browser
	p.launcher = l
	return nil
}

// recycle replaces the browser. The old one stays in use when the new one
// fails to start. Must be called with mu held.
func (p *browserPool) recycle() {
	oldBrowser, oldLauncher := p.browser, p.launcher
	if err := p.launch(); err != nil {
		p.browser, p.launcher = oldBrowser, oldLauncher
		return
	}
	_ = oldBrowser.Close()
	oldLauncher.Kill()
	p.pages.Store(0)
}

func (p *browserPool) pid() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.launcher == nil {
		return 0
	}
	return p.launcher.PID()
}
