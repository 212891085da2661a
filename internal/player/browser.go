package player

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// SearchKind picks the site a web search goes to.
type SearchKind string

const (
	SearchAnime SearchKind = "anime"
	SearchManga SearchKind = "manga"
	SearchNovel SearchKind = "novel"
)

// ParseSearchKind accepts anime, manga and novel (also "light novel").
func ParseSearchKind(raw string) (SearchKind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "anime":
		return SearchAnime, nil
	case "manga":
		return SearchManga, nil
	case "novel", "light novel", "light_novel", "ln":
		return SearchNovel, nil
	default:
		return "", fmt.Errorf("unknown search kind %q (want anime, manga or novel)", raw)
	}
}

// SearchURL builds the page a web search for query opens.
func SearchURL(kind SearchKind, query string) string {
	query = strings.TrimSpace(query)
	switch kind {
	case SearchManga:
		return "https://myanimelist.net/manga.php?q=" + url.QueryEscape(query)
	case SearchNovel:
		return "https://www.google.com/search?q=" + url.QueryEscape(query+" light novel")
	default:
		return "https://myanimelist.net/anime.php?q=" + url.QueryEscape(query)
	}
}

// Browser opens URLs in the desktop's default browser.
type Browser struct {
	goos string
	run  Runner
}

func NewBrowser(opts ...BrowserOption) *Browser {
	b := &Browser{goos: runtime.GOOS, run: quietRunner}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type BrowserOption func(*Browser)

func WithBrowserRunner(run Runner) BrowserOption {
	return func(b *Browser) { b.run = run }
}

func WithGOOS(goos string) BrowserOption {
	return func(b *Browser) { b.goos = goos }
}

// Open hands target to the platform opener.
func (b *Browser) Open(ctx context.Context, target string) error {
	name, args := openCommand(b.goos, target)
	if err := b.run(ctx, Stdio{}, name, args...); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}

// Search opens a web search for query.
func (b *Browser) Search(ctx context.Context, kind SearchKind, query string) (string, error) {
	target := SearchURL(kind, query)
	return target, b.Open(ctx, target)
}

func openCommand(goos, target string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{target}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	default:
		return "xdg-open", []string{target}
	}
}

// quietRunner starts the opener and reaps it in the background. The opener
// is not tied to ctx.
func quietRunner(ctx context.Context, _ Stdio, name string, args ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
