package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/inbucket/html2text"
	"github.com/microcosm-cc/bluemonday"

	"github.com/xavierau/chatbot-showeasy/internal/core"
	"github.com/xavierau/chatbot-showeasy/pkg/log"
	"github.com/xavierau/chatbot-showeasy/pkg/retry"
)

const (
	maxResponseSize = 1 << 20
	contextBudget   = 4000
	defaultTimeout  = 10 * time.Second
)

// Scraper turns the page a user is looking at into plain-text context for
// the reasoning loop.
type Scraper struct {
	client  *http.Client
	retrier *retry.Retrier
	policy  *bluemonday.Policy
}

func NewScraper() *Scraper {
	return NewScraperWithTimeout(defaultTimeout, &retry.Config{
		MaxRetries:    1,
		BackoffFactor: 2.0,
		InitialDelay:  200 * time.Millisecond,
		MaxDelay:      time.Second,
	})
}

func NewScraperWithTimeout(timeout time.Duration, retryCfg *retry.Config) *Scraper {
	if retryCfg == nil {
		retryCfg = retry.NewDefaultConfig()
	}
	return &Scraper{
		client:  &http.Client{Timeout: timeout},
		retrier: retry.NewRetrier(retryCfg),
		policy:  bluemonday.UGCPolicy(),
	}
}

// PageContext fetches url and renders it as truncated plain text. Callers
// treat an error as "no page context"; a broken page must not break the turn.
func (s *Scraper) PageContext(ctx context.Context, url string) (string, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "", fmt.Errorf("unsupported url scheme in %q", url)
	}

	var text string
	err := s.retrier.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("User-Agent", core.AppUserAgent)

		resp, err := s.client.Do(req)
		if err != nil {
			return fmt.Errorf("fetch page: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
		}

		raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		if err != nil {
			return fmt.Errorf("read page: %w", err)
		}

		// Strip active content before rendering; scripts and styles
		// are noise at best.
		cleaned := s.policy.SanitizeBytes(raw)
		text, err = html2text.FromString(string(cleaned), html2text.Options{OmitLinks: true})
		if err != nil {
			return fmt.Errorf("render page: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	if len(text) > contextBudget {
		text = text[:contextBudget]
	}
	log.FromCtx(ctx).Debug().Str("url", url).Int("chars", len(text)).Msg("page context fetched")
	return text, nil
}
