package playtomic

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"club-notifier/types"

	"github.com/PuerkitoBio/goquery"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultBaseURL = "https://api.playtomic.io"
	userAgent      = "Mozilla/5.0 (compatible; ClubNotifier/1.0)"
	payloadTTL     = 10 * time.Minute
)

// Cache stores raw response bodies. storage.Storage satisfies it.
type Cache interface {
	GetPayload(ctx context.Context, key string) ([]byte, error)
	SavePayload(ctx context.Context, key string, data []byte, ttl time.Duration) error
}

type Client struct {
	baseURL string
	http    *http.Client
	cache   Cache

	// Requests are spaced by MinDelay plus up to Jitter.
	MinDelay time.Duration
	Jitter   time.Duration

	mu          sync.Mutex
	lastRequest time.Time
}

// New returns a client for baseURL. cache may be nil.
func New(baseURL string, httpClient *http.Client, cache Cache) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     httpClient,
		cache:    cache,
		MinDelay: 200 * time.Millisecond,
		Jitter:   300 * time.Millisecond,
	}
}

// rateLimit waits until the spacing since the previous request has passed.
func (c *Client) rateLimit(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delay := c.MinDelay
	if c.Jitter > 0 {
		delay += time.Duration(rand.Int63n(int64(c.Jitter)))
	}
	if wait := delay - time.Since(c.lastRequest); wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	c.lastRequest = time.Now()
	return nil
}

func cacheKey(u string) string {
	sum := sha1.Sum([]byte(u))
	return hex.EncodeToString(sum[:])
}

// get fetches a URL, serving from the cache when a fresh copy exists.
func (c *Client) get(ctx context.Context, rawURL string, cached bool) ([]byte, error) {
	key := cacheKey(rawURL)
	if cached && c.cache != nil {
		if body, err := c.cache.GetPayload(ctx, key); err == nil && body != nil {
			log.Printf("🔍 Cache hit for %s (%s)", rawURL, humanize.Bytes(uint64(len(body))))
			return body, nil
		}
	}

	if err := c.rateLimit(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", rawURL, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rawURL, err)
	}

	if cached && c.cache != nil {
		if err := c.cache.SavePayload(ctx, key, body, payloadTTL); err != nil {
			log.Printf("⚠️ Failed to cache payload: %v", err)
		}
	}
	return body, nil
}

func (c *Client) getList(ctx context.Context, path string, q url.Values) ([]types.Record, error) {
	u := c.baseURL + path + "?" + q.Encode()
	body, err := c.get(ctx, u, true)
	if err != nil {
		return nil, err
	}
	items := types.DecodeList(body)
	if items == nil {
		return nil, fmt.Errorf("GET %s: response is not a JSON array", path)
	}
	cleanHTMLFields(items)
	return items, nil
}

// dayRange is the local-day window the API filters on.
func dayRange(date string) (string, string) {
	return date + "T00:00:00", date + "T23:59:59"
}

// FetchAvailability returns the resources with their free slots for a day.
func (c *Client) FetchAvailability(ctx context.Context, tenantID, date, sportID string) ([]types.Record, error) {
	from, to := dayRange(date)
	q := url.Values{}
	q.Set("tenant_id", tenantID)
	q.Set("local_start_min", from)
	q.Set("local_start_max", to)
	if sportID != "" {
		q.Set("sport_id", sportID)
	}
	items, err := c.getList(ctx, "/v1/availability", q)
	if err != nil {
		return nil, err
	}
	log.Printf("🎾 Loaded availability for %d resources (%s, %s)", len(items), tenantID, date)
	return items, nil
}

// FetchMatches returns the day's visible matches.
func (c *Client) FetchMatches(ctx context.Context, tenantID, date string) ([]types.Record, error) {
	from, to := dayRange(date)
	q := url.Values{}
	q.Set("tenant_id", tenantID)
	q.Set("from_start_date", from)
	q.Set("to_start_date", to)
	q.Set("visibility", "VISIBLE")
	return c.getList(ctx, "/v1/matches", q)
}

func (c *Client) fetchEventList(ctx context.Context, kind, tenantID, date string) ([]types.Record, error) {
	from, _ := dayRange(date)
	q := url.Values{}
	q.Set("tenant_id", tenantID)
	q.Set("from_start_date", from)
	return c.getList(ctx, "/v1/"+kind, q)
}

func (c *Client) FetchTournaments(ctx context.Context, tenantID, date string) ([]types.Record, error) {
	return c.fetchEventList(ctx, "tournaments", tenantID, date)
}

func (c *Client) FetchLessons(ctx context.Context, tenantID, date string) ([]types.Record, error) {
	return c.fetchEventList(ctx, "lessons", tenantID, date)
}

func (c *Client) FetchClasses(ctx context.Context, tenantID, date string) ([]types.Record, error) {
	return c.fetchEventList(ctx, "classes", tenantID, date)
}

// FetchEvents loads tournaments, lessons and classes concurrently.
func (c *Client) FetchEvents(ctx context.Context, tenantID, date string) (types.EventSources, error) {
	var src types.EventSources
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		src.Tournaments, err = c.FetchTournaments(gctx, tenantID, date)
		return err
	})
	g.Go(func() (err error) {
		src.Lessons, err = c.FetchLessons(gctx, tenantID, date)
		return err
	})
	g.Go(func() (err error) {
		src.Classes, err = c.FetchClasses(gctx, tenantID, date)
		return err
	})
	if err := g.Wait(); err != nil {
		return types.EventSources{}, err
	}
	log.Printf("🏆 Loaded %d tournaments, %d lessons, %d classes (%s, %s)",
		len(src.Tournaments), len(src.Lessons), len(src.Classes), tenantID, date)
	return src, nil
}

// FetchClubName reads the public club page and returns its heading, or the
// page title when there is no h1.
func (c *Client) FetchClubName(ctx context.Context, clubURL string) (string, error) {
	body, err := c.get(ctx, clubURL, true)
	if err != nil {
		return "", err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return "", err
	}

	name := strings.TrimSpace(doc.Find("h1").First().Text())
	if name == "" {
		name = strings.TrimSpace(doc.Find("title").First().Text())
		// "Padel Club | Playtomic" -> "Padel Club"
		if i := strings.Index(name, "|"); i > 0 {
			name = strings.TrimSpace(name[:i])
		}
	}
	if name == "" {
		return "", fmt.Errorf("no club name found at %s", clubURL)
	}
	return name, nil
}

var htmlFields = append(append([]string{}, types.EventNameFields...), "description", "resource_name")

// cleanHTMLFields flattens fields that club admins fill with markup
// ("<b>Americano</b> Mixto") to plain text, in place.
func cleanHTMLFields(items []types.Record) {
	for _, it := range items {
		for _, k := range htmlFields {
			s, ok := it[k].(string)
			if !ok || !strings.Contains(s, "<") {
				continue
			}
			it[k] = htmlToText(s)
		}
		for _, nested := range it.List("slots") {
			cleanHTMLFields([]types.Record{nested})
		}
	}
}

func htmlToText(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
