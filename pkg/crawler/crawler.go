// Package crawler implements the BFS/DFS site crawler: an internal queue
// seeded at the start URL, regex-based link/form extraction over
// browser-rendered DOM, internal/external link classification by host
// suffix match, and robots policy enforcement.
package crawler

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/codeready-toolchain/knowledgepipeline/internal/config"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/browser"
)

// Page is one crawled page's extracted content.
type Page struct {
	URL string
	Depth int
	HTML string
	Links []Link
	Forms []Form
}

// Link is one <a href> discovered on a page.
type Link struct {
	URL string
	Text string
	Internal bool
}

// Form is a retained GET/read-only form ("GET forms and forms whose every
// field is hidden/readonly/disabled are retained").
type Form struct {
	Action string
	Method string
	Fields []string
}

var (
	linkRe = regexp.MustCompile(`(?is)<a\s+[^>]*href=["']([^"']+)["'][^>]*>(.*?)</a>`)
	formRe = regexp.MustCompile(`(?is)<form\s+([^>]*)>(.*?)</form>`)
	attrRe = regexp.MustCompile(`(\w+)=["']([^"']*)["']`)
	fieldRe = regexp.MustCompile(`(?is)<(input|select|textarea)\s+([^>]*)/?>`)
	tagRe = regexp.MustCompile(`<[^>]+>`)
)

// RobotsChecker decides whether a URL may be fetched.
type RobotsChecker interface {
	Allowed(rawURL string) bool
}

// allowAllRobots is used when RespectRobots is false.
type allowAllRobots struct{}

func (allowAllRobots) Allowed(string) bool { return true }

// Crawler walks a site starting from one URL using a FIFO or LIFO queue
// depending on cfg.Strategy.
type Crawler struct {
	driver browser.Driver
	cfg config.CrawlConfig
	robots RobotsChecker
	startURL *url.URL
	visited map[string]bool
	queue []queueEntry
}

type queueEntry struct {
	url string
	depth int
}

// New builds a Crawler seeded with startURL at depth 0.
func New(driver browser.Driver, cfg config.CrawlConfig, robots RobotsChecker, startURL string) (*Crawler, error) {
	u, err := url.Parse(startURL)
	if err != nil {
		return nil, fmt.Errorf("parsing start url: %w", err)
	}
	if robots == nil || !cfg.RespectRobots {
		robots = allowAllRobots{}
	}
	return &Crawler{
		driver: driver,
		cfg: cfg,
		robots: robots,
		startURL: u,
		visited: map[string]bool{},
		queue: []queueEntry{{url: normalizeURL(startURL), depth: 0}},
	}, nil
}

// Crawl drains the queue, yielding one Page per fetched URL, until the
// queue is empty, max_pages is reached, the depth limit is exceeded, or ctx
// is cancelled.
func (c *Crawler) Crawl(ctx context.Context) ([]Page, error) {
	var pages []Page

	for len(c.queue) > 0 && len(pages) < c.cfg.MaxPages {
		select {
		case <-ctx.Done():
			return pages, ctx.Err()
		default:
		}

		entry := c.pop()
		if c.visited[entry.url] || entry.depth > c.cfg.MaxDepth {
			continue
		}
		if !c.robots.Allowed(entry.url) {
			continue
		}
		c.visited[entry.url] = true

		if err := c.driver.Navigate(entry.url); err != nil {
			continue // unreachable page: skip, don't abort the crawl
		}
		html, err := c.driver.ReadHTML()
		if err != nil {
			continue
		}

		links := c.extractLinks(html)
		forms := extractForms(html)
		pages = append(pages, Page{URL: entry.url, Depth: entry.depth, HTML: html, Links: links, Forms: forms})

		for _, l := range links {
			if l.Internal && !c.visited[l.URL] {
				c.push(queueEntry{url: l.URL, depth: entry.depth + 1})
			}
		}
	}
	return pages, nil
}

// pop removes and returns the next entry: front for BFS, back for DFS.
func (c *Crawler) pop() queueEntry {
	var e queueEntry
	if strings.EqualFold(c.cfg.Strategy, "dfs") {
		e = c.queue[len(c.queue)-1]
		c.queue = c.queue[:len(c.queue)-1]
	} else {
		e = c.queue[0]
		c.queue = c.queue[1:]
	}
	return e
}

func (c *Crawler) push(e queueEntry) {
	c.queue = append(c.queue, e)
}

func (c *Crawler) extractLinks(html string) []Link {
	matches := linkRe.FindAllStringSubmatch(html, -1)
	var links []Link
	for _, m := range matches {
		href, text := m[1], strings.TrimSpace(tagRe.ReplaceAllString(m[2], ""))
		resolved, err := c.startURL.Parse(href)
		if err != nil {
			continue
		}
		resolved.Fragment = ""
		normalized := resolved.String()
		links = append(links, Link{
			URL: normalized,
			Text: text,
			Internal: isInternal(c.startURL.Hostname(), resolved.Hostname()),
		})
	}
	return links
}

// isInternal reports whether candidateHost equals startHost or is a
// sub/super-domain of it by suffix match.
func isInternal(startHost, candidateHost string) bool {
	if candidateHost == "" || startHost == "" {
		return true
	}
	if candidateHost == startHost {
		return true
	}
	return strings.HasSuffix(candidateHost, "."+startHost) || strings.HasSuffix(startHost, "."+candidateHost)
}

func extractForms(html string) []Form {
	matches := formRe.FindAllStringSubmatch(html, -1)
	var forms []Form
	for _, m := range matches {
		attrs := parseAttrs(m[1])
		method := strings.ToUpper(attrs["method"])
		if method == "" {
			method = "GET"
		}

		fieldMatches := fieldRe.FindAllStringSubmatch(m[2], -1)
		var fields []string
		allReadOnly := true
		for _, fm := range fieldMatches {
			fieldAttrs := parseAttrs(fm[2])
			fields = append(fields, fieldAttrs["name"])
			readOnly := fieldAttrs["type"] == "hidden" || hasAttr(fm[2], "readonly") || hasAttr(fm[2], "disabled")
			if !readOnly {
				allReadOnly = false
			}
		}

		if method == "GET" || allReadOnly {
			forms = append(forms, Form{Action: attrs["action"], Method: method, Fields: fields})
		}
	}
	return forms
}

func parseAttrs(tagBody string) map[string]string {
	out := map[string]string{}
	for _, m := range attrRe.FindAllStringSubmatch(tagBody, -1) {
		out[strings.ToLower(m[1])] = m[2]
	}
	return out
}

func hasAttr(tagBody, name string) bool {
	return regexp.MustCompile(`(?i)\b`+name+`\b`).MatchString(tagBody)
}

func normalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.Fragment = ""
	return u.String()
}
