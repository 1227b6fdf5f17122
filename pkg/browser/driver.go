// Package browser drives a headless Chrome instance for the exploration
// phase of the ingestion pipeline: navigating pages,
// reading rendered DOM state, and exercising forms/links the crawler's
// static HTML parsing can't reach — any content rendered by client-side
// JavaScript. Grounded on the go-rod session-management pattern.
package browser

import (
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Driver is the narrow interface the exploration activities depend on.
type Driver interface {
	Navigate(url string) error
	CurrentURL() string
	ReadHTML() (string, error)
	Click(selector string) error
	SendKeys(selector, text string) error
	Close() error
}

// RodDriver implements Driver against a single rod.Page, one per
// exploration session — sessions are never shared across concurrent
// explorations to keep navigation state isolated.
type RodDriver struct {
	browser *rod.Browser
	page *rod.Page
	timeout time.Duration
}

// NewRodDriver launches (or attaches to) a headless Chrome instance and
// opens a blank page ready for Navigate.
func NewRodDriver(headless bool, navTimeout time.Duration) (*RodDriver, error) {
	l := launcher.New().Headless(headless)
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	page, err := b.Page(rod.Target{URL: "about:blank"})
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("opening page: %w", err)
	}

	return &RodDriver{browser: b, page: page, timeout: navTimeout}, nil
}

func (d *RodDriver) Navigate(url string) error {
	page := d.page.Timeout(d.timeout)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("waiting for load of %s: %w", url, err)
	}
	return nil
}

func (d *RodDriver) CurrentURL() string {
	info, err := d.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (d *RodDriver) ReadHTML() (string, error) {
	html, err := d.page.HTML()
	if err != nil {
		return "", fmt.Errorf("reading DOM: %w", err)
	}
	return html, nil
}

func (d *RodDriver) Click(selector string) error {
	el, err := d.page.Timeout(d.timeout).Element(selector)
	if err != nil {
		return fmt.Errorf("locating element %s: %w", selector, err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("clicking element %s: %w", selector, err)
	}
	return nil
}

func (d *RodDriver) SendKeys(selector, text string) error {
	el, err := d.page.Timeout(d.timeout).Element(selector)
	if err != nil {
		return fmt.Errorf("locating element %s: %w", selector, err)
	}
	if err := el.Input(text); err != nil {
		return fmt.Errorf("sending keys to %s: %w", selector, err)
	}
	return nil
}

func (d *RodDriver) Close() error {
	return d.browser.Close()
}
