// Package urlexplore implements the optional URL Exploration Phase: for
// each website URL in the request, it BFS-explores up to
// max_pages/max_depth, extracts detailed forms (richer than the plain
// site-crawler's GET/read-only retention rule — every field's name, id,
// label, placeholder, type, required/disabled/readonly), infers multi-step
// forms, samples a handful of link clicks to discover JS-only navigation,
// and persists screens/actions/tasks tagged with their extraction
// provenance. External links are detected but never followed; login/share/
// mail/tel/file-download links are filtered from the click sample.
package urlexplore

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/codeready-toolchain/knowledgepipeline/internal/config"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/browser"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/crawler"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/knowledge"
	"github.com/codeready-toolchain/knowledgepipeline/pkg/store"
)

const explorationBatchSize = 3
const maxSampleClicks = 3

// Credentials authenticates against a site before exploring it.
type Credentials struct {
	Username string
	LoginURL string
	Password string
}

// Target is one URL to explore, with its own optional credentials.
type Target struct {
	URL string
	Credentials *Credentials
	ExtractedFrom string // "documentation" | "video" — provenance of the source this URL came from
}

// Result aggregates what one Target's exploration produced.
type Result struct {
	URL string
	ScreensFound int
	ActionsFound int
	TasksFound int
	Errors []string
}

// Field is one detailed form field captured during exploration.
type Field struct {
	Name string
	ID string
	Label string
	Placeholder string
	Type string
	Required bool
	Disabled bool
	ReadOnly bool
}

// DetailedForm is a form captured with full field detail, richer than
// crawler.Form's GET/read-only-only retention.
type DetailedForm struct {
	Action string
	Method string
	Fields []Field
	SubmitCount int
	MultiStep bool
}

var (
	fieldTagRe = regexp.MustCompile(`(?is)<(input|select|textarea)\s+([^>]*)/?>`)
	labelForRe = regexp.MustCompile(`(?is)<label\s+[^>]*for=["']([^"']+)["'][^>]*>(.*?)</label>`)
	attrRe = regexp.MustCompile(`(\w[\w-]*)=["']([^"']*)["']`)
	tagStripRe = regexp.MustCompile(`<[^>]+>`)
	stepFieldRe = regexp.MustCompile(`(?i)step|page|stage`)
	filteredLink = regexp.MustCompile(`(?i)^(mailto:|tel:|javascript:)|/(login|logout|signin|signout)\b|\.(pdf|zip|exe|dmg|tar\.gz|docx?|xlsx?)$|(facebook|twitter|linkedin|x\.com)\.com`)
)

// Explorer runs the exploration phase across a set of targets, three at a
// time.
type Explorer struct {
	Driver browser.Driver
	Store *store.Store
	Cfg *config.CrawlConfig
}

// ExploreAll runs every target's exploration in batches of three.
func (e *Explorer) ExploreAll(ctx context.Context, workflowID, jobID, knowledgeID string, targets []Target) ([]Result, error) {
	results := make([]Result, len(targets))

	for start := 0; start < len(targets); start += explorationBatchSize {
		end := start + explorationBatchSize
		if end > len(targets) {
			end = len(targets)
		}
		batch := targets[start:end]

		var wg sync.WaitGroup
		for i, target := range batch {
			i, target := i, target
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[start+i] = e.exploreOne(ctx, knowledgeID, jobID, target)
			}()
		}
		wg.Wait()
	}

	return results, nil
}

func (e *Explorer) exploreOne(ctx context.Context, knowledgeID, jobID string, target Target) Result {
	result := Result{URL: target.URL}

	if target.Credentials != nil {
		if err := e.authenticate(target.Credentials); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("authentication failed: %v", err))
			return result
		}
	}

	c, err := crawler.New(e.Driver, *e.Cfg, nil, target.URL)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	pages, err := c.Crawl(ctx)
	if err != nil && len(pages) == 0 {
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	websiteID := hostOf(target.URL)

	for _, page := range pages {
		forms := extractDetailedForms(page.HTML)
		screen := &knowledge.Screen{
			Envelope: knowledge.Envelope{
				EntityID: uuid.NewString(),
				KnowledgeID: knowledgeID,
				JobID: jobID,
				WebsiteID: websiteID,
				Metadata: map[string]interface{}{
					"extraction_method": "form_exploration",
					"extracted_from": target.ExtractedFrom,
				},
			},
			Name: screenNameFromURL(page.URL),
			URLPatterns: []string{regexp.QuoteMeta(page.URL)},
			ContentType: knowledge.ContentTypeWebUI,
			IsActionable: len(forms) > 0,
			ConfidenceScore: 0.7,
		}
		if err := store.SaveEntity(ctx, e.Store, knowledge.KindScreen, screen); err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.ScreensFound++

		for _, f := range forms {
			action := &knowledge.Action{
				Envelope: knowledge.Envelope{
					EntityID: uuid.NewString(),
					KnowledgeID: knowledgeID,
					JobID: jobID,
					WebsiteID: websiteID,
					Metadata: map[string]interface{}{
						"extraction_method": "form_exploration",
						"extracted_from": target.ExtractedFrom,
					},
				},
				Name: fmt.Sprintf("submit %s", f.Action),
				ActionType: knowledge.ActionNavigate,
				TargetSelector: f.Action,
				ScreenIDs: []string{screen.EntityID},
				ConfidenceScore: 0.6,
			}
			if err := store.SaveEntity(ctx, e.Store, knowledge.KindAction, action); err != nil {
				result.Errors = append(result.Errors, err.Error())
				continue
			}
			result.ActionsFound++

			if f.MultiStep {
				task := multiStepTask(f, screen, knowledgeID, jobID, websiteID)
				if err := store.SaveEntity(ctx, e.Store, knowledge.KindTask, task); err != nil {
					result.Errors = append(result.Errors, err.Error())
					continue
				}
				result.TasksFound++
			}
		}

		e.sampleClicks(page)
	}

	return result
}

func multiStepTask(f DetailedForm, screen *knowledge.Screen, knowledgeID, jobID, websiteID string) *knowledge.Task {
	steps := make([]knowledge.TaskStep, 0, len(f.Fields))
	for i, field := range f.Fields {
		steps = append(steps, knowledge.TaskStep{
				StepID: fmt.Sprintf("step-%d", i+1),
				Order: i + 1,
				Type: "fill_field",
				Required: field.Required,
			})
	}
	return &knowledge.Task{
		Envelope: knowledge.Envelope{
			EntityID: uuid.NewString(),
			KnowledgeID: knowledgeID,
			JobID: jobID,
			WebsiteID: websiteID,
			Metadata: map[string]interface{}{
				"extraction_method": "form_exploration",
			},
		},
		Name: fmt.Sprintf("complete %s form", f.Action),
		Complexity: "moderate",
		Steps: steps,
		ScreenIDs: []string{screen.EntityID},
	}
}

// sampleClicks clicks up to maxSampleClicks filtered links to discover
// JavaScript-only navigation that never appears as a plain <a href>. It
// does not record the resulting pages as new crawl frontier — that is the
// site-crawler's job, not exploration's — it only exercises the click path.
func (e *Explorer) sampleClicks(page crawler.Page) {
	clicked := 0
	for _, l := range page.Links {
		if clicked >= maxSampleClicks {
			return
		}
		if !l.Internal || isFilteredLink(l.URL) {
			continue
		}
		_ = e.Driver.Click(fmt.Sprintf(`a[href="%s"]`, l.URL))
		clicked++
	}
}

func isFilteredLink(rawURL string) bool {
	return filteredLink.MatchString(rawURL)
}

func (e *Explorer) authenticate(creds *Credentials) error {
	loginURL := creds.LoginURL
	if loginURL == "" {
		return fmt.Errorf("credentials supplied without a login_url")
	}
	const usernameSelector = `input[name="username"], input[type="email"]`
	const passwordSelector = `input[name="password"], input[type="password"]`

	if err := e.Driver.Navigate(loginURL); err != nil {
		return fmt.Errorf("navigating to login page: %w", err)
	}
	if err := e.Driver.SendKeys(usernameSelector, creds.Username); err != nil {
		return fmt.Errorf("typing username: %w", err)
	}
	if err := e.Driver.SendKeys(passwordSelector, creds.Password); err != nil {
		return fmt.Errorf("typing password: %w", err)
	}
	return e.Driver.Click(`button[type="submit"], input[type="submit"]`)
}

// extractDetailedForms parses every <form> in html into a DetailedForm with
// full per-field metadata, inferring multi-step from ≥2 submit buttons or a
// step/page/stage-named field — unlike crawler.extractForms, every form is
// kept regardless of method.
func extractDetailedForms(html string) []DetailedForm {
	labels := parseLabels(html)

	var forms []DetailedForm
	formRe := regexp.MustCompile(`(?is)<form\s+([^>]*)>(.*?)</form>`)
	for _, m := range formRe.FindAllStringSubmatch(html, -1) {
		attrs := parseAttrs(m[1])
		method := strings.ToUpper(attrs["method"])
		if method == "" {
			method = "GET"
		}

		fieldMatches := fieldTagRe.FindAllStringSubmatch(m[2], -1)
		var fields []Field
		submitCount := 0
		multiStepByName := false
		for _, fm := range fieldMatches {
			fieldAttrs := parseAttrs(fm[2])
			typ := fieldAttrs["type"]
			if typ == "submit" || strings.EqualFold(fm[1], "button") {
				submitCount++
			}
			if stepFieldRe.MatchString(fieldAttrs["name"]) || stepFieldRe.MatchString(fieldAttrs["id"]) {
				multiStepByName = true
			}
			fields = append(fields, Field{
					Name: fieldAttrs["name"],
					ID: fieldAttrs["id"],
					Label: labels[fieldAttrs["id"]],
					Placeholder: fieldAttrs["placeholder"],
					Type: typ,
					Required: hasAttr(fm[2], "required"),
					Disabled: hasAttr(fm[2], "disabled"),
					ReadOnly: hasAttr(fm[2], "readonly"),
				})
		}

		forms = append(forms, DetailedForm{
				Action: attrs["action"],
				Method: method,
				Fields: fields,
				SubmitCount: submitCount,
				MultiStep: submitCount >= 2 || multiStepByName,
			})
	}
	return forms
}

func parseLabels(html string) map[string]string {
	out := map[string]string{}
	for _, m := range labelForRe.FindAllStringSubmatch(html, -1) {
		out[m[1]] = strings.TrimSpace(tagStripRe.ReplaceAllString(m[2], ""))
	}
	return out
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

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

func screenNameFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	path := strings.Trim(u.Path, "/")
	if path == "" {
		return "home"
	}
	return path
}
