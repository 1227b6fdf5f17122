// Package chunking splits raw document content into token-bounded chunks
// suitable for LLM extraction: fenced code blocks are protected from
// mid-block splits, content is split on H1/H2 headings with a breadcrumb
// heading-path prefix, then on paragraph boundaries, packed greedily up to
// max_tokens, with a sentence-boundary fallback for any paragraph that
// alone exceeds the budget.
package chunking

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/codeready-toolchain/knowledgepipeline/pkg/knowledge"
)

// Counter wraps a tiktoken encoding so the rest of the pipeline never talks
// to the tokenizer directly.
type Counter struct {
	enc *tiktoken.Tiktoken
}

// NewCounter builds a Counter using the cl100k_base encoding, the same
// encoding family OpenAI-compatible chat models use.
func NewCounter() (*Counter, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("loading cl100k_base encoding: %w", err)
	}
	return &Counter{enc: enc}, nil
}

// Count returns the token count of text.
func (c *Counter) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

var (
	codeFenceRe = regexp.MustCompile("(?s)```.*?```")
	headingRe = regexp.MustCompile(`(?m)^(#{1,2})\s+(.+)$`)
)

// Splitter turns document content into ordered, token-bounded chunks.
type Splitter struct {
	counter *Counter
	maxTokens int
}

// NewSplitter builds a Splitter with the given per-chunk token budget.
func NewSplitter(counter *Counter, maxTokens int) *Splitter {
	return &Splitter{counter: counter, maxTokens: maxTokens}
}

// Split breaks content into chunks belonging to ingestionID, tagged with
// chunkType and an optional sectionTitle breadcrumb prefix, in monotonic
// chunk_index order starting at 0.
func (sp *Splitter) Split(ingestionID string, content string, chunkType knowledge.ChunkType) []knowledge.Chunk {
	protected, placeholders := protectCodeBlocks(content)
	sections := splitOnHeadings(protected)

	var chunks []knowledge.Chunk
	idx := 0
	for _, sec := range sections {
		for _, piece := range sp.packSection(sec.body) {
			restored := restoreCodeBlocks(piece, placeholders)
			text := restored
			if sec.headingPath != "" {
				text = sec.headingPath + "\n\n" + restored
			}
			chunks = append(chunks, knowledge.Chunk{
				ChunkID: fmt.Sprintf("%s-chunk-%d", ingestionID, idx),
				IngestionID: ingestionID,
				ChunkIndex: idx,
				Content: text,
				TokenCount: sp.counter.Count(text),
				ChunkType: chunkType,
				SectionTitle: sec.headingPath,
			})
			idx++
		}
	}
	return chunks
}

type section struct {
	headingPath string
	body string
}

// splitOnHeadings splits on H1/H2 boundaries, tracking a heading-path stack
// so each section carries the breadcrumb of its ancestor headings (e.g.
// "Setup > Configuration").
func splitOnHeadings(content string) []section {
	matches := headingRe.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return []section{{body: content}}
	}

	var sections []section
	stack := make([]string, 2) // index 0 = H1, index 1 = H2

	prevEnd := 0
	var pendingPath string
	for i, m := range matches {
		start := m[0]
		if i == 0 && start > 0 {
			sections = append(sections, section{headingPath: "", body: content[0:start]})
		} else if i > 0 {
			sections = append(sections, section{headingPath: pendingPath, body: content[prevEnd:start]})
		}

		level := len(content[m[2]:m[3]])
		title := content[m[4]:m[5]]
		if level == 1 {
			stack[0] = title
			stack[1] = ""
		} else {
			stack[1] = title
		}
		pendingPath = headingPath(stack)
		prevEnd = m[1]
	}
	sections = append(sections, section{headingPath: pendingPath, body: content[prevEnd:]})

	var out []section
	for _, s := range sections {
		if strings.TrimSpace(s.body) != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return []section{{body: content}}
	}
	return out
}

func headingPath(stack []string) string {
	var parts []string
	for _, s := range stack {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " > ")
}

// packSection splits body into paragraphs and greedily packs them into
// pieces no larger than maxTokens, falling back to sentence-level splitting
// for any single paragraph that alone exceeds the budget.
func (sp *Splitter) packSection(body string) []string {
	paragraphs := splitParagraphs(body)
	if len(paragraphs) == 0 {
		return nil
	}

	var pieces []string
	var current strings.Builder
	currentTokens := 0

	flush := func() {
		if current.Len() > 0 {
			pieces = append(pieces, strings.TrimSpace(current.String()))
			current.Reset()
			currentTokens = 0
		}
	}

	for _, p := range paragraphs {
		pTokens := sp.counter.Count(p)
		if pTokens > sp.maxTokens {
			flush()
			pieces = append(pieces, sp.splitBySentence(p)...)
			continue
		}
		if currentTokens+pTokens > sp.maxTokens {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(p)
		currentTokens += pTokens
	}
	flush()
	return pieces
}

var sentenceRe = regexp.MustCompile(`(?s)[^.!?]+[.!?]+\s*`)

// splitBySentence is the fallback for a paragraph too large to fit in one
// chunk on its own: pack whole sentences up to the budget, and if even a
// single sentence overflows, emit it as its own oversized chunk rather than
// drop content.
func (sp *Splitter) splitBySentence(paragraph string) []string {
	sentences := sentenceRe.FindAllString(paragraph, -1)
	if len(sentences) == 0 {
		return []string{paragraph}
	}

	var pieces []string
	var current strings.Builder
	currentTokens := 0

	for _, s := range sentences {
		sTokens := sp.counter.Count(s)
		if currentTokens+sTokens > sp.maxTokens && current.Len() > 0 {
			pieces = append(pieces, strings.TrimSpace(current.String()))
			current.Reset()
			currentTokens = 0
		}
		current.WriteString(s)
		currentTokens += sTokens
	}
	if current.Len() > 0 {
		pieces = append(pieces, strings.TrimSpace(current.String()))
	}
	return pieces
}

func splitParagraphs(body string) []string {
	raw := strings.Split(body, "\n\n")
	var out []string
	for _, p := range raw {
		if strings.TrimSpace(p) != "" {
			out = append(out, strings.TrimSpace(p))
		}
	}
	return out
}

// protectCodeBlocks replaces fenced code blocks with single-line
// placeholders so heading/paragraph splitting never cuts through one, and
// returns the replacements to restore afterward.
func protectCodeBlocks(content string) (string, []string) {
	var blocks []string
	replaced := codeFenceRe.ReplaceAllStringFunc(content, func(block string) string {
		blocks = append(blocks, block)
		return fmt.Sprintf("\x00CODEBLOCK%d\x00", len(blocks)-1)
	})
	return replaced, blocks
}

func restoreCodeBlocks(text string, blocks []string) string {
	for i, block := range blocks {
		placeholder := fmt.Sprintf("\x00CODEBLOCK%d\x00", i)
		text = strings.ReplaceAll(text, placeholder, block)
	}
	return text
}
