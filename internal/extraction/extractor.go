// Package extraction pulls a normalized profile out of loosely structured
// profile page markup using cascades of CSS selectors.
package extraction

import (
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/resumind/internal/types"
	"github.com/rs/zerolog"
)

// Extractor applies a selector table to profile markup. It is safe for
// concurrent use.
type Extractor struct {
	selectors *Selectors
	logger    zerolog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithSelectors replaces the built-in selector table.
func WithSelectors(s *Selectors) Option {
	return func(e *Extractor) {
		if s != nil {
			e.selectors = s
		}
	}
}

// WithLogger sets the logger used for soft failures.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{selectors: DefaultSelectors(), logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract builds a profile from raw markup. It never fails: anything that
// cannot be found is left empty.
func (e *Extractor) Extract(raw, sourceURL string) *types.Profile {
	p := types.NewProfile(sourceURL)

	doc, ok := e.parse(raw)
	if !ok {
		return p
	}
	root := within(doc.Selection, e.selectors.Main)
	card := within(root, e.selectors.TopCard)

	e.guard("name", func() { p.Name = scalar(card, root, e.selectors.Name) })
	e.guard("headline", func() { p.Headline = scalar(card, root, e.selectors.Headline) })
	e.guard("location", func() { p.Location = scalar(card, root, e.selectors.Location) })
	e.guard("experiences", func() { p.Experiences = e.experiences(root) })
	e.guard("educations", func() { p.Educations = e.educations(root) })
	e.guard("skills", func() { p.Skills = e.skills(root) })

	e.logger.Debug().
		Str("url", sourceURL).
		Bool("name", p.Name != "").
		Int("experiences", len(p.Experiences)).
		Int("educations", len(p.Educations)).
		Int("skills", len(p.Skills)).
		Msg("profile extracted")
	return p
}

// ExtractPosts reads activity feed entries from an activity page. Entries
// without text are dropped and at most the configured limit is returned.
func (e *Extractor) ExtractPosts(raw string) []types.Post {
	posts := []types.Post{}
	doc, ok := e.parse(raw)
	if !ok {
		return posts
	}

	rule := e.selectors.Posts
	limit := rule.Limit
	if limit <= 0 {
		limit = DefaultPostLimit
	}
	conv := md.NewConverter("", true, nil)

	e.guard("posts", func() {
		items := firstItems(doc.Selection, rule.Items)
		items.EachWithBreak(func(_ int, item *goquery.Selection) bool {
			if len(posts) >= limit {
				return false
			}
			textNode := firstNode(item, rule.Text)
			if textNode == nil {
				return true
			}
			body := postBody(conv, textNode)
			if body == "" {
				return true
			}
			posts = append(posts, types.Post{Text: body, Date: firstText(item, rule.Date)})
			return true
		})
	})
	return posts
}

func (e *Extractor) parse(raw string) (*goquery.Document, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		e.logger.Debug().Err(err).Msg("failed to parse markup")
		return nil, false
	}
	doc.Find("script, style, noscript, template").Remove()
	return doc, true
}

// guard runs one field extraction so that a failure in it leaves only that
// field empty.
func (e *Extractor) guard(field string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Debug().Str("field", field).Interface("panic", r).Msg("field extraction failed")
		}
	}()
	fn()
}

func (e *Extractor) experiences(root *goquery.Selection) []types.Experience {
	rule := e.selectors.Experience
	out := []types.Experience{}
	e.items(root, rule, "experience").Each(func(_ int, item *goquery.Selection) {
		exp := types.Experience{
			Title:     firstText(item, rule.Fields["title"]),
			Company:   cleanCompany(firstText(item, rule.Fields["company"])),
			DateRange: firstText(item, rule.Fields["date_range"]),
			Summary:   firstText(item, rule.Fields["summary"]),
		}
		if exp.Title == "" || exp.Company == "" {
			return
		}
		out = append(out, exp)
	})
	return out
}

func (e *Extractor) educations(root *goquery.Selection) []types.Education {
	rule := e.selectors.Education
	out := []types.Education{}
	e.items(root, rule, "education").Each(func(_ int, item *goquery.Selection) {
		edu := types.Education{
			School:    firstText(item, rule.Fields["school"]),
			Degree:    firstText(item, rule.Fields["degree"]),
			Field:     firstText(item, rule.Fields["field"]),
			DateRange: firstText(item, rule.Fields["date_range"]),
		}
		if edu.School == "" {
			return
		}
		if edu.Field == "" {
			edu.Degree, edu.Field = splitDegree(edu.Degree)
		}
		out = append(out, edu)
	})
	return out
}

// items finds repeated item nodes inside the rule's section container, or in
// the whole document with the fallback selectors when no container exists.
func (e *Extractor) items(root *goquery.Selection, rule ListRule, name string) *goquery.Selection {
	if section := firstNode(root, rule.Sections); section != nil {
		return firstItems(section, rule.Items)
	}
	e.logger.Debug().Str("section", name).Msg("section container not found, scanning whole document")
	return firstItems(root, rule.Fallback)
}

func (e *Extractor) skills(root *goquery.Selection) []string {
	rule := e.selectors.Skills
	var nodes *goquery.Selection
	if section := firstNode(root, rule.Sections); section != nil {
		nodes = firstItems(section, rule.Items)
	} else {
		nodes = root.Find(strings.Join(rule.Fallback, ", "))
	}

	out := []string{}
	seen := map[string]bool{}
	nodes.Each(func(_ int, s *goquery.Selection) {
		name := cleanText(s.Text())
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, name)
	})
	return out
}

// within narrows root to the first node matched by the cascade, keeping root
// when nothing matches.
func within(root *goquery.Selection, cascade []string) *goquery.Selection {
	if n := firstNode(root, cascade); n != nil {
		return n
	}
	return root
}

// scalar looks a top card field up in the card first, then in the rest of
// the main container.
func scalar(card, main *goquery.Selection, cascade []string) string {
	if text := firstText(card, cascade); text != "" {
		return text
	}
	if card == main {
		return ""
	}
	return firstText(main, cascade)
}

// firstText returns the text of the first selector in the cascade that yields
// non-empty text under root.
func firstText(root *goquery.Selection, cascade []string) string {
	for _, raw := range cascade {
		sel, idx := splitIndex(raw)
		matches := root.Find(sel)
		if matches.Length() <= idx {
			continue
		}
		if text := cleanText(matches.Eq(idx).Text()); text != "" {
			return text
		}
	}
	return ""
}

// firstNode returns the first node matched by the cascade, or nil.
func firstNode(root *goquery.Selection, cascade []string) *goquery.Selection {
	for _, sel := range cascade {
		if m := root.Find(sel); m.Length() > 0 {
			return m.First()
		}
	}
	return nil
}

// firstItems returns the matches of the first item selector that finds
// anything. Matches that contain another match are dropped so nested lists do
// not produce duplicate records.
func firstItems(root *goquery.Selection, cascade []string) *goquery.Selection {
	for _, sel := range cascade {
		m := root.Find(sel)
		if m.Length() == 0 {
			continue
		}
		return m.FilterFunction(func(_ int, s *goquery.Selection) bool {
			return s.Find(sel).Length() == 0
		})
	}
	return root.Slice(0, 0)
}

func postBody(conv *md.Converter, node *goquery.Selection) string {
	html, err := node.Html()
	if err == nil {
		if markdown, err := conv.ConvertString(html); err == nil {
			if body := cleanMarkdown(markdown); body != "" {
				return body
			}
		}
	}
	return cleanText(node.Text())
}

// Extract runs the default Extractor.
func Extract(raw, sourceURL string) *types.Profile {
	return New().Extract(raw, sourceURL)
}
