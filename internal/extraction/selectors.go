package extraction

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Selectors is the cascade table used by the Extractor. Every field lists CSS
// selectors in priority order; the first selector yielding non-empty text wins.
//
// A selector may end in "@N" to pick the Nth match (zero based) instead of the
// first one, for markup where sibling fields share a class.
type Selectors struct {
	// Main and TopCard narrow where scalar fields are looked up. Lists are
	// searched inside Main.
	Main    []string `yaml:"main"`
	TopCard []string `yaml:"top_card"`

	Name     []string `yaml:"name"`
	Headline []string `yaml:"headline"`
	Location []string `yaml:"location"`

	Experience ListRule  `yaml:"experience"`
	Education  ListRule  `yaml:"education"`
	Skills     SkillRule `yaml:"skills"`
	Posts      PostRule  `yaml:"posts"`
}

// ListRule describes a repeated section such as experience or education.
type ListRule struct {
	// Sections are the container selectors tried first.
	Sections []string `yaml:"sections"`
	// Items are item selectors applied inside the matched section.
	Items []string `yaml:"items"`
	// Fallback are looser item selectors applied to the whole document when no
	// section container exists.
	Fallback []string `yaml:"fallback"`
	// Fields maps a record field to its selector cascade, relative to an item.
	Fields map[string][]string `yaml:"fields"`
}

// SkillRule describes where skill names live.
type SkillRule struct {
	Sections []string `yaml:"sections"`
	Items    []string `yaml:"items"`
	Fallback []string `yaml:"fallback"`
}

// PostRule describes activity feed entries.
type PostRule struct {
	Items []string `yaml:"items"`
	Text  []string `yaml:"text"`
	Date  []string `yaml:"date"`
	Limit int      `yaml:"limit"`
}

// DefaultPostLimit caps how many activity posts are kept.
const DefaultPostLimit = 10

// DefaultSelectors returns the built-in table covering the signed-in layout,
// the legacy pv-entity layout and the public guest layout.
func DefaultSelectors() *Selectors {
	return &Selectors{
		Main: []string{
			"main.scaffold-layout__main",
		},
		TopCard: []string{
			"section[class*=pv-top-card]",
			"section.top-card-layout",
		},
		Name: []string{
			"h1.text-heading-xlarge",
			"li.inline.t-24.t-black.t-normal.break-words",
			"h1.top-card-layout__title",
			"h1",
		},
		Headline: []string{
			"div.text-body-medium.break-words",
			"h2.mt1.t-18.t-black.t-normal",
			"h2.top-card-layout__headline",
		},
		Location: []string{
			"span.text-body-small.inline.t-black--light.break-words",
			"li.t-16.t-black.t-normal.inline-block",
			"div.top-card__subline-item",
			"span.top-card__subline-item",
		},
		Experience: ListRule{
			Sections: []string{
				"section#experience",
				"section#experience-section",
				"section:has(div#experience)",
				"[data-section=experience]",
				"section.experience",
			},
			Items: []string{
				"li.pvs-list__paged-list-item",
				"div.pv-entity__position-group-pager",
				"li.artdeco-list__item",
				"li.pv-entity__position-group-pager",
				"li.experience-item",
				"li.profile-section-card",
				"li",
			},
			Fallback: []string{
				"li:has(h3)",
			},
			Fields: map[string][]string{
				"title": {
					"div.t-bold span[aria-hidden=true]",
					".t-bold span[aria-hidden=true]",
					"h3.profile-section-card__title",
					"span.experience-item__title",
					"h3",
				},
				"company": {
					"span.t-14.t-normal:not(.t-black--light) span[aria-hidden=true]",
					".t-normal:not(.t-black--light) span[aria-hidden=true]",
					"p.pv-entity__secondary-title",
					"span.pv-entity__secondary-title",
					"h4.profile-section-card__subtitle",
					"span.experience-item__subtitle",
					"h4",
				},
				"date_range": {
					"span.t-14.t-normal.t-black--light span[aria-hidden=true]",
					".t-black--light span[aria-hidden=true]",
					"h4.pv-entity__date-range span:nth-child(2)",
					"span.pv-entity__date-range",
					"span.date-range",
					"h4 span",
					"time",
				},
				"summary": {
					"div.inline-show-more-text span[aria-hidden=true]",
					"p.pv-entity__description",
					".pvs-entity__description",
					"p.show-more-less-text__text--less",
					"div.experience-item__description",
					"p",
				},
			},
		},
		Education: ListRule{
			Sections: []string{
				"section#education",
				"section#education-section",
				"section:has(div#education)",
				"[data-section=educationsDetails]",
				"section.education",
			},
			Items: []string{
				"li.pvs-list__paged-list-item",
				"li.artdeco-list__item",
				"li.pv-education-entity",
				"li.education__list-item",
				"li.profile-section-card",
				"li",
			},
			Fallback: []string{
				"li:has(.pv-entity__degree-name)",
				"li.education__list-item",
			},
			Fields: map[string][]string{
				"school": {
					"div.t-bold span[aria-hidden=true]",
					".t-bold span[aria-hidden=true]",
					"h3.profile-section-card__title",
					"h3",
				},
				"degree": {
					".pv-entity__degree-name .pv-entity__comma-item",
					"span.t-14.t-normal:not(.t-black--light) span[aria-hidden=true]",
					".t-normal:not(.t-black--light) span[aria-hidden=true]",
					"h4.profile-section-card__subtitle span@0",
				},
				"field": {
					".pv-entity__fos .pv-entity__comma-item",
					".t-normal:not(.t-black--light) span[aria-hidden=true]@1",
					"h4.profile-section-card__subtitle span@1",
				},
				"date_range": {
					"span.t-14.t-normal.t-black--light span[aria-hidden=true]",
					".t-black--light span[aria-hidden=true]",
					".pv-entity__dates time",
					"span.date-range",
					"time",
				},
			},
		},
		Skills: SkillRule{
			Sections: []string{
				"section#skills",
				"section:has(div#skills)",
				"section.skills",
				"[data-section=skills]",
			},
			Items: []string{
				".pvs-skill-category-entity__name-text",
				".t-bold span[aria-hidden=true]",
				"li.skill",
				"li",
			},
			Fallback: []string{
				".pvs-skill-category-entity__name-text",
				".pv-skill-category-entity__name",
				".skill-pill",
				".pv-skill-entity__skill-name",
			},
		},
		Posts: PostRule{
			Items: []string{
				"div.occludable-update",
				"div.feed-shared-update-v2",
				"li.profile-creator-shared-feed-update__container",
			},
			Text: []string{
				".feed-shared-update-v2__description",
				".feed-shared-text__text-view",
				".update-components-text",
			},
			Date: []string{
				"span.feed-shared-actor__sub-description > span.visually-hidden",
				"span.update-components-actor__sub-description span[aria-hidden=true]",
				"time",
			},
			Limit: DefaultPostLimit,
		},
	}
}

// LoadSelectors reads a YAML selector table. Any field left empty in the file
// keeps its built-in cascade.
func LoadSelectors(path string) (*Selectors, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read selector file: %w", err)
	}
	var s Selectors
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse selector file: %w", err)
	}
	s.MergeWithDefaults()
	return &s, nil
}

// MergeWithDefaults fills every empty cascade from DefaultSelectors.
func (s *Selectors) MergeWithDefaults() {
	d := DefaultSelectors()
	orDefault(&s.Main, d.Main)
	orDefault(&s.TopCard, d.TopCard)
	orDefault(&s.Name, d.Name)
	orDefault(&s.Headline, d.Headline)
	orDefault(&s.Location, d.Location)
	mergeList(&s.Experience, d.Experience)
	mergeList(&s.Education, d.Education)
	orDefault(&s.Skills.Sections, d.Skills.Sections)
	orDefault(&s.Skills.Items, d.Skills.Items)
	orDefault(&s.Skills.Fallback, d.Skills.Fallback)
	orDefault(&s.Posts.Items, d.Posts.Items)
	orDefault(&s.Posts.Text, d.Posts.Text)
	orDefault(&s.Posts.Date, d.Posts.Date)
	if s.Posts.Limit <= 0 {
		s.Posts.Limit = d.Posts.Limit
	}
}

func mergeList(dst *ListRule, def ListRule) {
	orDefault(&dst.Sections, def.Sections)
	orDefault(&dst.Items, def.Items)
	orDefault(&dst.Fallback, def.Fallback)
	if dst.Fields == nil {
		dst.Fields = map[string][]string{}
	}
	for k, v := range def.Fields {
		if len(dst.Fields[k]) == 0 {
			dst.Fields[k] = v
		}
	}
}

func orDefault(dst *[]string, def []string) {
	if len(*dst) == 0 {
		*dst = def
	}
}

// splitIndex parses the optional "@N" suffix of a selector.
func splitIndex(sel string) (string, int) {
	i := strings.LastIndex(sel, "@")
	if i <= 0 {
		return sel, 0
	}
	n, err := strconv.Atoi(sel[i+1:])
	if err != nil || n < 0 {
		return sel, 0
	}
	return strings.TrimSpace(sel[:i]), n
}
