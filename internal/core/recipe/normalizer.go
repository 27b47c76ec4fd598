package recipe

import (
	"net/url"
	"regexp"
	"strings"

	"recipe-hub/internal/core/provider"
)

// Normalizer maps raw provider payloads into the canonical Summary and
// FullDetail shapes. Missing optional fields default to zero values; the
// normalizer never fails.
type Normalizer struct {
	imageHost string
}

// NewNormalizer creates a normalizer. imageHost is the provider's image host;
// image URLs on other hosts pass through untouched.
func NewNormalizer(imageHost string) *Normalizer {
	return &Normalizer{imageHost: imageHost}
}

// ToSummary extracts the compact projection from a raw payload.
func (n *Normalizer) ToSummary(raw *provider.Recipe) Summary {
	return Summary{
		ID:              raw.ID,
		Title:           raw.Title,
		ReadyInMinutes:  raw.ReadyInMinutes,
		Image:           n.NormalizeImageURL(raw.Image),
		PopularityScore: raw.SpoonacularScore,
		Vegan:           raw.Vegan,
		Vegetarian:      raw.Vegetarian,
		GlutenFree:      raw.GlutenFree,
	}
}

// ToFullDetail extracts the complete projection: the summary fields plus a
// flat ordered instruction list, a deduplicated equipment set (case-sensitive
// name equality, first occurrence wins), the full ingredient list and the
// sanitized summary text.
func (n *Normalizer) ToFullDetail(raw *provider.Recipe) FullDetail {
	instructions := []string{}
	equipment := []string{}
	seen := map[string]bool{}
	for _, group := range raw.AnalyzedInstructions {
		for _, step := range group.Steps {
			if step.Step != "" {
				instructions = append(instructions, step.Step)
			}
			for _, item := range step.Equipment {
				if !seen[item.Name] {
					seen[item.Name] = true
					equipment = append(equipment, item.Name)
				}
			}
		}
	}

	ingredients := make([]Ingredient, len(raw.ExtendedIngredients))
	for i, ing := range raw.ExtendedIngredients {
		ingredients[i] = Ingredient{
			Name:        ing.Name,
			Amount:      ing.Amount,
			Unit:        ing.Unit,
			Description: ing.Original,
		}
	}

	return FullDetail{
		Summary:          n.ToSummary(raw),
		NumberOfPortions: raw.Servings,
		Instructions:     instructions,
		Equipment:        equipment,
		Ingredients:      ingredients,
		SummaryText:      SanitizeSummaryText(raw.Summary),
	}
}

var (
	anchorPattern       = regexp.MustCompile(`(?i)<a[^>]*>(.*?)</a>`)
	tagPattern          = regexp.MustCompile(`<[^>]+>`)
	nonPrintablePattern = regexp.MustCompile(`[^ -~]`)

	// Recognized image extensions for NormalizeImageURL.
	imageExtPattern = regexp.MustCompile(`(?i)\.(jpe?g|png|gif|webp)$`)
)

// SanitizeSummaryText strips anchor tags preserving their inner text, strips
// all remaining HTML tags, decodes the basic entities, drops characters
// outside printable ASCII and trims the result.
func SanitizeSummaryText(text string) string {
	out := anchorPattern.ReplaceAllString(text, "$1")
	out = tagPattern.ReplaceAllString(out, "")
	for _, pair := range [][2]string{
		{"&amp;", "&"},
		{"&lt;", "<"},
		{"&gt;", ">"},
		{"&quot;", `"`},
		{"&#39;", "'"},
		{"&nbsp;", " "},
	} {
		out = strings.ReplaceAll(out, pair[0], pair[1])
	}
	out = nonPrintablePattern.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}

// NormalizeImageURL repairs malformed image URLs from the provider's image
// host: a stray trailing dot is dropped, and when the final path segment has
// no recognized image extension, ".jpg" is appended. URLs from other hosts
// pass through unchanged. The function is idempotent.
func (n *Normalizer) NormalizeImageURL(rawURL string) string {
	if rawURL == "" {
		return rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host != n.imageHost {
		return rawURL
	}

	path := strings.TrimSuffix(u.Path, ".")
	if !imageExtPattern.MatchString(path) {
		path += ".jpg"
	}
	if path == u.Path {
		return rawURL
	}
	u.Path = path
	return u.String()
}
