package adfontes

import (
	"regexp"
	"strings"

	"infosources-backend/lib/fieldextract"
	"infosources-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// overviewRegex matches the standardized sentence some review pages
// carry: "Ad Fontes Media rates {source} in the {BIAS} category of bias
// and as {RELIABILITY} in terms of reliability." It runs against
// whitespace-collapsed text, so literal spaces are enough.
var overviewRegex = regexp.MustCompile(
	`(?i)Ad Fontes Media rates .+? in the (.+?) category of bias` +
		` and as (.+?) in terms of reliability`,
)

// extractRating pulls the two labels and two scores out of a review
// page. Labels come from the overview sentence when present, falling
// back to the info card widget; scores come from a line scan of the
// Overall Score section. Labels and scores live in different parts of
// the page, so the two extractions run independently.
func extractRating(body string) (Rating, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return Rating{}, err
	}
	text := htmlutil.FlattenText(doc.Selection, "\n")
	prose := strings.Join(strings.Fields(text), " ")

	var rating Rating
	if m := overviewRegex.FindStringSubmatch(prose); m != nil {
		rating.BiasLabel = strings.TrimSpace(m[1])
		rating.ReliabilityLabel = strings.TrimSpace(m[2])
	}
	if rating.BiasLabel == "" || rating.ReliabilityLabel == "" {
		bias, reliability := widgetLabels(doc)
		if rating.BiasLabel == "" {
			rating.BiasLabel = bias
		}
		if rating.ReliabilityLabel == "" {
			rating.ReliabilityLabel = reliability
		}
	}

	rating.BiasScore = fieldextract.ScanNumber(text, "Bias", true)
	rating.ReliabilityScore = fieldextract.ScanNumber(text, "Reliability", false)
	return rating, nil
}

// widgetLabels scans the info card widgets for "Bias: Middle" style
// fields. Scoping to the widget div avoids false positives from
// methodology boilerplate elsewhere on the page; flattening with a
// space separator keeps a label and its value together even when they
// sit in separate tags.
func widgetLabels(doc *goquery.Document) (bias, reliability string) {
	doc.Find("div.elementor-widget-container").EachWithBreak(func(_ int, widget *goquery.Selection) bool {
		block := htmlutil.FlattenText(widget, " ")
		if bias == "" {
			bias = fieldextract.LabelValue(block, "Bias", "Reliability")
		}
		if reliability == "" {
			reliability = fieldextract.LabelValue(block, "Reliability")
		}
		return bias == "" || reliability == ""
	})
	return bias, reliability
}
