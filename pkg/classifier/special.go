// Package classifier labels columns whose content pattern makes standard
// narrowing inappropriate: unique identifiers, geographic coordinates,
// free-text entities and already-categorical data.
//
// Rules are evaluated in a strict priority order and the first match wins;
// the dtype check runs before any name or content heuristic. The classifier
// only reads the dataset and never mutates it.
package classifier

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/dataslim/dataslim/pkg/dataset"
	"github.com/dataslim/dataslim/pkg/errors"
	"github.com/dataslim/dataslim/pkg/logger"
)

// Label identifies a special-column category
type Label string

const (
	// LabelUniqueID marks identifier columns that must keep their exact representation
	LabelUniqueID Label = "UniqueID"
	// LabelCoordinate marks geographic coordinate columns
	LabelCoordinate Label = "Coordinate"
	// LabelTextEntity marks high-cardinality free-text columns
	LabelTextEntity Label = "TextEntity"
	// LabelCategoricalOrdinal marks columns already using categorical encoding
	LabelCategoricalOrdinal Label = "CategoricalOrdinal"
)

// EmptyDatasetNotice is printed when a report is requested for a dataset
// with no rows.
const EmptyDatasetNotice = "dataset has no rows; nothing to analyze"

// idTokenPattern matches column names containing an id/uuid/key token
// bounded by the string start, the string end or an underscore. A token
// inside an unrelated word (e.g. "band", "identity") does not match.
var idTokenPattern = regexp.MustCompile(`(?i)(?:^|_)(?:id|uuid|key)(?:_|$)`)

// coordinateNames is the fixed set of names reported as coordinates after
// case-insensitive trimming. Matching is exact, never substring.
var coordinateNames = map[string]struct{}{
	"lat":       {},
	"latitude":  {},
	"lon":       {},
	"long":      {},
	"longitude": {},
}

// Classification is the structured result for one matched column.
type Classification struct {
	Column string `json:"column"`
	Label  Label  `json:"label"`
	Reason string `json:"reason"`
}

// Options controls the classifier's cardinality thresholds.
type Options struct {
	// IDRatio is the minimum distinct/rows ratio for rule 3
	IDRatio float64
	// TextRatio is the exclusive lower distinct/rows bound for rule 4
	TextRatio float64
	// Logger overrides the global logger when set
	Logger *zap.Logger
}

// DefaultOptions returns the documented thresholds: 0.9 for identifiers,
// 0.5 for text entities.
func DefaultOptions() *Options {
	return &Options{
		IDRatio:   0.9,
		TextRatio: 0.5,
	}
}

// rule is one entry in the ordered dispatch list. match returns whether the
// column belongs to the rule's label, plus a human rationale.
type rule struct {
	label Label
	match func(name string, col dataset.Column, ratio float64) (bool, string)
}

// Classifier evaluates the ordered special-column rules.
type Classifier struct {
	opts  *Options
	log   *zap.Logger
	rules []rule
}

// New creates a classifier. nil opts selects the defaults.
func New(opts *Options) *Classifier {
	if opts == nil {
		opts = DefaultOptions()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Get()
	}

	c := &Classifier{opts: opts, log: log}

	// Priority order is load-bearing: dtype is authoritative and must
	// short-circuit before any name or content heuristic.
	c.rules = []rule{
		{
			label: LabelCategoricalOrdinal,
			match: func(_ string, col dataset.Column, _ float64) (bool, string) {
				if col.DType() != dataset.DTypeCategorical {
					return false, ""
				}
				levels := len(col.(*dataset.CategoricalColumn).Labels())
				return true, fmt.Sprintf("category dtype with %d levels", levels)
			},
		},
		{
			label: LabelCoordinate,
			match: func(name string, _ dataset.Column, _ float64) (bool, string) {
				normalized := strings.ToLower(strings.TrimSpace(name))
				if _, ok := coordinateNames[normalized]; !ok {
					return false, ""
				}
				return true, "name matches a geographic coordinate"
			},
		},
		{
			label: LabelUniqueID,
			match: func(name string, _ dataset.Column, ratio float64) (bool, string) {
				if !idTokenPattern.MatchString(name) || ratio < c.opts.IDRatio {
					return false, ""
				}
				return true, fmt.Sprintf("identifier name with distinct ratio %.2f", ratio)
			},
		},
		{
			label: LabelTextEntity,
			match: func(name string, col dataset.Column, ratio float64) (bool, string) {
				// An ID-named text column with a ratio between the two
				// thresholds must not leak into this rule.
				if col.DType() != dataset.DTypeString || ratio <= c.opts.TextRatio || idTokenPattern.MatchString(name) {
					return false, ""
				}
				return true, fmt.Sprintf("high-cardinality free text with distinct ratio %.2f", ratio)
			},
		},
	}

	return c
}

// Classify evaluates the rules for every column, in column order. Columns
// matching no rule are omitted from the result.
func (c *Classifier) Classify(ds *dataset.Dataset) ([]Classification, error) {
	if ds == nil {
		return nil, errors.InvalidInput()
	}
	if ds.Rows() == 0 {
		return nil, nil
	}

	var out []Classification
	for _, name := range ds.Names() {
		col, _ := ds.Column(name)
		ratio := float64(dataset.Cardinality(col)) / float64(ds.Rows())

		for _, r := range c.rules {
			matched, reason := r.match(name, col, ratio)
			if !matched {
				continue
			}
			c.log.Debug("classified column",
				zap.String("column", name),
				zap.String("label", string(r.label)))
			out = append(out, Classification{Column: name, Label: r.label, Reason: reason})
			break
		}
	}
	return out, nil
}

// Report writes one line per classified column to w, in original column
// order. A dataset with zero rows produces a single notice and no
// per-column analysis.
func (c *Classifier) Report(ds *dataset.Dataset, w io.Writer) error {
	if ds == nil {
		return errors.InvalidInput()
	}
	if ds.Rows() == 0 {
		fmt.Fprintln(w, EmptyDatasetNotice)
		return nil
	}

	results, err := c.Classify(ds)
	if err != nil {
		return err
	}
	for _, r := range results {
		fmt.Fprintf(w, "%s %s: %s\n", r.Label, r.Column, r.Reason)
	}
	return nil
}

// AnalyzeSpecial reports special columns to stdout using the default
// thresholds. The printed report is the canonical observable; callers
// needing structured output should use Classifier.Classify.
func AnalyzeSpecial(ds *dataset.Dataset) error {
	return New(nil).Report(ds, os.Stdout)
}
