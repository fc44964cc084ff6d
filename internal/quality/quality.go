// Package quality computes quantitative data-quality signals from a frame
// and its inferred schema. Scores are ratios in [0,1]; issues itemize the
// columns that dragged a score down.
package quality

import (
	"fmt"
	"strings"

	"tabular/internal/schema"
	"tabular/pkg/frame"
)

// Severity grades an issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue types.
const (
	IssueMissingValues = "missing_values"
	IssueDuplicate     = "duplicate"
	IssueMixedType     = "mixed_type"
)

// Issue describes one per-column quality finding.
type Issue struct {
	Column     string   `json:"column"`
	Type       string   `json:"issueType"`
	Severity   Severity `json:"severity"`
	Count      int      `json:"count"`
	Percentage float64  `json:"percentage"`
	Message    string   `json:"message"`
}

// Report aggregates column-averaged scores plus itemized issues.
//
// Validity and consistency are derived from issue counts, so with a single
// column the scores are coarse (0 or 1); callers should treat one-column
// frames as a degenerate case.
type Report struct {
	Completeness float64 `json:"completeness"`
	Uniqueness   float64 `json:"uniqueness"`
	Validity     float64 `json:"validity"`
	Consistency  float64 `json:"consistency"`
	Issues       []Issue `json:"issues"`
}

// Completeness thresholds: below warnAt emits a warning, below errorAt the
// issue escalates to an error.
const (
	completenessWarnAt  = 0.9
	completenessErrorAt = 0.5
)

// Duplicate-detection heuristic: only likely-identifier columns (name
// contains "id") with enough non-null values are flagged.
const (
	uniquenessWarnAt   = 0.5
	uniquenessMinCount = 10
)

// Analyze derives a Report from a frame and its schema. Neither input is
// mutated.
func Analyze(df *frame.DataFrame, s *schema.Schema) *Report {
	rep := &Report{Issues: []Issue{}}
	if len(df.Columns) == 0 {
		rep.Completeness = 1
		rep.Uniqueness = 1
		rep.Validity = 1
		rep.Consistency = 1
		return rep
	}

	byName := make(map[string]schema.Column, len(s.Columns))
	for _, c := range s.Columns {
		byName[c.Name] = c
	}

	var (
		completenessSum float64
		uniquenessSum   float64
		errorIssues     int
		mixedIssues     int
	)

	for _, name := range df.Columns {
		col := byName[name]
		total := df.RowCount
		nonNull := total - col.NullCount

		completeness := 1.0
		if total > 0 {
			completeness = float64(nonNull) / float64(total)
		}
		completenessSum += completeness

		if completeness < completenessWarnAt {
			sev := SeverityWarning
			if completeness < completenessErrorAt {
				sev = SeverityError
				errorIssues++
			}
			missing := total - nonNull
			rep.Issues = append(rep.Issues, Issue{
				Column:     name,
				Type:       IssueMissingValues,
				Severity:   sev,
				Count:      missing,
				Percentage: round2(float64(missing) / float64(total) * 100),
				Message:    fmt.Sprintf("%s has %d missing values (%.1f%%)", name, missing, float64(missing)/float64(total)*100),
			})
		}

		uniqueness := 1.0
		if nonNull > 0 {
			uniqueness = float64(col.Unique) / float64(nonNull)
		}
		uniquenessSum += uniqueness

		if uniqueness < uniquenessWarnAt && nonNull > uniquenessMinCount && strings.Contains(strings.ToLower(name), "id") {
			dups := nonNull - col.Unique
			rep.Issues = append(rep.Issues, Issue{
				Column:     name,
				Type:       IssueDuplicate,
				Severity:   SeverityWarning,
				Count:      dups,
				Percentage: round2(float64(dups) / float64(nonNull) * 100),
				Message:    fmt.Sprintf("%s looks like an identifier but only %.0f%% of its values are distinct", name, uniqueness*100),
			})
		}

		if col.Type == schema.Mixed {
			mixedIssues++
			affected := 0.0
			if total > 0 {
				affected = float64(nonNull) / float64(total) * 100
			}
			rep.Issues = append(rep.Issues, Issue{
				Column:     name,
				Type:       IssueMixedType,
				Severity:   SeverityWarning,
				Count:      nonNull,
				Percentage: round2(affected),
				Message:    fmt.Sprintf("%s holds values of more than one type", name),
			})
		}
	}

	n := float64(len(df.Columns))
	rep.Completeness = completenessSum / n
	rep.Uniqueness = uniquenessSum / n
	rep.Validity = 1 - float64(errorIssues)/n
	rep.Consistency = 1 - float64(mixedIssues)/n
	return rep
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}
