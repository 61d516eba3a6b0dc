// Package leadcsv converts between lead records and the files admins upload
// and clients download.
package leadcsv

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/models"
)

// ErrNoHeader is returned for input without a header line
var ErrNoHeader = errors.New("csv has no header row")

// column binds a lead field to the header names accepted for it, in
// precedence order
type column struct {
	aliases []string
	set     func(l *models.Lead, v string)
}

var columns = []column{
	{[]string{"lead_id"}, func(l *models.Lead, v string) { l.LeadID = v }},
	{[]string{"company_name", "company"}, func(l *models.Lead, v string) { l.CompanyName = v }},
	{[]string{"contact_name", "contact"}, func(l *models.Lead, v string) { l.ContactName = v }},
	{[]string{"email"}, func(l *models.Lead, v string) { l.Email = v }},
	{[]string{"phone"}, func(l *models.Lead, v string) { l.Phone = v }},
	{[]string{"industry"}, func(l *models.Lead, v string) { l.Industry = v }},
	{[]string{"location"}, func(l *models.Lead, v string) { l.Location = v }},
	{[]string{"company_size", "size"}, func(l *models.Lead, v string) { l.CompanySize = v }},
	{[]string{"revenue_range", "revenue"}, func(l *models.Lead, v string) { l.RevenueRange = v }},
	{[]string{"capital_need", "capital"}, func(l *models.Lead, v string) { l.CapitalNeed = v }},
}

// Skip describes a data row that was not imported
type Skip struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Result is the outcome of parsing one upload
type Result struct {
	Leads   []models.Lead
	Skipped []Skip
}

// Parse reads an uploaded CSV. The first non-blank line is the header; cells
// are split on bare commas, so quoted commas are not supported. Rows without
// a company name are skipped. Rows without a lead_id get a synthetic one
// derived from now and the row index.
func Parse(text string, now time.Time) (*Result, error) {
	lines, lineNos := nonBlankLines(text)
	if len(lines) == 0 {
		return nil, ErrNoHeader
	}

	index := make(map[string]int)
	for i, h := range splitRow(lines[0]) {
		h = strings.ToLower(h)
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	res := &Result{Leads: []models.Lead{}, Skipped: []Skip{}}
	for i := 1; i < len(lines); i++ {
		values := splitRow(lines[i])
		lead := models.Lead{Status: models.LeadStatusAvailable}
		for _, c := range columns {
			c.set(&lead, lookup(index, values, c.aliases))
		}
		if lead.CompanyName == "" {
			res.Skipped = append(res.Skipped, Skip{Line: lineNos[i], Reason: "missing company name"})
			continue
		}
		if lead.LeadID == "" {
			lead.LeadID = fmt.Sprintf("LEAD-%d-%d", now.UnixMilli(), i)
		}
		res.Leads = append(res.Leads, lead)
	}
	return res, nil
}

// lookup returns the first non-empty value among the aliased columns
func lookup(index map[string]int, values []string, aliases []string) string {
	for _, a := range aliases {
		i, ok := index[a]
		if !ok || i >= len(values) {
			continue
		}
		if v := values[i]; v != "" {
			return v
		}
	}
	return ""
}

// nonBlankLines drops blank lines and returns the 1-based file line number
// of each kept line
func nonBlankLines(text string) ([]string, []int) {
	var out []string
	var nos []int
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
			nos = append(nos, i+1)
		}
	}
	return out, nos
}

func splitRow(line string) []string {
	cells := strings.Split(line, ",")
	for i, c := range cells {
		cells[i] = strings.ReplaceAll(strings.TrimSpace(c), `"`, "")
	}
	return cells
}
