package leadcsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/models"
	"github.com/beevik/etree"
)

// Header is the label row of a downloaded file
var Header = []string{
	"Company Name", "Contact Name", "Email", "Phone", "Industry",
	"Location", "Company Size", "Revenue Range", "Capital Need",
}

func record(l models.Lead) []string {
	return []string{
		l.CompanyName, l.ContactName, l.Email, l.Phone, l.Industry,
		l.Location, l.CompanySize, l.RevenueRange, l.CapitalNeed,
	}
}

// Write emits the header and one row per lead
func Write(w io.Writer, leads []models.Lead) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, l := range leads {
		if err := cw.Write(record(l)); err != nil {
			return fmt.Errorf("failed to write lead %s: %w", l.LeadID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXML emits the same columns as Write as a <leads> document
func WriteXML(w io.Writer, leads []models.Lead) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("leads")
	root.CreateAttr("count", fmt.Sprintf("%d", len(leads)))
	for _, l := range leads {
		el := root.CreateElement("lead")
		el.CreateAttr("id", l.LeadID)
		for i, v := range record(l) {
			el.CreateElement(xmlNames[i]).SetText(v)
		}
	}
	doc.Indent(2)
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write xml: %w", err)
	}
	return nil
}

var xmlNames = []string{
	"company_name", "contact_name", "email", "phone", "industry",
	"location", "company_size", "revenue_range", "capital_need",
}

// FileName is the attachment name for a download made at t
func FileName(t time.Time, ext string) string {
	return fmt.Sprintf("verifiedmeasure-leads-%s.%s", t.Format("2006-01-02-150405"), ext)
}
