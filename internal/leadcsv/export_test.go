package leadcsv

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/models"
	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportLeads() []models.Lead {
	return []models.Lead{
		{LeadID: "L1", CompanyName: "Acme, Inc", ContactName: "Jane", Industry: "Tech", CapitalNeed: "$2M"},
		{LeadID: "L2", CompanyName: "Globex", Location: "Denver"},
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, exportLeads()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Company Name,Contact Name,Email,Phone,Industry,Location,Company Size,Revenue Range,Capital Need", lines[0])
	assert.Equal(t, `"Acme, Inc",Jane,,,Tech,,,,$2M`, lines[1])
	assert.Equal(t, "Globex,,,,,Denver,,,", lines[2])
}

func TestWriteXML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXML(&buf, exportLeads()))

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(buf.Bytes()))
	leads := doc.FindElements("//leads/lead")
	require.Len(t, leads, 2)
	assert.Equal(t, "L1", leads[0].SelectAttrValue("id", ""))
	assert.Equal(t, "Acme, Inc", leads[0].FindElement("./company_name").Text())
	assert.Equal(t, "Denver", leads[1].FindElement("./location").Text())
	assert.Equal(t, "2", doc.Root().SelectAttrValue("count", ""))
}

func TestFileName(t *testing.T) {
	ts := time.Date(2026, 10, 18, 9, 5, 7, 0, time.UTC)
	assert.Equal(t, "verifiedmeasure-leads-2026-10-18-090507.csv", FileName(ts, "csv"))
}
