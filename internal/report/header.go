package report

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/rs/zerolog"

	"saleocr/internal/logger"
)

const (
	// Buddhist-era years run 543 ahead of the Gregorian calendar. Anything
	// below the floor is already Gregorian.
	buddhistEraFloor  = 2400
	buddhistEraOffset = 543
)

// HeaderExtractor pulls the vendor identity and reporting period out of the
// raw report text.
//
// Both searches tolerate OCR noise: a month name that misses the table falls
// back to the closest entry by character overlap, and a period that cannot
// be read at all is derived from the document identifier. Failed extraction
// leaves fields empty rather than failing the document.
type HeaderExtractor struct {
	rules Rules

	// Go's RE2 has no backreferences, so the repeated vendor id is captured
	// twice and compared after the match.
	vendorPattern *regexp.Regexp
	periodPattern *regexp.Regexp
	docIDPattern  *regexp.Regexp

	log zerolog.Logger
}

// NewHeaderExtractor builds a header extractor for the given rule set.
func NewHeaderExtractor(rules Rules) *HeaderExtractor {
	return &HeaderExtractor{
		rules:         rules,
		vendorPattern: regexp.MustCompile(`(?i)Vendor\s+(\d+)\s*/\s*(.+?)\s*\((\d+)\)`),
		periodPattern: regexp.MustCompile(`รอบวันที่\s*([0-9]{1,2})\s*-\s*([0-9]{1,2})\s*([^\s0-9]+)\s*([12][0-9]{3,4})`),
		docIDPattern:  regexp.MustCompile(`(\d{6})H`),
		log:           logger.WithComponent("header"),
	}
}

// Extract scans text for the vendor and period header lines. documentID is
// the source file name and seeds the period fallback.
func (h *HeaderExtractor) Extract(text, documentID string) HeaderMeta {
	var meta HeaderMeta

	if m := h.vendorPattern.FindStringSubmatch(text); m != nil && m[1] == m[3] {
		meta.VendorID = m[1]
		meta.VendorName = fmt.Sprintf("%s (%s)", strings.TrimSpace(m[2]), m[1])
	}

	if m := h.periodPattern.FindStringSubmatch(text); m != nil {
		d1, _ := strconv.Atoi(m[1])
		d2, _ := strconv.Atoi(m[2])
		rawYear, _ := strconv.Atoi(m[4])

		month := h.resolveMonth(strings.TrimSpace(m[3]))
		year := gregorianYear(rawYear)
		if month >= time.January && month <= time.December {
			last := lastDayOfMonth(year, month)
			meta.PeriodStartDate = formatDate(year, month, clampDay(d1, last))
			meta.PeriodEndDate = formatDate(year, month, clampDay(d2, last))
		}
	}

	if meta.PeriodStartDate == "" || meta.PeriodEndDate == "" {
		h.periodFromDocumentID(documentID, &meta)
	}
	return meta
}

// periodFromDocumentID derives the period from a YYYYMM run preceding the
// letter H in the document identifier, spanning that whole calendar month.
func (h *HeaderExtractor) periodFromDocumentID(documentID string, meta *HeaderMeta) {
	m := h.docIDPattern.FindStringSubmatch(documentID)
	if m == nil {
		return
	}
	year, _ := strconv.Atoi(m[1][:4])
	mon, _ := strconv.Atoi(m[1][4:6])
	if mon < 1 || mon > 12 {
		return
	}
	month := time.Month(mon)
	meta.PeriodStartDate = formatDate(year, month, 1)
	meta.PeriodEndDate = formatDate(year, month, lastDayOfMonth(year, month))
	h.log.Debug().
		Str("document_id", documentID).
		Msg("period derived from document identifier")
}

// resolveMonth looks the OCR'd spelling up in the month table, then falls
// back to the entry with the highest character overlap. Levenshtein distance
// breaks ties so near-misses like "ธนวาคม" land on the intended month.
func (h *HeaderExtractor) resolveMonth(s string) time.Month {
	if m, ok := h.rules.Months[s]; ok {
		return m
	}

	names := make([]string, 0, len(h.rules.Months))
	for name := range h.rules.Months {
		names = append(names, name)
	}
	sort.Strings(names)

	best := time.January
	bestScore := -1
	bestDistance := int(^uint(0) >> 1)
	for _, name := range names {
		score := overlapScore(s, name)
		distance := fuzzy.LevenshteinDistance(s, name)
		if score > bestScore || (score == bestScore && distance < bestDistance) {
			bestScore = score
			bestDistance = distance
			best = h.rules.Months[name]
		}
	}
	h.log.Debug().
		Str("spelling", s).
		Int("month", int(best)).
		Msg("month resolved by fuzzy match")
	return best
}

// overlapScore counts the runes of a that also occur somewhere in b.
func overlapScore(a, b string) int {
	n := 0
	for _, r := range a {
		if strings.ContainsRune(b, r) {
			n++
		}
	}
	return n
}

func gregorianYear(y int) int {
	if y >= buddhistEraFloor {
		return y - buddhistEraOffset
	}
	return y
}

func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func clampDay(d, last int) int {
	if d < 1 {
		return 1
	}
	if d > last {
		return last
	}
	return d
}

func formatDate(year int, month time.Month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
}
