package report

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// reportMarker matches the engine's standard report-boundary text that
// groups related tables, e.g. "Report: Annual Building Utility
// Performance Summary".
var reportMarker = regexp.MustCompile(`(?s)Report:(.*)`)

// Report is the parsed HTML summary: tables grouped by section and title.
// Tables with no preceding report marker have no section and live in
// Toplevel, keyed by title; a title may repeat there (per-zone
// breakdowns), so each maps to an ordered sequence.
type Report struct {
	Sections map[string]map[string]*Table
	Toplevel map[string][]*Table
}

// Table returns the table at section/title, or nil if absent.
func (r *Report) Table(section, title string) *Table {
	byTitle, ok := r.Sections[section]
	if !ok {
		return nil
	}
	return byTitle[title]
}

// SectionNames returns the names of all sections, unordered.
func (r *Report) SectionNames() []string {
	names := make([]string, 0, len(r.Sections))
	for name := range r.Sections {
		names = append(names, name)
	}
	return names
}

// ParseHTMLReport parses the EnergyPlus HTML summary report at path.
//
// For each <table>, the title is the text of the nearest preceding bold
// sibling, and the section is found by searching backward in document
// order for the nearest "Report:" marker and taking the bold sibling text
// that follows it. Tables with no title, or with no data rows left after
// dropping all-empty rows, are omitted. A missing marker degrades to
// "section absent" rather than erroring.
func ParseHTMLReport(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open HTML report: %w", err)
	}
	defer func() { _ = f.Close() }()

	doc, err := html.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML report: %w", err)
	}

	report := &Report{
		Sections: make(map[string]map[string]*Table),
		Toplevel: make(map[string][]*Table),
	}

	nodes := flatten(doc)
	for i, n := range nodes {
		if !isElement(n, "table") {
			continue
		}

		title := precedingBoldSibling(n)
		if title == "" {
			continue
		}

		table := extractTable(n)
		if table == nil {
			continue
		}

		report.insert(sectionFor(nodes, i), title, table)
	}

	return report, nil
}

// insert places a table in the tree, creating intermediate maps as
// needed.
func (r *Report) insert(section, title string, table *Table) {
	if section == "" {
		r.Toplevel[title] = append(r.Toplevel[title], table)
		return
	}
	byTitle, ok := r.Sections[section]
	if !ok {
		byTitle = make(map[string]*Table)
		r.Sections[section] = byTitle
	}
	byTitle[title] = table
}

// sectionFor finds the section of the table at nodes[pos]: the nearest
// preceding text node matching the report marker, then the text of the
// first bold sibling after that marker. Empty when no marker precedes
// the table.
func sectionFor(nodes []*html.Node, pos int) string {
	for i := pos - 1; i >= 0; i-- {
		n := nodes[i]
		if n.Type != html.TextNode || !reportMarker.MatchString(n.Data) {
			continue
		}
		for sib := n.NextSibling; sib != nil; sib = sib.NextSibling {
			if isElement(sib, "b") {
				return strings.TrimSpace(nodeText(sib))
			}
		}
		return ""
	}
	return ""
}

// precedingBoldSibling returns the text of the nearest bold element among
// the table's preceding siblings, the table's title.
func precedingBoldSibling(table *html.Node) string {
	for sib := table.PrevSibling; sib != nil; sib = sib.PrevSibling {
		if isElement(sib, "b") {
			return strings.TrimSpace(nodeText(sib))
		}
	}
	return ""
}

// extractTable converts a <table> node into a Table, using the first row
// as column headers and dropping data rows whose cells are all empty.
// Returns nil when no data rows remain.
func extractTable(table *html.Node) *Table {
	var rows [][]string
	for _, tr := range descendants(table, "tr") {
		var cells []string
		for c := tr.FirstChild; c != nil; c = c.NextSibling {
			if isElement(c, "td") || isElement(c, "th") {
				cells = append(cells, strings.TrimSpace(nodeText(c)))
			}
		}
		if cells != nil {
			rows = append(rows, cells)
		}
	}
	if len(rows) < 2 {
		return nil
	}

	t := &Table{Columns: rows[0]}
	for _, row := range rows[1:] {
		if allEmpty(row) {
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	if len(t.Rows) == 0 {
		return nil
	}
	return t
}

func allEmpty(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}

// flatten returns all nodes of the document in document (pre-)order.
func flatten(doc *html.Node) []*html.Node {
	var nodes []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		nodes = append(nodes, n)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return nodes
}

func isElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

// descendants returns all descendant elements with the given tag, in
// document order.
func descendants(n *html.Node, tag string) []*html.Node {
	var found []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if isElement(n, tag) {
			found = append(found, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return found
}

// nodeText concatenates all text beneath a node.
func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(nodeText(c))
	}
	return sb.String()
}
