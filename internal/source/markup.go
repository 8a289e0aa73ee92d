package source

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"

	"github.com/usestring/exemplar-mcp/pkg/document"
)

const (
	defaultXMLRecordPath = "/*/*"
	jsonLDSelector       = `script[type="application/ld+json"]`

	// xmlTextKey holds the text of an element that also carries attributes.
	xmlTextKey = "#text"
	// htmlTextKey holds the text content of an HTML record element.
	htmlTextKey = "text"
)

// decodeXML selects record elements with recordPath and converts each into
// an object. Attributes become "@name" fields, child elements become fields
// named after their tag, and repeated children become arrays.
func decodeXML(data []byte, recordPath string) ([]document.Value, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	if recordPath == "" {
		recordPath = defaultXMLRecordPath
	}
	expr, err := xpath.Compile(recordPath)
	if err != nil {
		return nil, fmt.Errorf("invalid XPath expression: %w", err)
	}

	var values []document.Value
	for _, node := range xmlquery.QuerySelectorAll(doc, expr) {
		if node.Type != xmlquery.ElementNode {
			continue
		}
		values = append(values, document.ObjectValue(xmlRecord(node)))
	}
	return values, nil
}

func xmlRecord(n *xmlquery.Node) *document.Object {
	obj := document.NewObject()
	for _, attr := range n.Attr {
		if name, ok := xmlAttrName(attr); ok {
			obj.Set("@"+name, coerce(attr.Value))
		}
	}

	var order []string
	children := make(map[string][]document.Value)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		name := c.Data
		if c.Prefix != "" {
			name = c.Prefix + ":" + c.Data
		}
		if _, seen := children[name]; !seen {
			order = append(order, name)
		}
		children[name] = append(children[name], xmlValue(c))
	}

	if len(order) == 0 {
		if text := strings.TrimSpace(n.InnerText()); text != "" {
			obj.Set(xmlTextKey, coerce(text))
		}
		return obj
	}

	for _, name := range order {
		vals := children[name]
		if len(vals) == 1 {
			obj.Set(name, vals[0])
		} else {
			obj.Set(name, document.Array(vals...))
		}
	}
	return obj
}

// xmlValue converts a child element. Leaves without attributes collapse to
// their coerced text.
func xmlValue(n *xmlquery.Node) document.Value {
	if !hasXMLElementChild(n) && !hasXMLAttrs(n) {
		return coerce(strings.TrimSpace(n.InnerText()))
	}
	return document.ObjectValue(xmlRecord(n))
}

func hasXMLElementChild(n *xmlquery.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			return true
		}
	}
	return false
}

func hasXMLAttrs(n *xmlquery.Node) bool {
	for _, attr := range n.Attr {
		if _, ok := xmlAttrName(attr); ok {
			return true
		}
	}
	return false
}

// xmlAttrName returns the field name for an attribute. Namespace
// declarations are skipped.
func xmlAttrName(attr xmlquery.Attr) (string, bool) {
	if attr.Name.Local == "xmlns" || attr.Name.Space == "xmlns" {
		return "", false
	}
	if attr.Name.Space != "" {
		return attr.Name.Space + ":" + attr.Name.Local, true
	}
	return attr.Name.Local, true
}

// decodeHTMLRecords selects elements with an XPath expression. Each record
// carries its attributes as "@name" fields and its trimmed text content.
func decodeHTMLRecords(data []byte, recordPath string) ([]document.Value, error) {
	doc, err := htmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	nodes, err := htmlquery.QueryAll(doc, recordPath)
	if err != nil {
		return nil, fmt.Errorf("invalid XPath expression: %w", err)
	}

	var values []document.Value
	for _, node := range nodes {
		if node.Type != html.ElementNode {
			continue
		}
		obj := document.NewObject()
		for _, attr := range node.Attr {
			obj.Set("@"+attr.Key, coerce(attr.Val))
		}
		if text := strings.Join(strings.Fields(htmlquery.InnerText(node)), " "); text != "" {
			obj.Set(htmlTextKey, document.String(text))
		}
		values = append(values, document.ObjectValue(obj))
	}
	return values, nil
}

// decodeJSONLD reads every JSON-LD script block of an HTML page. Objects
// carrying an "@graph" array contribute the graph's nodes instead. Blocks
// that fail to parse are reported as warnings.
func decodeJSONLD(data []byte) ([]document.Value, []string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var (
		values   []document.Value
		warnings []string
	)
	doc.Find(jsonLDSelector).Each(func(i int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		parsed, err := document.ParseJSONValues([]byte(text))
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("JSON-LD block %d: %v", i, err))
			return
		}
		for _, v := range parsed {
			values = append(values, spreadGraph(v)...)
		}
	})
	return values, warnings, nil
}

func spreadGraph(v document.Value) []document.Value {
	if !v.IsObject() {
		return []document.Value{v}
	}
	graph, ok := v.Object().Get("@graph")
	if !ok || !graph.IsArray() {
		return []document.Value{v}
	}
	return graph.Elems()
}
