package formspec

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HeaderElement is the `is` value marking a fieldset as a header declaration.
const HeaderElement = "http-header"

// ParseHTML extracts every <form> in the document. A
// `<fieldset is="http-header" id name value>` declares a header whose
// template is its value; controls inside it are contained fields, controls
// elsewhere join it with a `header="<id>"` attribute.
func ParseHTML(r io.Reader) ([]FormSpec, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("formspec: parse html: %w", err)
	}

	var forms []FormSpec
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Form {
			forms = append(forms, parseForm(n))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return forms, nil
}

func parseForm(n *html.Node) FormSpec {
	spec := FormSpec{
		Name:       firstAttr(n, "name", "id"),
		Method:     attr(n, "method"),
		Action:     attr(n, "action"),
		Enctype:    attr(n, "enctype"),
		Target:     attr(n, "target"),
		NoValidate: hasAttr(n, "novalidate"),
	}
	collect(n, &spec, -1)
	return spec
}

// collect walks the form subtree. header is the index of the enclosing header
// declaration, or -1.
func collect(n *html.Node, spec *FormSpec, header int) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.Fieldset:
			if strings.EqualFold(attr(c, "is"), HeaderElement) {
				spec.Headers = append(spec.Headers, HeaderSpec{
					ID:       attr(c, "id"),
					Name:     attr(c, "name"),
					Template: firstAttr(c, "value", "template"),
				})
				collect(c, spec, len(spec.Headers)-1)
				continue
			}
		case atom.Input:
			kind := strings.ToLower(attr(c, "type"))
			switch kind {
			case "submit", "image":
				spec.Submitters = append(spec.Submitters, submitterFrom(c, attr(c, "value")))
			case "button", "reset":
			default:
				addField(spec, header, fieldFrom(c, kind))
			}
			continue
		case atom.Button:
			kind := strings.ToLower(attr(c, "type"))
			if kind == "" || kind == "submit" {
				spec.Submitters = append(spec.Submitters, submitterFrom(c, textContent(c)))
			}
			continue
		case atom.Select:
			field := fieldFrom(c, TypeSelect)
			field.Options, field.Value = selectOptions(c)
			addField(spec, header, field)
			continue
		case atom.Textarea:
			field := fieldFrom(c, TypeTextarea)
			field.Value = textContent(c)
			addField(spec, header, field)
			continue
		}
		collect(c, spec, header)
	}
}

func addField(spec *FormSpec, header int, field FieldSpec) {
	if field.Name == "" {
		return
	}
	if header >= 0 && field.Header == "" {
		spec.Headers[header].Fields = append(spec.Headers[header].Fields, field.Name)
	}
	spec.Fields = append(spec.Fields, field)
}

func fieldFrom(n *html.Node, kind string) FieldSpec {
	field := FieldSpec{
		Name:     attr(n, "name"),
		Type:     kind,
		Value:    attr(n, "value"),
		Label:    firstAttr(n, "aria-label", "placeholder"),
		Checked:  hasAttr(n, "checked"),
		Required: hasAttr(n, "required"),
		Pattern:  attr(n, "pattern"),
		Header:   attr(n, "header"),
	}
	if (kind == TypeCheckbox || kind == TypeRadio) && !hasAttr(n, "value") {
		field.Value = "on"
	}
	field.MinLength, _ = strconv.Atoi(attr(n, "minlength"))
	field.MaxLength, _ = strconv.Atoi(attr(n, "maxlength"))
	return field
}

func submitterFrom(n *html.Node, label string) SubmitterSpec {
	sub := SubmitterSpec{
		Name:  attr(n, "name"),
		Value: attr(n, "value"),
		Label: strings.TrimSpace(label),
	}
	if v, ok := lookup(n, "formaction"); ok {
		sub.Action = &v
	}
	if v, ok := lookup(n, "formmethod"); ok {
		sub.Method = &v
	}
	if v, ok := lookup(n, "formenctype"); ok {
		sub.Enctype = &v
	}
	if v, ok := lookup(n, "formtarget"); ok {
		sub.Target = &v
	}
	if hasAttr(n, "formnovalidate") {
		yes := true
		sub.NoValidate = &yes
	}
	return sub
}

func selectOptions(n *html.Node) ([]string, string) {
	var options []string
	selected := ""
	found := false
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.DataAtom == atom.Option {
				value, ok := lookup(c, "value")
				if !ok {
					value = strings.TrimSpace(textContent(c))
				}
				options = append(options, value)
				if !found && hasAttr(c, "selected") {
					selected, found = value, true
				}
				continue
			}
			walk(c)
		}
	}
	walk(n)
	if !found && len(options) > 0 {
		selected = options[0]
	}
	return options, selected
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func lookup(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

func attr(n *html.Node, key string) string {
	v, _ := lookup(n, key)
	return strings.TrimSpace(v)
}

func firstAttr(n *html.Node, keys ...string) string {
	for _, key := range keys {
		if v, ok := lookup(n, key); ok {
			return v
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	_, ok := lookup(n, key)
	return ok
}
