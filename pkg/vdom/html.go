package vdom

import (
	"io"
	"strings"
)

var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// HTML serializes n and its descendants.
func HTML(n *Node) string {
	var b strings.Builder
	_ = Render(&b, n)
	return b.String()
}

// InnerHTML serializes n's children.
func InnerHTML(n *Node) string {
	var b strings.Builder
	for c := n.firstChild; c != nil; c = c.next {
		_ = Render(&b, c)
	}
	return b.String()
}

// Render writes n as HTML to w.
func Render(w io.Writer, n *Node) error {
	var b strings.Builder
	writeNode(&b, n)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeNode(b *strings.Builder, n *Node) {
	switch n.Kind {
	case KindText:
		b.WriteString(escapeHTML(n.Data))
	case KindComment:
		b.WriteString("<!--")
		b.WriteString(n.Data)
		b.WriteString("-->")
	case KindFragment:
		for c := n.firstChild; c != nil; c = c.next {
			writeNode(b, c)
		}
	case KindElement:
		b.WriteByte('<')
		b.WriteString(n.Tag)
		for _, a := range n.attrs {
			b.WriteByte(' ')
			b.WriteString(a.Name)
			b.WriteString(`="`)
			b.WriteString(escapeAttr(a.Value))
			b.WriteByte('"')
		}
		b.WriteByte('>')
		if voidElements[n.Tag] {
			return
		}
		for c := n.firstChild; c != nil; c = c.next {
			writeNode(b, c)
		}
		b.WriteString("</")
		b.WriteString(n.Tag)
		b.WriteByte('>')
	}
}

// escapeHTML escapes text for safe inclusion in HTML content.
func escapeHTML(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}

// escapeAttr escapes text for an attribute value, including whitespace
// characters that could break attribute parsing.
func escapeAttr(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\n':
			buf.WriteString("&#10;")
		case '\r':
			buf.WriteString("&#13;")
		case '\t':
			buf.WriteString("&#9;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
