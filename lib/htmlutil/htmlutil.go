package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		} else {
			// newlines and tabs inside a cell separate words
			newStr.WriteRune(' ')
		}
	}
	return newStr.String()
}

// CleanText strips non-printable runes, collapses inner whitespace and
// trims the result. The upstream markup is full of non-breaking spaces
// and stray newlines, so every extracted string goes through here.
func CleanText(s string) string {
	s = removeNonPrintable(strings.ReplaceAll(s, " ", " "))
	s = strings.Trim(s, " \t\n")
	return innerWhitespace.ReplaceAllString(s, " ")
}

// Text returns the cleaned text content of a selection.
func Text(sel *goquery.Selection) string {
	return CleanText(sel.Text())
}

// Lines splits an element's contents into logical lines, treating <br>
// tags as separators. When the element carries no <br> tags the text is
// split on literal newlines instead, since upstream renders the same
// header block both ways.
func Lines(sel *goquery.Selection) []string {
	var lines []string
	if len(sel.Nodes) > 0 && sel.Find("br").Length() > 0 {
		var current bytes.Buffer
		for child := sel.Nodes[0].FirstChild; child != nil; child = child.NextSibling {
			if child.Type == html.ElementNode && child.Data == "br" {
				lines = appendLine(lines, current.String())
				current.Reset()
				continue
			}
			getTextRecursive(child, &current)
		}
		return appendLine(lines, current.String())
	}

	for _, line := range strings.Split(sel.Text(), "\n") {
		lines = appendLine(lines, line)
	}
	return lines
}

func appendLine(lines []string, s string) []string {
	s = CleanText(s)
	if s == "" {
		return lines
	}
	return append(lines, s)
}
