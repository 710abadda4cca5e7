// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var (
	markdownParser     goldmark.Markdown
	markdownParserOnce sync.Once

	markdownRenderer     *lipgloss.Renderer
	markdownRendererOnce sync.Once
)

func getMarkdownParser() goldmark.Markdown {
	markdownParserOnce.Do(func() {
		markdownParser = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return markdownParser
}

// getMarkdownRenderer returns a lipgloss renderer pinned to ANSI256.
// Output always goes to the TUI, so terminal detection (which yields
// no color without a TTY, as under go test) is bypassed.
func getMarkdownRenderer() *lipgloss.Renderer {
	markdownRendererOnce.Do(func() {
		markdownRenderer = lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))
		markdownRenderer.SetColorProfile(termenv.ANSI256)
	})
	return markdownRenderer
}

// RenderMarkdown renders ticket descriptions and note text for the
// TUI, wrapped to width. Soft line breaks become spaces so hard-wrapped
// source reflows.
func RenderMarkdown(input string, theme Theme, width int) string {
	return RenderMarkdownWith(getMarkdownRenderer(), input, theme, width)
}

// RenderMarkdownWith renders like [RenderMarkdown] with the color
// profile of renderer. A renderer with the Ascii profile produces
// plain text.
func RenderMarkdownWith(renderer *lipgloss.Renderer, input string, theme Theme, width int) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	source := []byte(input)
	document := getMarkdownParser().Parser().Parse(text.NewReader(source))
	writer := &markdownWriter{source: source, theme: theme, renderer: renderer}
	return strings.Join(writer.blocks(document, max(width, 10)), "\n")
}

// markdownWriter turns a goldmark AST into lines. Block rendering is
// recursive: a container renders its children at a reduced width and
// prefixes the result.
type markdownWriter struct {
	source   []byte
	theme    Theme
	renderer *lipgloss.Renderer
}

type inlineStyle struct {
	bold, italic, strikethrough, code bool
}

func (writer *markdownWriter) style() lipgloss.Style {
	return writer.renderer.NewStyle()
}

// blocks renders the children of parent, separated by blank lines
// unless the parent is a tight list item.
func (writer *markdownWriter) blocks(parent ast.Node, width int) []string {
	tight := false
	if item, ok := parent.(*ast.ListItem); ok {
		if list, ok := item.Parent().(*ast.List); ok {
			tight = list.IsTight
		}
	}

	var lines []string
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		rendered := writer.block(child, width)
		if len(rendered) == 0 {
			continue
		}
		if len(lines) > 0 && !tight {
			lines = append(lines, "")
		}
		lines = append(lines, rendered...)
	}
	return lines
}

func (writer *markdownWriter) block(node ast.Node, width int) []string {
	switch node := node.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		return writer.wrap(writer.inline(node, inlineStyle{}), width)

	case *ast.Heading:
		content := writer.inline(node, inlineStyle{bold: true})
		style := writer.style().Bold(true).Foreground(writer.theme.HeaderForeground)
		if node.Level <= 2 {
			style = style.Underline(true)
		}
		return writer.wrap(style.Render(ansi.Strip(content)), width)

	case *ast.FencedCodeBlock:
		return writer.code(writer.rawLines(node), string(node.Language(writer.source)))

	case *ast.CodeBlock:
		return writer.code(writer.rawLines(node), "")

	case *ast.Blockquote:
		bar := writer.style().Foreground(writer.theme.BorderColor).Render("│ ")
		return prefixLines(writer.blocks(node, width-2), bar, bar)

	case *ast.List:
		return writer.list(node, width)

	case *ast.ThematicBreak:
		return []string{writer.style().Foreground(writer.theme.BorderColor).Render(strings.Repeat("─", width))}

	case *ast.HTMLBlock:
		return writer.code(writer.rawLines(node), "")

	case *extast.Table:
		return writer.table(node)

	default:
		return writer.blocks(node, width)
	}
}

func (writer *markdownWriter) list(list *ast.List, width int) []string {
	var lines []string
	number := list.Start
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "• "
		if list.IsOrdered() {
			marker = fmt.Sprintf("%d. ", number)
			number++
		}
		markerWidth := ansi.StringWidth(marker)
		rendered := writer.blocks(item, width-markerWidth)
		if len(rendered) == 0 {
			rendered = []string{""}
		}
		if !list.IsTight && len(lines) > 0 {
			lines = append(lines, "")
		}
		faintMarker := writer.style().Foreground(writer.theme.FaintText).Render(marker)
		lines = append(lines, prefixLines(rendered, faintMarker, strings.Repeat(" ", markerWidth))...)
	}
	return lines
}

func (writer *markdownWriter) table(table *extast.Table) []string {
	separator := writer.style().Foreground(writer.theme.BorderColor).Render(" │ ")
	var lines []string
	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			style := inlineStyle{}
			if _, header := row.(*extast.TableHeader); header {
				style.bold = true
			}
			cells = append(cells, writer.inline(cell, style))
		}
		lines = append(lines, strings.Join(cells, separator))
	}
	return lines
}

func (writer *markdownWriter) rawLines(node ast.Node) string {
	var builder strings.Builder
	lines := node.Lines()
	for index := 0; index < lines.Len(); index++ {
		segment := lines.At(index)
		builder.Write(segment.Value(writer.source))
	}
	return strings.TrimRight(builder.String(), "\n")
}

// code syntax-highlights with chroma when the language is known.
// Code is never wrapped.
func (writer *markdownWriter) code(source, language string) []string {
	highlighted := ""
	if language != "" && writer.renderer.ColorProfile() != termenv.Ascii {
		var buffer strings.Builder
		if err := quick.Highlight(&buffer, source, language, "terminal256", "monokai"); err == nil {
			highlighted = strings.TrimRight(buffer.String(), "\n")
		}
	}
	if highlighted == "" {
		highlighted = writer.style().Foreground(writer.theme.FaintText).Render(source)
	}
	return prefixLines(strings.Split(highlighted, "\n"), "  ", "  ")
}

func (writer *markdownWriter) wrap(content string, width int) []string {
	if content == "" {
		return nil
	}
	return strings.Split(ansi.Wrap(content, width, " -"), "\n")
}

// inline renders the inline children of node into one styled string.
// Hard line breaks are kept as newlines.
func (writer *markdownWriter) inline(node ast.Node, style inlineStyle) string {
	var builder strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		builder.WriteString(writer.inlineNode(child, style))
	}
	return builder.String()
}

func (writer *markdownWriter) inlineNode(node ast.Node, style inlineStyle) string {
	switch node := node.(type) {
	case *ast.Text:
		content := writer.styled(string(node.Segment.Value(writer.source)), style)
		switch {
		case node.HardLineBreak():
			content += "\n"
		case node.SoftLineBreak():
			content += " "
		}
		return content

	case *ast.String:
		return writer.styled(string(node.Value), style)

	case *ast.CodeSpan:
		style.code = true
		return writer.inline(node, style)

	case *ast.Emphasis:
		if node.Level >= 2 {
			style.bold = true
		} else {
			style.italic = true
		}
		return writer.inline(node, style)

	case *extast.Strikethrough:
		style.strikethrough = true
		return writer.inline(node, style)

	case *ast.Link:
		label := writer.inline(node, style)
		destination := string(node.Destination)
		if ansi.Strip(label) == destination {
			return writer.link(destination)
		}
		return label + writer.style().Foreground(writer.theme.FaintText).Render(" ("+destination+")")

	case *ast.AutoLink:
		return writer.link(string(node.URL(writer.source)))

	case *ast.Image:
		return writer.style().Foreground(writer.theme.FaintText).Render("[image: " + ansi.Strip(writer.inline(node, style)) + "]")

	case *ast.RawHTML:
		return ""

	default:
		return writer.inline(node, style)
	}
}

func (writer *markdownWriter) link(destination string) string {
	return writer.style().Foreground(writer.theme.LinkForeground).Underline(true).Render(destination)
}

func (writer *markdownWriter) styled(content string, style inlineStyle) string {
	if content == "" {
		return ""
	}
	rendered := writer.style().Foreground(writer.theme.NormalText)
	if style.code {
		rendered = rendered.Foreground(writer.theme.Accent)
	}
	if style.bold {
		rendered = rendered.Bold(true)
	}
	if style.italic {
		rendered = rendered.Italic(true)
	}
	if style.strikethrough {
		rendered = rendered.Strikethrough(true)
	}
	return rendered.Render(content)
}

// prefixLines prefixes the first line with first and the rest with rest.
func prefixLines(lines []string, first, rest string) []string {
	result := make([]string, len(lines))
	for index, line := range lines {
		if index == 0 {
			result[index] = first + line
		} else {
			result[index] = rest + line
		}
	}
	return result
}
