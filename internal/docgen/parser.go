// Package docgen merges structured form data into plan-document
// templates. Templates use {{field}} placeholders, {{#if field}}
// conditional blocks and {{#each arrayField}} loop blocks. Parsing
// builds a small AST instead of chained regex substitution, so every
// occurrence of a repeated block expands and malformed markers have
// defined behavior. Rendering is total: unknown keys become empty
// strings and broken markers degrade gracefully, never an error.
package docgen

import "strings"

const (
	openMarker  = "{{"
	closeMarker = "}}"
)

type nodeKind int

const (
	nodeLiteral nodeKind = iota
	nodePlaceholder
	nodeIf
	nodeEach
)

type node struct {
	kind     nodeKind
	text     string // literal content
	key      string // placeholder / block data key
	children []node // if/each body
}

// token is one lexed piece of the template: raw text or a tag body
// (the text between {{ and }}).
type token struct {
	isTag bool
	text  string
}

func lex(template string) []token {
	var tokens []token
	rest := template
	for {
		open := strings.Index(rest, openMarker)
		if open < 0 {
			break
		}
		end := strings.Index(rest[open+len(openMarker):], closeMarker)
		if end < 0 {
			// Unterminated marker: everything from here on is literal
			break
		}
		if open > 0 {
			tokens = append(tokens, token{text: rest[:open]})
		}
		tag := rest[open+len(openMarker) : open+len(openMarker)+end]
		tokens = append(tokens, token{isTag: true, text: strings.TrimSpace(tag)})
		rest = rest[open+len(openMarker)+end+len(closeMarker):]
	}
	if rest != "" {
		tokens = append(tokens, token{text: rest})
	}
	return tokens
}

// parse builds the node list for one nesting level, consuming tokens
// until the matching close tag (or end of input for an unterminated
// block, which strips the marker rather than erroring).
func parse(tokens []token, pos int, closeTag string) ([]node, int) {
	var nodes []node
	for pos < len(tokens) {
		t := tokens[pos]
		if !t.isTag {
			nodes = append(nodes, node{kind: nodeLiteral, text: t.text})
			pos++
			continue
		}
		switch {
		case closeTag != "" && t.text == closeTag:
			return nodes, pos + 1
		case strings.HasPrefix(t.text, "#if "):
			key := strings.TrimSpace(strings.TrimPrefix(t.text, "#if "))
			children, next := parse(tokens, pos+1, "/if")
			nodes = append(nodes, node{kind: nodeIf, key: key, children: children})
			pos = next
		case strings.HasPrefix(t.text, "#each "):
			key := strings.TrimSpace(strings.TrimPrefix(t.text, "#each "))
			children, next := parse(tokens, pos+1, "/each")
			nodes = append(nodes, node{kind: nodeEach, key: key, children: children})
			pos = next
		case t.text == "/if" || t.text == "/each":
			// Stray close tag with no matching open: drop it
			pos++
		default:
			nodes = append(nodes, node{kind: nodePlaceholder, key: t.text})
			pos++
		}
	}
	return nodes, pos
}
