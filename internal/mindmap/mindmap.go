// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mindmap parses indentation outlines into a forest of nodes.
//
// Each non-blank line is a node. Two leading spaces make one level of depth
// (a tab counts as two spaces). A single leading "-" or "*" bullet is
// stripped from the content. A line becomes a child of the nearest preceding
// line with a smaller level, or a new root if there is none.
package mindmap

import (
	"fmt"
	"io"
	"strings"
)

// Node is one entry of a mind map.
type Node struct {
	Content  string  `json:"content"`
	Level    int     `json:"level"`
	Children []*Node `json:"children"`
}

// Parse converts outline text into a forest. Parsing is deterministic and
// never fails; malformed indentation degrades to shallower nesting.
func Parse(text string) []*Node {
	roots := []*Node{}
	var stack []*Node

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		node := &Node{
			Content:  content(line),
			Level:    level(line),
			Children: []*Node{},
		}

		for len(stack) > 0 && stack[len(stack)-1].Level >= node.Level {
			stack = stack[:len(stack)-1]
		}

		if len(stack) == 0 {
			roots = append(roots, node)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, node)
		}
		stack = append(stack, node)
	}

	return roots
}

func level(line string) int {
	width := 0
	for _, r := range line {
		switch r {
		case ' ':
			width++
		case '\t':
			width += 2
		default:
			return width / 2
		}
	}
	return width / 2
}

func content(line string) string {
	s := strings.TrimSpace(line)
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "*") {
		s = s[1:]
	}
	return strings.TrimSpace(s)
}

// Count returns the total number of nodes in the forest.
func Count(forest []*Node) int {
	n := 0
	for _, node := range forest {
		n += 1 + Count(node.Children)
	}
	return n
}

// Render writes the forest as a box-drawing tree.
func Render(w io.Writer, forest []*Node) error {
	for _, root := range forest {
		if _, err := fmt.Fprintln(w, root.Content); err != nil {
			return err
		}
		if err := renderChildren(w, root.Children, ""); err != nil {
			return err
		}
	}
	return nil
}

func renderChildren(w io.Writer, children []*Node, prefix string) error {
	for i, child := range children {
		branch, next := "├── ", "│   "
		if i == len(children)-1 {
			branch, next = "└── ", "    "
		}
		if _, err := fmt.Fprintf(w, "%s%s%s\n", prefix, branch, child.Content); err != nil {
			return err
		}
		if err := renderChildren(w, child.Children, prefix+next); err != nil {
			return err
		}
	}
	return nil
}
