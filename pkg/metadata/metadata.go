// Package metadata derives title, description, tags and note type from note content.
//
// Recognised markers:
//
//	---
//	title: Weekly sync
//	description: Notes from the weekly sync
//	tags: [meeting, team]      # or "meeting, team"
//	type: slide                # document | slide
//	---
//
// Without a front-matter title, the first level-1 heading ("# Title") is used.
package metadata

import (
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	TypeDocument = "document"
	TypeSlide    = "slide"
)

type Metadata struct {
	Title       string
	Description string
	Tags        []string
	// NoteType is nil when the content declares no type and the revision is
	// not initial; the caller keeps the previous revision's type.
	NoteType *string
}

type frontMatter struct {
	Title       string  `yaml:"title"`
	Description string  `yaml:"description"`
	Tags        tagList `yaml:"tags"`
	Type        string  `yaml:"type"`
}

type tagList []string

func (t *tagList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*t = strings.Split(node.Value, ",")
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*t = items
	}
	return nil
}

// Extract is pure: the same input always yields the same Metadata.
func Extract(content string, isInitial bool) Metadata {
	fm, body, ok := splitFrontMatter(content)

	var meta Metadata
	if ok {
		meta.Title = strings.TrimSpace(fm.Title)
		meta.Description = strings.TrimSpace(fm.Description)
		meta.Tags = normalizeTags(fm.Tags)
		if t := strings.ToLower(strings.TrimSpace(fm.Type)); t == TypeDocument || t == TypeSlide {
			meta.NoteType = &t
		}
	} else {
		body = content
	}
	if meta.Tags == nil {
		meta.Tags = []string{}
	}
	if meta.Title == "" {
		meta.Title = firstHeading(body)
	}
	if meta.NoteType == nil && isInitial {
		t := TypeDocument
		meta.NoteType = &t
	}
	return meta
}

// splitFrontMatter returns ok=false when there is no block or it is not valid YAML.
func splitFrontMatter(content string) (frontMatter, string, bool) {
	var fm frontMatter
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(normalized, "---\n") {
		return fm, "", false
	}
	rest := normalized[len("---\n"):]

	end := -1
	offset := 0
	for _, line := range strings.SplitAfter(rest, "\n") {
		trimmed := strings.TrimRight(line, "\n")
		if trimmed == "---" || trimmed == "..." {
			end = offset
			offset += len(line)
			break
		}
		offset += len(line)
	}
	if end < 0 {
		return fm, "", false
	}

	if err := yaml.Unmarshal([]byte(rest[:end]), &fm); err != nil {
		return frontMatter{}, "", false
	}
	return fm, rest[offset:], true
}

func firstHeading(body string) string {
	inFence := false
	for _, raw := range strings.Split(body, "\n") {
		line := strings.TrimSpace(raw)
		if strings.HasPrefix(line, "```") || strings.HasPrefix(line, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimRight(line[2:], "#"))
		}
	}
	return ""
}

func normalizeTags(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	tags := make([]string, 0, len(raw))
	for _, tag := range raw {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}
