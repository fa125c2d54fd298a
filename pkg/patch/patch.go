// Package patch encodes revision diffs as diff-match-patch patch text.
package patch

import (
	"fmt"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Make returns the patch text turning from into to.
func Make(from, to string) string {
	dmp := diffmatchpatch.New()
	return dmp.PatchToText(dmp.PatchMake(from, to))
}

// Apply applies one patch text to base. Every hunk must apply.
func Apply(base, patchText string) (string, error) {
	dmp := diffmatchpatch.New()
	patches, err := dmp.PatchFromText(patchText)
	if err != nil {
		return "", fmt.Errorf("parse patch: %w", err)
	}
	result, applied := dmp.PatchApply(patches, base)
	for i, ok := range applied {
		if !ok {
			return "", fmt.Errorf("patch hunk %d did not apply", i)
		}
	}
	return result, nil
}

// ReconstructContent replays patches in order starting from base, the content
// of the nearest self-contained revision.
func ReconstructContent(base string, patches ...string) (string, error) {
	content := base
	for i, p := range patches {
		next, err := Apply(content, p)
		if err != nil {
			return "", fmt.Errorf("patch %d: %w", i, err)
		}
		content = next
	}
	return content, nil
}
