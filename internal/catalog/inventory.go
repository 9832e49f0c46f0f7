package catalog

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Image inventory files arrive as loosely formatted text: sometimes one
// filename per line, sometimes quoted tokens concatenated from a shell
// listing, occasionally both on one line. The loader accepts all of these
// and returns a de-duplicated list preserving first-seen order.

var (
	quotedTokenRE   = regexp.MustCompile(`'(.*?)'`)
	imageLineRE     = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|webp)$`)
	imageEmbeddedRE = regexp.MustCompile(`(?i)[^'"` + "\r\n" + `]+?\.(?:jpg|jpeg|png|webp)`)
)

// LoadFilenames extracts image filenames/paths from a text inventory file.
func LoadFilenames(path string) ([]string, error) {
	data, err := os.ReadFile(path) // #nosec G304 - input path from CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading image inventory: %w", err)
	}
	return ParseFilenames(string(data)), nil
}

// ParseFilenames extracts image filenames from inventory text. Quoted
// tokens are taken first, then line-based and embedded image-like
// substrings.
func ParseFilenames(contents string) []string {
	var combined []string
	seen := make(map[string]bool)

	add := func(item string) {
		s := strings.TrimSpace(item)
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		combined = append(combined, s)
	}

	for _, m := range quotedTokenRE.FindAllStringSubmatch(contents, -1) {
		add(m[1])
	}

	for _, rawLine := range strings.Split(contents, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		// Whole line is a single image path (spaces allowed).
		if imageLineRE.MatchString(line) {
			add(line)
			continue
		}

		// Mixed lines: pull out any image-like substrings.
		for _, m := range imageEmbeddedRE.FindAllString(line, -1) {
			add(m)
		}
	}

	return combined
}

// PoolFilenames merges inventories into one pool, de-duplicated in
// first-seen order. Classification downstream must not trust which list a
// file arrived from; mixed inventories are common.
func PoolFilenames(lists ...[]string) []string {
	var pool []string
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, fn := range list {
			if seen[fn] {
				continue
			}
			seen[fn] = true
			pool = append(pool, fn)
		}
	}
	return pool
}
