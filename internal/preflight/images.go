package preflight

import (
	"strings"
)

// ImageClassification buckets a product's image pool by filename pattern.
// Classification never trusts which input list a file arrived from; mixed
// inventories are common, so only the filename decides.
type ImageClassification struct {
	Ghosts     []string
	Heroes     []string
	Models     []string
	Editorials []string
}

// Total returns the size of the classified pool.
func (c ImageClassification) Total() int {
	return len(c.Ghosts) + len(c.Heroes) + len(c.Models) + len(c.Editorials)
}

// NonGhost returns the count of images other than ghosts.
func (c ImageClassification) NonGhost() int {
	return len(c.Heroes) + len(c.Models) + len(c.Editorials)
}

// FindImagesForProduct returns the pool entries containing the product ID.
func FindImagesForProduct(productID string, pool []string) []string {
	var out []string
	for _, fn := range pool {
		if strings.Contains(fn, productID) {
			out = append(out, fn)
		}
	}
	return out
}

// ClassifyImages classifies filenames by substring rules:
// "ghost" -> ghost, "hero_image" -> hero, "model_image_" -> model,
// everything else -> editorial. A filename matching ghost wins over the
// other buckets.
func ClassifyImages(files []string) ImageClassification {
	var c ImageClassification
	for _, fn := range files {
		lo := strings.ToLower(fn)
		switch {
		case strings.Contains(lo, "ghost"):
			c.Ghosts = append(c.Ghosts, fn)
		case strings.Contains(lo, "hero_image"):
			c.Heroes = append(c.Heroes, fn)
		case strings.Contains(lo, "model_image_"):
			c.Models = append(c.Models, fn)
		default:
			c.Editorials = append(c.Editorials, fn)
		}
	}
	return c
}

// PlanPositions simulates the final image layout: ghost at position 1,
// then every non-ghost image in sorted order starting at 2.
func PlanPositions(nonGhostCount int) []int {
	plan := make([]int, 0, nonGhostCount+1)
	plan = append(plan, 1)
	for i := 0; i < nonGhostCount; i++ {
		plan = append(plan, i+2)
	}
	return plan
}

// ValidPositionPlan reports whether a position sequence is usable: it must
// be non-empty, start at 1, and be strictly contiguous with no duplicates.
func ValidPositionPlan(plan []int) bool {
	if len(plan) == 0 {
		return false
	}
	if plan[0] != 1 {
		return false
	}
	for i := 1; i < len(plan); i++ {
		if plan[i] != plan[i-1]+1 {
			return false
		}
	}
	return true
}
