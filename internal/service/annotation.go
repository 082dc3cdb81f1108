package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/supportops/ticketsync/internal/domain"
	"github.com/supportops/ticketsync/internal/repository"
)

const (
	annotationMarker  = "Support Tickets (Last updated:"
	annotationSection = "Support Tickets"
	annotationAnchor  = "System Information"
	annotationSpacer  = "\n"
	// AnnotationTimeLayout renders like "Jan 2, 2006, 03:04:05 PM MST".
	AnnotationTimeLayout = "Jan 2, 2006, 03:04:05 PM MST"
)

// AnnotationText is the marker paragraph written on a customer page.
func AnnotationText(at time.Time, count int) string {
	return fmt.Sprintf("📅 Support Tickets (Last updated: %s - %d active tickets)", at.Format(AnnotationTimeLayout), count)
}

// annotationPlan says where the marker goes. UpdateID wins over AfterID;
// both empty means append at the end of the page.
type annotationPlan struct {
	UpdateID string
	AfterID  string
}

// planAnnotation locates an existing marker paragraph, or else the last
// block of the "System Information" section: the block before the next
// heading_1/heading_2 or "Support Tickets" paragraph, or the page's last
// block when the section runs to the end.
func planAnnotation(blocks []domain.Block) annotationPlan {
	var plan annotationPlan
	for i, block := range blocks {
		if block.Type == domain.BlockParagraph && strings.Contains(block.Text, annotationMarker) {
			return annotationPlan{UpdateID: block.ID}
		}
		if block.Type != domain.BlockHeading1 || !strings.Contains(block.Text, annotationAnchor) {
			continue
		}
		for j := i + 1; j < len(blocks); j++ {
			next := blocks[j]
			if next.Type == domain.BlockHeading1 || next.Type == domain.BlockHeading2 ||
				(next.Type == domain.BlockParagraph && strings.Contains(next.Text, annotationSection)) {
				plan.AfterID = blocks[j-1].ID
				break
			}
		}
		if plan.AfterID == "" && i < len(blocks)-1 {
			plan.AfterID = blocks[len(blocks)-1].ID
		}
	}
	return plan
}

// Annotator writes the sync marker onto customer pages.
type Annotator struct {
	blocks repository.BlockRepository
}

// NewAnnotator builds an annotator over page content.
func NewAnnotator(blocks repository.BlockRepository) *Annotator {
	return &Annotator{blocks: blocks}
}

// Annotate updates the marker in place when present; otherwise inserts a
// spacer and the marker after the System Information section, or appends
// the marker at the end of the page.
func (a *Annotator) Annotate(ctx context.Context, pageID string, at time.Time, count int) error {
	blocks, err := a.blocks.ListChildren(ctx, pageID)
	if err != nil {
		return fmt.Errorf("list page blocks: %w", err)
	}
	text := AnnotationText(at, count)
	plan := planAnnotation(blocks)
	switch {
	case plan.UpdateID != "":
		err = a.blocks.UpdateParagraph(ctx, plan.UpdateID, text)
	case plan.AfterID != "":
		err = a.blocks.AppendParagraphs(ctx, pageID, plan.AfterID, annotationSpacer, text)
	default:
		err = a.blocks.AppendParagraphs(ctx, pageID, "", text)
	}
	if err != nil {
		return fmt.Errorf("write annotation: %w", err)
	}
	return nil
}
