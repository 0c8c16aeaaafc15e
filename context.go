package tablex

// ContentHierarchy is one heading level on the path from the top of a
// document to a table. Level 0 stands for the document start and carries no
// heading.
type ContentHierarchy struct {
	Level         int         `json:"level"`
	Heading       *RichText   `json:"heading"`
	ContentBefore []*RichText `json:"content_before"`
	ContentAfter  []*RichText `json:"content_after"`
}

func cloneContext(levels []ContentHierarchy) []ContentHierarchy {
	if levels == nil {
		return nil
	}
	out := make([]ContentHierarchy, len(levels))
	for i, l := range levels {
		out[i] = ContentHierarchy{
			Level:         l.Level,
			ContentBefore: cloneSegments(l.ContentBefore),
			ContentAfter:  cloneSegments(l.ContentAfter),
		}
		if l.Heading != nil {
			out[i].Heading = l.Heading.Clone()
		}
	}
	return out
}

func cloneSegments(segments []*RichText) []*RichText {
	if segments == nil {
		return nil
	}
	out := make([]*RichText, len(segments))
	for i, rt := range segments {
		if rt != nil {
			out[i] = rt.Clone()
		}
	}
	return out
}

// ContextExtractor builds the heading hierarchy leading to an element.
// The element type is left to the implementation.
type ContextExtractor[N any] interface {
	ExtractContext(target N) ([]ContentHierarchy, error)
}
