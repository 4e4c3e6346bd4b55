// Package extractor turns raw HTML into bounded extraction records and
// acquires that HTML over HTTP.
package extractor

// Policy holds the extraction heuristics. The defaults mirror the values the
// curator has always used; they are policy, not algorithmic necessity.
type Policy struct {
	// BlockSelector picks the paragraph-like text blocks.
	BlockSelector string
	// MinParagraphChars is exclusive: a block must be strictly longer.
	MinParagraphChars int
	// BlockSeparator is appended after every qualifying block.
	BlockSeparator string
	// MaxBodyChars is a hard cut, not word-boundary aware.
	MaxBodyChars int
	// MaxImages caps the image list.
	MaxImages int
	// ExcludedImageSubstrings are matched case-sensitively anywhere in the URL.
	ExcludedImageSubstrings []string
}

const (
	DefaultMinParagraphChars = 50
	DefaultMaxBodyChars      = 2000
	DefaultMaxImages         = 10
)

// DefaultPolicy returns a fresh copy of the standard heuristics.
func DefaultPolicy() Policy {
	return Policy{
		BlockSelector:           "p",
		MinParagraphChars:       DefaultMinParagraphChars,
		BlockSeparator:          "\n\n",
		MaxBodyChars:            DefaultMaxBodyChars,
		MaxImages:               DefaultMaxImages,
		ExcludedImageSubstrings: []string{"logo", "icon"},
	}
}

func (p Policy) withDefaults() Policy {
	def := DefaultPolicy()
	if p.BlockSelector == "" {
		p.BlockSelector = def.BlockSelector
	}
	if p.MinParagraphChars < 0 {
		p.MinParagraphChars = def.MinParagraphChars
	}
	if p.MaxBodyChars <= 0 {
		p.MaxBodyChars = def.MaxBodyChars
	}
	if p.MaxImages <= 0 {
		p.MaxImages = def.MaxImages
	}
	return p
}
