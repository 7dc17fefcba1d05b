package fwfconv

// DefaultMaxDepth bounds nesting of specification documents.
const DefaultMaxDepth = 32

// DuplicateKeyPolicy selects how repeated JSON object keys are handled.
type DuplicateKeyPolicy int

const (
	// DuplicateReject fails decoding with a duplicate_key issue.
	DuplicateReject DuplicateKeyPolicy = iota
	// DuplicateWarn keeps the last value and reports the issue to
	// LoadOpt.OnWarning.
	DuplicateWarn
	// DuplicateAllow keeps the last value silently.
	DuplicateAllow
)

// LoadOpt bundles options for decoding and validating specification
// documents. The zero value rejects duplicate keys, bounds nesting by
// DefaultMaxDepth and collects every issue.
type LoadOpt struct {
	DuplicateKeys DuplicateKeyPolicy
	// OnWarning receives non-fatal issues such as duplicate keys under
	// DuplicateWarn.
	OnWarning func(Issue)
	// MaxDepth overrides DefaultMaxDepth when > 0.
	MaxDepth int
	// FailFast stops validation at the first issue.
	FailFast bool
}

func (o LoadOpt) maxDepth() int {
	if o.MaxDepth > 0 {
		return o.MaxDepth
	}
	return DefaultMaxDepth
}

func resolveOpt(opts []LoadOpt) LoadOpt {
	if len(opts) == 0 {
		return LoadOpt{}
	}
	return opts[0]
}
