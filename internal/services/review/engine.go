package review

import (
	"context"

	"github.com/ananyev/craftmarket/internal/lib/anomaly"
	"github.com/ananyev/craftmarket/internal/lib/contentfilter"
	"github.com/ananyev/craftmarket/internal/lib/ratelimit"
	"github.com/ananyev/craftmarket/internal/model"
	"github.com/pkg/errors"
)

var ErrRateLimited = errors.New("submission quota exceeded")

// EvalContext carries the author-side inputs the engine scores against.
// Recipient existence, self-review and duplicate checks belong to the
// lifecycle service; the engine stays a scoring function.
type EvalContext struct {
	AuthorID       string
	AccountAgeDays float64
	History        []int
}

type Decision struct {
	Publish bool
	Flags   model.TrustFlagSet
}

type Engine struct {
	limiter ratelimit.Limiter
}

func NewEngine(limiter ratelimit.Limiter) *Engine {
	return &Engine{limiter: limiter}
}

// Evaluate consults the rate limiter first: a quota rejection short-circuits
// before any flag is computed. Limiter failures propagate instead of
// defaulting to either publish state.
func (e *Engine) Evaluate(ctx context.Context, dto model.SubmitReviewDTO, ec EvalContext) (*Decision, error) {
	ok, err := e.limiter.Allow(ctx, ec.AuthorID)
	if err != nil {
		return nil, errors.Wrap(err, "rate limiter")
	}
	if !ok {
		return nil, ErrRateLimited
	}

	flags := ComputeFlags(dto, ec)

	return &Decision{
		Publish: !flags.RequiresModeration(),
		Flags:   flags,
	}, nil
}

// ComputeFlags assembles the trust flags for a submission. Each rule is
// independent; only the resulting set matters, not evaluation order.
func ComputeFlags(dto model.SubmitReviewDTO, ec EvalContext) model.TrustFlagSet {
	var flags model.TrustFlagSet

	if dto.Title != "" && !contentfilter.Check(dto.Title).IsValid {
		flags.Add(model.FlagSpamTitle)
	}
	if dto.Comment != "" && !contentfilter.Check(dto.Comment).IsValid {
		flags.Add(model.FlagSpamComment)
	}
	if contentfilter.IsInappropriate(dto.Title) || contentfilter.IsInappropriate(dto.Comment) {
		flags.Add(model.FlagInappropriateContent)
	}
	if contentfilter.IsShouting(dto.Title) || contentfilter.IsShouting(dto.Comment) {
		flags.Add(model.FlagExcessiveCaps)
	}
	if contentfilter.IsRepetitive(dto.Title) || contentfilter.IsRepetitive(dto.Comment) {
		flags.Add(model.FlagRepetitiveContent)
	}
	if anomaly.IsSuspicious(dto.Rating, ec.History) {
		flags.Add(model.FlagSuspiciousRating)
	}
	if ec.AccountAgeDays < 1 {
		flags.Add(model.FlagNewAccount)
	}

	return flags
}
