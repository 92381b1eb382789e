package model

// TrustFlag is a closed vocabulary of signals attached to a review at
// submission time. Blocking flags force the review into the held queue;
// advisory flags are recorded for moderators only.
type TrustFlag string

const (
	FlagSpamTitle            TrustFlag = "SPAM_TITLE"
	FlagSpamComment          TrustFlag = "SPAM_COMMENT"
	FlagInappropriateContent TrustFlag = "INAPPROPRIATE_CONTENT"
	FlagExcessiveCaps        TrustFlag = "EXCESSIVE_CAPS"
	FlagRepetitiveContent    TrustFlag = "REPETITIVE_CONTENT"
	FlagSuspiciousRating     TrustFlag = "SUSPICIOUS_RATING"
	FlagNewAccount           TrustFlag = "NEW_ACCOUNT"
)

func (f TrustFlag) Blocking() bool {
	switch f {
	case FlagSpamTitle, FlagSpamComment, FlagInappropriateContent,
		FlagSuspiciousRating, FlagNewAccount:
		return true
	}
	return false
}

// TrustFlagSet preserves insertion order and ignores duplicates.
type TrustFlagSet struct {
	flags []TrustFlag
}

func (s *TrustFlagSet) Add(f TrustFlag) {
	for _, x := range s.flags {
		if x == f {
			return
		}
	}
	s.flags = append(s.flags, f)
}

func (s *TrustFlagSet) Contains(f TrustFlag) bool {
	for _, x := range s.flags {
		if x == f {
			return true
		}
	}
	return false
}

func (s *TrustFlagSet) Len() int { return len(s.flags) }

func (s *TrustFlagSet) Flags() []TrustFlag {
	out := make([]TrustFlag, len(s.flags))
	copy(out, s.flags)
	return out
}

// RequiresModeration reports whether any blocking flag is present.
func (s *TrustFlagSet) RequiresModeration() bool {
	for _, f := range s.flags {
		if f.Blocking() {
			return true
		}
	}
	return false
}
