package services

// CheckoutStatus tracks a single checkout submission through its
// strictly sequential steps.
type CheckoutStatus string

const (
	CheckoutStatusCollectingInput    CheckoutStatus = "collecting-input"
	CheckoutStatusSubmittingDraft    CheckoutStatus = "submitting-draft"
	CheckoutStatusRequestingSession  CheckoutStatus = "requesting-payment-session"
	CheckoutStatusRedirecting        CheckoutStatus = "redirecting"
	CheckoutStatusDraftFailed        CheckoutStatus = "draft-failed"
	CheckoutStatusSessionFailed      CheckoutStatus = "session-failed"
)

var checkoutTransitions = map[CheckoutStatus][]CheckoutStatus{
	CheckoutStatusCollectingInput:   {CheckoutStatusSubmittingDraft},
	CheckoutStatusSubmittingDraft:   {CheckoutStatusRequestingSession, CheckoutStatusDraftFailed},
	CheckoutStatusRequestingSession: {CheckoutStatusRedirecting, CheckoutStatusSessionFailed},
}

func (s CheckoutStatus) IsTerminal() bool {
	return s == CheckoutStatusRedirecting ||
		s == CheckoutStatusDraftFailed ||
		s == CheckoutStatusSessionFailed
}

func (s CheckoutStatus) CanTransitionTo(next CheckoutStatus) bool {
	for _, allowed := range checkoutTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// String representation (for logging)
func (s CheckoutStatus) String() string {
	return string(s)
}
