package brand

import "math"

const registrationSteps = 6

// Registration is the onboarding state of a brand owner's account.
type Registration struct {
	EmailVerified         bool   `json:"emailVerified"`
	BrandRegistered       bool   `json:"brandRegistered"`
	BrandStatus           Status `json:"brandStatus,omitempty"`
	InterviewSlotSelected bool   `json:"interviewSlotSelected"`
	RegistrationCompleted bool   `json:"registrationCompleted"`
}

// CompletionPercentage counts the account itself as the first of six steps, so the result is
// never below 17 and only reaches 100 when every step is done.
func CompletionPercentage(r Registration) int {
	done := 1
	if r.EmailVerified {
		done++
	}
	if r.BrandRegistered {
		done++
	}
	if r.BrandStatus == StatusPreApprovedForMeeting || r.BrandStatus == StatusActive {
		done++
	}
	if r.InterviewSlotSelected {
		done++
	}
	if r.RegistrationCompleted {
		done++
	}
	return int(math.Round(float64(done) / registrationSteps * 100))
}
