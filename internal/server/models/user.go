// Package models holds the persisted entities of the Inkly server.
package models

import (
	"fmt"
	"time"

	"github.com/inkly/inkly/internal/common"
)

// OnboardingStep is a state of the onboarding flow.
type OnboardingStep string

const (
	StepUsername      OnboardingStep = "username"
	StepProfile       OnboardingStep = "profile"
	StepNotifications OnboardingStep = "notifications"
	StepCommunity     OnboardingStep = "community"
	StepComplete      OnboardingStep = "complete"
)

// OnboardingSteps lists the steps in flow order.
var OnboardingSteps = []OnboardingStep{StepUsername, StepProfile, StepNotifications, StepCommunity, StepComplete}

// Valid reports whether s is a known step.
func (s OnboardingStep) Valid() bool {
	return s.index() >= 0
}

// Next returns the step that follows s. Complete has no successor.
func (s OnboardingStep) Next() (OnboardingStep, bool) {
	i := s.index()
	if i < 0 || i == len(OnboardingSteps)-1 {
		return "", false
	}
	return OnboardingSteps[i+1], true
}

func (s OnboardingStep) index() int {
	for i, v := range OnboardingSteps {
		if v == s {
			return i
		}
	}
	return -1
}

// User is an account. Username is nil until onboarding assigns one.
//
// OnboardingCompleted and OnboardingStep move together: the step is
// StepComplete exactly when the flag is set. Change them only through
// SetOnboardingStep.
type User struct {
	ID                  string         `json:"id"`
	Email               string         `json:"email"`
	Name                string         `json:"name"`
	Username            *string        `json:"username"`
	Bio                 string         `json:"bio"`
	Location            string         `json:"location"`
	Avatar              string         `json:"avatar"`
	OnboardingCompleted bool           `json:"onboardingCompleted"`
	OnboardingStep      OnboardingStep `json:"onboardingStep"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`
}

// NewUser returns an account at the start of onboarding.
func NewUser(email, name string) *User {
	return &User{
		Email:          email,
		Name:           name,
		OnboardingStep: StepUsername,
	}
}

// SetOnboardingStep moves the account to step and keeps the completed flag
// in lockstep with it.
func (u *User) SetOnboardingStep(step OnboardingStep) error {
	if !step.Valid() {
		return fmt.Errorf("%w: unknown step %q", common.ErrInvalidTransition, step)
	}
	u.OnboardingStep = step
	u.OnboardingCompleted = step == StepComplete
	return nil
}

// Consistent reports whether the completed flag agrees with the step.
func (u *User) Consistent() bool {
	return u.OnboardingCompleted == (u.OnboardingStep == StepComplete)
}

// UsernameOrEmpty dereferences Username.
func (u *User) UsernameOrEmpty() string {
	if u.Username == nil {
		return ""
	}
	return *u.Username
}
