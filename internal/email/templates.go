package email

import (
	"context"
	"fmt"
	"time"
)

const (
	TypeRegistration = "registration"
	TypeCancellation = "cancellation"
	TypeGoal         = "goal"
	TypeNotification = "notification"
)

const whenLayout = "Jan 2, 2006 at 15:04 MST"

func (s *Service) SendRegistrationConfirmation(ctx context.Context, to, name, title string, when time.Time) error {
	body := fmt.Sprintf(`Hi %s,

You are registered for "%s".

Time: %s

Cancel at least an hour before the start if your plans change.

- FitPlatform Team`, name, title, when.Format(whenLayout))

	return s.Enqueue(ctx, TypeRegistration, to, name, "Registration confirmed - "+title, body)
}

func (s *Service) SendCancellation(ctx context.Context, to, name, title string, refunded bool) error {
	refund := ""
	if refunded {
		refund = "\nThe session fee has been returned to your wallet.\n"
	}
	body := fmt.Sprintf(`Hi %s,

Your registration for "%s" has been cancelled.
%s
- FitPlatform Team`, name, title, refund)

	return s.Enqueue(ctx, TypeCancellation, to, name, "Registration cancelled - "+title, body)
}

func (s *Service) SendGoalCompleted(ctx context.Context, to, name, goal string) error {
	body := fmt.Sprintf(`Hi %s,

Congratulations! You reached your goal "%s".

- FitPlatform Team`, name, goal)

	return s.Enqueue(ctx, TypeGoal, to, name, "Goal achieved - "+goal, body)
}

// SendNotification mirrors an in-app notification by email.
func (s *Service) SendNotification(ctx context.Context, to, name, title, message string) error {
	body := fmt.Sprintf("Hi %s,\n\n%s\n\n- FitPlatform Team", name, message)
	return s.Enqueue(ctx, TypeNotification, to, name, title, body)
}
