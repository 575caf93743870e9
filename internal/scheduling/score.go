// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package scheduling

import (
	"fmt"
	"strings"
	"time"

	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain/models"
)

// Assumption texts attached to suggestions built from vague requests.
const (
	AssumptionNoTime         = "No specific time mentioned, using 9 AM - 9 PM window"
	AssumptionNoParticipants = "No specific participants mentioned, including all group members"
	AssumptionNoLocation     = "No location specified"
)

const (
	vagueTimePenalty         = 0.1
	vagueParticipantsPenalty = 0.1
	unusualHourPenalty       = 0.2
)

func hasClockBound(c models.SchedulingConstraints) bool {
	return c.TimeConstraints.StartTime != "" || c.TimeConstraints.EndTime != ""
}

// Confidence scores how well a slot matches the intent of the constraints.
// The result is always within [0, 1].
func Confidence(slot Interval, c models.SchedulingConstraints, loc *time.Location) float64 {
	confidence := 1.0

	if !hasClockBound(c) {
		confidence -= vagueTimePenalty
	}
	if len(c.Participants) == 0 {
		confidence -= vagueParticipantsPenalty
	}
	if hour := slot.Start.In(loc).Hour(); hour < 8 || hour > 20 {
		confidence -= unusualHourPenalty
	}

	return min(1, max(0, confidence))
}

// Assumptions lists what was assumed for every dimension the request left open.
func Assumptions(c models.SchedulingConstraints) []string {
	assumptions := []string{}
	if !hasClockBound(c) {
		assumptions = append(assumptions, AssumptionNoTime)
	}
	if len(c.Participants) == 0 {
		assumptions = append(assumptions, AssumptionNoParticipants)
	}
	if strings.TrimSpace(c.Location) == "" {
		assumptions = append(assumptions, AssumptionNoLocation)
	}
	return assumptions
}

// Summary renders a one sentence description of the meeting, for example
// "1h 0m session with Alice, Bob at the library on Tuesday at 2:00 PM".
func Summary(slot Interval, c models.SchedulingConstraints, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%dh %dm session", c.Duration/60, c.Duration%60)
	if len(c.Participants) > 0 {
		b.WriteString(" with " + strings.Join(c.Participants, ", "))
	}
	if where := strings.TrimSpace(c.Location); where != "" {
		b.WriteString(" at " + where)
	}
	start := slot.Start.In(loc)
	fmt.Fprintf(&b, " on %s at %s", start.Format("Monday"), start.Format("3:04 PM"))
	return b.String()
}
