package version

import (
	"fmt"

	"github.com/restud-replication-packages/restud/internal/render"
)

// Action is the kind of correspondence being produced.
type Action string

const (
	ActionResponse Action = "response"
	ActionAccept   Action = "accept"
)

// InvalidRoundError reports a round number that cannot select a template.
// Round 0 means "no review yet", which is invalid here: responding or
// accepting presupposes an existing review round.
type InvalidRoundError struct {
	Round int
}

func (e *InvalidRoundError) Error() string {
	return fmt.Sprintf("invalid round %d: template selection requires round >= 1", e.Round)
}

// SelectTemplate picks the template variant for an action and round.
// Round 1 uses the first-contact template; every later round shares the
// follow-up template. There are no per-round templates beyond that.
func SelectTemplate(action Action, round int) (render.TemplateID, error) {
	if round < 1 {
		return "", &InvalidRoundError{Round: round}
	}

	first := round == 1
	switch action {
	case ActionResponse:
		if first {
			return render.TemplateResponse1, nil
		}
		return render.TemplateResponse2, nil
	case ActionAccept:
		if first {
			return render.TemplateAccept1, nil
		}
		return render.TemplateAccept2, nil
	default:
		return "", fmt.Errorf("unknown action: %s", action)
	}
}
