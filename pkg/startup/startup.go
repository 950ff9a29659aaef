// Package startup decides what an invocation does from its options.
package startup

import (
	"github.com/ddolyniuk1/WispStudio.Docker.ContainerPatcher/pkg/patch"
	"github.com/ddolyniuk1/WispStudio.Docker.ContainerPatcher/pkg/profile"
)

// Command is the action selected for an invocation.
type Command int

const (
	RunPatch Command = iota
	ListProfiles
	LoadProfiles
	SaveProfile
	Invalid
)

func (c Command) String() string {
	switch c {
	case RunPatch:
		return "run-patch"
	case ListProfiles:
		return "list-profiles"
	case LoadProfiles:
		return "load-profiles"
	case SaveProfile:
		return "save-profile"
	default:
		return "invalid"
	}
}

// Options are the raw flags of one invocation.
type Options struct {
	Request      patch.ExecutionRequest
	ListProfiles bool
	SaveProfile  string
	LoadProfiles []string
}

// Decision is the outcome of Classify. Err explains an Invalid decision.
type Decision struct {
	Command Command
	Err     error
}

// Classify applies the decision table, first match wins:
//
//	list-profiles set           -> ListProfiles
//	save-profile set            -> SaveProfile (name must be valid)
//	load-profiles set           -> LoadProfiles
//	request fails validation    -> Invalid
//	otherwise                   -> RunPatch
func Classify(o Options) Decision {
	switch {
	case o.ListProfiles:
		return Decision{Command: ListProfiles}
	case o.SaveProfile != "":
		if err := profile.ValidateName(o.SaveProfile); err != nil {
			return Decision{Command: Invalid, Err: err}
		}
		return Decision{Command: SaveProfile}
	case len(o.LoadProfiles) > 0:
		return Decision{Command: LoadProfiles}
	}
	if err := o.Request.Validate(); err != nil {
		return Decision{Command: Invalid, Err: err}
	}
	return Decision{Command: RunPatch}
}
