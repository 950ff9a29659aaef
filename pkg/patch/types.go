package patch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Mode selects which state machine a request runs.
type Mode string

const (
	ModeUnspecified Mode = ""
	ModeReplace     Mode = "replace"
	ModeRestore     Mode = "restore"
)

// Step names a point in a run; it is carried on errors and progress events.
type Step string

const (
	StepEndpoint      Step = "endpoint"
	StepValidate      Step = "validate"
	StepConnect       Step = "connect"
	StepResolve       Step = "resolve-container"
	StepInspect       Step = "inspect-container"
	StepStop          Step = "stop-container"
	StepBackupTag     Step = "tag-backup"
	StepExpandInputs  Step = "expand-inputs"
	StepBuildArchive  Step = "build-archive"
	StepInject        Step = "inject-archive"
	StepCommit        Step = "commit-image"
	StepRestart       Step = "restart-container"
	StepFindBackup    Step = "find-backup"
	StepRemove        Step = "remove-container"
	StepCreate        Step = "create-container"
	StepStartRestored Step = "start-restored"
)

// ExecutionRequest holds the parameters of one patch or restore run.
// It is not modified once a run starts.
type ExecutionRequest struct {
	// Name is a label for logs; it is never sent to the runtime.
	Name string
	// Inputs are host files or directories; directories expand recursively.
	Inputs      []string
	Destination string `validate:"required_with=BackupTag"`
	// Target is a container name or ID prefix.
	Target string `validate:"required"`
	// Endpoint is the runtime address; empty means the local engine.
	Endpoint   string
	BackupTag  string `validate:"excluded_with=RestoreTag"`
	RestoreTag string
}

// Mode derives the run mode from the tag selectors.
func (r ExecutionRequest) Mode() Mode {
	switch {
	case r.BackupTag != "" && r.RestoreTag == "":
		return ModeReplace
	case r.RestoreTag != "" && r.BackupTag == "":
		return ModeRestore
	default:
		return ModeUnspecified
	}
}

func (r ExecutionRequest) String() string {
	if r.Name != "" {
		return fmt.Sprintf("%s (%s)", r.Name, r.Target)
	}
	return r.Target
}

var validate = validator.New()

// Validate checks the fields required by the selected mode. It never
// touches the runtime.
func (r ExecutionRequest) Validate() error {
	if r.BackupTag == "" && r.RestoreTag == "" {
		return newError(KindValidation, StepValidate, r.Target, errors.New("neither backup tag nor restore tag is set"))
	}
	var msgs []string
	if r.BackupTag != "" && len(r.Inputs) == 0 {
		msgs = append(msgs, "inputs is required")
	}
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return newError(KindValidation, StepValidate, r.Target, err)
		}
		for _, fe := range verrs {
			switch fe.Tag() {
			case "excluded_with":
				msgs = append(msgs, "backup tag and restore tag are mutually exclusive")
			default:
				msgs = append(msgs, strings.ToLower(fe.Field())+" is required")
			}
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	return newError(KindValidation, StepValidate, r.Target, errors.New(strings.Join(msgs, "; ")))
}

// ParseInputs splits a comma-delimited input list, trimming blanks.
// It returns nil when nothing is left.
func ParseInputs(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ImageReference is a repository and tag pair.
type ImageReference struct {
	Repository string
	Tag        string
}

// ParseImageReference splits image on its first colon. An image without
// a colon is tagged "latest".
func ParseImageReference(image string) ImageReference {
	repo, tag, ok := strings.Cut(image, ":")
	if !ok || tag == "" {
		return ImageReference{Repository: repo, Tag: "latest"}
	}
	return ImageReference{Repository: repo, Tag: tag}
}

// WithTag returns "repository:tag".
func (r ImageReference) WithTag(tag string) string {
	return r.Repository + ":" + tag
}

func (r ImageReference) String() string {
	return r.WithTag(r.Tag)
}
