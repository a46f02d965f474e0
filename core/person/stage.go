package person

import "github.com/volatiletech/null/v8"

// Stage is the derived pipeline classification of a person. It is computed
// from the milestone fields on every run and never stored.
type Stage int

const (
	// StageUnknown: no milestone signal; the person is not (yet) in scope.
	StageUnknown Stage = iota
	// StageInPipeline: some milestone set but not baptized yet.
	StageInPipeline
	// StageBaptized: baptism date set; wins over all other milestones.
	StageBaptized
	// StageOffboarded: offboarding date set; the person left the process and
	// is excluded from reconciliation regardless of other fields.
	StageOffboarded
)

func (s Stage) String() string {
	switch s {
	case StageInPipeline:
		return "in-pipeline"
	case StageBaptized:
		return "baptized"
	case StageOffboarded:
		return "offboarded"
	}
	return "unknown"
}

// present reports whether a milestone carries a value. A date string is never
// boolean-coerced beyond non-emptiness.
func present(v null.String) bool {
	return v.Valid && v.String != ""
}

func (f Fields) Offboarded() bool {
	return present(f.OffboardingAt)
}

// DeriveStage computes the pipeline stage from the milestone fields.
func DeriveStage(f Fields) Stage {
	switch {
	case present(f.OffboardingAt):
		return StageOffboarded
	case present(f.BaptizedAt):
		return StageBaptized
	case present(f.SeminarAttendedAt), present(f.CertificateIssuedAt),
		present(f.IntegratedAt), present(f.StatusFlag):
		return StageInPipeline
	}
	return StageUnknown
}

// Plan is the set of membership mutations required to converge one person's
// group membership with the derived stage. AddBaptized is executed before
// RemoveInterest so an interrupted run leaves a baptized person in at least
// one group.
type Plan struct {
	AddBaptized    bool
	RemoveInterest bool
	AddInterest    bool
}

func (p Plan) Empty() bool {
	return p == Plan{}
}

// PlanMutations derives the required actions from the stage and the current
// membership baseline. Newly discovered candidates join the interest group
// only when in neither group; baptized persons always end up in the baptized
// group and out of the interest group.
func PlanMutations(stage Stage, inInterest, inBaptized bool) Plan {
	switch stage {
	case StageBaptized:
		return Plan{
			AddBaptized:    !inBaptized,
			RemoveInterest: inInterest,
		}
	case StageInPipeline:
		return Plan{AddInterest: !inInterest && !inBaptized}
	}
	return Plan{}
}
