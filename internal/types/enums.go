package types

// GroupType is the selection cardinality a wizard group enforces.
type GroupType string

const (
	GroupTypeSelectAtLeastOne GroupType = "SelectAtLeastOne"
	GroupTypeSelectAtMostOne  GroupType = "SelectAtMostOne"
	GroupTypeSelectExactlyOne GroupType = "SelectExactlyOne"
	GroupTypeSelectAll        GroupType = "SelectAll"
	GroupTypeSelectAny        GroupType = "SelectAny"
)

func (t GroupType) Valid() bool {
	switch t {
	case GroupTypeSelectAtLeastOne, GroupTypeSelectAtMostOne, GroupTypeSelectExactlyOne,
		GroupTypeSelectAll, GroupTypeSelectAny:
		return true
	default:
		return false
	}
}

// OptionType is the requirement level of a single option.
type OptionType string

const (
	OptionTypeRequired      OptionType = "Required"
	OptionTypeOptional      OptionType = "Optional"
	OptionTypeRecommended   OptionType = "Recommended"
	OptionTypeNotUsable     OptionType = "NotUsable"
	OptionTypeCouldBeUsable OptionType = "CouldBeUsable"
)

func (t OptionType) Valid() bool {
	switch t {
	case OptionTypeRequired, OptionTypeOptional, OptionTypeRecommended,
		OptionTypeNotUsable, OptionTypeCouldBeUsable:
		return true
	default:
		return false
	}
}

type Order string

const (
	OrderAscending  Order = "Ascending"
	OrderDescending Order = "Descending"
	OrderExplicit   Order = "Explicit"
)

func (o Order) Valid() bool {
	switch o {
	case OrderAscending, OrderDescending, OrderExplicit:
		return true
	default:
		return false
	}
}

// FileState is the install-time state a conditional rule tests a file for.
type FileState string

const (
	FileStateMissing  FileState = "Missing"
	FileStateInactive FileState = "Inactive"
	FileStateActive   FileState = "Active"
)

func (s FileState) Valid() bool {
	switch s {
	case FileStateMissing, FileStateInactive, FileStateActive:
		return true
	default:
		return false
	}
}

type ConditionOperator string

const (
	ConditionOperatorAnd ConditionOperator = "And"
	ConditionOperatorOr  ConditionOperator = "Or"
)

func (o ConditionOperator) Valid() bool {
	return o == ConditionOperatorAnd || o == ConditionOperatorOr
}

// PipelineStage names a step of the packaging state machine.
type PipelineStage string

const (
	StageInit           PipelineStage = "init"
	StageCleanStaging   PipelineStage = "clean_staging"
	StageLoadTemplate   PipelineStage = "load_template"
	StageStageArtifacts PipelineStage = "stage_artifacts"
	StageStampMetadata  PipelineStage = "stamp_metadata"
	StageValidate       PipelineStage = "validate"
	StageSerialize      PipelineStage = "serialize"
	StageArchive        PipelineStage = "archive"
	StageDone           PipelineStage = "done"
	StageFailed         PipelineStage = "failed"
)
