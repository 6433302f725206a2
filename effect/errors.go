package effect

import "fmt"

// UnknownTagError reports a tag with no registry entry. Authoring-data bug;
// the content loader must reject the whole definition.
type UnknownTagError struct {
	Tag string
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("effect: unknown tag %q", e.Tag)
}

// ConflictingGeometryError reports more than one geometry tag on a single
// effect. There is no implicit precedence between geometry tags.
type ConflictingGeometryError struct {
	Tags []string
}

func (e *ConflictingGeometryError) Error() string {
	return fmt.Sprintf("effect: conflicting geometry tags %v", e.Tags)
}

// TagConflictError reports a mutually-incompatible tag pair.
type TagConflictError struct {
	First  string
	Second string
}

func (e *TagConflictError) Error() string {
	return fmt.Sprintf("effect: tags %q and %q are incompatible", e.First, e.Second)
}

// ParamRangeError reports a numeric param outside its sane range.
type ParamRangeError struct {
	Param  string
	Value  float64
	Reason string
}

func (e *ParamRangeError) Error() string {
	return fmt.Sprintf("effect: param %q=%v out of range: %s", e.Param, e.Value, e.Reason)
}

// InvalidTargetError reports a target reference that no longer resolves to a
// live combatant. Recovered locally by the executor; never a hard failure.
type InvalidTargetError struct {
	ID string
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("effect: target %q is no longer valid", e.ID)
}
