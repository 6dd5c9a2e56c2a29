// Package workflow holds the issue step machine: which steps are complete and where an issue may move next.
// All functions are pure; completion is derived from a Snapshot of counts and never stored.
//
// Package workflow 期刊步骤状态机：根据数据快照推导完成状态与允许的跳转，不做持久化
package workflow

import (
	"encoding/json"
	"fmt"
)

// Step 工作流步骤
type Step string

const (
	StepLinks    Step = "links"
	StepSelect   Step = "select"
	StepGenerate Step = "generate"
	StepEvents   Step = "events"
	StepShorten  Step = "shorten"
	StepExport   Step = "export"
	StepImage    Step = "image"
)

// FinalLinkCount is the number of links that make it into an issue
// FinalLinkCount 每期最终入选的链接数量
const FinalLinkCount = 3

// Steps in workflow order
var Steps = []Step{StepLinks, StepSelect, StepGenerate, StepEvents, StepShorten, StepExport, StepImage}

var stepLabels = map[Step]string{
	StepLinks:    "Add Links",
	StepSelect:   "Select 3",
	StepGenerate: "Generate Draft",
	StepEvents:   "Events",
	StepShorten:  "Shorten Links",
	StepExport:   "Export",
	StepImage:    "Image",
}

// ParseStep 解析步骤字符串
func ParseStep(s string) (Step, error) {
	step := Step(s)
	if step.Index() < 0 {
		return "", fmt.Errorf("unknown workflow step %q", s)
	}
	return step, nil
}

// Index returns the position in Steps, -1 when unknown
func (s Step) Index() int {
	for i, v := range Steps {
		if v == s {
			return i
		}
	}
	return -1
}

func (s Step) Valid() bool {
	return s.Index() >= 0
}

func (s Step) Label() string {
	return stepLabels[s]
}

func (s Step) String() string {
	return string(s)
}

// Next 返回下一个步骤，最后一步返回 false
func (s Step) Next() (Step, bool) {
	i := s.Index()
	if i < 0 || i+1 >= len(Steps) {
		return "", false
	}
	return Steps[i+1], true
}

// Snapshot is the set of counts the step rules are evaluated against
// Snapshot 计算步骤规则所需的计数快照
type Snapshot struct {
	Links             int
	Selected          int
	SelectedShortened int
	MainSections      int
	IncludedEvents    int
	Exports           int
	Images            int
}

// StepSet 步骤集合
type StepSet map[Step]struct{}

// NewStepSet 构造步骤集合
func NewStepSet(steps ...Step) StepSet {
	set := make(StepSet, len(steps))
	for _, s := range steps {
		set[s] = struct{}{}
	}
	return set
}

func (set StepSet) Has(s Step) bool {
	_, ok := set[s]
	return ok
}

func (set StepSet) add(s Step) {
	set[s] = struct{}{}
}

// Slice returns the members in workflow order
// Slice 按工作流顺序返回集合成员
func (set StepSet) Slice() []Step {
	out := make([]Step, 0, len(set))
	for _, s := range Steps {
		if set.Has(s) {
			out = append(out, s)
		}
	}
	return out
}

func (set StepSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(set.Slice())
}

// CompletedSteps derives which steps have their data in place
// CompletedSteps 根据快照推导已完成的步骤
func CompletedSteps(s Snapshot) StepSet {
	set := NewStepSet()
	if s.Links > 0 {
		set.add(StepLinks)
	}
	if s.Selected > 0 {
		set.add(StepSelect)
	}
	if s.MainSections > 0 {
		set.add(StepGenerate)
	}
	if s.IncludedEvents > 0 {
		set.add(StepEvents)
	}
	if s.Selected > 0 && s.SelectedShortened == s.Selected {
		set.add(StepShorten)
	}
	if s.Exports > 0 {
		set.add(StepExport)
	}
	if s.Images > 0 {
		set.add(StepImage)
	}
	return set
}

// UseAllLinks reports whether every link goes through without a manual selection
// UseAllLinks 链接总数不超过 3 时全部入选
func UseAllLinks(s Snapshot) bool {
	return s.Links > 0 && s.Links <= FinalLinkCount
}

// CanLeave reports whether the gate for moving forward out of step is open
// CanLeave 判断能否从当前步骤前进
func CanLeave(step Step, s Snapshot) bool {
	switch step {
	case StepLinks:
		return s.Links >= FinalLinkCount
	case StepSelect:
		return s.Selected == FinalLinkCount || UseAllLinks(s)
	case StepGenerate:
		return s.MainSections > 0
	case StepEvents:
		return s.IncludedEvents > 0
	case StepShorten, StepExport:
		return true
	}
	return false
}

// AllowedNext returns every step before current plus the gated forward step.
// From links with exactly three links the select step is skipped and generate is reachable.
//
// AllowedNext 返回当前步骤之前的所有步骤，以及满足门槛时的下一步
func AllowedNext(current Step, s Snapshot) StepSet {
	set := NewStepSet()
	idx := current.Index()
	if idx < 0 {
		set.add(StepLinks)
		return set
	}
	for _, step := range Steps[:idx] {
		set.add(step)
	}

	next, ok := current.Next()
	if !ok || !CanLeave(current, s) {
		return set
	}
	set.add(next)

	if current == StepLinks && s.Links == FinalLinkCount {
		set.add(StepGenerate)
	}
	return set
}

// CanMove reports whether moving from current to target is permitted; staying put is always allowed
// CanMove 判断能否从 current 跳到 target，原地不动总是允许
func CanMove(current, target Step, s Snapshot) bool {
	if current == target {
		return target.Valid()
	}
	return AllowedNext(current, s).Has(target)
}

// AdvanceTarget picks where "continue" takes an issue from current.
// The bool is false when the gate is closed or current is the last step.
//
// AdvanceTarget 计算"继续"操作的目标步骤
func AdvanceTarget(current Step, s Snapshot) (Step, bool) {
	if current == StepLinks {
		switch {
		case s.Links < FinalLinkCount:
			return "", false
		case s.Links == FinalLinkCount:
			return StepGenerate, true
		default:
			return StepSelect, true
		}
	}
	if !CanLeave(current, s) {
		return "", false
	}
	return current.Next()
}

// ValidateSelection checks a requested final-link selection against the issue's link ids.
// With at most three links every link is selected and ids is ignored.
//
// ValidateSelection 校验最终链接选择：总数不超过 3 时全选，否则要求恰好 3 个属于本期的不同 id
func ValidateSelection(all []int64, ids []int64) ([]int64, error) {
	if len(all) <= FinalLinkCount {
		return append([]int64{}, all...), nil
	}

	owned := make(map[int64]struct{}, len(all))
	for _, id := range all {
		owned[id] = struct{}{}
	}

	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := owned[id]; !ok {
			return nil, fmt.Errorf("link %d does not belong to this issue", id)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if len(out) != FinalLinkCount {
		return nil, fmt.Errorf("select exactly %d links, got %d", FinalLinkCount, len(out))
	}
	return out, nil
}
