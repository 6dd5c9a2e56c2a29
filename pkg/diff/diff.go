// Package diff compares two renderings of a text with diff-match-patch
// Package diff 使用 diff-match-patch 比较两段文本
package diff

import "github.com/sergi/go-diff/diffmatchpatch"

// Op 片段类型
type Op string

const (
	OpEqual  Op = "equal"
	OpInsert Op = "insert"
	OpDelete Op = "delete"
)

// Segment 一段连续的相同/新增/删除文本
type Segment struct {
	Op   Op     `json:"op"`
	Text string `json:"text"`
}

// Result 对比结果
type Result struct {
	Changed    bool      `json:"changed"`
	Insertions int       `json:"insertions"` // inserted runes
	Deletions  int       `json:"deletions"`  // deleted runes
	Segments   []Segment `json:"segments"`
	Patch      string    `json:"patch"`
}

// Compare diffs original against edited, merging the output into human readable chunks
// Compare 对比原文与修改稿，并做语义清理以便阅读
func Compare(original, edited string) Result {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(original, edited, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	res := Result{Segments: make([]Segment, 0, len(diffs))}
	for _, d := range diffs {
		var op Op
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = OpInsert
			res.Insertions += len([]rune(d.Text))
		case diffmatchpatch.DiffDelete:
			op = OpDelete
			res.Deletions += len([]rune(d.Text))
		default:
			op = OpEqual
		}
		res.Segments = append(res.Segments, Segment{Op: op, Text: d.Text})
	}

	res.Changed = res.Insertions > 0 || res.Deletions > 0
	if res.Changed {
		res.Patch = dmp.PatchToText(dmp.PatchMake(original, diffs))
	}
	return res
}
