package interview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageTracker_Mapping(t *testing.T) {
	tr := NewStageTracker(DefaultStages(), 12) // 2 questions per stage

	assert.Equal(t, 0, tr.StageIndex(0), "not started maps to the opening stage")
	assert.Equal(t, 0, tr.StageIndex(1))
	assert.Equal(t, 0, tr.StageIndex(2))
	assert.Equal(t, 1, tr.StageIndex(3))
	assert.Equal(t, 5, tr.StageIndex(12))
}

func TestStageTracker_ClampsPastLastStage(t *testing.T) {
	tr := NewStageTracker(DefaultStages(), 12)

	last := len(DefaultStages()) - 1
	assert.Equal(t, last, tr.StageIndex(13))
	assert.Equal(t, last, tr.StageIndex(100))
}

func TestStageTracker_FewQuestions(t *testing.T) {
	// budget smaller than the stage count: one question per stage, the tail
	// stages are simply never reached
	tr := NewStageTracker(DefaultStages(), 3)

	assert.Equal(t, "introduction", tr.StageFor(1).Name)
	assert.Equal(t, "experience", tr.StageFor(2).Name)
	assert.Equal(t, "technical", tr.StageFor(3).Name)
}

func TestStageTracker_NonDecreasing(t *testing.T) {
	for _, max := range []int{1, 3, 6, 8, 12, 30} {
		tr := NewStageTracker(DefaultStages(), max)
		prev := 0
		for q := 0; q <= max+5; q++ {
			idx := tr.StageIndex(q)
			require.GreaterOrEqual(t, idx, prev, "max=%d q=%d", max, q)
			prev = idx
		}
	}
}

func TestFallbackQuestion(t *testing.T) {
	for _, st := range DefaultStages() {
		assert.NotEmpty(t, FallbackQuestion(st.Name))
	}
	assert.Equal(t, FallbackQuestion("closing"), FallbackQuestion("no-such-stage"))
}
