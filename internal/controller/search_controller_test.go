package controller_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snapnote/snapnote/internal/controller"
	"github.com/snapnote/snapnote/internal/database"
)

// TestSearchDebounce 测试关键词防抖
func TestSearchDebounce(t *testing.T) {
	repo := setupRepo(t)
	mustAdd(t, repo, database.Note{Title: "Groceries", Body: "buy milk"})
	mustAdd(t, repo, database.Note{Title: "Work", Body: "report"})

	c := controller.NewSearchController(repo, 20*time.Millisecond)
	defer c.Close()

	t.Run("输入后立即清空旧结果", func(t *testing.T) {
		c.UpdateKeyword("milk")

		state := c.UiState()
		assert.Equal(t, "milk", state.Keyword)
		assert.Empty(t, state.Results)
	})

	t.Run("静默窗口过后结果到位", func(t *testing.T) {
		require.Eventually(t, func() bool {
			return len(c.UiState().Results) == 1
		}, time.Second, 5*time.Millisecond)

		state := c.UiState()
		assert.Equal(t, "Groceries", state.Results[0].Title)
	})

	t.Run("窗口内的新输入取代挂起的查询", func(t *testing.T) {
		c.UpdateKeyword("mil")
		c.UpdateKeyword("milk")
		c.UpdateKeyword("report")

		require.Eventually(t, func() bool {
			return len(c.UiState().Results) == 1
		}, time.Second, 5*time.Millisecond)
		assert.Equal(t, "Work", c.UiState().Results[0].Title)
	})

	t.Run("清空关键词不触达存储直接得到空结果", func(t *testing.T) {
		c.UpdateKeyword("")

		time.Sleep(50 * time.Millisecond)
		state := c.UiState()
		assert.Empty(t, state.Results)
		assert.Empty(t, state.Highlights)
	})
}

// TestSearchHighlights 测试结果高亮
func TestSearchHighlights(t *testing.T) {
	repo := setupRepo(t)
	n := mustAdd(t, repo, database.Note{Title: "Milkshake", Body: "vanilla MILK"})

	c := controller.NewSearchController(repo, 10*time.Millisecond)
	defer c.Close()

	c.UpdateKeyword("milk")
	require.Eventually(t, func() bool {
		return len(c.UiState().Results) == 1
	}, time.Second, 5*time.Millisecond)

	hl, ok := c.UiState().Highlights[n.ID]
	require.True(t, ok)

	require.Len(t, hl.Title, 2)
	assert.Equal(t, controller.Segment{Text: "Milk", Matched: true}, hl.Title[0])
	assert.Equal(t, controller.Segment{Text: "shake", Matched: false}, hl.Title[1])

	require.Len(t, hl.Body, 2)
	assert.Equal(t, controller.Segment{Text: "vanilla ", Matched: false}, hl.Body[0])
	assert.Equal(t, controller.Segment{Text: "MILK", Matched: true}, hl.Body[1])
}

// TestSearchMutations 测试结果列表上的写操作
func TestSearchMutations(t *testing.T) {
	repo := setupRepo(t)
	groceries := mustAdd(t, repo, database.Note{Title: "Groceries", Body: "buy milk"})
	milkshake := mustAdd(t, repo, database.Note{Title: "Milkshake recipe"})

	c := controller.NewSearchController(repo, 10*time.Millisecond)
	defer c.Close()

	c.UpdateKeyword("milk")
	require.Eventually(t, func() bool {
		return len(c.UiState().Results) == 2
	}, time.Second, 5*time.Millisecond)

	t.Run("置顶后立即重查且置顶在前", func(t *testing.T) {
		require.NoError(t, c.PinOrUnpin(milkshake.ID))

		state := c.UiState()
		require.Len(t, state.Results, 2)
		assert.Equal(t, milkshake.ID, state.Results[0].OriginalIndex)
		assert.True(t, state.Results[0].IsPinned)
	})

	t.Run("翻转完成标记后立即重查", func(t *testing.T) {
		require.NoError(t, c.UpdateCompletionStatus(groceries.ID))

		for _, m := range c.UiState().Results {
			if m.OriginalIndex == groceries.ID {
				assert.True(t, m.IsDone)
			}
		}
	})

	t.Run("删除后立即重查结果收缩", func(t *testing.T) {
		require.NoError(t, c.DeleteNote(groceries.ID))

		state := c.UiState()
		require.Len(t, state.Results, 1)
		assert.Equal(t, milkshake.ID, state.Results[0].OriginalIndex)
		assert.NotContains(t, state.Highlights, groceries.ID)
	})
}

// TestSearchClose 测试关闭后挂起查询被取消
func TestSearchClose(t *testing.T) {
	repo := setupRepo(t)
	mustAdd(t, repo, database.Note{Title: "Groceries"})

	c := controller.NewSearchController(repo, 20*time.Millisecond)

	c.UpdateKeyword("groceries")
	c.Close()

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, c.UiState().Results, "关闭后防抖查询不应再触发")
}
