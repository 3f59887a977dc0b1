package controller_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snapnote/snapnote/internal/controller"
	"github.com/snapnote/snapnote/internal/database"
)

// TestHomeInitialState 测试主屏幕初始状态
func TestHomeInitialState(t *testing.T) {
	repo := setupRepo(t)
	mustAdd(t, repo, database.Note{Title: "已有笔记"})

	c := controller.NewHomeController(repo)

	state := c.UiState()
	assert.Equal(t, controller.SortNone, state.SortBy)
	require.Len(t, state.Notes, 1)
	assert.Equal(t, "已有笔记", state.Notes[0].Title)
	assert.Empty(t, state.GroupByFolder)
}

// TestHomeChangeSortType 测试排序模式切换
func TestHomeChangeSortType(t *testing.T) {
	repo := setupRepo(t)
	mustAdd(t, repo, database.Note{Title: "Cherry", FolderName: "工作"})
	mustAdd(t, repo, database.Note{Title: "apple", FolderName: "生活"})
	done := mustAdd(t, repo, database.Note{Title: "Banana", FolderName: "工作"})
	require.NoError(t, repo.UpdateCompletion(done.ID))

	c := controller.NewHomeController(repo)

	t.Run("标题排序大小写不敏感", func(t *testing.T) {
		require.NoError(t, c.ChangeSortType(controller.SortAlphabet))

		state := c.UiState()
		require.Len(t, state.Notes, 3)
		assert.Equal(t, "apple", state.Notes[0].Title)
		assert.Equal(t, "Banana", state.Notes[1].Title)
		assert.Equal(t, "Cherry", state.Notes[2].Title)
		assert.Empty(t, state.GroupByFolder, "标题排序应清空分组")
	})

	t.Run("完成状态排序只更新列表", func(t *testing.T) {
		require.NoError(t, c.ChangeSortType(controller.SortCompletion))

		state := c.UiState()
		require.Len(t, state.Notes, 3)
		assert.False(t, state.Notes[0].IsDone)
		assert.True(t, state.Notes[2].IsDone)
	})

	t.Run("文件夹分组保持查询顺序", func(t *testing.T) {
		require.NoError(t, c.ChangeSortType(controller.SortFolder))

		state := c.UiState()
		require.Len(t, state.GroupByFolder, 2)
		assert.Len(t, state.GroupByFolder["工作"], 2)
		assert.Len(t, state.GroupByFolder["生活"], 1)
		assert.Equal(t, "Cherry", state.GroupByFolder["工作"][0].Title)
		assert.Equal(t, "Banana", state.GroupByFolder["工作"][1].Title)
	})

	t.Run("切回默认排序恢复插入顺序", func(t *testing.T) {
		require.NoError(t, c.ChangeSortType(controller.SortNone))

		state := c.UiState()
		require.Len(t, state.Notes, 3)
		assert.Equal(t, "Cherry", state.Notes[0].Title)
		assert.Empty(t, state.GroupByFolder)
	})
}

// TestHomePinOrUnpin 测试置顶切换
func TestHomePinOrUnpin(t *testing.T) {
	repo := setupRepo(t)
	first := mustAdd(t, repo, database.Note{Title: "第一条"})
	second := mustAdd(t, repo, database.Note{Title: "第二条"})

	c := controller.NewHomeController(repo)

	t.Run("未置顶的笔记被置顶并排到最前", func(t *testing.T) {
		require.NoError(t, c.PinOrUnpin(second.ID))

		state := c.UiState()
		require.Len(t, state.Notes, 2)
		assert.Equal(t, second.ID, state.Notes[0].OriginalIndex)
		assert.True(t, state.Notes[0].IsPinned)
	})

	t.Run("置顶另一条时旧置顶被清除", func(t *testing.T) {
		require.NoError(t, c.PinOrUnpin(first.ID))

		state := c.UiState()
		assert.Equal(t, first.ID, state.Notes[0].OriginalIndex)
		assert.True(t, state.Notes[0].IsPinned)
		assert.False(t, state.Notes[1].IsPinned)
	})

	t.Run("已置顶的笔记被取消置顶", func(t *testing.T) {
		require.NoError(t, c.PinOrUnpin(first.ID))

		for _, n := range c.UiState().Notes {
			assert.False(t, n.IsPinned)
		}
	})

	t.Run("不存在的笔记返回错误", func(t *testing.T) {
		assert.Error(t, c.PinOrUnpin(99999))
	})
}

// TestHomeUpdateCompletionStatus 测试完成标记翻转
func TestHomeUpdateCompletionStatus(t *testing.T) {
	repo := setupRepo(t)
	n := mustAdd(t, repo, database.Note{Title: "待办"})

	c := controller.NewHomeController(repo)

	require.NoError(t, c.UpdateCompletionStatus(n.ID))
	assert.True(t, c.UiState().Notes[0].IsDone)

	require.NoError(t, c.UpdateCompletionStatus(n.ID))
	assert.False(t, c.UiState().Notes[0].IsDone)
}

// TestHomeDeleteNote 测试删除笔记
func TestHomeDeleteNote(t *testing.T) {
	repo := setupRepo(t)
	keep := mustAdd(t, repo, database.Note{Title: "保留"})
	drop := mustAdd(t, repo, database.Note{Title: "删除"})

	c := controller.NewHomeController(repo)

	require.NoError(t, c.DeleteNote(drop.ID))

	state := c.UiState()
	require.Len(t, state.Notes, 1)
	assert.Equal(t, keep.ID, state.Notes[0].OriginalIndex)
}

// TestHomeSubscribe 测试状态变更订阅
func TestHomeSubscribe(t *testing.T) {
	repo := setupRepo(t)
	n := mustAdd(t, repo, database.Note{Title: "待办"})

	c := controller.NewHomeController(repo)
	events, cancel := c.Subscribe()
	defer cancel()

	require.NoError(t, c.UpdateCompletionStatus(n.ID))

	select {
	case <-events:
	default:
		t.Fatal("写操作后应收到状态变更通知")
	}
}
