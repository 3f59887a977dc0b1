package controller

import (
	"sync"

	"github.com/snapnote/snapnote/internal/logger"
	"github.com/snapnote/snapnote/internal/repository"
)

// SortType 主列表的排序模式
type SortType string

const (
	// SortNone 不排序，置顶优先按插入顺序
	SortNone SortType = "none"
	// SortAlphabet 置顶优先，标题大小写不敏感升序
	SortAlphabet SortType = "a-z"
	// SortFolder 按文件夹分组展示
	SortFolder SortType = "folder-name"
	// SortCompletion 置顶优先，未完成在前
	SortCompletion SortType = "completion"
)

// SortTypes 主列表支持的全部排序模式，按展示顺序排列
var SortTypes = []SortType{SortNone, SortAlphabet, SortFolder, SortCompletion}

// HomeUiState 主屏幕的视图状态
type HomeUiState struct {
	// Notes 当前排序模式下物化的笔记列表
	Notes []NoteUiModel `json:"notes"`
	// SortBy 当前排序模式
	SortBy SortType `json:"sort_by"`
	// GroupByFolder 按文件夹分组模式下的分组结果
	GroupByFolder map[string][]NoteUiModel `json:"group_by_folder"`
}

// HomeController 主屏幕视图状态控制器
// 持有当前排序模式和对应的物化列表/分组，
// 每个写操作之后无条件整体重取
type HomeController struct {
	repo repository.SnapnoteRepository

	mu       sync.RWMutex
	state    HomeUiState
	notifier stateNotifier
}

// NewHomeController 创建主屏幕控制器并加载初始列表
func NewHomeController(repo repository.SnapnoteRepository) *HomeController {
	c := &HomeController{
		repo: repo,
		state: HomeUiState{
			SortBy:        SortNone,
			GroupByFolder: map[string][]NoteUiModel{},
		},
	}
	c.refresh()
	return c
}

// UiState 返回当前视图状态的快照
func (c *HomeController) UiState() HomeUiState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Subscribe 订阅视图状态变更
func (c *HomeController) Subscribe() (<-chan struct{}, func()) {
	return c.notifier.subscribe()
}

// ChangeSortType 切换排序模式并整体重取
func (c *HomeController) ChangeSortType(sortBy SortType) error {
	c.mu.Lock()
	c.state.SortBy = sortBy
	c.mu.Unlock()

	return c.refresh()
}

// UpdateCompletionStatus 翻转完成标记后整体重取
func (c *HomeController) UpdateCompletionStatus(id uint) error {
	if err := c.repo.UpdateCompletion(id); err != nil {
		return err
	}
	return c.refresh()
}

// PinOrUnpin 置顶或取消置顶后整体重取
// 读取当前置顶标记：已置顶则清除全部置顶，否则置顶此条
// （存储层保证置顶此条时同步清除其余）
func (c *HomeController) PinOrUnpin(id uint) error {
	n, err := c.repo.GetNoteByID(id)
	if err != nil {
		return err
	}

	if n.IsPinned {
		err = c.repo.UnpinNotes()
	} else {
		err = c.repo.PinNote(id)
	}
	if err != nil {
		return err
	}

	return c.refresh()
}

// DeleteNote 删除笔记后整体重取
func (c *HomeController) DeleteNote(id uint) error {
	if err := c.repo.DeleteNote(id); err != nil {
		return err
	}
	return c.refresh()
}

// refresh 按当前排序模式整体重取并重算派生状态
func (c *HomeController) refresh() error {
	c.mu.RLock()
	sortBy := c.state.SortBy
	c.mu.RUnlock()

	switch sortBy {
	case SortAlphabet:
		notes, err := c.repo.GetAllNotesSortedByTitle()
		if err != nil {
			logger.Errorf("主列表重取失败: sort=%s err=%v", sortBy, err)
			return err
		}
		c.setNotes(notesToUiModels(notes), map[string][]NoteUiModel{})

	case SortCompletion:
		notes, err := c.repo.GetAllNotesSortedByCompletion()
		if err != nil {
			logger.Errorf("主列表重取失败: sort=%s err=%v", sortBy, err)
			return err
		}
		// 完成状态排序只更新列表，分组保持现状
		c.mu.Lock()
		c.state.Notes = notesToUiModels(notes)
		c.mu.Unlock()
		c.notifier.notify()

	case SortFolder:
		notes, err := c.repo.GetAllNotes()
		if err != nil {
			logger.Errorf("主列表重取失败: sort=%s err=%v", sortBy, err)
			return err
		}

		// 按文件夹名分区，分组内保持原查询顺序
		grouped := make(map[string][]NoteUiModel)
		for _, n := range notes {
			m := noteToUiModel(n)
			grouped[m.FolderName] = append(grouped[m.FolderName], m)
		}

		c.mu.Lock()
		c.state.GroupByFolder = grouped
		c.mu.Unlock()
		c.notifier.notify()

	default:
		notes, err := c.repo.GetAllNotes()
		if err != nil {
			logger.Errorf("主列表重取失败: sort=%s err=%v", sortBy, err)
			return err
		}
		c.setNotes(notesToUiModels(notes), map[string][]NoteUiModel{})
	}

	return nil
}

// setNotes 替换列表并清空分组
func (c *HomeController) setNotes(notes []NoteUiModel, grouped map[string][]NoteUiModel) {
	c.mu.Lock()
	c.state.Notes = notes
	c.state.GroupByFolder = grouped
	c.mu.Unlock()
	c.notifier.notify()
}
