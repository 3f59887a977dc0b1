package controller

import (
	"sync"
	"time"

	"github.com/snapnote/snapnote/internal/logger"
	"github.com/snapnote/snapnote/internal/repository"
)

// NoteHighlight 单条结果的标题与正文高亮分段
type NoteHighlight struct {
	// Title 标题高亮分段
	Title []Segment `json:"title"`
	// Body 正文高亮分段
	Body []Segment `json:"body"`
}

// SearchUiState 搜索屏幕的视图状态
type SearchUiState struct {
	// Keyword 当前输入的关键词
	Keyword string `json:"keyword"`
	// Results 当前关键词的搜索结果
	Results []NoteUiModel `json:"results"`
	// Highlights 按笔记id索引的高亮分段
	Highlights map[uint]NoteHighlight `json:"highlights"`
}

// SearchController 搜索屏幕视图状态控制器
// 关键词输入经过防抖后才触发查询，结果列表上的写操作
// 完成后立刻用当前关键词重查
type SearchController struct {
	repo     repository.SnapnoteRepository
	debounce time.Duration

	mu       sync.Mutex
	state    SearchUiState
	timer    *time.Timer
	closed   bool
	notifier stateNotifier
}

// NewSearchController 创建搜索屏幕控制器
// 参数:
//
//	repo - 数据访问门面
//	debounce - 关键词输入到触发查询的静默窗口
func NewSearchController(repo repository.SnapnoteRepository, debounce time.Duration) *SearchController {
	return &SearchController{
		repo:     repo,
		debounce: debounce,
		state: SearchUiState{
			Highlights: map[uint]NoteHighlight{},
		},
	}
}

// UiState 返回当前视图状态的快照
func (c *SearchController) UiState() SearchUiState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe 订阅视图状态变更
func (c *SearchController) Subscribe() (<-chan struct{}, func()) {
	return c.notifier.subscribe()
}

// UpdateKeyword 更新关键词
// 立即清空旧结果并重开防抖窗口，窗口内的后续输入会
// 取代之前挂起的查询
func (c *SearchController) UpdateKeyword(keyword string) {
	c.mu.Lock()
	c.state.Keyword = keyword
	c.state.Results = nil
	c.state.Highlights = map[uint]NoteHighlight{}

	if c.timer != nil {
		c.timer.Stop()
	}
	if !c.closed {
		c.timer = time.AfterFunc(c.debounce, func() {
			if err := c.search(); err != nil {
				logger.Errorf("防抖搜索失败: keyword=%q err=%v", keyword, err)
			}
		})
	}
	c.mu.Unlock()

	c.notifier.notify()
}

// DeleteNote 删除结果中的笔记并立即重查
func (c *SearchController) DeleteNote(id uint) error {
	if err := c.repo.DeleteNote(id); err != nil {
		return err
	}
	return c.search()
}

// PinOrUnpin 置顶或取消置顶后立即重查
func (c *SearchController) PinOrUnpin(id uint) error {
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

	return c.search()
}

// UpdateCompletionStatus 翻转完成标记后立即重查
func (c *SearchController) UpdateCompletionStatus(id uint) error {
	if err := c.repo.UpdateCompletion(id); err != nil {
		return err
	}
	return c.search()
}

// Close 关闭控制器，取消尚未触发的防抖查询
func (c *SearchController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// search 用当前关键词执行一次查询并重算高亮
// 空关键词直接得到空结果，不触达存储
func (c *SearchController) search() error {
	c.mu.Lock()
	keyword := c.state.Keyword
	c.mu.Unlock()

	if keyword == "" {
		c.mu.Lock()
		c.state.Results = nil
		c.state.Highlights = map[uint]NoteHighlight{}
		c.mu.Unlock()
		c.notifier.notify()
		return nil
	}

	notes, err := c.repo.SearchNotes(keyword)
	if err != nil {
		return err
	}

	results := notesToUiModels(notes)
	highlights := make(map[uint]NoteHighlight, len(results))
	for _, m := range results {
		highlights[m.OriginalIndex] = NoteHighlight{
			Title: HighlightText(m.Title, keyword),
			Body:  HighlightText(m.Body, keyword),
		}
	}

	c.mu.Lock()
	// 防抖触发时关键词可能已变化，过期结果直接丢弃
	if c.state.Keyword != keyword {
		c.mu.Unlock()
		return nil
	}
	c.state.Results = results
	c.state.Highlights = highlights
	c.mu.Unlock()

	c.notifier.notify()
	return nil
}
