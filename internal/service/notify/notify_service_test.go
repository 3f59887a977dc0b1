// Package notify_test 提供通知投递的单元测试
package notify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snapnote/snapnote/internal/service/notify"
)

// TestDeliver 测试通知投递与替换语义
func TestDeliver(t *testing.T) {
	s := notify.NewNotifyService()

	t.Run("投递后可按笔记id查询", func(t *testing.T) {
		s.Deliver(notify.Payload{NoteTitle: "开会", NoteBody: "带笔记本", NoteID: 1})

		n, ok := s.Delivered(1)
		require.True(t, ok)
		assert.Equal(t, "开会", n.Title)
		assert.Equal(t, "带笔记本", n.Body)
		assert.False(t, n.DeliveredAt.IsZero())
	})

	t.Run("相同笔记id的通知替换而非叠加", func(t *testing.T) {
		s.Deliver(notify.Payload{NoteTitle: "改期", NoteBody: "下午三点", NoteID: 1})

		n, ok := s.Delivered(1)
		require.True(t, ok)
		assert.Equal(t, "改期", n.Title)
	})

	t.Run("未投递过的id查询不到", func(t *testing.T) {
		_, ok := s.Delivered(42)
		assert.False(t, ok)
	})
}
